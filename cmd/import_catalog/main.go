package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"nagapos/internal/bootstrap"
	"nagapos/internal/config"
	"nagapos/internal/domain"
	"nagapos/internal/excel"
	"nagapos/internal/logging"
	"nagapos/internal/service"

	"github.com/sirupsen/logrus"
)

type options struct {
	filePath string
	envFile  string
	dryRun   bool
}

func main() {
	if err := run(parseFlags(), os.Stderr); err != nil {
		logrus.Fatalf("import_catalog: %v", err)
	}
}

func run(opts options, out io.Writer) (err error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, out)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	rows, err := readCatalogRows(opts.filePath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	if opts.dryRun {
		log.WithFields(logrus.Fields{
			"file": opts.filePath,
			"rows": len(rows),
		}).Info("dry run: catalog parsed, nothing written")
		return nil
	}

	ctx := context.Background()
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := closeStore(); closeErr != nil && err == nil {
			err = fmt.Errorf("close store: %w", closeErr)
		}
	}()

	result, err := service.New(store, log).ImportProducts(ctx, rows)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":       opts.filePath,
		"total_rows": result.TotalRows,
		"created":    result.Created,
		"updated":    result.Updated,
	}).Info("catalog import complete")
	return nil
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.filePath, "file", "catalog.xlsx", "path to catalog workbook (name, image_url columns)")
	flag.StringVar(&opts.envFile, "env", ".env", "optional .env file")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "parse the workbook and report row count without writing")
	flag.Parse()
	return opts
}

func readCatalogRows(path string) ([]domain.CatalogRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := excel.ParseCatalogRows(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}
