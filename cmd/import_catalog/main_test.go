package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"nagapos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()
	require.NoError(t, book.SetSheetRow("Sheet1", "A1", &[]any{"Product Name", "Image URL"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A2", &[]any{"Remote", "https://example.com/remote-v2.png"}))
	require.NoError(t, book.SetSheetRow("Sheet1", "A3", &[]any{"Ring Light", "https://example.com/ring.png"}))
	path := filepath.Join(dir, "catalog.xlsx")
	require.NoError(t, book.SaveAs(path))
	return path
}

func setFileStoreEnv(t *testing.T, dataFile string) {
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("DATA_FILE", dataFile)
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("PORT", "3000")
}

func TestRunImportsIntoFileStore(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "db.json")
	setFileStoreEnv(t, dataFile)

	err := run(options{filePath: writeCatalog(t, dir), envFile: filepath.Join(dir, "missing.env")}, io.Discard)
	require.NoError(t, err)

	store, err := repository.Open(context.Background(), repository.NewFileBackend(dataFile))
	require.NoError(t, err)
	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Products, 8)
	assert.Equal(t, "https://example.com/remote-v2.png", doc.Products[3].ImageURL)
	assert.Equal(t, "Ring Light", doc.Products[7].Name)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "db.json")
	setFileStoreEnv(t, dataFile)

	err := run(options{filePath: writeCatalog(t, dir), envFile: filepath.Join(dir, "missing.env"), dryRun: true}, io.Discard)
	require.NoError(t, err)

	_, err = os.Stat(dataFile)
	assert.True(t, os.IsNotExist(err))
}

func TestRunReturnsErrorsInsteadOfExiting(t *testing.T) {
	dir := t.TempDir()
	setFileStoreEnv(t, filepath.Join(dir, "db.json"))

	err := run(options{filePath: filepath.Join(dir, "absent.xlsx"), envFile: filepath.Join(dir, "missing.env")}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog")

	t.Setenv("STORE_DRIVER", "bolt")
	err = run(options{filePath: writeCatalog(t, dir), envFile: filepath.Join(dir, "missing.env")}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}
