package excel

import (
	"fmt"
	"io"
	"strings"

	"nagapos/internal/domain"

	"github.com/xuri/excelize/v2"
)

var headerAliases = map[string]string{
	"name":          "name",
	"product":       "name",
	"product name":  "name",
	"item":          "name",
	"item name":     "name",
	"image":         "image_url",
	"image url":     "image_url",
	"imageurl":      "image_url",
	"image link":    "image_url",
	"picture":       "image_url",
	"photo":         "image_url",
	"photo url":     "image_url",
	"thumbnail url": "image_url",
}

// ParseCatalogRows reads product rows from the first sheet of a workbook.
// The header row must name a product column and an image column.
func ParseCatalogRows(reader io.Reader) ([]domain.CatalogRow, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	colMap := mapColumns(rows[0])
	if _, ok := colMap["name"]; !ok {
		return nil, fmt.Errorf("missing required column: name")
	}
	if _, ok := colMap["image_url"]; !ok {
		return nil, fmt.Errorf("missing required column: image_url")
	}

	result := make([]domain.CatalogRow, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		name := strings.TrimSpace(readCell(cells, colMap["name"]))
		if name == "" {
			continue
		}
		imageURL := strings.TrimSpace(readCell(cells, colMap["image_url"]))
		if imageURL == "" {
			return nil, fmt.Errorf("row %d: image_url is empty for %q", index+1, name)
		}
		result = append(result, domain.CatalogRow{Name: name, ImageURL: imageURL})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("excel file has no valid data rows")
	}
	return result, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		normalized := normalizeHeader(col)
		if normalized == "" {
			continue
		}
		canonical, ok := headerAliases[normalized]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	value = strings.Join(strings.Fields(value), " ")
	return value
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
