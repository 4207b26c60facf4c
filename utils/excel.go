package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoAssetIDs marks a workbook that parsed cleanly but held no asset ids.
// Callers surface it as a user-facing message, not a parse failure.
var ErrNoAssetIDs = errors.New("no asset IDs found")

// headerRows is the fixed preamble in TCE book exports: BookId, Book Title,
// two empty rows, then the ID/Type column header.
const headerRows = 5

// ParseAssetIDs reads the first worksheet of a TCE book export and returns
// the asset ids from column B, in file order. Blank cells are skipped.
func ParseAssetIDs(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var assetIds []string
	for i, row := range rows {
		if i < headerRows {
			continue
		}
		if len(row) < 2 {
			continue
		}
		value := strings.TrimSpace(row[1]) // column B
		if value == "" {
			continue
		}
		assetIds = append(assetIds, value)
	}

	if len(assetIds) == 0 {
		return nil, ErrNoAssetIDs
	}
	return assetIds, nil
}

// ParseAssetIDsFromFile is ParseAssetIDs over a workbook on disk.
func ParseAssetIDsFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseAssetIDs(f)
}
