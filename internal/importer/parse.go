package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	domainerrors "sanad/pkg/domain-errors"
)

// xlsx files are zip archives.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// parseTable reads the whole file into rows of cells. Extension decides the
// format; when the extension is unknown the zip magic does.
func parseTable(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseXLSX(data)
	case ".csv":
		return parseCSV(data)
	default:
		if bytes.HasPrefix(data, zipMagic) {
			return parseXLSX(data)
		}
		return parseCSV(data)
	}
}

func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "file is not a readable xlsx")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, domainerrors.New(domainerrors.CodeValidation, "xlsx file has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	// Strip a UTF-8 BOM so the first header cell matches the dictionary.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "file is not a readable csv")
		}
		rows = append(rows, record)
	}
}
