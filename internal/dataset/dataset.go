// Package dataset loads CSV files into canopy records, inferring the schema
// from the data.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/TrevorS/canopy"
)

// Dataset is a parsed CSV file.
type Dataset struct {
	Schema  *canopy.Schema
	Records []canopy.Record
}

// LoadFile reads the CSV file at path. See Load.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Load reads CSV from r. The first row names the attributes. A column is
// numeric when every present cell parses as a finite number, otherwise it is
// categorical with its categories in order of first appearance. "?" and
// empty cells are missing. Lines starting with '#' are skipped.
func Load(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("dataset is empty")
	}

	header, body := rows[0], rows[1:]
	schema, err := InferSchema(header, body)
	if err != nil {
		return nil, err
	}

	records := make([]canopy.Record, len(body))
	for i, row := range body {
		rec, err := schema.Parse(row)
		if err != nil {
			// +2: one for the header, one for 1-based line numbers
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		records[i] = rec
	}
	return &Dataset{Schema: schema, Records: records}, nil
}

// InferSchema derives a schema from the header names and the data rows.
// Columns with no present values are numeric.
func InferSchema(header []string, rows [][]string) (*canopy.Schema, error) {
	attrs := make([]canopy.Attribute, len(header))
	for col, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "attr" + strconv.Itoa(col)
		}

		numeric := true
		var values []string
		seen := make(map[string]bool)
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if isMissing(cell) {
				continue
			}
			if numeric && !isNumber(cell) {
				numeric = false
			}
			if !seen[cell] {
				seen[cell] = true
				values = append(values, cell)
			}
		}

		if numeric {
			attrs[col] = canopy.NumericAttribute(name)
		} else {
			attrs[col] = canopy.CategoricalAttribute(name, values...)
		}
	}
	return canopy.NewSchema(attrs...)
}

func isMissing(cell string) bool {
	return cell == "" || cell == "?"
}

func isNumber(cell string) bool {
	v, err := strconv.ParseFloat(cell, 64)
	return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
}
