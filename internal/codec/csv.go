// Package codec reads and writes the delimited backing-file format for product records.
package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"inventory-tracker/internal/model"

	"github.com/shopspring/decimal"
)

// Header is the fixed column order of the backing file.
var Header = []string{
	"product_id",
	"product_name",
	"category",
	"quantity",
	"unit_price",
	"reorder_level",
	"supplier",
	"warehouse_location",
	"last_updated",
}

const utf8BOM = "\ufeff"

// Result is the outcome of decoding a backing file.
type Result struct {
	Products []model.Product
	// Skipped holds one error per rejected row, in file order.
	Skipped []*model.MalformedRecordError
}

// Decode parses a backing file. Malformed rows are skipped and reported in
// Result.Skipped; the returned error is reserved for a bad header or an
// unreadable stream. Rows with an empty last_updated cell get today's date.
// A row repeating an earlier product_id is rejected as malformed.
func Decode(r io.Reader, today time.Time) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	res := &Result{}

	header, err := reader.Read()
	if err == io.EOF {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Skipped = append(res.Skipped, &model.MalformedRecordError{
					Line:   perr.StartLine,
					Reason: perr.Err.Error(),
				})
				continue
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		p, err := ParseRecord(row, line, today)
		if err != nil {
			var merr *model.MalformedRecordError
			if errors.As(err, &merr) {
				res.Skipped = append(res.Skipped, merr)
				continue
			}
			return nil, err
		}

		if first, dup := seen[p.ID]; dup {
			res.Skipped = append(res.Skipped, &model.MalformedRecordError{
				Line:   line,
				Reason: fmt.Sprintf("duplicate product_id %q (first seen on line %d)", p.ID, first),
			})
			continue
		}
		seen[p.ID] = line
		res.Products = append(res.Products, p)
	}

	return res, nil
}

func checkHeader(header []string) error {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	if len(header) != len(Header) {
		return &model.MalformedRecordError{
			Line:   1,
			Reason: fmt.Sprintf("header has %d columns, want %d", len(header), len(Header)),
		}
	}
	for i, col := range header {
		if strings.TrimSpace(col) != Header[i] {
			return &model.MalformedRecordError{
				Line:   1,
				Reason: fmt.Sprintf("header column %d is %q, want %q", i+1, col, Header[i]),
			}
		}
	}
	return nil
}

// ParseRecord converts one row into a validated product.
// Any failure is a *model.MalformedRecordError carrying line.
func ParseRecord(row []string, line int, today time.Time) (model.Product, error) {
	malformed := func(format string, args ...any) (model.Product, error) {
		return model.Product{}, &model.MalformedRecordError{Line: line, Reason: fmt.Sprintf(format, args...)}
	}

	if len(row) != len(Header) {
		return malformed("expected %d fields, got %d", len(Header), len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	quantity, err := strconv.Atoi(row[3])
	if err != nil {
		return malformed("quantity %q is not an integer", row[3])
	}
	price, err := decimal.NewFromString(row[4])
	if err != nil {
		return malformed("unit_price %q is not a number", row[4])
	}
	reorder, err := strconv.Atoi(row[5])
	if err != nil {
		return malformed("reorder_level %q is not an integer", row[5])
	}

	updated := model.DateOf(today)
	if row[8] != "" {
		updated, err = time.Parse(model.DateLayout, row[8])
		if err != nil {
			return malformed("last_updated %q is not a YYYY-MM-DD date", row[8])
		}
	}

	p := model.Product{
		ID:                row[0],
		Name:              row[1],
		Category:          row[2],
		Quantity:          quantity,
		UnitPrice:         model.NormalizePrice(price),
		ReorderLevel:      reorder,
		Supplier:          row[6],
		WarehouseLocation: row[7],
		LastUpdated:       updated,
	}

	if err := model.ValidateProduct(p); err != nil {
		return malformed("%v", err)
	}
	return p, nil
}

// FormatRecord renders a product as a row in Header order.
func FormatRecord(p model.Product) []string {
	return []string{
		p.ID,
		p.Name,
		p.Category,
		strconv.Itoa(p.Quantity),
		p.UnitPrice.StringFixed(2),
		strconv.Itoa(p.ReorderLevel),
		p.Supplier,
		p.WarehouseLocation,
		p.LastUpdated.Format(model.DateLayout),
	}
}

// Encode writes the header followed by one row per product, in the given order.
func Encode(w io.Writer, products []model.Product) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range products {
		if err := writer.Write(FormatRecord(p)); err != nil {
			return fmt.Errorf("failed to write product %s: %w", p.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}
