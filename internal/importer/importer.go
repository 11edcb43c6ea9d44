package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rocketshoes-cart/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product, stock int) (*domain.Product, error)
}

var requiredColumns = []string{"id", "title", "price", "stock"}

// CSVImporter reads a catalog CSV (id,title,price,image,stock) and upserts
// every row together with its stock level.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	product domain.Product
	stock   int
}

// Run parses CSV rows and upserts products. Blank rows are skipped; the first
// invalid row stops the import.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if _, err := i.productRepo.Upsert(ctx, row.product, row.stock); err != nil {
			return imported, fmt.Errorf("upsert product %d: %w", row.product.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	idStr := pick(record, index, "id")
	title := pick(record, index, "title")
	priceStr := pick(record, index, "price")
	image := pick(record, index, "image")
	stockStr := pick(record, index, "stock")

	if idStr == "" && title == "" && priceStr == "" && stockStr == "" {
		return nil, nil
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("line %d: invalid id %q", line, idStr)
	}
	if title == "" {
		return nil, fmt.Errorf("line %d: product %d has no title", line, id)
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("line %d: invalid price %q", line, priceStr)
	}
	stock, err := strconv.Atoi(stockStr)
	if err != nil || stock < 0 {
		return nil, fmt.Errorf("line %d: invalid stock %q", line, stockStr)
	}

	return &csvRow{
		product: domain.Product{ID: id, Title: title, Price: price, Image: image},
		stock:   stock,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
