package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"retroshop/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog exports and inserts/updates products.
// Expected header: slug,sku,name,description,price_cents,original_price_cents,currency,stock
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts products keyed by slug.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		product, ok := parseRow(record, index)
		if !ok {
			continue
		}
		if _, err := i.productRepo.Upsert(ctx, product); err != nil {
			return imported, fmt.Errorf("upsert %s: %w", product.Slug, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRow(record []string, index map[string]int) (domain.Product, bool) {
	slug := field(record, index, "slug")
	name := field(record, index, "name")
	if slug == "" || name == "" {
		return domain.Product{}, false
	}

	priceCents, err := strconv.ParseInt(field(record, index, "price_cents"), 10, 64)
	if err != nil || priceCents < 0 {
		return domain.Product{}, false
	}
	originalCents, err := strconv.ParseInt(field(record, index, "original_price_cents"), 10, 64)
	if err != nil {
		originalCents = priceCents
	}
	stock, err := strconv.Atoi(field(record, index, "stock"))
	if err != nil || stock < 0 {
		stock = 0
	}

	currency := field(record, index, "currency")
	if currency == "" {
		currency = "USD"
	}

	return domain.Product{
		Slug:               slug,
		SKU:                field(record, index, "sku"),
		Name:               name,
		Description:        field(record, index, "description"),
		PriceCents:         priceCents,
		OriginalPriceCents: originalCents,
		Currency:           currency,
		Stock:              stock,
	}, true
}
