package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"bankai/backend/internal/domain"
)

var productCSVHeader = []string{"sku", "name", "category", "qty", "min", "price"}

// WriteProductsCSV writes a header row and one row per product. Fields
// holding a comma or double quote are quoted with inner quotes doubled.
func WriteProductsCSV(w io.Writer, products []domain.Product) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(productCSVHeader); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			p.SKU,
			p.Name,
			p.Category,
			strconv.Itoa(p.Qty),
			strconv.Itoa(p.Min),
			p.Price.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ProductsCSV(doc domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteProductsCSV(&buf, doc.Products); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DocumentJSON is the full document indented with two spaces.
func DocumentJSON(doc domain.Document) ([]byte, error) {
	doc.Normalize()
	return json.MarshalIndent(doc, "", "  ")
}
