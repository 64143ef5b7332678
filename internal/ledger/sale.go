// Package ledger applies mutations to a loaded business-state document.
// Every function either fully applies its change or returns an error with
// the document untouched; persisting the result is the caller's job.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bankai/backend/internal/domain"
	"bankai/backend/internal/xid"
)

// CreateSale records a sale, takes the sold quantities out of inventory
// (never below zero) and appends one pending receivable for the total.
// An unknown sku rejects the whole sale.
func CreateSale(doc *domain.Document, req domain.SaleRequest) (domain.Sale, error) {
	date, err := normalizeDate(req.Date)
	if err != nil {
		return domain.Sale{}, err
	}
	items, err := normalizeSaleItems(req.Items)
	if err != nil {
		return domain.Sale{}, err
	}

	// Resolve every sku before touching inventory.
	indexes := make([]int, len(items))
	for i, item := range items {
		idx, ok := doc.FindProductBySKU(item.SKU)
		if !ok {
			return domain.Sale{}, &ProductNotFoundError{SKU: item.SKU}
		}
		indexes[i] = idx
	}

	total := SaleTotal(items)
	for i, item := range items {
		product := &doc.Products[indexes[i]]
		product.Qty = max(0, product.Qty-item.Qty)
	}

	sale := domain.Sale{
		ID:         xid.New(),
		Date:       date,
		CustomerID: strings.TrimSpace(req.CustomerID),
		Items:      items,
		Total:      total,
	}
	doc.Sales = append(doc.Sales, sale)
	doc.Cashflows = append(doc.Cashflows, domain.CashflowEntry{
		ID:          xid.New(),
		Date:        date,
		Type:        domain.CashflowReceivable,
		Description: domain.SaleDescriptionHead + xid.Short(sale.ID),
		Amount:      total,
		Status:      domain.CashflowPending,
		SaleID:      sale.ID,
	})

	return sale, nil
}

func SaleTotal(items []domain.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return total
}

// DeleteSale removes the sale record only. Inventory and the receivable it
// produced are left as they are.
func DeleteSale(doc *domain.Document, id string) error {
	for i, sale := range doc.Sales {
		if sale.ID == id {
			doc.Sales = append(doc.Sales[:i], doc.Sales[i+1:]...)
			return nil
		}
	}
	return notFound("sale", id)
}

func normalizeSaleItems(items []domain.SaleItem) ([]domain.SaleItem, error) {
	if len(items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}
	out := make([]domain.SaleItem, 0, len(items))
	for i, item := range items {
		item.SKU = strings.TrimSpace(item.SKU)
		if item.SKU == "" {
			return nil, invalid(fmt.Sprintf("items[%d].sku", i), "required")
		}
		if item.Qty <= 0 {
			return nil, invalid(fmt.Sprintf("items[%d].qty", i), "must be greater than zero")
		}
		if item.Price.IsNegative() {
			return nil, invalid(fmt.Sprintf("items[%d].price", i), "must not be negative")
		}
		out = append(out, item)
	}
	return out, nil
}

// normalizeDate accepts an ISO calendar date; blank means today (UTC).
func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC().Format(domain.DateLayout), nil
	}
	if _, err := time.Parse(domain.DateLayout, raw); err != nil {
		return "", invalid("date", "expected YYYY-MM-DD")
	}
	return raw, nil
}
