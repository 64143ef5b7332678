// Package report derives read-only views from a loaded business-state
// document. Nothing here is cached; every call recomputes from doc.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"bankai/backend/internal/domain"
)

// Balance is receivables minus payables over every entry, pending ones
// included.
func Balance(doc domain.Document) decimal.Decimal {
	return signedSum(doc, func(domain.CashflowEntry) bool { return true })
}

// SettledBalance is receivables minus payables over settled entries only.
func SettledBalance(doc domain.Document) decimal.Decimal {
	return signedSum(doc, func(e domain.CashflowEntry) bool { return e.Status == domain.CashflowSettled })
}

func PendingReceivable(doc domain.Document) decimal.Decimal {
	return pendingSum(doc, domain.CashflowReceivable)
}

func PendingPayable(doc domain.Document) decimal.Decimal {
	return pendingSum(doc, domain.CashflowPayable)
}

// LowStock returns products whose quantity is at or below their minimum, in
// document order.
func LowStock(doc domain.Document) []domain.Product {
	low := []domain.Product{}
	for _, p := range doc.Products {
		if p.Qty <= p.Min {
			low = append(low, p)
		}
	}
	return low
}

func SalesByProduct(doc domain.Document) map[string]int {
	totals := make(map[string]int)
	for _, sale := range doc.Sales {
		for _, item := range sale.Items {
			totals[item.SKU] += item.Qty
		}
	}
	return totals
}

// SalesByProductRows is SalesByProduct sorted by quantity descending, then sku.
func SalesByProductRows(doc domain.Document) []domain.ProductSales {
	totals := SalesByProduct(doc)
	rows := make([]domain.ProductSales, 0, len(totals))
	for sku, qty := range totals {
		rows = append(rows, domain.ProductSales{SKU: sku, Qty: qty})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Qty != rows[j].Qty {
			return rows[i].Qty > rows[j].Qty
		}
		return rows[i].SKU < rows[j].SKU
	})
	return rows
}

// SaleViews resolves each sale's customer. A customer that no longer exists
// is shown as "-".
func SaleViews(doc domain.Document) []domain.SaleView {
	views := make([]domain.SaleView, 0, len(doc.Sales))
	for _, sale := range doc.Sales {
		name := "-"
		if customer, ok := doc.FindCustomer(sale.CustomerID); ok {
			name = customer.Name
		}
		count := 0
		for _, item := range sale.Items {
			count += item.Qty
		}
		views = append(views, domain.SaleView{
			ID:           sale.ID,
			Date:         sale.Date,
			CustomerID:   sale.CustomerID,
			CustomerName: name,
			ItemCount:    count,
			Total:        sale.Total,
		})
	}
	return views
}

// Dashboard collects the KPIs. Alerts are left empty for the caller to fill.
func Dashboard(doc domain.Document) domain.Dashboard {
	low := LowStock(doc)
	return domain.Dashboard{
		Balance:           Balance(doc),
		SettledBalance:    SettledBalance(doc),
		PendingReceivable: PendingReceivable(doc),
		PendingPayable:    PendingPayable(doc),
		LowStock:          low,
		LowStockCount:     len(low),
		Alerts:            []domain.Notice{},
	}
}

func signedSum(doc domain.Document, include func(domain.CashflowEntry) bool) decimal.Decimal {
	sum := decimal.Zero
	for _, entry := range doc.Cashflows {
		if !include(entry) {
			continue
		}
		switch entry.Type {
		case domain.CashflowReceivable:
			sum = sum.Add(entry.Amount)
		case domain.CashflowPayable:
			sum = sum.Sub(entry.Amount)
		}
	}
	return sum
}

func pendingSum(doc domain.Document, entryType string) decimal.Decimal {
	sum := decimal.Zero
	for _, entry := range doc.Cashflows {
		if entry.Type == entryType && entry.Status == domain.CashflowPending {
			sum = sum.Add(entry.Amount)
		}
	}
	return sum
}
