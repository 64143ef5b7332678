package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"bankai/backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleDocument() domain.Document {
	doc := domain.NewDocument()
	doc.Products = []domain.Product{
		{ID: "p1", SKU: "P-001", Name: "Camiseta Básica", Category: "Vestuário", Qty: 30, Min: 10, Price: dec("39.9")},
		{ID: "p2", SKU: "P-002", Name: "Caneta Azul", Category: "Papelaria", Qty: 200, Min: 50, Price: dec("2.5")},
		{ID: "p3", SKU: "P-003", Name: "Shampoo 300ml", Category: "Higiene", Qty: 15, Min: 20, Price: dec("18")},
	}
	doc.Customers = []domain.Customer{{ID: "c1", Name: "Maria Souza"}}
	doc.Cashflows = []domain.CashflowEntry{
		{ID: "f1", Type: domain.CashflowReceivable, Amount: dec("259.70"), Status: domain.CashflowSettled},
		{ID: "f2", Type: domain.CashflowPayable, Amount: dec("320.00"), Status: domain.CashflowPending},
		{ID: "f3", Type: domain.CashflowReceivable, Amount: dec("480.00"), Status: domain.CashflowPending},
	}
	doc.Sales = []domain.Sale{
		{ID: "s1", CustomerID: "c1", Items: []domain.SaleItem{{SKU: "P-001", Qty: 2, Price: dec("39.9")}}, Total: dec("79.8")},
		{ID: "s2", CustomerID: "gone", Items: []domain.SaleItem{{SKU: "P-002", Qty: 3}, {SKU: "P-001", Qty: 1}}},
	}
	return doc
}

func TestBalanceCountsPendingEntries(t *testing.T) {
	doc := sampleDocument()

	// 259.70 + 480.00 - 320.00
	if got := Balance(doc); !got.Equal(dec("419.70")) {
		t.Fatalf("expected balance 419.70, got %s", got)
	}
}

func TestSettledBalanceIgnoresPendingEntries(t *testing.T) {
	doc := sampleDocument()

	if got := SettledBalance(doc); !got.Equal(dec("259.70")) {
		t.Fatalf("expected settled balance 259.70, got %s", got)
	}
	if Balance(doc).Equal(SettledBalance(doc)) {
		t.Fatalf("expected the two balance interpretations to differ while entries are pending")
	}
}

func TestPendingTotals(t *testing.T) {
	doc := sampleDocument()

	if got := PendingReceivable(doc); !got.Equal(dec("480")) {
		t.Fatalf("expected pending receivable 480, got %s", got)
	}
	if got := PendingPayable(doc); !got.Equal(dec("320")) {
		t.Fatalf("expected pending payable 320, got %s", got)
	}
}

func TestLowStockSingleProduct(t *testing.T) {
	doc := domain.NewDocument()
	doc.Products = []domain.Product{{ID: "p1", SKU: "P-001", Qty: 5, Min: 10}}

	low := LowStock(doc)
	if len(low) != 1 || low[0].SKU != "P-001" {
		t.Fatalf("expected exactly P-001, got %+v", low)
	}
}

func TestLowStockIncludesProductsAtMinimum(t *testing.T) {
	doc := sampleDocument()
	doc.Products[1].Qty = doc.Products[1].Min

	low := LowStock(doc)
	if len(low) != 2 || low[0].SKU != "P-002" || low[1].SKU != "P-003" {
		t.Fatalf("expected P-002 and P-003, got %+v", low)
	}
}

func TestSalesByProduct(t *testing.T) {
	doc := sampleDocument()

	totals := SalesByProduct(doc)
	if totals["P-001"] != 3 || totals["P-002"] != 3 || len(totals) != 2 {
		t.Fatalf("unexpected totals %+v", totals)
	}

	rows := SalesByProductRows(doc)
	if len(rows) != 2 || rows[0].SKU != "P-001" || rows[1].SKU != "P-002" {
		t.Fatalf("expected ties ordered by sku, got %+v", rows)
	}
}

func TestSaleViewsHandleMissingCustomer(t *testing.T) {
	views := SaleViews(sampleDocument())

	if views[0].CustomerName != "Maria Souza" || views[0].ItemCount != 2 {
		t.Fatalf("unexpected first view %+v", views[0])
	}
	if views[1].CustomerName != "-" || views[1].ItemCount != 4 {
		t.Fatalf("unexpected second view %+v", views[1])
	}
}

func TestDashboard(t *testing.T) {
	board := Dashboard(sampleDocument())

	if board.LowStockCount != 1 || board.LowStock[0].SKU != "P-003" {
		t.Fatalf("unexpected low stock %+v", board.LowStock)
	}
	if !board.Balance.Equal(dec("419.70")) || !board.SettledBalance.Equal(dec("259.70")) {
		t.Fatalf("unexpected balances %s / %s", board.Balance, board.SettledBalance)
	}
	if board.Alerts == nil {
		t.Fatalf("expected empty alert list, got nil")
	}
}

func TestProductsCSVQuotesSpecialFields(t *testing.T) {
	doc := domain.NewDocument()
	doc.Products = []domain.Product{
		{SKU: "P-001", Name: `Caneta "Azul", fina`, Category: "Papelaria", Qty: 200, Min: 50, Price: dec("2.5")},
		{SKU: "P-002", Name: "Shampoo", Qty: 1, Min: 0, Price: dec("18")},
	}

	payload, err := ProductsCSV(doc)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}

	want := strings.Join([]string{
		"sku,name,category,qty,min,price",
		`P-001,"Caneta ""Azul"", fina",Papelaria,200,50,2.5`,
		"P-002,Shampoo,,1,0,18",
		"",
	}, "\n")
	if string(payload) != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", payload, want)
	}
}

func TestProductsCSVEmptyHasHeaderOnly(t *testing.T) {
	payload, err := ProductsCSV(domain.NewDocument())
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if string(payload) != "sku,name,category,qty,min,price\n" {
		t.Fatalf("unexpected csv %q", payload)
	}
}

func TestDocumentJSONIsIndentedAndComplete(t *testing.T) {
	payload, err := DocumentJSON(sampleDocument())
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	if !strings.HasPrefix(string(payload), "{\n  \"cashflows\": [") {
		t.Fatalf("expected two-space indentation, got %.40s", payload)
	}

	var decoded domain.Document
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded.Products) != 3 || len(decoded.Sales) != 2 || len(decoded.Cashflows) != 3 {
		t.Fatalf("expected full document, got %+v", decoded)
	}
}
