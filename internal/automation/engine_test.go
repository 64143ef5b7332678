package automation

import (
	"testing"

	"github.com/shopspring/decimal"

	"bankai/backend/internal/domain"
)

func documentWithCashflows() domain.Document {
	doc := domain.NewDocument()
	doc.Products = []domain.Product{
		{ID: "p1", SKU: "P-001", Qty: 5, Min: 10},
		{ID: "p2", SKU: "P-002", Qty: 200, Min: 50},
	}
	doc.Cashflows = []domain.CashflowEntry{
		{ID: "f1", Type: domain.CashflowReceivable, Amount: decimal.NewFromInt(10), Status: domain.CashflowPending},
		{ID: "f2", Type: domain.CashflowPayable, Amount: decimal.NewFromInt(20), Status: domain.CashflowPending},
		{ID: "f3", Type: domain.CashflowReceivable, Amount: decimal.NewFromInt(30), Status: domain.CashflowSettled},
		{ID: "f4", Type: domain.CashflowReceivable, Amount: decimal.NewFromInt(40), Status: domain.CashflowPending},
	}
	return doc
}

func TestAutoSettleIsIdempotent(t *testing.T) {
	doc := documentWithCashflows()

	if changed := AutoSettle(&doc); changed != 2 {
		t.Fatalf("expected 2 entries settled, got %d", changed)
	}
	if changed := AutoSettle(&doc); changed != 0 {
		t.Fatalf("expected second run to change nothing, got %d", changed)
	}
}

func TestAutoSettleLeavesPayablesPending(t *testing.T) {
	doc := documentWithCashflows()
	AutoSettle(&doc)

	for _, entry := range doc.Cashflows {
		switch entry.Type {
		case domain.CashflowPayable:
			if entry.Status != domain.CashflowPending {
				t.Fatalf("payable %s was settled", entry.ID)
			}
		case domain.CashflowReceivable:
			if entry.Status != domain.CashflowSettled {
				t.Fatalf("receivable %s still %s", entry.ID, entry.Status)
			}
		}
	}
}

func TestEvaluateRespectsPreferences(t *testing.T) {
	engine := NewEngine()

	doc := documentWithCashflows()
	result := engine.Evaluate(&doc, domain.Preferences{})
	if result.Settled != 0 || len(result.Notices) != 0 {
		t.Fatalf("expected no effect with rules disabled, got %+v", result)
	}
	if doc.Cashflows[0].Status != domain.CashflowPending {
		t.Fatalf("expected document untouched")
	}

	result = engine.Evaluate(&doc, domain.Preferences{AlertOnLowStock: true, AutoSettleReceivables: true})
	if result.Settled != 2 {
		t.Fatalf("expected 2 settled, got %d", result.Settled)
	}
	if len(result.Notices) != 2 {
		t.Fatalf("expected settle and low-stock notices, got %+v", result.Notices)
	}
	if result.Notices[0].Code != domain.NoticeAutoSettled || result.Notices[0].Count != 2 {
		t.Fatalf("unexpected settle notice %+v", result.Notices[0])
	}
	if result.Notices[1].Code != domain.NoticeLowStock || result.Notices[1].Count != 1 {
		t.Fatalf("unexpected low-stock notice %+v", result.Notices[1])
	}

	result = engine.Evaluate(&doc, domain.Preferences{AlertOnLowStock: true, AutoSettleReceivables: true})
	if result.Settled != 0 {
		t.Fatalf("expected second run to settle nothing, got %d", result.Settled)
	}
	if len(result.Notices) != 1 || result.Notices[0].Code != domain.NoticeLowStock {
		t.Fatalf("expected only the low-stock notice when nothing settled, got %+v", result.Notices)
	}
}

func TestAlertsDoNotMutate(t *testing.T) {
	engine := NewEngine()
	doc := documentWithCashflows()
	prefs := domain.Preferences{AlertOnLowStock: true, AutoSettleReceivables: true}

	alerts := engine.Alerts(doc, prefs)
	if len(alerts) != 1 || alerts[0].Code != domain.NoticeLowStock {
		t.Fatalf("expected one low-stock alert, got %+v", alerts)
	}
	if doc.Cashflows[0].Status != domain.CashflowPending {
		t.Fatalf("alerts must not settle entries")
	}

	doc.Products[0].Qty = 50
	if alerts := engine.Alerts(doc, prefs); len(alerts) != 0 {
		t.Fatalf("expected no alert without low stock, got %+v", alerts)
	}
}
