package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bankai/backend/internal/domain"
	"bankai/backend/internal/store"
)

func TestCreateCashflowDefaultsToPending(t *testing.T) {
	doc := domain.NewDocument()

	entry, err := CreateCashflow(&doc, domain.CashflowRequest{
		Date:        "2024-02-10",
		Type:        "Payable",
		Description: " Conta de luz ",
		Amount:      decimal.RequireFromString("320"),
	})
	if err != nil {
		t.Fatalf("create cashflow: %v", err)
	}
	if entry.Status != domain.CashflowPending || entry.Type != domain.CashflowPayable {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.Description != "Conta de luz" {
		t.Fatalf("expected trimmed description, got %q", entry.Description)
	}
}

func TestCreateCashflowValidation(t *testing.T) {
	cases := map[string]domain.CashflowRequest{
		"type":   {Type: "transfer"},
		"status": {Type: "receivable", Status: "open"},
		"amount": {Type: "receivable", Amount: decimal.NewFromInt(-5)},
		"date":   {Type: "receivable", Date: "2024-13-40"},
	}
	for field, req := range cases {
		doc := domain.NewDocument()
		_, err := CreateCashflow(&doc, req)
		var validation *ValidationError
		if !errors.As(err, &validation) || validation.Field != field {
			t.Fatalf("expected %s validation error, got %v", field, err)
		}
		if len(doc.Cashflows) != 0 {
			t.Fatalf("expected no entry recorded for %s", field)
		}
	}
}

func TestSettleCashflowIsOneWay(t *testing.T) {
	doc := domain.NewDocument()
	entry, err := CreateCashflow(&doc, domain.CashflowRequest{Type: "receivable", Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("create cashflow: %v", err)
	}

	settled, changed, err := SettleCashflow(&doc, entry.ID)
	if err != nil || !changed || settled.Status != domain.CashflowSettled {
		t.Fatalf("expected settle to change status, got %+v changed=%v err=%v", settled, changed, err)
	}
	_, changed, err = SettleCashflow(&doc, entry.ID)
	if err != nil || changed {
		t.Fatalf("expected second settle to be a no-op, changed=%v err=%v", changed, err)
	}
	if _, _, err := SettleCashflow(&doc, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCustomerLifecycle(t *testing.T) {
	doc := domain.NewDocument()

	if _, err := CreateCustomer(&doc, domain.CustomerRequest{Name: "  "}); err == nil {
		t.Fatalf("expected blank name to be rejected")
	}

	customer, err := CreateCustomer(&doc, domain.CustomerRequest{Name: "João Silva", Email: "joao@email.com"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	updated, err := UpdateCustomer(&doc, customer.ID, domain.CustomerRequest{Name: "João S.", Phone: "(11) 98888-2222"})
	if err != nil {
		t.Fatalf("update customer: %v", err)
	}
	if updated.ID != customer.ID || updated.Email != "" || updated.Phone == "" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if err := DeleteCustomer(&doc, customer.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if err := DeleteCustomer(&doc, customer.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := DeleteCashflow(&doc, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for cashflow, got %v", err)
	}
}
