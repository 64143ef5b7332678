package service

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"bankai/backend/internal/domain"
	"bankai/backend/internal/xid"
)

// SeedDemo writes the demo data set when no business-state record exists.
// An existing record, even an empty or unreadable one, is left alone.
func (s *Service) SeedDemo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, version, err := s.docs.Load(ctx)
	if err != nil {
		return false, err
	}
	if version != "" {
		return false, nil
	}
	if _, err := s.docs.Save(ctx, DemoDocument(time.Now().UTC()), ""); err != nil {
		return false, err
	}
	log.Printf("[service] demo data seeded")
	return true, nil
}

func DemoDocument(now time.Time) domain.Document {
	today := now.Format(domain.DateLayout)
	price := decimal.RequireFromString

	doc := domain.NewDocument()
	doc.Products = []domain.Product{
		{ID: xid.New(), SKU: "P-001", Name: "Camiseta Básica", Category: "Vestuário", Qty: 30, Min: 10, Price: price("39.9")},
		{ID: xid.New(), SKU: "P-002", Name: "Caneta Azul", Category: "Papelaria", Qty: 200, Min: 50, Price: price("2.5")},
		{ID: xid.New(), SKU: "P-003", Name: "Shampoo 300ml", Category: "Higiene", Qty: 15, Min: 20, Price: price("18")},
	}
	doc.Customers = []domain.Customer{
		{ID: xid.New(), Name: "Maria Souza", Email: "maria@email.com", Phone: "(11) 99999-1111"},
		{ID: xid.New(), Name: "João Silva", Email: "joao@email.com", Phone: "(11) 98888-2222"},
	}
	doc.Cashflows = []domain.CashflowEntry{
		{ID: xid.New(), Date: today, Type: domain.CashflowReceivable, Description: "Venda balcão", Amount: price("259.70"), Status: domain.CashflowSettled},
		{ID: xid.New(), Date: today, Type: domain.CashflowPayable, Description: "Conta de luz", Amount: price("320.00"), Status: domain.CashflowPending},
		{ID: xid.New(), Date: today, Type: domain.CashflowReceivable, Description: "Serviço manutenção", Amount: price("480.00"), Status: domain.CashflowPending},
	}
	items := []domain.SaleItem{{SKU: "P-001", Qty: 2, Price: price("39.9")}}
	doc.Sales = []domain.Sale{
		{ID: xid.New(), Date: today, CustomerID: doc.Customers[0].ID, Items: items, Total: price("79.8")},
	}
	return doc
}
