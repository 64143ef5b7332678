package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"bankai/backend/internal/automation"
	"bankai/backend/internal/domain"
	"bankai/backend/internal/ledger"
	"bankai/backend/internal/report"
	"bankai/backend/internal/store"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// errUnchanged lets a mutation finish without writing the document.
var errUnchanged = errors.New("unchanged")

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Service runs every read-modify-write of the persisted records under one
// writer lock, and saves with the version observed at load so a write made
// by another process in between is rejected with a conflict instead of
// being overwritten.
type Service struct {
	mu     sync.Mutex
	docs   *store.Documents
	engine *automation.Engine
}

func New(blobs store.BlobStore, engine *automation.Engine) *Service {
	if engine == nil {
		engine = automation.NewEngine()
	}
	return &Service{
		docs:   store.NewDocuments(blobs),
		engine: engine,
	}
}

func (s *Service) Snapshot(ctx context.Context) (domain.Document, error) {
	doc, _, err := s.docs.Load(ctx)
	if err != nil {
		return domain.Document{}, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (s *Service) mutate(ctx context.Context, fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, fn)
}

func (s *Service) mutateLocked(ctx context.Context, fn func(doc *domain.Document) error) error {
	doc, version, err := s.docs.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if err := fn(&doc); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	if _, err := s.docs.Save(ctx, doc, version); err != nil {
		if errors.Is(err, store.ErrConflict) {
			log.Printf("[service] WARN: %v", err)
		}
		return err
	}
	return nil
}

func requireOwner(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleOwner {
		return fmt.Errorf("%w: owner role required", ErrForbidden)
	}
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Products, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	var created domain.Product
	err := s.mutate(ctx, func(doc *domain.Document) error {
		var err error
		created, err = ledger.CreateProduct(doc, req)
		return err
	})
	return created, err
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	if err := requireOwner(ctx); err != nil {
		return domain.Product{}, err
	}
	var updated domain.Product
	err := s.mutate(ctx, func(doc *domain.Document) error {
		var err error
		updated, err = ledger.UpdateProduct(doc, id, req)
		return err
	})
	return updated, err
}

func (s *Service) AdjustProductQuantity(ctx context.Context, id string, delta int) (domain.Product, error) {
	var updated domain.Product
	err := s.mutate(ctx, func(doc *domain.Document) error {
		var err error
		updated, err = ledger.AdjustQuantity(doc, id, delta)
		return err
	})
	return updated, err
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := requireOwner(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(doc *domain.Document) error {
		return ledger.DeleteProduct(doc, id)
	})
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Customers, nil
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerRequest) (domain.Customer, error) {
	var created domain.Customer
	err := s.mutate(ctx, func(doc *domain.Document) error {
		var err error
		created, err = ledger.CreateCustomer(doc, req)
		return err
	})
	return created, err
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, req domain.CustomerRequest) (domain.Customer, error) {
	var updated domain.Customer
	err := s.mutate(ctx, func(doc *domain.Document) error {
		var err error
		updated, err = ledger.UpdateCustomer(doc, id, req)
		return err
	})
	return updated, err
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.mutate(ctx, func(doc *domain.Document) error {
		return ledger.DeleteCustomer(doc, id)
	})
}

func (s *Service) ListSales(ctx context.Context) ([]domain.SaleView, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return report.SaleViews(doc), nil
}

func (s *Service) CreateSale(ctx context.Context, req domain.SaleRequest) (domain.Sale, error) {
	var created domain.Sale
	err := s.mutate(ctx, func(doc *domain.Document) error {
		var err error
		created, err = ledger.CreateSale(doc, req)
		return err
	})
	if err != nil {
		return domain.Sale{}, err
	}
	log.Printf("[service] sale %s recorded total=%s items=%d", created.ID, created.Total, len(created.Items))
	return created, nil
}

func (s *Service) DeleteSale(ctx context.Context, id string) error {
	if err := requireOwner(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(doc *domain.Document) error {
		return ledger.DeleteSale(doc, id)
	})
}

func (s *Service) ListCashflows(ctx context.Context) ([]domain.CashflowEntry, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Cashflows, nil
}

func (s *Service) CreateCashflow(ctx context.Context, req domain.CashflowRequest) (domain.CashflowEntry, error) {
	var created domain.CashflowEntry
	err := s.mutate(ctx, func(doc *domain.Document) error {
		var err error
		created, err = ledger.CreateCashflow(doc, req)
		return err
	})
	return created, err
}

func (s *Service) SettleCashflow(ctx context.Context, id string) (domain.CashflowEntry, error) {
	var settled domain.CashflowEntry
	err := s.mutate(ctx, func(doc *domain.Document) error {
		entry, changed, err := ledger.SettleCashflow(doc, id)
		if err != nil {
			return err
		}
		settled = entry
		if !changed {
			return errUnchanged
		}
		return nil
	})
	return settled, err
}

func (s *Service) DeleteCashflow(ctx context.Context, id string) error {
	if err := requireOwner(ctx); err != nil {
		return err
	}
	return s.mutate(ctx, func(doc *domain.Document) error {
		return ledger.DeleteCashflow(doc, id)
	})
}
