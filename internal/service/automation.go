package service

import (
	"context"
	"fmt"
	"log"
	"maps"

	"bankai/backend/internal/automation"
	"bankai/backend/internal/domain"
	"bankai/backend/internal/report"
)

func (s *Service) Preferences(ctx context.Context) (domain.Preferences, error) {
	prefs, _, err := s.docs.LoadPreferences(ctx)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences stores the toggles, keeping any stored keys the request
// does not mention, then runs auto-settlement once if it is enabled. A
// failed settlement after a successful save is reported as a notice.
func (s *Service) SavePreferences(ctx context.Context, prefs domain.Preferences) (domain.PreferencesResult, error) {
	if err := requireOwner(ctx); err != nil {
		return domain.PreferencesResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, version, err := s.docs.LoadPreferences(ctx)
	if err != nil {
		return domain.PreferencesResult{}, fmt.Errorf("load preferences: %w", err)
	}
	if len(current.Extra) > 0 {
		merged := maps.Clone(current.Extra)
		maps.Copy(merged, prefs.Extra)
		prefs.Extra = merged
	}
	if _, err := s.docs.SavePreferences(ctx, prefs, version); err != nil {
		return domain.PreferencesResult{}, err
	}

	result := domain.PreferencesResult{Preferences: prefs, Notices: []domain.Notice{}}
	if prefs.AutoSettleReceivables {
		err := s.mutateLocked(ctx, func(doc *domain.Document) error {
			result.Settled = automation.AutoSettle(doc)
			if result.Settled == 0 {
				return errUnchanged
			}
			return nil
		})
		switch {
		case err != nil:
			// The preferences are already stored; report the failed
			// settlement instead of failing the save.
			result.Settled = 0
			log.Printf("[service] WARN: auto-settlement on preferences save failed: %v", err)
			result.Notices = append(result.Notices, domain.Notice{
				Code:    domain.NoticeSettleFailed,
				Message: "Preferences saved, but auto-settlement failed; run automation again",
			})
		case result.Settled > 0:
			result.Notices = append(result.Notices, automation.SettledNotice(result.Settled))
			log.Printf("[service] auto-settlement on preferences save settled=%d", result.Settled)
		}
	}
	result.Notices = append(result.Notices, domain.Notice{
		Code:    domain.NoticePrefsSaved,
		Message: "Preferences saved",
	})
	return result, nil
}

// RunAutomation evaluates the enabled rules against the current document.
func (s *Service) RunAutomation(ctx context.Context) (domain.AutomationResult, error) {
	if err := requireOwner(ctx); err != nil {
		return domain.AutomationResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, _, err := s.docs.LoadPreferences(ctx)
	if err != nil {
		return domain.AutomationResult{}, fmt.Errorf("load preferences: %w", err)
	}

	var result domain.AutomationResult
	err = s.mutateLocked(ctx, func(doc *domain.Document) error {
		result = s.engine.Evaluate(doc, prefs)
		if result.Settled == 0 {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return domain.AutomationResult{}, err
	}
	return result, nil
}

func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}
	board := report.Dashboard(doc)
	board.Alerts = s.engine.Alerts(doc, prefs)
	return board, nil
}

func (s *Service) LowStock(ctx context.Context) ([]domain.Product, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return report.LowStock(doc), nil
}

func (s *Service) SalesByProduct(ctx context.Context) ([]domain.ProductSales, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return report.SalesByProductRows(doc), nil
}

func (s *Service) ExportProductsCSV(ctx context.Context) ([]byte, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return report.ProductsCSV(doc)
}

func (s *Service) ExportDocumentJSON(ctx context.Context) ([]byte, error) {
	if err := requireOwner(ctx); err != nil {
		return nil, err
	}
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return report.DocumentJSON(doc)
}

// Reset drops the business-state and preferences records. Users survive.
func (s *Service) Reset(ctx context.Context) error {
	if err := requireOwner(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.docs.Reset(ctx); err != nil {
		return err
	}
	actor, _ := ActorFromContext(ctx)
	log.Printf("[service] business state reset by %s", actor.Name)
	return nil
}
