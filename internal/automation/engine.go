// Package automation evaluates the preference-driven rules over a loaded
// business-state document.
package automation

import (
	"fmt"

	"bankai/backend/internal/domain"
	"bankai/backend/internal/report"
)

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs every rule enabled in prefs once. Auto-settlement mutates
// doc; the low-stock rule only produces a notice.
func (e *Engine) Evaluate(doc *domain.Document, prefs domain.Preferences) domain.AutomationResult {
	result := domain.AutomationResult{Notices: []domain.Notice{}}

	if prefs.AutoSettleReceivables {
		result.Settled = AutoSettle(doc)
		if result.Settled > 0 {
			result.Notices = append(result.Notices, SettledNotice(result.Settled))
		}
	}
	if notice, ok := LowStockNotice(*doc, prefs); ok {
		result.Notices = append(result.Notices, notice)
	}
	return result
}

// Alerts returns the notices a read of doc should surface. It never mutates.
func (e *Engine) Alerts(doc domain.Document, prefs domain.Preferences) []domain.Notice {
	alerts := []domain.Notice{}
	if notice, ok := LowStockNotice(doc, prefs); ok {
		alerts = append(alerts, notice)
	}
	return alerts
}

// AutoSettle moves every pending receivable to settled and returns how many
// changed. Payables are never touched.
func AutoSettle(doc *domain.Document) int {
	changed := 0
	for i := range doc.Cashflows {
		entry := &doc.Cashflows[i]
		if entry.Type == domain.CashflowReceivable && entry.Status == domain.CashflowPending {
			entry.Status = domain.CashflowSettled
			changed++
		}
	}
	return changed
}

func LowStockNotice(doc domain.Document, prefs domain.Preferences) (domain.Notice, bool) {
	if !prefs.AlertOnLowStock {
		return domain.Notice{}, false
	}
	count := len(report.LowStock(doc))
	if count == 0 {
		return domain.Notice{}, false
	}
	return domain.Notice{
		Code:    domain.NoticeLowStock,
		Message: fmt.Sprintf("%d product(s) at or below minimum stock", count),
		Count:   count,
	}, true
}

func SettledNotice(count int) domain.Notice {
	return domain.Notice{
		Code:    domain.NoticeAutoSettled,
		Message: fmt.Sprintf("Auto-settlement applied to %d entries", count),
		Count:   count,
	}
}
