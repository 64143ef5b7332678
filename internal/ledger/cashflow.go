package ledger

import (
	"strings"

	"bankai/backend/internal/domain"
	"bankai/backend/internal/xid"
)

func CreateCashflow(doc *domain.Document, req domain.CashflowRequest) (domain.CashflowEntry, error) {
	date, err := normalizeDate(req.Date)
	if err != nil {
		return domain.CashflowEntry{}, err
	}

	entryType := strings.ToLower(strings.TrimSpace(req.Type))
	if entryType != domain.CashflowReceivable && entryType != domain.CashflowPayable {
		return domain.CashflowEntry{}, invalid("type", "must be receivable or payable")
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.CashflowPending
	}
	if status != domain.CashflowPending && status != domain.CashflowSettled {
		return domain.CashflowEntry{}, invalid("status", "must be pending or settled")
	}

	if req.Amount.IsNegative() {
		return domain.CashflowEntry{}, invalid("amount", "must not be negative")
	}

	entry := domain.CashflowEntry{
		ID:          xid.New(),
		Date:        date,
		Type:        entryType,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Status:      status,
	}
	doc.Cashflows = append(doc.Cashflows, entry)
	return entry, nil
}

// SettleCashflow moves an entry from pending to settled. Settling an entry
// that is already settled changes nothing; there is no way back to pending.
func SettleCashflow(doc *domain.Document, id string) (domain.CashflowEntry, bool, error) {
	for i := range doc.Cashflows {
		entry := &doc.Cashflows[i]
		if entry.ID != id {
			continue
		}
		if entry.Status == domain.CashflowSettled {
			return *entry, false, nil
		}
		entry.Status = domain.CashflowSettled
		return *entry, true, nil
	}
	return domain.CashflowEntry{}, false, notFound("cashflow", id)
}

func DeleteCashflow(doc *domain.Document, id string) error {
	for i, entry := range doc.Cashflows {
		if entry.ID == id {
			doc.Cashflows = append(doc.Cashflows[:i], doc.Cashflows[i+1:]...)
			return nil
		}
	}
	return notFound("cashflow", id)
}
