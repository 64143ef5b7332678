package domain

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID       string          `json:"id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Qty      int             `json:"qty"`
	Min      int             `json:"min"`
	Price    decimal.Decimal `json:"price"`
}

type ProductCreateRequest struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Qty      int             `json:"qty"`
	Min      int             `json:"min"`
	Price    decimal.Decimal `json:"price"`
}

type ProductUpdateRequest struct {
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Min      *int             `json:"min,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type SaleItem struct {
	SKU   string          `json:"sku"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// Sale.Total is stored denormalized and always equals the sum of
// Qty*Price over Items.
type Sale struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	CustomerID string          `json:"customerId"`
	Items      []SaleItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

type SaleRequest struct {
	Date       string     `json:"date"`
	CustomerID string     `json:"customerId"`
	Items      []SaleItem `json:"items"`
}

type CashflowEntry struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	SaleID      string          `json:"saleId,omitempty"`
}

type CashflowRequest struct {
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
}

// Document is the single persisted business-state record. It is always
// read and written as one unit.
type Document struct {
	Cashflows []CashflowEntry `json:"cashflows"`
	Products  []Product       `json:"products"`
	Customers []Customer      `json:"customers"`
	Sales     []Sale          `json:"sales"`
}

func NewDocument() Document {
	return Document{
		Cashflows: []CashflowEntry{},
		Products:  []Product{},
		Customers: []Customer{},
		Sales:     []Sale{},
	}
}

// Normalize replaces nil collections with empty ones so the encoded form
// never contains null lists.
func (d *Document) Normalize() {
	if d.Cashflows == nil {
		d.Cashflows = []CashflowEntry{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Customers == nil {
		d.Customers = []Customer{}
	}
	if d.Sales == nil {
		d.Sales = []Sale{}
	}
	for i := range d.Sales {
		if d.Sales[i].Items == nil {
			d.Sales[i].Items = []SaleItem{}
		}
	}
}

func (d Document) FindProductBySKU(sku string) (int, bool) {
	for i, p := range d.Products {
		if p.SKU == sku {
			return i, true
		}
	}
	return -1, false
}

func (d Document) FindCustomer(id string) (Customer, bool) {
	for _, c := range d.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// User.Credential holds a bcrypt hash; documents written by older clients
// may still carry the plaintext value.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Credential string `json:"credential"`
	Role       string `json:"role"`
}

type UserCreateRequest struct {
	Name       string `json:"name"`
	Credential string `json:"credential"`
	Role       string `json:"role"`
}

type UserView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type LoginRequest struct {
	Name       string `json:"name"`
	Credential string `json:"credential"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Name string
	Role string
}

type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type AutomationResult struct {
	Settled int      `json:"settled"`
	Notices []Notice `json:"notices"`
}

type SaleView struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	ItemCount    int             `json:"itemCount"`
	Total        decimal.Decimal `json:"total"`
}

type ProductSales struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

type Dashboard struct {
	Balance           decimal.Decimal `json:"balance"`
	SettledBalance    decimal.Decimal `json:"settledBalance"`
	PendingReceivable decimal.Decimal `json:"pendingReceivable"`
	PendingPayable    decimal.Decimal `json:"pendingPayable"`
	LowStock          []Product       `json:"lowStock"`
	LowStockCount     int             `json:"lowStockCount"`
	Alerts            []Notice        `json:"alerts"`
}

const (
	CashflowReceivable = "receivable"
	CashflowPayable    = "payable"
)

const (
	CashflowPending = "pending"
	CashflowSettled = "settled"
)

const (
	RoleStaff = "staff"
	RoleOwner = "owner"
)

const (
	NoticeLowStock      = "low_stock"
	NoticeAutoSettled   = "auto_settled"
	NoticeSettleFailed  = "auto_settle_failed"
	NoticePrefsSaved    = "preferences_saved"
	SaleDescriptionHead = "Sale #"
	ProductCodePrefix   = "P-"
	DateLayout          = "2006-01-02"
)

type PreferencesResult struct {
	Preferences Preferences `json:"preferences"`
	Settled     int         `json:"settled"`
	Notices     []Notice    `json:"notices"`
}
