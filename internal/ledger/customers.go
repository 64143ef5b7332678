package ledger

import (
	"strings"

	"bankai/backend/internal/domain"
	"bankai/backend/internal/xid"
)

func CreateCustomer(doc *domain.Document, req domain.CustomerRequest) (domain.Customer, error) {
	customer, err := customerFromRequest(req)
	if err != nil {
		return domain.Customer{}, err
	}
	customer.ID = xid.New()
	doc.Customers = append(doc.Customers, customer)
	return customer, nil
}

func UpdateCustomer(doc *domain.Document, id string, req domain.CustomerRequest) (domain.Customer, error) {
	for i := range doc.Customers {
		if doc.Customers[i].ID != id {
			continue
		}
		customer, err := customerFromRequest(req)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.ID = id
		doc.Customers[i] = customer
		return customer, nil
	}
	return domain.Customer{}, notFound("customer", id)
}

// DeleteCustomer does not cascade: sales keep their customerId.
func DeleteCustomer(doc *domain.Document, id string) error {
	for i, c := range doc.Customers {
		if c.ID == id {
			doc.Customers = append(doc.Customers[:i], doc.Customers[i+1:]...)
			return nil
		}
	}
	return notFound("customer", id)
}

func customerFromRequest(req domain.CustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, invalid("name", "required")
	}
	return domain.Customer{
		Name:  name,
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}, nil
}
