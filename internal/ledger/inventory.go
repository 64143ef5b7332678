package ledger

import (
	"strings"

	"bankai/backend/internal/domain"
	"bankai/backend/internal/xid"
)

// CreateProduct adds a product. A blank sku is allocated from the existing
// product codes; an sku already in use is rejected.
func CreateProduct(doc *domain.Document, req domain.ProductCreateRequest) (domain.Product, error) {
	req.SKU = strings.TrimSpace(req.SKU)
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	if req.Name == "" {
		return domain.Product{}, invalid("name", "required")
	}
	if req.Qty < 0 {
		return domain.Product{}, invalid("qty", "must not be negative")
	}
	if req.Min < 0 {
		return domain.Product{}, invalid("min", "must not be negative")
	}
	if req.Price.IsNegative() {
		return domain.Product{}, invalid("price", "must not be negative")
	}

	if req.SKU == "" {
		req.SKU = xid.NextCode(domain.ProductCodePrefix, doc.Products, func(p domain.Product) string { return p.SKU })
	} else if _, exists := doc.FindProductBySKU(req.SKU); exists {
		return domain.Product{}, invalid("sku", "already in use")
	}

	product := domain.Product{
		ID:       xid.New(),
		SKU:      req.SKU,
		Name:     req.Name,
		Category: req.Category,
		Qty:      req.Qty,
		Min:      req.Min,
		Price:    req.Price,
	}
	doc.Products = append(doc.Products, product)
	return product, nil
}

func UpdateProduct(doc *domain.Document, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	idx := productIndex(doc, id)
	if idx < 0 {
		return domain.Product{}, notFound("product", id)
	}

	updated := doc.Products[idx]
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, invalid("name", "required")
		}
		updated.Name = name
	}
	if req.Category != nil {
		updated.Category = strings.TrimSpace(*req.Category)
	}
	if req.Min != nil {
		if *req.Min < 0 {
			return domain.Product{}, invalid("min", "must not be negative")
		}
		updated.Min = *req.Min
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return domain.Product{}, invalid("price", "must not be negative")
		}
		updated.Price = *req.Price
	}

	doc.Products[idx] = updated
	return updated, nil
}

// AdjustQuantity adds delta to the on-hand count, flooring at zero.
func AdjustQuantity(doc *domain.Document, id string, delta int) (domain.Product, error) {
	idx := productIndex(doc, id)
	if idx < 0 {
		return domain.Product{}, notFound("product", id)
	}
	product := &doc.Products[idx]
	product.Qty = max(0, product.Qty+delta)
	return *product, nil
}

// DeleteProduct leaves historical sales that reference the sku untouched.
func DeleteProduct(doc *domain.Document, id string) error {
	idx := productIndex(doc, id)
	if idx < 0 {
		return notFound("product", id)
	}
	doc.Products = append(doc.Products[:idx], doc.Products[idx+1:]...)
	return nil
}

func productIndex(doc *domain.Document, id string) int {
	for i, p := range doc.Products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
