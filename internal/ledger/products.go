package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/billbook/billbook/internal/models"
)

// CreateProduct adds a product with the next product id and a creation
// timestamp. Name is required; description defaults to empty.
func (s *Store) CreateProduct(ctx context.Context, name string, price float64, description string) (*models.Product, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return nil, fmt.Errorf("%w: name and price are required", ErrInvalidInput)
	}

	product := models.Product{
		ID:          s.snap.Meta.NextProductID(),
		Name:        name,
		Price:       price,
		Description: description,
		CreatedAt:   time.Now(),
	}
	s.snap.Products = append(s.snap.Products, product)

	if err := s.persist(); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProduct retrieves a product by id.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.snap.Products {
		if s.snap.Products[i].ID == id {
			product := s.snap.Products[i]
			return &product, nil
		}
	}
	return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
}

// UpdateProduct replaces a product's name, price, and description,
// preserving id and creation timestamp.
func (s *Store) UpdateProduct(ctx context.Context, id int64, name string, price float64, description string) (*models.Product, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return nil, fmt.Errorf("%w: name and price are required", ErrInvalidInput)
	}

	idx := -1
	for i := range s.snap.Products {
		if s.snap.Products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}

	s.snap.Products[idx].Name = name
	s.snap.Products[idx].Price = price
	s.snap.Products[idx].Description = description
	product := s.snap.Products[idx]

	if err := s.persist(); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product and cascades removal of every
// bill-product row referencing it.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	products := s.snap.Products[:0]
	for _, p := range s.snap.Products {
		if p.ID == id {
			found = true
			continue
		}
		products = append(products, p)
	}
	if !found {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	s.snap.Products = products

	billProducts := s.snap.BillProducts[:0]
	for _, bp := range s.snap.BillProducts {
		if bp.ProductID == id {
			continue
		}
		billProducts = append(billProducts, bp)
	}
	s.snap.BillProducts = billProducts

	return s.persist()
}

// ListProducts returns all products, most recently created first.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := s.snap.Products
	order := newestFirst(len(products),
		func(i int) time.Time { return products[i].CreatedAt },
		func(i int) int64 { return products[i].ID },
	)
	out := make([]models.Product, len(products))
	for i, idx := range order {
		out[i] = products[idx]
	}
	return out, nil
}
