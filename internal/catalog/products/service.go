package products

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teranga-resto/teranga-resto/internal/billing/money"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// Service handles catalog business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List returns the catalog. An empty catalog is seeded with the default
// product list first, so the first caller always sees a usable catalog.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		return out, nil
	}

	now := s.now().UTC()
	seed := make([]Product, 0, len(defaultProducts))
	for _, sp := range defaultProducts {
		seed = append(seed, Product{
			ID:        uuid.NewString(),
			Name:      sp.name,
			Price:     sp.price,
			Unit:      sp.unit,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.repo.CreateBatch(ctx, seed); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "catalog seeded", slog.Int("products", len(seed)))
	return s.repo.List(ctx)
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: product id required", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create adds a product. The price may use a comma or period as decimal
// separator; it is rounded to whole FCFA.
func (s *Service) Create(ctx context.Context, name, rawPrice, unit string) (Product, error) {
	price, err := s.parseFields(name, rawPrice, unit)
	if err != nil {
		return Product{}, err
	}
	now := s.now().UTC()
	p := Product{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Price:     price,
		Unit:      strings.TrimSpace(unit),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Update replaces a product's name, price and unit.
func (s *Service) Update(ctx context.Context, id, name, rawPrice, unit string) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: product id required", shared.ErrValidation)
	}
	price, err := s.parseFields(name, rawPrice, unit)
	if err != nil {
		return Product{}, err
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.Name = strings.TrimSpace(name)
	p.Price = price
	p.Unit = strings.TrimSpace(unit)
	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product. Invoice lines keep their copied name and price,
// so past invoices are unaffected.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id required", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) parseFields(name, rawPrice, unit string) (money.Money, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: name required", shared.ErrValidation)
	}
	if strings.TrimSpace(unit) == "" {
		return 0, fmt.Errorf("%w: unit required", shared.ErrValidation)
	}
	price, err := money.ParseAmount(rawPrice)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return price, nil
}
