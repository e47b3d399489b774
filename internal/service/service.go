package service

import (
	"context"
	"strings"
	"time"

	"nagapos/internal/domain"
	"nagapos/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service struct {
	store    *repository.Store
	log      logrus.FieldLogger
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDSource(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func New(store *repository.Store, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		log:      log,
		validate: newValidator(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ProductInput struct {
	Name     string
	ImageURL string
}

type ProductPatch struct {
	Name     *string
	ImageURL *string
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Products, nil
}

func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	product := domain.Product{
		ID:       s.newID(),
		Name:     strings.TrimSpace(input.Name),
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
	if product.Name == "" {
		return domain.Product{}, domain.NewValidationError("name", "is required")
	}
	if product.ImageURL == "" {
		return domain.Product{}, domain.NewValidationError("imageUrl", "is required")
	}

	err := s.store.Update(ctx, func(doc *domain.Document) error {
		doc.Products = append(doc.Products, product)
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.log.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("product created")
	return product, nil
}

// UpdateProduct applies the non-blank fields of patch; blank values are ignored.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, error) {
	var updated domain.Product
	err := s.store.Update(ctx, func(doc *domain.Document) error {
		idx := doc.FindProduct(id)
		if idx == -1 {
			return &domain.NotFoundError{Entity: "product", ID: id}
		}
		product := doc.Products[idx]
		if name := normalizeOptional(patch.Name); name != nil {
			product.Name = *name
		}
		if imageURL := normalizeOptional(patch.ImageURL); imageURL != nil {
			product.ImageURL = *imageURL
		}
		doc.Products[idx] = product
		updated = product
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.log.WithField("product_id", id).Info("product updated")
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(doc *domain.Document) error {
		idx := doc.FindProduct(id)
		if idx == -1 {
			return &domain.NotFoundError{Entity: "product", ID: id}
		}
		doc.Products = append(doc.Products[:idx], doc.Products[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.WithField("product_id", id).Info("product deleted")
	return nil
}

// ImportProducts upserts catalog rows by case-insensitive product name.
func (s *Service) ImportProducts(ctx context.Context, rows []domain.CatalogRow) (domain.CatalogImportResult, error) {
	result := domain.CatalogImportResult{TotalRows: len(rows)}
	if len(rows) == 0 {
		return result, domain.NewValidationError("rows", "are required")
	}
	for idx, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			return result, domain.NewValidationError(indexedField("rows", idx, "name"), "is required")
		}
		if strings.TrimSpace(row.ImageURL) == "" {
			return result, domain.NewValidationError(indexedField("rows", idx, "imageUrl"), "is required")
		}
	}

	err := s.store.Update(ctx, func(doc *domain.Document) error {
		byName := make(map[string]int, len(doc.Products))
		for idx, product := range doc.Products {
			byName[normalizeName(product.Name)] = idx
		}
		for _, row := range rows {
			name := strings.TrimSpace(row.Name)
			imageURL := strings.TrimSpace(row.ImageURL)
			if idx, ok := byName[normalizeName(name)]; ok {
				doc.Products[idx].ImageURL = imageURL
				result.Updated++
				continue
			}
			doc.Products = append(doc.Products, domain.Product{ID: s.newID(), Name: name, ImageURL: imageURL})
			byName[normalizeName(name)] = len(doc.Products) - 1
			result.Created++
		}
		return nil
	})
	if err != nil {
		return domain.CatalogImportResult{TotalRows: len(rows)}, err
	}
	s.log.WithFields(logrus.Fields{
		"rows":    result.TotalRows,
		"created": result.Created,
		"updated": result.Updated,
	}).Info("catalog imported")
	return result, nil
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
