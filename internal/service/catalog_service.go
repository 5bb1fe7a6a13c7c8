package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogStore is the persistence surface for products, categories, and
// collections.
type CatalogStore interface {
	UpsertCategoryByName(ctx context.Context, category *models.Category) error
	GetOrCreateCategory(ctx context.Context, name string) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, p *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	CreateCollection(ctx context.Context, col *models.Collection) error
	GetCollectionByID(ctx context.Context, id int64) (*models.Collection, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	UpdateCollection(ctx context.Context, col *models.Collection) error
	DeleteCollection(ctx context.Context, id int64) error
}

// CatalogService handles products, categories, and collections. Writes are
// staff only; reads are public.
type CatalogService struct {
	store  CatalogStore
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ProductRequest is the product write payload. The category is a plain name
// resolved via get-or-create.
type ProductRequest struct {
	Name           string            `json:"name"`
	Price          decimal.Decimal   `json:"price"`
	OriginalPrice  *decimal.Decimal  `json:"originalPrice"`
	Category       string            `json:"category"`
	CollectionID   *int64            `json:"collectionId"`
	Image          string            `json:"image"`
	SecondaryImage string            `json:"secondaryImage"`
	IsNew          *bool             `json:"isNew"`
	Description    string            `json:"description"`
	InStock        *bool             `json:"inStock"`
	Details        models.StringList `json:"details"`
	Colors         models.StringList `json:"colors"`
	Sizes          models.StringList `json:"sizes"`
	AvailableSizes models.StringList `json:"availableSizes"`
}

func (req *ProductRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}

func (req *ProductRequest) apply(p *models.Product) {
	p.Name = strings.TrimSpace(req.Name)
	p.Price = req.Price
	p.OriginalPrice = req.OriginalPrice
	p.CollectionID = req.CollectionID
	p.Image = req.Image
	p.SecondaryImage = req.SecondaryImage
	p.Description = req.Description
	p.Details = req.Details
	p.Colors = req.Colors
	p.Sizes = req.Sizes
	p.AvailableSizes = req.AvailableSizes
	if req.IsNew != nil {
		p.IsNew = *req.IsNew
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
}

// CreateProduct creates a product, resolving its category by name.
func (s *CatalogService) CreateProduct(ctx context.Context, req *ProductRequest, caller models.Caller) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if !caller.Staff {
		return nil, ErrForbidden
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{IsNew: true, InStock: true}
	req.apply(product)

	if err := s.resolveCategory(ctx, req.Category, product); err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name))
	return product, nil
}

// UpdateProduct overwrites a product, resolving its category by name.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest, caller models.Caller) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	if !caller.Staff {
		return nil, ErrForbidden
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	product, err := s.store.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	req.apply(product)
	if err := s.resolveCategory(ctx, req.Category, product); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) resolveCategory(ctx context.Context, name string, product *models.Product) error {
	name = strings.TrimSpace(name)
	if name == "" {
		product.CategoryID = nil
		product.CategoryName = ""
		return nil
	}
	category, err := s.store.GetOrCreateCategory(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to resolve category: %w", err)
	}
	product.CategoryID = &category.ID
	product.CategoryName = category.Name
	return nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.store.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return product, err
}

// ListProducts retrieves all products
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// DeleteProduct deletes a product. Staff only.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64, caller models.Caller) error {
	if !caller.Staff {
		return ErrForbidden
	}
	err := s.store.DeleteProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// CategoryRequest is the category write payload.
type CategoryRequest struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// CreateCategory creates a category by name. A duplicate name is not an
// error: the existing row comes back unchanged.
func (s *CatalogService) CreateCategory(ctx context.Context, req *CategoryRequest, caller models.Caller) (*models.Category, error) {
	if !caller.Staff {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	category := &models.Category{
		Name:        name,
		Image:       req.Image,
		Description: req.Description,
	}
	if err := s.store.UpsertCategoryByName(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates a category's mutable fields. Staff only.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, req *CategoryRequest, caller models.Caller) (*models.Category, error) {
	if !caller.Staff {
		return nil, ErrForbidden
	}

	category, err := s.store.GetCategoryByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	category.Image = req.Image
	category.Description = req.Description
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListCategories retrieves all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// DeleteCategory deletes a category. Staff only.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64, caller models.Caller) error {
	if !caller.Staff {
		return ErrForbidden
	}
	err := s.store.DeleteCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// CollectionRequest is the collection write payload.
type CollectionRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Size     string `json:"size"`
}

func (req *CollectionRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: collection title is required", ErrValidation)
	}
	switch req.Size {
	case "", models.CollectionSizeSmall, models.CollectionSizeMedium, models.CollectionSizeLarge:
		return nil
	}
	return fmt.Errorf("%w: unknown collection size %q", ErrValidation, req.Size)
}

// CreateCollection creates a collection. Staff only.
func (s *CatalogService) CreateCollection(ctx context.Context, req *CollectionRequest, caller models.Caller) (*models.Collection, error) {
	if !caller.Staff {
		return nil, ErrForbidden
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	size := req.Size
	if size == "" {
		size = models.CollectionSizeMedium
	}
	col := &models.Collection{
		Title:    strings.TrimSpace(req.Title),
		Subtitle: req.Subtitle,
		Image:    req.Image,
		Category: req.Category,
		Size:     size,
	}
	if err := s.store.CreateCollection(ctx, col); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return col, nil
}

// UpdateCollection overwrites a collection. Staff only.
func (s *CatalogService) UpdateCollection(ctx context.Context, id int64, req *CollectionRequest, caller models.Caller) (*models.Collection, error) {
	if !caller.Staff {
		return nil, ErrForbidden
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	col, err := s.store.GetCollectionByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	col.Title = strings.TrimSpace(req.Title)
	col.Subtitle = req.Subtitle
	col.Image = req.Image
	col.Category = req.Category
	if req.Size != "" {
		col.Size = req.Size
	}
	if err := s.store.UpdateCollection(ctx, col); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return col, nil
}

// ListCollections retrieves all collections
func (s *CatalogService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	return s.store.ListCollections(ctx)
}

// DeleteCollection deletes a collection. Staff only.
func (s *CatalogService) DeleteCollection(ctx context.Context, id int64, caller models.Caller) error {
	if !caller.Staff {
		return ErrForbidden
	}
	err := s.store.DeleteCollection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
