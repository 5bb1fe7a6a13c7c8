package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"
)

const productColumns = `p.*, COALESCE(c.name, '') AS category_name`

// UpsertCategoryByName inserts a category unless one with the same name
// already exists, then loads whichever row won. The unique constraint on
// name plus ON CONFLICT DO NOTHING makes concurrent identical requests
// converge on a single row; "already existed" and "just created" are
// equivalent outcomes for callers.
func (s *Store) UpsertCategoryByName(ctx context.Context, category *models.Category) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, image, description) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING",
		category.Name, category.Image, category.Description)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}

	if err := s.db.GetContext(ctx, category,
		"SELECT * FROM categories WHERE name = $1", category.Name); err != nil {
		return fmt.Errorf("read category: %w", err)
	}
	return nil
}

// GetOrCreateCategory resolves a category by plain name, creating it when
// absent. Used by product writes that reference a category by name.
func (s *Store) GetOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := s.UpsertCategoryByName(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories retrieves all categories
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY name")
	return categories, err
}

// UpdateCategory updates a category's image and description. The name is the
// natural key and stays put.
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET image = $2, description = $3 WHERE id = $1",
		category.ID, category.Image, category.Description)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory deletes a category; product references go null via the FK.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateProduct inserts a product row. Category resolution happens in the
// service layer before this call.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, price, original_price, category_id, collection_id,
			image, secondary_image, is_new, description, in_stock,
			details, colors, sizes, available_sizes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		p.Name, p.Price, p.OriginalPrice, p.CategoryID, p.CollectionID,
		p.Image, p.SecondaryImage, p.IsNew, p.Description, p.InStock,
		p.Details, p.Colors, p.Sizes, p.AvailableSizes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetProductByID retrieves a product with its category name resolved.
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, fmt.Sprintf(`
		SELECT %s FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, productColumns), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves all products, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, fmt.Sprintf(`
		SELECT %s FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC`, productColumns))
	return products, err
}

// UpdateProduct overwrites a product row.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, price = $3, original_price = $4, category_id = $5,
			collection_id = $6, image = $7, secondary_image = $8, is_new = $9,
			description = $10, in_stock = $11, details = $12, colors = $13,
			sizes = $14, available_sizes = $15, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Price, p.OriginalPrice, p.CategoryID,
		p.CollectionID, p.Image, p.SecondaryImage, p.IsNew,
		p.Description, p.InStock, p.Details, p.Colors,
		p.Sizes, p.AvailableSizes)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct deletes a product. Order-item snapshots keep their copied
// fields; only the weak product reference dangles.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateCollection inserts a collection row.
func (s *Store) CreateCollection(ctx context.Context, col *models.Collection) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO collections (title, subtitle, image, category, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		col.Title, col.Subtitle, col.Image, col.Category, col.Size,
	).Scan(&col.ID)
}

// GetCollectionByID retrieves a collection by ID
func (s *Store) GetCollectionByID(ctx context.Context, id int64) (*models.Collection, error) {
	var col models.Collection
	err := s.db.GetContext(ctx, &col, "SELECT * FROM collections WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// ListCollections retrieves all collections
func (s *Store) ListCollections(ctx context.Context) ([]models.Collection, error) {
	collections := []models.Collection{}
	err := s.db.SelectContext(ctx, &collections, "SELECT * FROM collections ORDER BY id")
	return collections, err
}

// UpdateCollection overwrites a collection row.
func (s *Store) UpdateCollection(ctx context.Context, col *models.Collection) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE collections
		SET title = $2, subtitle = $3, image = $4, category = $5, size = $6
		WHERE id = $1`,
		col.ID, col.Title, col.Subtitle, col.Image, col.Category, col.Size)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCollection deletes a collection; product references go null.
func (s *Store) DeleteCollection(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
