package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.name, p.price, p.description, p.category, p.seller, p.stock,
	p.quantity_value, p.quantity_unit, p.ratings, p.num_of_reviews, p.created_by, p.created_at, p.updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto y sus imágenes en una transacción.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO products (id, name, price, description, category, seller, stock,
			                      quantity_value, quantity_unit, ratings, num_of_reviews, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		_, err := tx.Exec(ctx, query,
			product.ID, product.Name, product.Price, product.Description, product.Category, product.Seller,
			product.Stock, product.Quantity.Value, product.Quantity.Unit, product.Ratings, product.NumOfReviews,
			nullable(product.CreatedBy), product.CreatedAt, product.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Errorf(domain.ErrConflict, "Product already exists")
			}
			return fmt.Errorf("insert product: %w", err)
		}
		return insertImages(ctx, tx, product.ID, product.Images)
	})
}

// GetByID obtiene el producto con imágenes y reseñas. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.attachImages(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	if p.Reviews, err = NewReviewRepository(r.q).ListByProduct(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// List devuelve el catálogo completo, más recientes primero, sin reseñas.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products p ORDER BY p.created_at DESC, p.id`)
}

// GetByIDs devuelve los productos existentes indexados por id.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	list, err := r.queryProducts(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// Search busca por nombre o categoría (ILIKE); las coincidencias por nombre van primero.
func (r *ProductRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.name ILIKE $1 ESCAPE '\' OR p.category ILIKE $1 ESCAPE '\'
		ORDER BY (p.name ILIKE $1 ESCAPE '\') DESC, p.created_at DESC
		LIMIT $2`
	return r.queryProducts(ctx, query, likePattern(term), limit)
}

// Update reemplaza los campos editables y la lista de imágenes. Ratings no se tocan.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			UPDATE products SET name = $2, price = $3, description = $4, category = $5, seller = $6,
			       stock = $7, quantity_value = $8, quantity_unit = $9, updated_at = $10
			WHERE id = $1`
		tag, err := tx.Exec(ctx, query,
			product.ID, product.Name, product.Price, product.Description, product.Category, product.Seller,
			product.Stock, product.Quantity.Value, product.Quantity.Unit, product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, product.ID); err != nil {
			return fmt.Errorf("delete product images: %w", err)
		}
		return insertImages(ctx, tx, product.ID, product.Images)
	})
}

// Delete elimina el producto. Imágenes, reseñas y líneas de carrito caen en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DecrementStock resta qty con piso en 0.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET stock = GREATEST(stock - $2, 0), updated_at = now() WHERE id = $1`,
		id, qty,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return nil
}

// SetRatings guarda los agregados derivados de las reseñas.
func (r *ProductRepo) SetRatings(ctx context.Context, id string, ratings decimal.Decimal, numOfReviews int) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET ratings = $2, num_of_reviews = $3 WHERE id = $1`,
		id, ratings, numOfReviews,
	)
	if err != nil {
		return fmt.Errorf("set ratings: %w", err)
	}
	return nil
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachImages carga las imágenes de todos los productos con una sola consulta.
func (r *ProductRepo) attachImages(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id, id, url, position
		FROM product_images
		WHERE product_id = ANY($1::uuid[])
		ORDER BY product_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID string
		var img entity.ProductImage
		if err := rows.Scan(&productID, &img.ID, &img.URL, &img.Position); err != nil {
			return fmt.Errorf("scan product image: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return rows.Err()
}

func insertImages(ctx context.Context, tx pgx.Tx, productID string, images []entity.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, img := range images {
		batch.Queue(
			`INSERT INTO product_images (id, product_id, url, position) VALUES ($1, $2, $3, $4)`,
			img.ID, productID, img.URL, i,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert product images: %w", err)
	}
	return nil
}

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	var createdBy *string
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Description, &p.Category, &p.Seller, &p.Stock,
		&p.Quantity.Value, &p.Quantity.Unit, &p.Ratings, &p.NumOfReviews, &createdBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedBy = deref(createdBy)
	return &p, nil
}

// likePattern escapa los comodines de LIKE y envuelve el término en %...%.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}

var _ repository.ReviewRepository = (*ReviewRepo)(nil)

// ReviewRepo reseñas sobre PostgreSQL. Una por (producto, usuario) vía UNIQUE.
type ReviewRepo struct {
	q Querier
}

// NewReviewRepository construye el adaptador de reseñas.
func NewReviewRepository(q Querier) *ReviewRepo {
	return &ReviewRepo{q: q}
}

// ListByProduct reseñas en orden de alta, con el nombre vigente del autor.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string) ([]entity.Review, error) {
	rows, err := r.q.Query(ctx, `
		SELECT rv.id, rv.product_id, rv.user_id, COALESCE(u.name, rv.user_name),
		       rv.rating, rv.comment, rv.created_at, rv.updated_at
		FROM reviews rv
		LEFT JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = $1
		ORDER BY rv.created_at, rv.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()
	out := []entity.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Upsert inserta o reemplaza la reseña del usuario; la reseña reemplazada conserva id y fecha de alta.
func (r *ReviewRepo) Upsert(ctx context.Context, review *entity.Review) (bool, error) {
	query := `
		INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id, user_id) DO UPDATE
		SET user_name = EXCLUDED.user_name, rating = EXCLUDED.rating,
		    comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted`
	var created bool
	err := r.q.QueryRow(ctx, query,
		review.ID, review.ProductID, nullable(review.UserID), review.UserName,
		review.Rating, review.Comment, review.CreatedAt, review.UpdatedAt,
	).Scan(&review.ID, &review.CreatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert review: %w", err)
	}
	return created, nil
}

// Delete elimina la reseña del producto indicado.
func (r *ReviewRepo) Delete(ctx context.Context, productID, reviewID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND product_id = $2`, reviewID, productID)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListAll todas las reseñas con nombre y primera imagen del producto, más recientes primero.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]repository.ReviewWithProduct, error) {
	rows, err := r.q.Query(ctx, `
		SELECT rv.id, rv.product_id, rv.user_id, COALESCE(u.name, rv.user_name),
		       rv.rating, rv.comment, rv.created_at, rv.updated_at,
		       p.name,
		       COALESCE((SELECT pi.url FROM product_images pi
		                 WHERE pi.product_id = p.id ORDER BY pi.position LIMIT 1), '')
		FROM reviews rv
		JOIN products p ON p.id = rv.product_id
		LEFT JOIN users u ON u.id = rv.user_id
		ORDER BY rv.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all reviews: %w", err)
	}
	defer rows.Close()
	var out []repository.ReviewWithProduct
	for rows.Next() {
		var row repository.ReviewWithProduct
		var userID *string
		if err := rows.Scan(
			&row.ID, &row.ProductID, &userID, &row.UserName,
			&row.Rating, &row.Comment, &row.CreatedAt, &row.UpdatedAt,
			&row.ProductName, &row.ProductImage,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		row.UserID = deref(userID)
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanReview(row pgxScanner) (entity.Review, error) {
	var rv entity.Review
	var userID *string
	err := row.Scan(&rv.ID, &rv.ProductID, &userID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	rv.UserID = deref(userID)
	return rv, err
}
