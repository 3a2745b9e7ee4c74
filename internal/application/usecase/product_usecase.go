package usecase

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/jhoicas/brownson-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	productListCacheKey = ports.CatalogCacheKey
	productImageFolder  = "product"

	MsgProductNotFound = "Product not found"
)

var (
	ratingMin = decimal.NewFromInt(1)
	ratingMax = decimal.NewFromInt(5)
)

// allowedImageTypes tipos aceptados para imágenes de producto y perfil.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// ProductUseCase catálogo: CRUD de productos, reseñas y caché del listado.
type ProductUseCase struct {
	repo     repository.ProductRepository
	reviews  repository.ReviewRepository
	tx       ReviewTxRunner
	storage  ports.FileStorage
	cache    ports.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	reviews repository.ReviewRepository,
	tx ReviewTxRunner,
	storage ports.FileStorage,
	cache ports.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{
		repo:     repo,
		reviews:  reviews,
		tx:       tx,
		storage:  storage,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// List devuelve el catálogo sin reseñas. Usa la caché si está disponible.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	if raw, hit, err := uc.cache.Get(ctx, productListCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("caché de catálogo no disponible")
	} else if hit {
		var cached []dto.ProductResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := dto.FromProducts(products)

	if raw, err := json.Marshal(out); err == nil {
		if err := uc.cache.Set(ctx, productListCacheKey, raw, uc.cacheTTL); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar el catálogo en caché")
		}
	}
	return out, nil
}

// Get obtiene un producto con sus reseñas.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromProduct(p), nil
}

// Create da de alta un producto con las imágenes subidas.
func (uc *ProductUseCase) Create(ctx context.Context, createdBy string, in dto.ProductInput) (*dto.ProductResponse, error) {
	if err := validateNewProduct(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(*in.Name),
		Price:       *in.Price,
		Description: strings.TrimSpace(*in.Description),
		Category:    entity.Category(strings.TrimSpace(*in.Category)),
		Seller:      strings.TrimSpace(*in.Seller),
		Stock:       *in.Stock,
		Quantity:    entity.Quantity{Value: *in.QuantityValue, Unit: entity.Unit(strings.TrimSpace(*in.QuantityUnit))},
		Ratings:     decimal.Zero,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	images, err := uc.storeImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}
	p.Images = images

	if err := uc.repo.Create(ctx, p); err != nil {
		uc.discardImages(ctx, images)
		return nil, err
	}
	uc.invalidate(ctx)
	return dto.FromProduct(p), nil
}

// Update modifica los campos enviados. Con ImagesCleared se descartan las imágenes
// actuales antes de agregar las nuevas; sin él, las nuevas se agregan al final.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductInput) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProductChanges(p, in); err != nil {
		return nil, err
	}

	uploaded, err := uc.storeImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}
	var dropped []entity.ProductImage
	if in.ImagesCleared {
		dropped = p.Images
		p.Images = nil
	}
	for _, img := range uploaded {
		img.Position = len(p.Images)
		p.Images = append(p.Images, img)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		uc.discardImages(ctx, uploaded)
		return nil, err
	}
	uc.discardImages(ctx, dropped)
	uc.invalidate(ctx)
	return dto.FromProduct(p), nil
}

// Delete elimina el producto (y en cascada sus imágenes y reseñas).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	ok, err := uc.repo.Delete(ctx, p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Errorf(domain.ErrNotFound, MsgProductNotFound)
	}
	uc.discardImages(ctx, p.Images)
	uc.invalidate(ctx)
	return nil
}

// ListReviews reseñas de un producto con el nombre del autor.
func (uc *ProductUseCase) ListReviews(ctx context.Context, productID string) ([]dto.ReviewResponse, error) {
	productID, err := ParseID(productID, "Product")
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Errorf(domain.ErrNotFound, MsgProductNotFound)
	}
	return dto.FromReviews(p.Reviews), nil
}

// UpsertReview crea o reemplaza la reseña del usuario y recalcula los agregados
// dentro de la misma transacción.
func (uc *ProductUseCase) UpsertReview(ctx context.Context, user *entity.User, in dto.ReviewRequest) (*dto.ReviewMutationResponse, error) {
	productID, err := ParseID(in.ProductID, "Product")
	if err != nil {
		return nil, err
	}
	in.ProductID = productID
	if in.Rating.LessThan(ratingMin) || in.Rating.GreaterThan(ratingMax) {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Please enter a comment")
	}

	var (
		ratings decimal.Decimal
		count   int
		created bool
	)
	err = uc.tx.RunReview(ctx, func(products repository.ProductRepository, reviews repository.ReviewRepository) error {
		p, err := products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.Errorf(domain.ErrNotFound, MsgProductNotFound)
		}
		now := time.Now().UTC()
		created, err = reviews.Upsert(ctx, &entity.Review{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			UserID:    user.ID,
			UserName:  user.Name,
			Rating:    in.Rating,
			Comment:   comment,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		ratings, count, err = uc.recompute(ctx, products, reviews, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)

	msg := "Review updated"
	if created {
		msg = "Review submitted"
	}
	return &dto.ReviewMutationResponse{Success: true, Message: msg, Ratings: ratings, NumOfReviews: count}, nil
}

// DeleteReview elimina una reseña por id y recalcula los agregados.
func (uc *ProductUseCase) DeleteReview(ctx context.Context, productID, reviewID string) (*dto.ReviewMutationResponse, error) {
	productID, err := ParseID(productID, "Product")
	if err != nil {
		return nil, err
	}
	reviewID, err = ParseID(reviewID, "Review")
	if err != nil {
		return nil, err
	}
	var (
		ratings decimal.Decimal
		count   int
	)
	err = uc.tx.RunReview(ctx, func(products repository.ProductRepository, reviews repository.ReviewRepository) error {
		p, err := products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.Errorf(domain.ErrNotFound, MsgProductNotFound)
		}
		ok, err := reviews.Delete(ctx, productID, reviewID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Errorf(domain.ErrNotFound, "Review not found")
		}
		ratings, count, err = uc.recompute(ctx, products, reviews, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return &dto.ReviewMutationResponse{Success: true, Message: "Review deleted", Ratings: ratings, NumOfReviews: count}, nil
}

// ListAllReviews todas las reseñas con nombre e imagen del producto (administración).
func (uc *ProductUseCase) ListAllReviews(ctx context.Context) ([]dto.AdminReviewResponse, error) {
	rows, err := uc.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminReviewResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AdminReviewResponse{
			ReviewResponse: dto.FromReview(r.Review),
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			ProductImage:   r.ProductImage,
		})
	}
	return out, nil
}

func (uc *ProductUseCase) recompute(ctx context.Context, products repository.ProductRepository, reviews repository.ReviewRepository, productID string) (decimal.Decimal, int, error) {
	list, err := reviews.ListByProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	ratings, count := entity.RecomputeRatings(list)
	if err := products.SetRatings(ctx, productID, ratings, count); err != nil {
		return decimal.Zero, 0, err
	}
	return ratings, count, nil
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	id, err := ParseID(id, "Product")
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Errorf(domain.ErrNotFound, MsgProductNotFound)
	}
	return p, nil
}

func (uc *ProductUseCase) storeImages(ctx context.Context, uploads []dto.Upload) ([]entity.ProductImage, error) {
	for _, up := range uploads {
		if _, ok := imageExtension(up); !ok {
			return nil, domain.Errorf(domain.ErrInvalidInput, "Unsupported file format")
		}
	}
	images := make([]entity.ProductImage, 0, len(uploads))
	for i, up := range uploads {
		ext, _ := imageExtension(up)
		ref, err := uc.storage.Put(ctx, productImageFolder, uuid.New().String()+ext, up.ContentType, up.Data)
		if err != nil {
			uc.discardImages(ctx, images)
			return nil, err
		}
		images = append(images, entity.ProductImage{ID: uuid.New().String(), URL: ref, Position: i})
	}
	return images, nil
}

func (uc *ProductUseCase) discardImages(ctx context.Context, images []entity.ProductImage) {
	for _, img := range images {
		if err := uc.storage.Delete(ctx, img.URL); err != nil {
			uc.log.Warn().Err(err).Str("ref", img.URL).Msg("no se pudo borrar la imagen")
		}
	}
}

func (uc *ProductUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Delete(ctx, productListCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché del catálogo")
	}
}

// imageExtension resuelve la extensión por content type y, si falta, por nombre de archivo.
func imageExtension(up dto.Upload) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(up.ContentType, ";", 2)[0]))
	if ext, ok := allowedImageTypes[ct]; ok {
		return ext, true
	}
	if ct == "" || ct == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(up.Filename)) {
		case ".jpg", ".jpeg":
			return ".jpg", true
		case ".png":
			return ".png", true
		}
	}
	return "", false
}

func validateNewProduct(in dto.ProductInput) error {
	switch {
	case in.Name == nil || strings.TrimSpace(*in.Name) == "":
		return domain.Errorf(domain.ErrInvalidInput, "Please enter product name")
	case in.Price == nil:
		return domain.Errorf(domain.ErrInvalidInput, "Please enter product price")
	case in.Description == nil || strings.TrimSpace(*in.Description) == "":
		return domain.Errorf(domain.ErrInvalidInput, "Please enter product description")
	case in.Category == nil || strings.TrimSpace(*in.Category) == "":
		return domain.Errorf(domain.ErrInvalidInput, "Please enter product category")
	case in.Seller == nil || strings.TrimSpace(*in.Seller) == "":
		return domain.Errorf(domain.ErrInvalidInput, "Please enter product seller")
	case in.Stock == nil:
		return domain.Errorf(domain.ErrInvalidInput, "Please enter product stock")
	case in.QuantityValue == nil || in.QuantityUnit == nil:
		return domain.Errorf(domain.ErrInvalidInput, "Please enter product quantity")
	}
	return checkProductFields(in)
}

// checkProductFields valida los campos presentes (alta y edición).
func checkProductFields(in dto.ProductInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Errorf(domain.ErrInvalidInput, "Please enter product name")
		}
		if utf8.RuneCountInString(name) > entity.MaxProductNameLength {
			return domain.Errorf(domain.ErrInvalidInput, "Product name cannot exceed 100 characters")
		}
	}
	if in.Price != nil && in.Price.IsNegative() {
		return domain.Errorf(domain.ErrInvalidInput, "Price cannot be negative")
	}
	if in.Category != nil && !entity.Category(strings.TrimSpace(*in.Category)).Valid() {
		return domain.Errorf(domain.ErrInvalidInput, "Please select correct category")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return domain.Errorf(domain.ErrInvalidInput, "Stock cannot be negative")
	}
	if in.QuantityValue != nil && in.QuantityValue.IsNegative() {
		return domain.Errorf(domain.ErrInvalidInput, "Quantity value cannot be negative")
	}
	if in.QuantityUnit != nil && !entity.Unit(strings.TrimSpace(*in.QuantityUnit)).Valid() {
		return domain.Errorf(domain.ErrInvalidInput, "Please select correct quantity unit")
	}
	return nil
}

func applyProductChanges(p *entity.Product, in dto.ProductInput) error {
	if err := checkProductFields(in); err != nil {
		return err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		p.Category = entity.Category(strings.TrimSpace(*in.Category))
	}
	if in.Seller != nil {
		p.Seller = strings.TrimSpace(*in.Seller)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.QuantityValue != nil {
		p.Quantity.Value = *in.QuantityValue
	}
	if in.QuantityUnit != nil {
		p.Quantity.Unit = entity.Unit(strings.TrimSpace(*in.QuantityUnit))
	}
	return nil
}
