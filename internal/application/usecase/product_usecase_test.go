package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache caché en memoria que cuenta aciertos.
type mapCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	hits   int
	failed bool
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return nil, false, errors.New("cache caída")
	}
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return errors.New("cache caída")
	}
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return errors.New("cache caída")
	}
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

type catalogFixture struct {
	*repos
	uc    *usecase.ProductUseCase
	cache *mapCache
	root  string
}

func newCatalog(t *testing.T) *catalogFixture {
	t.Helper()
	r := newRepos()
	root := t.TempDir()
	disk, err := storage.NewLocalDisk(root, "/img")
	require.NoError(t, err)
	c := newMapCache()
	uc := usecase.NewProductUseCase(r.products, r.reviews, r.tx, disk, c, time.Minute, nil)
	return &catalogFixture{repos: r, uc: uc, cache: c, root: root}
}

func validInput() dto.ProductInput {
	return dto.ProductInput{
		Name:          strPtr("Gelatina de fresa"),
		Price:         decPtr("4.99"),
		Description:   strPtr("Gelatina sabor fresa"),
		Category:      strPtr(string(entity.CategoryJellies)),
		Seller:        strPtr("Brownson"),
		Stock:         intPtr(20),
		QuantityValue: decPtr("85"),
		QuantityUnit:  strPtr("g"),
		Images: []dto.Upload{
			{Filename: "a.png", ContentType: "image/png", Data: []byte("png")},
			{Filename: "b.jpeg", ContentType: "application/octet-stream", Data: []byte("jpg")},
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Alta, edición y baja
// ─────────────────────────────────────────────────────────────────────────────

func TestProductCreate_GuardaImagenesEnDisco(t *testing.T) {
	f := newCatalog(t)

	out, err := f.uc.Create(context.Background(), buyer, validInput())
	require.NoError(t, err)
	assert.Equal(t, "Gelatina de fresa", out.Name)
	assert.Equal(t, "4.99", out.Price.String())
	assert.Equal(t, 20, out.Stock)
	assert.True(t, out.Ratings.IsZero())
	require.Len(t, out.Images, 2)
	assert.True(t, strings.HasPrefix(out.Images[0].Image, "/img/product/"))
	assert.True(t, strings.HasSuffix(out.Images[0].Image, ".png"))
	assert.True(t, strings.HasSuffix(out.Images[1].Image, ".jpg"), "la extensión se deduce del nombre si el tipo es genérico")

	rel := strings.TrimPrefix(out.Images[0].Image, "/img/")
	_, err = os.Stat(filepath.Join(f.root, rel))
	assert.NoError(t, err)
}

func TestProductCreate_Validaciones(t *testing.T) {
	f := newCatalog(t)
	cases := []struct {
		name   string
		mutate func(*dto.ProductInput)
		msg    string
	}{
		{"sin nombre", func(in *dto.ProductInput) { in.Name = nil }, "Please enter product name"},
		{"nombre largo", func(in *dto.ProductInput) { in.Name = strPtr(strings.Repeat("x", 101)) }, "Product name cannot exceed 100 characters"},
		{"precio negativo", func(in *dto.ProductInput) { in.Price = decPtr("-1") }, "Price cannot be negative"},
		{"categoría desconocida", func(in *dto.ProductInput) { in.Category = strPtr("Helados") }, "Please select correct category"},
		{"stock negativo", func(in *dto.ProductInput) { in.Stock = intPtr(-3) }, "Stock cannot be negative"},
		{"unidad desconocida", func(in *dto.ProductInput) { in.QuantityUnit = strPtr("oz") }, "Please select correct quantity unit"},
		{"sin cantidad", func(in *dto.ProductInput) { in.QuantityValue = nil }, "Please enter product quantity"},
		{"formato de imagen", func(in *dto.ProductInput) {
			in.Images = []dto.Upload{{Filename: "a.gif", ContentType: "image/gif", Data: []byte("gif")}}
		}, "Unsupported file format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := f.uc.Create(context.Background(), buyer, in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, tc.msg, domain.PublicMessage(err, ""))
		})
	}

	all, err := f.products.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "ninguna entrada inválida persiste")
}

func TestProductUpdate_CamposParcialesEImagenes(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, buyer, validInput())
	require.NoError(t, err)

	upd, err := f.uc.Update(ctx, created.ID, dto.ProductInput{
		Price:  decPtr("5.50"),
		Images: []dto.Upload{{Filename: "c.jpg", ContentType: "image/jpeg", Data: []byte("c")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Gelatina de fresa", upd.Name, "los campos ausentes no cambian")
	assert.Equal(t, "5.5", upd.Price.String())
	assert.Len(t, upd.Images, 3, "sin imagesCleared las nuevas se agregan")

	oldRef := strings.TrimPrefix(upd.Images[0].Image, "/img/")
	upd, err = f.uc.Update(ctx, created.ID, dto.ProductInput{
		ImagesCleared: true,
		Images:        []dto.Upload{{Filename: "d.png", ContentType: "image/png", Data: []byte("d")}},
	})
	require.NoError(t, err)
	require.Len(t, upd.Images, 1)
	_, err = os.Stat(filepath.Join(f.root, oldRef))
	assert.True(t, os.IsNotExist(err), "las imágenes descartadas se borran del disco")
}

func TestProductUpdateYDelete_IDs(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, "abc", dto.ProductInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Update(ctx, uuid.New().String(), dto.ProductInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.Delete(ctx, uuid.New().String()), domain.ErrNotFound)
	_, err = f.uc.Get(ctx, "abc")
	assert.Equal(t, "Invalid Product ID format", domain.PublicMessage(err, ""))
}

func TestProductDelete_BorraImagenes(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	created, err := f.uc.Create(ctx, buyer, validInput())
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, created.ID))
	for _, img := range created.Images {
		_, err := os.Stat(filepath.Join(f.root, strings.TrimPrefix(img.Image, "/img/")))
		assert.True(t, os.IsNotExist(err))
	}
	_, err = f.uc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Caché del listado
// ─────────────────────────────────────────────────────────────────────────────

func TestProductList_UsaCacheEInvalidaAlEscribir(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	f.seedProduct(t, "flan", "3", 4)

	first, err := f.uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, f.cache.size())

	second, err := f.uc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.Equal(t, first[0].ID, second[0].ID)

	_, err = f.uc.Create(ctx, buyer, validInput())
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.size(), "el alta invalida el listado")

	third, err := f.uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}

func TestProductList_CacheCaidaNoRompeElListado(t *testing.T) {
	f := newCatalog(t)
	f.seedProduct(t, "flan", "3", 4)
	f.cache.failed = true

	out, err := f.uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

// ─────────────────────────────────────────────────────────────────────────────
// Reseñas
// ─────────────────────────────────────────────────────────────────────────────

func TestReviews_UnaPorUsuarioYMediaRecalculada(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	p := f.seedProduct(t, "esencia", "7", 3)
	ana := f.seedUser(t, "Ana", "ana@b.co", entity.RoleUser)
	luis := f.seedUser(t, "Luis", "luis@b.co", entity.RoleUser)

	res, err := f.uc.UpsertReview(ctx, ana, dto.ReviewRequest{ProductID: p.ID, Rating: decimal.NewFromInt(5), Comment: "excelente"})
	require.NoError(t, err)
	assert.Equal(t, "Review submitted", res.Message)
	assert.Equal(t, 1, res.NumOfReviews)

	res, err = f.uc.UpsertReview(ctx, luis, dto.ReviewRequest{ProductID: p.ID, Rating: decimal.NewFromInt(4), Comment: "bueno"})
	require.NoError(t, err)
	assert.Equal(t, "4.5", res.Ratings.String())

	res, err = f.uc.UpsertReview(ctx, ana, dto.ReviewRequest{ProductID: p.ID, Rating: decimal.NewFromInt(3), Comment: "cambié de opinión"})
	require.NoError(t, err)
	assert.Equal(t, "Review updated", res.Message)
	assert.Equal(t, 2, res.NumOfReviews)
	assert.Equal(t, "3.5", res.Ratings.String())

	reviews, err := f.uc.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	got, err := f.uc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.5", got.Ratings.String())
	assert.Equal(t, 2, got.NumOfReviews)

	all, err := f.uc.ListAllReviews(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "esencia", all[0].ProductName)

	var luisReview string
	for _, rv := range reviews {
		if rv.Comment == "bueno" {
			luisReview = rv.ID
		}
	}
	require.NotEmpty(t, luisReview)
	del, err := f.uc.DeleteReview(ctx, p.ID, luisReview)
	require.NoError(t, err)
	assert.Equal(t, 1, del.NumOfReviews)
	assert.Equal(t, "3", del.Ratings.String())

	_, err = f.uc.DeleteReview(ctx, p.ID, luisReview)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviews_Validaciones(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	p := f.seedProduct(t, "colorante", "2", 3)
	ana := f.seedUser(t, "Ana", "ana@b.co", entity.RoleUser)

	_, err := f.uc.UpsertReview(ctx, ana, dto.ReviewRequest{ProductID: p.ID, Rating: decimal.NewFromInt(6), Comment: "x"})
	assert.Equal(t, "Rating must be between 1 and 5", domain.PublicMessage(err, ""))
	_, err = f.uc.UpsertReview(ctx, ana, dto.ReviewRequest{ProductID: p.ID, Rating: decimal.NewFromInt(0), Comment: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.UpsertReview(ctx, ana, dto.ReviewRequest{ProductID: p.ID, Rating: decimal.NewFromInt(4), Comment: "   "})
	assert.Equal(t, "Please enter a comment", domain.PublicMessage(err, ""))
	_, err = f.uc.UpsertReview(ctx, ana, dto.ReviewRequest{ProductID: uuid.New().String(), Rating: decimal.NewFromInt(4), Comment: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.uc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumOfReviews)
}
