package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/middleware"
	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
	"github.com/dookan/catalog-backend/services"
	syncsvc "github.com/dookan/catalog-backend/services/sync"
	"github.com/dookan/catalog-backend/shopify"
	"github.com/dookan/catalog-backend/validation"
)

// stubProductRepo implements repositories.ProductRepository with function
// fields so each test overrides only what it touches.
type stubProductRepo struct {
	create      func(ctx context.Context, p *models.Product) (*models.Product, error)
	get         func(ctx context.Context, id string) (*models.Product, error)
	update      func(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error)
	setShopify  func(ctx context.Context, id, sid string) (*models.Product, error)
	setStatus   func(ctx context.Context, id string, st models.SyncStatus) error
	replace     func(ctx context.Context, id string, s *models.Product) error
	softDelete  func(ctx context.Context, id string) (*models.Product, error)
	restore     func(ctx context.Context, id string) error
	hardDelete  func(ctx context.Context, id string) error
	list        func(ctx context.Context, opts repositories.ListOptions) (*models.ProductPage, error)
}

func (s *stubProductRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	return s.create(ctx, p)
}
func (s *stubProductRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.get(ctx, id)
}
func (s *stubProductRepo) Update(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	return s.update(ctx, id, u)
}
func (s *stubProductRepo) SetShopifyID(ctx context.Context, id, sid string) (*models.Product, error) {
	return s.setShopify(ctx, id, sid)
}
func (s *stubProductRepo) SetSyncStatus(ctx context.Context, id string, st models.SyncStatus) error {
	return s.setStatus(ctx, id, st)
}
func (s *stubProductRepo) Replace(ctx context.Context, id string, snap *models.Product) error {
	return s.replace(ctx, id, snap)
}
func (s *stubProductRepo) SoftDelete(ctx context.Context, id string) (*models.Product, error) {
	return s.softDelete(ctx, id)
}
func (s *stubProductRepo) Restore(ctx context.Context, id string) error { return s.restore(ctx, id) }
func (s *stubProductRepo) HardDelete(ctx context.Context, id string) error {
	return s.hardDelete(ctx, id)
}
func (s *stubProductRepo) List(ctx context.Context, opts repositories.ListOptions) (*models.ProductPage, error) {
	return s.list(ctx, opts)
}

type stubGateway struct {
	create func(ctx context.Context, f shopify.ProductFields) (string, error)
	update func(ctx context.Context, id string, f shopify.ProductFields) error
	delete func(ctx context.Context, id string) error
}

func (s *stubGateway) CreateProduct(ctx context.Context, f shopify.ProductFields) (string, error) {
	return s.create(ctx, f)
}
func (s *stubGateway) UpdateProduct(ctx context.Context, id string, f shopify.ProductFields) error {
	return s.update(ctx, id, f)
}
func (s *stubGateway) DeleteProduct(ctx context.Context, id string) error { return s.delete(ctx, id) }

type nopRecorder struct{}

func (nopRecorder) Record(*models.AuditEvent) {}

// authenticate fakes an authenticated session for handler tests
func authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithIdentity(r.Context(), services.Identity{ActorID: "u-1", ActorName: "Alice"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func productRouter(repo repositories.ProductRepository, gw syncsvc.Gateway) http.Handler {
	svc := syncsvc.NewService(repo, gw, nopRecorder{}, validation.New([]string{"cdn.shopify.com"}), zap.NewNop())
	h := NewProductHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(authenticate)
	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func TestProductCreate_Endpoint(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &stubProductRepo{
		create: func(ctx context.Context, p *models.Product) (*models.Product, error) {
			p.ID = id
			return p, nil
		},
		setShopify: func(ctx context.Context, gotID, sid string) (*models.Product, error) {
			require.Equal(t, id.Hex(), gotID)
			p := &models.Product{ID: id, Title: "Ceramic Mug", ShopifyID: sid, SyncStatus: models.SyncStatusSynced}
			return p, nil
		},
	}
	gw := &stubGateway{
		create: func(ctx context.Context, f shopify.ProductFields) (string, error) {
			return "gid://shopify/Product/42", nil
		},
	}

	body := `{"title":"Ceramic Mug","description":"A mug","price":19.99,"sku":"MUG-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	productRouter(repo, gw).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gid://shopify/Product/42", resp.Data.ShopifyID)
}

func TestProductCreate_ValidationErrorsItemized(t *testing.T) {
	repo := &stubProductRepo{}
	gw := &stubGateway{}

	body := `{"title":"ab","description":"A mug","price":19.999,"sku":"MUG-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	productRouter(repo, gw).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Details map[string][]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Details["errors"], 2)
}

func TestProductCreate_SyncFailure(t *testing.T) {
	hardDeleted := false
	id := primitive.NewObjectID()
	repo := &stubProductRepo{
		create: func(ctx context.Context, p *models.Product) (*models.Product, error) {
			p.ID = id
			return p, nil
		},
		hardDelete: func(ctx context.Context, gotID string) error {
			hardDeleted = true
			return nil
		},
	}
	gw := &stubGateway{
		create: func(ctx context.Context, f shopify.ProductFields) (string, error) {
			return "", assert.AnError
		},
	}

	body := `{"title":"Ceramic Mug","description":"A mug","price":19.99,"sku":"MUG-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	productRouter(repo, gw).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, hardDeleted)
	assert.Contains(t, rec.Body.String(), "sync_failed")
}

func TestProductGet_NotFound(t *testing.T) {
	repo := &stubProductRepo{
		get: func(ctx context.Context, id string) (*models.Product, error) {
			return nil, services.ErrProductNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()
	productRouter(repo, &stubGateway{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductUpdate_NoFields(t *testing.T) {
	snapshot := &models.Product{ID: primitive.NewObjectID(), Title: "Ceramic Mug"}
	repo := &stubProductRepo{
		get: func(ctx context.Context, id string) (*models.Product, error) { return snapshot, nil },
	}

	req := httptest.NewRequest(http.MethodPut, "/api/products/"+snapshot.ID.Hex(), bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	productRouter(repo, &stubGateway{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no fields to update")
}

func TestProductList_Endpoint(t *testing.T) {
	var gotOpts repositories.ListOptions
	repo := &stubProductRepo{
		list: func(ctx context.Context, opts repositories.ListOptions) (*models.ProductPage, error) {
			gotOpts = opts
			return &models.ProductPage{Products: []*models.Product{}, Page: opts.Page, PerPage: opts.PerPage}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products?page=2&per_page=5&sort_by=price&order=desc&q=mug", nil)
	rec := httptest.NewRecorder()
	productRouter(repo, &stubGateway{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotOpts.Page)
	assert.Equal(t, 5, gotOpts.PerPage)
	assert.Equal(t, "price", gotOpts.SortBy)
	assert.Equal(t, repositories.SortDesc, gotOpts.Order)
	assert.Equal(t, "mug", gotOpts.Search)
}

func TestProductDelete_Endpoint(t *testing.T) {
	product := &models.Product{ID: primitive.NewObjectID(), Title: "Ceramic Mug", ShopifyID: "gid://shopify/Product/42"}
	deletedRemotely := false
	repo := &stubProductRepo{
		get: func(ctx context.Context, id string) (*models.Product, error) { return product, nil },
		softDelete: func(ctx context.Context, id string) (*models.Product, error) {
			d := *product
			d.IsDeleted = true
			return &d, nil
		},
	}
	gw := &stubGateway{
		delete: func(ctx context.Context, id string) error {
			deletedRemotely = true
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+product.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	productRouter(repo, gw).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, deletedRemotely)
}
