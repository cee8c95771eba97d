package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// ProductHandler bundles dependencies for the catalog endpoints.  Cache may
// be nil when Redis is unavailable; the featured endpoint then always reads
// from the primary store.
type ProductHandler struct {
	Products *repository.ProductRepo
	Cache    *repository.ProductCache
}

func NewProductHandler(p *repository.ProductRepo, cache *repository.ProductCache) *ProductHandler {
	return &ProductHandler{Products: p, Cache: cache}
}

type createProductReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

// List handles GET /api/products (admin): the full catalog.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// Featured handles GET /api/products/featured (public).  The Redis cache is
// consulted first; on a miss the list is read from MongoDB and written back
// so the next request is served hot.
func (h *ProductHandler) Featured(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if h.Cache != nil {
		if products, err := h.Cache.Get(ctx); err == nil {
			return c.JSON(http.StatusOK, products)
		}
	}
	products, err := h.Products.ListFeatured(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	if h.Cache != nil {
		// A failed cache write is not worth failing the request over.
		_ = h.Cache.Set(ctx, products)
	}
	return c.JSON(http.StatusOK, products)
}

// ByCategory handles GET /api/products/category/:category (public).
func (h *ProductHandler) ByCategory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.ListByCategory(ctx, c.Param("category"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, products)
}

// Recommendations handles GET /api/products/recommendations (public):
// a small random sample of the catalog.
func (h *ProductHandler) Recommendations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.Sample(ctx, 3)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, products)
}

// Create handles POST /api/products (admin).
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Price <= 0 || strings.TrimSpace(req.Category) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, price and category are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Products.Create(ctx, model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    strings.TrimSpace(req.Category),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create product"})
	}
	return c.JSON(http.StatusCreated, p)
}

// ToggleFeatured handles PATCH /api/products/:id (admin): flip the featured
// flag and rewrite the featured cache so the public list stays consistent.
func (h *ProductHandler) ToggleFeatured(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	if err := h.Products.SetFeatured(ctx, p.ID, !p.IsFeatured); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	p.IsFeatured = !p.IsFeatured

	h.refreshFeaturedCache(ctx)
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/products/:id (admin).
func (h *ProductHandler) Delete(c echo.Context) error {
	oid, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Products.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.refreshFeaturedCache(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted successfully"})
}

// refreshFeaturedCache rewrites the cached featured list from the primary
// store.  Errors are swallowed: the cache self-heals on the next miss.
func (h *ProductHandler) refreshFeaturedCache(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	products, err := h.Products.ListFeatured(ctx)
	if err != nil {
		return
	}
	_ = h.Cache.Set(ctx, products)
}

// reqCtx bounds a store call to the request context with the standard
// timeout used across handlers.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
