package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// CouponStore is the coupon repository contract the handlers consume.
// *repository.CouponRepo implements it.
type CouponStore interface {
	GetActiveForUser(ctx context.Context, userID bson.ObjectID) (model.Coupon, error)
	GetByCodeForUser(ctx context.Context, code string, userID bson.ObjectID) (model.Coupon, error)
	Deactivate(ctx context.Context, id bson.ObjectID) error
}

// CouponHandler serves the per-user discount code endpoints.  Both routes
// are gated.
type CouponHandler struct {
	Coupons CouponStore
}

func NewCouponHandler(r CouponStore) *CouponHandler {
	return &CouponHandler{Coupons: r}
}

type validateCouponReq struct {
	Code string `json:"code"`
}

// Get handles GET /api/coupons: the current user's active coupon, or null
// when they have none.
func (h *CouponHandler) Get(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	coupon, err := h.Coupons.GetActiveForUser(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, coupon)
}

// Validate handles POST /api/coupons/validate.  A coupon found past its
// expiration date is deactivated on the spot and reported as expired.
func (h *CouponHandler) Validate(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	var req validateCouponReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	coupon, err := h.Coupons.GetByCodeForUser(ctx, req.Code, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coupon not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	if coupon.ExpirationDate.Before(time.Now().UTC()) {
		_ = h.Coupons.Deactivate(ctx, coupon.ID)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "coupon expired"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":            "coupon is valid",
		"code":               coupon.Code,
		"discountPercentage": coupon.DiscountPercentage,
	})
}
