package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// CartUserStore is the slice of the user repository the cart endpoints
// mutate.  *repository.UserRepo implements it.
type CartUserStore interface {
	SetCartItems(ctx context.Context, userID bson.ObjectID, items []model.CartItem) error
}

// ProductFinder resolves cart lines to product documents.
// *repository.ProductRepo implements it.
type ProductFinder interface {
	GetByID(ctx context.Context, id string) (model.Product, error)
	ListByIDs(ctx context.Context, ids []bson.ObjectID) ([]model.Product, error)
}

// CartHandler operates on the cart embedded in the user document.  All
// routes are gated, so the current user is always present in context.
type CartHandler struct {
	Users    CartUserStore
	Products ProductFinder
}

func NewCartHandler(u CartUserStore, p ProductFinder) *CartHandler {
	return &CartHandler{Users: u, Products: p}
}

type cartItemReq struct {
	ProductID string `json:"productId"`
}
type cartQuantityReq struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/cart: join the embedded cart items with their
// product documents and attach quantities.
func (h *CartHandler) Get(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	ids := make([]bson.ObjectID, 0, len(u.CartItems))
	for _, it := range u.CartItems {
		ids = append(ids, it.ProductID)
	}
	products, err := h.Products.ListByIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	quantities := make(map[bson.ObjectID]int, len(u.CartItems))
	for _, it := range u.CartItems {
		quantities[it.ProductID] = it.Quantity
	}
	out := make([]model.CartProduct, 0, len(products))
	for _, p := range products {
		out = append(out, model.CartProduct{Product: p, Quantity: quantities[p.ID]})
	}
	return c.JSON(http.StatusOK, out)
}

// Add handles POST /api/cart: add a product to the cart or bump its
// quantity when it is already there.
func (h *CartHandler) Add(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	var req cartItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	pid, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The product must exist before it can be carted.
	if _, err := h.Products.GetByID(ctx, pid.Hex()); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	items := u.CartItems
	found := false
	for i := range items {
		if items[i].ProductID == pid {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.CartItem{ProductID: pid, Quantity: 1})
	}

	if err := h.Users.SetCartItems(ctx, u.ID, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Remove handles DELETE /api/cart: remove one product when a productId is
// given, otherwise empty the whole cart.
func (h *CartHandler) Remove(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	var req cartItemReq
	_ = c.Bind(&req)

	items := u.CartItems
	if req.ProductID == "" {
		items = []model.CartItem{}
	} else {
		pid, err := bson.ObjectIDFromHex(req.ProductID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
		}
		kept := items[:0]
		for _, it := range items {
			if it.ProductID != pid {
				kept = append(kept, it)
			}
		}
		items = kept
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SetCartItems(ctx, u.ID, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateQuantity handles PUT /api/cart/:id: set a cart line's quantity;
// zero removes the line entirely.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	pid, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req cartQuantityReq
	if err := c.Bind(&req); err != nil || req.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quantity"})
	}

	items := u.CartItems
	idx := -1
	for i := range items {
		if items[i].ProductID == pid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if req.Quantity == 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = req.Quantity
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SetCartItems(ctx, u.ID, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, items)
}
