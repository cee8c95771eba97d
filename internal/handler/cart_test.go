package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// fakeCartUsers records the last cart written through SetCartItems.
type fakeCartUsers struct {
	saved    []model.CartItem
	savedSet bool
}

func (f *fakeCartUsers) SetCartItems(_ context.Context, _ bson.ObjectID, items []model.CartItem) error {
	f.saved = items
	f.savedSet = true
	return nil
}

// fakeProducts is an in-memory ProductFinder keyed by hex id.
type fakeProducts map[string]model.Product

func (f fakeProducts) GetByID(_ context.Context, id string) (model.Product, error) {
	p, ok := f[id]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (f fakeProducts) ListByIDs(_ context.Context, ids []bson.ObjectID) ([]model.Product, error) {
	out := []model.Product{}
	for _, id := range ids {
		if p, ok := f[id.Hex()]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// callAs invokes a handler with the given user attached to context, the way
// the auth gate would, plus an optional :id path parameter.
func callAs(t *testing.T, u model.User, h echo.HandlerFunc, method, body, paramID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", u)
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func cartFixture() (model.User, fakeProducts, bson.ObjectID, bson.ObjectID) {
	p1 := bson.NewObjectID()
	p2 := bson.NewObjectID()
	products := fakeProducts{
		p1.Hex(): {ID: p1, Name: "mug", Price: 9.99},
		p2.Hex(): {ID: p2, Name: "shirt", Price: 19.99},
	}
	u := model.User{
		ID:   bson.NewObjectID(),
		Role: model.RoleCustomer,
		CartItems: []model.CartItem{
			{ProductID: p1, Quantity: 2},
			{ProductID: p2, Quantity: 1},
		},
	}
	return u, products, p1, p2
}

func TestCartUpdateQuantityZeroRemovesLine(t *testing.T) {
	u, products, p1, p2 := cartFixture()
	users := &fakeCartUsers{}
	h := NewCartHandler(users, products)

	rec := callAs(t, u, h.UpdateQuantity, http.MethodPut, `{"quantity":0}`, p1.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !users.savedSet {
		t.Fatal("cart should have been persisted")
	}
	if len(users.saved) != 1 || users.saved[0].ProductID != p2 {
		t.Fatalf("quantity 0 should remove the line, saved: %+v", users.saved)
	}
}

func TestCartUpdateQuantitySetsValue(t *testing.T) {
	u, products, p1, _ := cartFixture()
	users := &fakeCartUsers{}
	h := NewCartHandler(users, products)

	rec := callAs(t, u, h.UpdateQuantity, http.MethodPut, `{"quantity":5}`, p1.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(users.saved) != 2 || users.saved[0].Quantity != 5 {
		t.Fatalf("expected quantity updated to 5, saved: %+v", users.saved)
	}
}

func TestCartUpdateQuantityUnknownItem(t *testing.T) {
	u, products, _, _ := cartFixture()
	users := &fakeCartUsers{}
	h := NewCartHandler(users, products)

	rec := callAs(t, u, h.UpdateQuantity, http.MethodPut, `{"quantity":3}`, bson.NewObjectID().Hex())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if users.savedSet {
		t.Fatal("cart must not be written when the item is not in it")
	}
}

func TestCartAddIncrementsExistingLine(t *testing.T) {
	u, products, p1, _ := cartFixture()
	users := &fakeCartUsers{}
	h := NewCartHandler(users, products)

	rec := callAs(t, u, h.Add, http.MethodPost, `{"productId":"`+p1.Hex()+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(users.saved) != 2 || users.saved[0].Quantity != 3 {
		t.Fatalf("expected existing line bumped to 3, saved: %+v", users.saved)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	u, products, _, _ := cartFixture()
	users := &fakeCartUsers{}
	h := NewCartHandler(users, products)

	rec := callAs(t, u, h.Add, http.MethodPost, `{"productId":"`+bson.NewObjectID().Hex()+`"}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if users.savedSet {
		t.Fatal("cart must not be written for a product that does not exist")
	}
}

func TestCartRemoveWithoutProductIDClearsCart(t *testing.T) {
	u, products, _, _ := cartFixture()
	users := &fakeCartUsers{}
	h := NewCartHandler(users, products)

	rec := callAs(t, u, h.Remove, http.MethodDelete, `{}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !users.savedSet || len(users.saved) != 0 {
		t.Fatalf("expected an emptied cart, saved: %+v", users.saved)
	}
}
