package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

// fakeUserStore is an in-memory UserStore mirroring the repository
// semantics: unique emails, password hashed on create, lookups by hex id.
type fakeUserStore struct {
	byEmail map[string]model.User
	byID    map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]model.User{}, byID: map[string]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, name, email, password string, cost int) (model.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return model.User{}, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:        bson.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hash,
		CartItems: []model.CartItem{},
		Role:      model.RoleCustomer,
		CreatedAt: time.Now().UTC(),
	}
	f.byEmail[email] = u
	f.byID[u.ID.Hex()] = u
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	u.Password = ""
	return u, nil
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *repository.SessionRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)
	sessions := repository.NewSessionRepo(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	cfg := config.Config{
		Env:            "test",
		AccessSecret:   "test-access-secret",
		RefreshSecret:  "test-refresh-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
	}
	return NewAuthHandler(cfg, newFakeUserStore(), sessions), sessions
}

// call invokes a handler with a JSON body and optional cookies, returning
// the recorder for inspection.
func call(t *testing.T, h echo.HandlerFunc, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, "/", reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

const signupBody = `{"name":"A","email":"a@x.com","password":"secret1"}`

func TestSignupSetsSessionAndCookies(t *testing.T) {
	h, sessions := newTestAuthHandler(t)

	rec := call(t, h.Signup, signupBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret1") {
		t.Fatal("response must not leak the password")
	}

	access := responseCookie(rec, utils.CookieAccessToken)
	refresh := responseCookie(rec, utils.CookieRefreshToken)
	if access == nil || refresh == nil {
		t.Fatal("both token cookies should be set")
	}
	if !access.HttpOnly || access.SameSite != http.SameSiteStrictMode {
		t.Fatal("access cookie must be httpOnly and SameSite=Strict")
	}
	if access.MaxAge != int((15 * time.Minute).Seconds()) {
		t.Fatalf("access cookie MaxAge = %d, want 900", access.MaxAge)
	}
	if refresh.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Fatalf("refresh cookie MaxAge = %d, want 604800", refresh.MaxAge)
	}

	// The session cache must now hold exactly the refresh token delivered
	// to the client.
	userID, err := utils.ParseToken(h.Cfg.RefreshSecret, refresh.Value)
	if err != nil {
		t.Fatalf("refresh cookie does not verify: %v", err)
	}
	stored, err := sessions.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("session Get: %v", err)
	}
	if stored != refresh.Value {
		t.Fatal("stored refresh token differs from the cookie value")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	if rec := call(t, h.Signup, signupBody); rec.Code != http.StatusCreated {
		t.Fatalf("first signup: status = %d", rec.Code)
	}
	rec := call(t, h.Signup, signupBody)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLoginDoesNotRevealWhichCheckFailed(t *testing.T) {
	h, _ := newTestAuthHandler(t)
	call(t, h.Signup, signupBody)

	unknown := call(t, h.Login, `{"email":"nobody@x.com","password":"secret1"}`)
	wrongPw := call(t, h.Login, `{"email":"a@x.com","password":"wrong"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", unknown.Code, wrongPw.Code)
	}
	// Identical bodies prevent user enumeration.
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", unknown.Body.String(), wrongPw.Body.String())
	}
}

func TestLoginSuccessAfterSignup(t *testing.T) {
	h, sessions := newTestAuthHandler(t)
	call(t, h.Signup, signupBody)

	rec := call(t, h.Login, `{"email":"a@x.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	refresh := responseCookie(rec, utils.CookieRefreshToken)
	if refresh == nil {
		t.Fatal("login should set a refresh cookie")
	}
	userID, err := utils.ParseToken(h.Cfg.RefreshSecret, refresh.Value)
	if err != nil {
		t.Fatalf("refresh cookie does not verify: %v", err)
	}
	if _, err := sessions.Get(context.Background(), userID); err != nil {
		t.Fatalf("no session record after login: %v", err)
	}
}

func TestSecondLoginInvalidatesFirstRefreshToken(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	first := call(t, h.Signup, signupBody)
	firstRefresh := responseCookie(first, utils.CookieRefreshToken)

	second := call(t, h.Login, `{"email":"a@x.com","password":"secret1"}`)
	secondRefresh := responseCookie(second, utils.CookieRefreshToken)

	// The superseded token still has a valid signature but no longer
	// matches the stored session, so refresh is forbidden.
	rec := call(t, h.Refresh, "", firstRefresh)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stale refresh: status = %d, want 403", rec.Code)
	}

	rec = call(t, h.Refresh, "", secondRefresh)
	if rec.Code != http.StatusOK {
		t.Fatalf("current refresh: status = %d, want 200", rec.Code)
	}
}

func TestRefreshWithoutCookie(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	rec := call(t, h.Refresh, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	forged, err := utils.NewRefreshToken("attacker-secret", "u1", 7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	rec := call(t, h.Refresh, "", &http.Cookie{Name: utils.CookieRefreshToken, Value: forged.Raw})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRefreshMintsAccessOnly(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	signup := call(t, h.Signup, signupBody)
	refresh := responseCookie(signup, utils.CookieRefreshToken)

	rec := call(t, h.Refresh, "", refresh)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if responseCookie(rec, utils.CookieAccessToken) == nil {
		t.Fatal("refresh should set a new access cookie")
	}
	// The refresh token is not rotated in this flow.
	if responseCookie(rec, utils.CookieRefreshToken) != nil {
		t.Fatal("refresh must not rotate the refresh cookie")
	}
}

func TestLogoutDeletesSessionAndClearsCookies(t *testing.T) {
	h, sessions := newTestAuthHandler(t)

	signup := call(t, h.Signup, signupBody)
	refresh := responseCookie(signup, utils.CookieRefreshToken)
	userID, _ := utils.ParseToken(h.Cfg.RefreshSecret, refresh.Value)

	rec := call(t, h.Logout, "", refresh)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, name := range []string{utils.CookieAccessToken, utils.CookieRefreshToken} {
		ck := responseCookie(rec, name)
		if ck == nil || ck.MaxAge >= 0 || ck.Value != "" {
			t.Fatalf("cookie %s should be cleared, got %+v", name, ck)
		}
	}
	if _, err := sessions.Get(context.Background(), userID); err == nil {
		t.Fatal("session record should be deleted after logout")
	}

	// The old refresh token must no longer refresh.
	rec = call(t, h.Refresh, "", refresh)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("refresh after logout: status = %d, want 403", rec.Code)
	}
}

func TestLogoutWithoutCookieStillSucceedsAndClears(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	rec := call(t, h.Logout, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// Even with no refresh token, any stray access cookie is cleared.
	if ck := responseCookie(rec, utils.CookieAccessToken); ck == nil || ck.MaxAge >= 0 {
		t.Fatal("access cookie should be cleared on bare logout")
	}
}
