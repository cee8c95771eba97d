package handler

import (
	"context" // provides context with cancellation for store calls
	"errors"
	"log"
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts and cookie lifetimes

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

// UserStore is the credential store contract the auth endpoints consume.
// *repository.UserRepo implements it; tests use in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// SessionStore maps a user id to its currently valid refresh token with a
// TTL.  *repository.SessionRepo implements it over Redis.
type SessionStore interface {
	Store(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

// AuthHandler bundles dependencies for the auth endpoints.  Publish, when
// set, is called after a successful signup; failures there never affect
// the HTTP response.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
	Publish  func(ctx context.Context, ev queue.UserRegisteredEvent) error
}

func NewAuthHandler(cfg config.Config, u UserStore, s SessionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) secure() bool { return h.Cfg.Env == "prod" }

// issueSession mints a token pair for the user, stores the refresh token in
// the session cache keyed by user id, and delivers both tokens as scoped
// cookies.  Storing overwrites any previous session for the user, so a new
// login invalidates refresh tokens held by other devices.
func (h *AuthHandler) issueSession(ctx context.Context, c echo.Context, userID string) error {
	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, userID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return err
	}
	refreshTTL := time.Duration(h.Cfg.RefreshTTLDays) * 24 * time.Hour
	if err := h.Sessions.Store(ctx, userID, refresh.Raw, refreshTTL); err != nil {
		return err
	}
	utils.SetTokenCookie(c, utils.CookieAccessToken, access.Raw,
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute, h.secure())
	utils.SetTokenCookie(c, utils.CookieRefreshToken, refresh.Raw, refreshTTL, h.secure())
	return nil
}

// Signup handles POST /api/auth/signup: create the account and log it in
// immediately, same as a successful login.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}

	if err := h.issueSession(ctx, c, u.ID.Hex()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
	}

	if h.Publish != nil {
		ev := queue.UserRegisteredEvent{
			UserID:       u.ID.Hex(),
			Email:        u.Email,
			Role:         u.Role,
			RegisteredAt: u.CreatedAt.Format(time.RFC3339),
		}
		// Fire and forget; the broker being down must not fail the signup.
		go func() {
			if err := h.Publish(context.Background(), ev); err != nil {
				log.Printf("auth: publish user.registered failed: %v", err)
			}
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":    u,
		"message": "user created successfully",
	})
}

// Login handles POST /api/auth/login.  An unknown email and a wrong
// password produce the same response so the endpoint cannot be used to
// enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	if !utils.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	if err := h.issueSession(ctx, c, u.ID.Hex()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
	}

	u.Password = ""
	return c.JSON(http.StatusOK, u)
}

// Logout handles POST /api/auth/logout.  When a refresh cookie is present
// and decodes, the session record is deleted; either way both credential
// cookies are cleared and the response is 200.  Clearing even without a
// refresh token removes any stray access cookie left on the client.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if cookie, err := c.Cookie(utils.CookieRefreshToken); err == nil && cookie.Value != "" {
		if userID, err := utils.ParseToken(h.Cfg.RefreshSecret, cookie.Value); err == nil {
			if err := h.Sessions.Delete(ctx, userID); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
			}
		}
	}

	utils.ClearTokenCookie(c, utils.CookieAccessToken, h.secure())
	utils.ClearTokenCookie(c, utils.CookieRefreshToken, h.secure())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

// Refresh handles POST /api/auth/refresh-token.  The presented refresh
// token must equal the one stored for the user; any mismatch means the
// session was superseded or revoked and is rejected with 403 even though
// the token's signature is still valid.  On success only a new access
// token is minted — the refresh token is not rotated — and the session
// record is re-stored to reset its TTL.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(utils.CookieRefreshToken)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no refresh token provided"})
	}

	userID, err := utils.ParseToken(h.Cfg.RefreshSecret, cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stored, err := h.Sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	if stored != cookie.Value {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid refresh token"})
	}

	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, userID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	refreshTTL := time.Duration(h.Cfg.RefreshTTLDays) * 24 * time.Hour
	if err := h.Sessions.Store(ctx, userID, cookie.Value, refreshTTL); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	utils.SetTokenCookie(c, utils.CookieAccessToken, access.Raw,
		time.Duration(h.Cfg.AccessTTLMin)*time.Minute, h.secure())
	return c.JSON(http.StatusOK, echo.Map{"message": "token refreshed successfully"})
}

// Profile handles GET /api/auth/profile (protected): return the identity
// the gate attached to the context.
func (h *AuthHandler) Profile(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, u)
}
