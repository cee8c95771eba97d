package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/ecommerce-backend/internal/handler"    // import the handlers that implement business logic
    "github.com/iliyamo/ecommerce-backend/internal/middleware" // import middleware for the auth gate and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, which
// load balancers and monitoring systems use to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session protocol endpoints under /api/auth.
// Signup, login, logout and refresh operate on cookies and need no gate;
// the limiter shields the credential endpoints from brute-force attempts.
// Profile requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, protect, limit echo.MiddlewareFunc) {
    g := e.Group("/api/auth")
    // Credential endpoints are rate limited per client IP.
    g.POST("/signup", a.Signup, limit)
    g.POST("/login", a.Login, limit)
    // Logout clears cookies whether or not a refresh token is present.
    g.POST("/logout", a.Logout)
    // Refresh mints a new access token; the refresh token is not rotated.
    g.POST("/refresh-token", a.Refresh)
    // Profile is the canonical protected endpoint returning the identity
    // resolved by the gate.
    g.GET("/profile", a.Profile, protect)
}

// RegisterProducts registers the catalog endpoints.  Featured, category and
// recommendation listings are public storefront routes; everything that
// mutates the catalog — and the full listing — requires an admin.
func RegisterProducts(e *echo.Echo, p *handler.ProductHandler, protect echo.MiddlewareFunc) {
    admin := middleware.RequireAdmin()

    g := e.Group("/api/products")
    g.GET("", p.List, protect, admin)
    g.GET("/featured", p.Featured)
    g.GET("/category/:category", p.ByCategory)
    g.GET("/recommendations", p.Recommendations)
    g.POST("", p.Create, protect, admin)
    g.PATCH("/:id", p.ToggleFeatured, protect, admin)
    g.DELETE("/:id", p.Delete, protect, admin)
}

// RegisterCart registers the cart endpoints.  Every route is gated: the
// cart lives on the authenticated user's document.
func RegisterCart(e *echo.Echo, h *handler.CartHandler, protect echo.MiddlewareFunc) {
    g := e.Group("/api/cart", protect)
    g.GET("", h.Get)
    g.POST("", h.Add)
    g.DELETE("", h.Remove)
    g.PUT("/:id", h.UpdateQuantity)
}

// RegisterCoupons registers the coupon endpoints, both gated since coupons
// are bound to the requesting user.
func RegisterCoupons(e *echo.Echo, h *handler.CouponHandler, protect echo.MiddlewareFunc) {
    g := e.Group("/api/coupons", protect)
    g.GET("", h.Get)
    g.POST("/validate", h.Validate)
}
