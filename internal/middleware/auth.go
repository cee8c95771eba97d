package middleware // middleware provides shared request processing for handlers

import (
    "context"  // context carries deadlines into the user lookup
    "net/http" // HTTP status codes for responses
    "time"     // timeout for the credential store call

    "github.com/labstack/echo/v4" // Echo framework used for middleware and handlers

    "github.com/iliyamo/ecommerce-backend/internal/model"
    "github.com/iliyamo/ecommerce-backend/internal/repository"
    "github.com/iliyamo/ecommerce-backend/internal/utils"
)

// userContextKey is where the gate stores the resolved identity.  Handlers
// retrieve it with CurrentUser.
const userContextKey = "user"

// UserFinder is the slice of the credential store the gate needs.  The
// concrete implementation is *repository.UserRepo; tests substitute fakes.
type UserFinder interface {
    GetByID(ctx context.Context, id string) (model.User, error)
}

// Protect returns the authentication gate applied to every protected route.
// Per request it walks a fixed sequence and answers a distinct 401 at each
// step so clients can tell "refresh the access token" apart from
// "re-authenticate":
//
//  1. read the accessToken cookie — absent means no credentials at all
//  2. verify signature and expiry with the access secret
//  3. load the user by the decoded id — this catches accounts deleted or
//     deactivated after the token was issued, and tampered identifiers
//  4. attach the identity (password hash excluded by the store projection)
//     to the request context and continue
func Protect(accessSecret string, users UserFinder) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie(utils.CookieAccessToken)
            if err != nil || cookie.Value == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no access token provided"})
            }

            userID, err := utils.ParseToken(accessSecret, cookie.Value)
            if err != nil {
                // Expired is reported separately so the client knows to hit
                // the refresh endpoint instead of the login form.
                if err == utils.ErrTokenExpired {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token expired"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid access token"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            u, err := users.GetByID(ctx, userID)
            if err != nil {
                if err == repository.ErrUserNotFound {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
            }

            c.Set(userContextKey, u)
            return next(c)
        }
    }
}

// CurrentUser returns the identity attached by Protect.  The boolean is
// false when the route was not gated.
func CurrentUser(c echo.Context) (model.User, bool) {
    u, ok := c.Get(userContextKey).(model.User)
    return u, ok
}
