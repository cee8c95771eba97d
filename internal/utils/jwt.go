package utils // package utils provides helpers for token issuance and hashing

import (
    "crypto/rand"   // secure random number generation for the jti claim
    "encoding/hex"  // hex encoding of random bytes
    "errors"        // sentinel error definitions and matching
    "time"          // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ParseToken failure kinds.  The auth gate and the refresh flow branch on
// these with errors.Is: an expired-but-well-signed token tells the client
// to refresh, anything else tells it to re-authenticate.
var (
    ErrTokenExpired = errors.New("token expired")
    ErrTokenInvalid = errors.New("token invalid")
)

// Token bundles a signed JWT string with its expiration time.  The expiry
// is echoed into the cookie max-age so both fall due together.
type Token struct {
    Raw string    // the serialized JWT string
    Exp time.Time // the UTC expiration time
}

// NewAccessToken signs a short-lived HS256 JWT for a user.  The claims are
// the user identifier (userId), expiration (exp) and issued at (iat).
// Access tokens are stateless: they are never stored server-side and remain
// valid until their natural expiry.
func NewAccessToken(secret, userID string, ttlMin int) (Token, error) {
    return newToken(secret, userID, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken signs a long-lived JWT with the same claim shape but a
// separate secret.  The current valid instance per user is persisted in the
// session cache; supersession there invalidates a token before its expiry.
func NewRefreshToken(secret, userID string, ttlDays int) (Token, error) {
    return newToken(secret, userID, time.Duration(ttlDays)*24*time.Hour)
}

func newToken(secret, userID string, ttl time.Duration) (Token, error) {
    // HS256 signing is deterministic and exp/iat only have second
    // granularity, so a random jti is what makes every issued token
    // distinct.  Without it, two logins within the same second would mint
    // byte-identical refresh tokens and the session cache overwrite could
    // not supersede the earlier one.
    jti, err := randomHex(16)
    if err != nil {
        return Token{}, err
    }
    exp := time.Now().UTC().Add(ttl)
    claims := jwt.MapClaims{
        "userId": userID,
        "jti":    jti,
        "exp":    exp.Unix(),
        "iat":    time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return Token{}, err
    }
    return Token{Raw: signed, Exp: exp}, nil
}

// ParseToken verifies a token against the given secret and returns the
// userId claim.  Expired tokens yield ErrTokenExpired; every other failure
// (bad signature, wrong algorithm, malformed input, missing claim) yields
// ErrTokenInvalid.  Verifying with the wrong secret — e.g. a refresh token
// presented where an access token belongs — is a signature failure.
func ParseToken(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject any token not signed with HMAC before touching the claims.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return "", ErrTokenExpired
        }
        return "", ErrTokenInvalid
    }
    if !tok.Valid {
        return "", ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", ErrTokenInvalid
    }
    userID, ok := claims["userId"].(string)
    if !ok || userID == "" {
        return "", ErrTokenInvalid
    }
    return userID, nil
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.  If the random number generator
// fails, an error is returned and token issuance is aborted.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
