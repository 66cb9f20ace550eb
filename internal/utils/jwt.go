package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "strconv"
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned by VerifyAccessToken when the token cannot be
// parsed, its signature does not match, or it has expired.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are encoded in the
// Authorization header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Identity is the result of verifying an access token: the user it was
// issued to and that user's role at issue time.
type Identity struct {
    UserID uint64
    Role   string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the user's role, and a TTL in minutes.  It
// returns an AccessToken structure containing the signed token and its
// expiration time.  The JWT includes standard claims: subject (sub), role,
// expiration (exp) and issued at (iat).
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    // Calculate the expiration time by adding the TTL to the current UTC time.
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    // Sign the token with the provided secret and obtain the string form.  If
    // signing fails, return the error and a zero AccessToken.
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken parses and validates a signed token and extracts the
// identity embedded in its claims.  It enforces the HMAC signing method so
// tokens signed with a different algorithm are rejected.  Expired tokens
// fail validation inside jwt.Parse.  Any failure maps to ErrInvalidToken so
// callers need not distinguish parse, signature and expiry errors.
func VerifyAccessToken(secret, raw string) (Identity, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return Identity{}, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Identity{}, ErrInvalidToken
    }
    id := Identity{}
    // JSON numbers decode as float64; tolerate string subjects as well.
    switch sub := claims["sub"].(type) {
    case float64:
        id.UserID = uint64(sub)
    case string:
        n, err := strconv.ParseUint(sub, 10, 64)
        if err != nil {
            return Identity{}, ErrInvalidToken
        }
        id.UserID = n
    default:
        return Identity{}, ErrInvalidToken
    }
    role, ok := claims["role"].(string)
    if !ok || role == "" {
        return Identity{}, ErrInvalidToken
    }
    id.Role = role
    return id, nil
}
