package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// DefaultTokenTTL is how long an access token stays valid after issuance.
const DefaultTokenTTL = time.Hour

var (
	// ErrMissingSecret is returned by Issue when no signing secret was configured.
	ErrMissingSecret = errors.New("jwt signing secret is not configured")
	// ErrInvalidToken covers every verification failure: bad signature,
	// malformed structure, wrong algorithm or an expiry in the past.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the JWT body.  UserID is serialized as "userId" next to the
// registered iat and exp claims.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenPayload is the decoded content of a verified token.
type TokenPayload struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 access tokens with a secret that is
// fixed at construction.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds a TokenIssuer.  A non-positive ttl falls back to
// DefaultTokenTTL.  An empty secret is accepted here so that the login flow
// can report the misconfiguration itself; Issue refuses to sign with it.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Configured reports whether a signing secret is present.
func (i *TokenIssuer) Configured() bool {
	return i != nil && len(i.secret) > 0
}

// Issue builds and signs a token for userID that expires TTL from now.
func (i *TokenIssuer) Issue(userID string) (AccessToken, error) {
	if !i.Configured() {
		return AccessToken{}, ErrMissingSecret
	}
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify checks signature and expiry of raw and returns its payload.  Any
// failure is reported as ErrInvalidToken.
func (i *TokenIssuer) Verify(raw string) (TokenPayload, error) {
	if !i.Configured() {
		return TokenPayload{}, ErrInvalidToken
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			// Reject anything not signed with HMAC.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid || claims.UserID == "" {
		return TokenPayload{}, ErrInvalidToken
	}
	p := TokenPayload{UserID: claims.UserID, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	return p, nil
}

// ExtractBearer returns the token carried by an Authorization header value.
// The header must start with "Bearer " and the token is the first field
// after the prefix.  Shape is not validated here.
func ExtractBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	rest := strings.TrimPrefix(header, "Bearer ")
	token, _, _ := strings.Cut(rest, " ")
	if token == "" {
		return "", false
	}
	return token, true
}
