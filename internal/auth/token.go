package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/folio-erp/folio-erp/internal/shared"
)

// Claims is the JWT payload: the registered claims plus the identity the
// request handlers resolve companies from.
type Claims struct {
	UserID    int64 `json:"uid"`
	CompanyID int64 `json:"cid"`
	RoleID    int64 `json:"rid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (t *TokenIssuer) WithNow(now func() time.Time) {
	if now != nil {
		t.now = now
	}
}

// Issue signs an access token for the user.
func (t *TokenIssuer) Issue(user User) (TokenPair, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := Claims{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		RoleID:    user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses a signed token and returns the identity it carries.
func (t *TokenIssuer) Verify(tokenString string) (shared.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrTokenInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return shared.Identity{}, shared.ErrTokenInvalid
	}
	return shared.Identity{UserID: claims.UserID, CompanyID: claims.CompanyID, RoleID: claims.RoleID}, nil
}
