package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"portal/internal/entity"
)

// ErrTokenExpired marks a structurally valid, correctly signed token whose
// expiry has elapsed. Callers distinguish it from other parse failures so
// clients can be told to log in again.
var ErrTokenExpired = errors.New("token expired")

// ErrInvalidToken covers every other verification failure: bad signature,
// malformed structure, unexpected signing method, empty claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims for authenticated requests. The subject is
// the account id; the role claim records the role at issuance time and is
// never trusted for authorization (the live account is re-read instead).
type Claims struct {
	UserID uint        `json:"uid"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager encapsulates JWT generation and validation.
type Manager struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewManager creates a new JWT manager.
func NewManager(secret, issuer string, expiry time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if expiry <= 0 {
		expiry = time.Minute * 60
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "portal"
	}
	return &Manager{
		secret: []byte(trimmed),
		issuer: issuer,
		expiry: expiry,
	}, nil
}

// IssueToken signs a time-bounded credential for the provided account.
// Issuance is a pure computation; it never touches the store.
func (m *Manager) IssueToken(user *entity.DbUser) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("jwt manager is nil")
	}
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("invalid user for token generation")
	}
	now := time.Now().UTC()
	expiry := now.Add(m.expiry)

	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// ParseToken validates signature and expiry and returns the claims. Expiry
// is reported as ErrTokenExpired; everything else as ErrInvalidToken.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	return m.parseTokenAt(tokenString, nil)
}

// parseTokenAt is ParseToken with an injectable clock. A token is expired
// once the verification instant reaches exp; no leeway is configured, so
// exp == now already fails.
func (m *Manager) parseTokenAt(tokenString string, now func() time.Time) (*Claims, error) {
	if m == nil {
		return nil, errors.New("jwt manager is nil")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}
	parser := jwt.NewParser(opts...)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
