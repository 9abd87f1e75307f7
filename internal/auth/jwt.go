package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yukikurage/task-assignment-api/internal/constants"
)

var (
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrWrongTokenType       = errors.New("wrong token type")
	ErrInvalidSubject       = errors.New("invalid token subject")
)

// Claims represents the JWT claims. The user ID travels in the registered
// subject claim.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidSubject
	}
	return id, nil
}

// JWTManager issues and validates access and refresh tokens.
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	audience      string
	now           func() time.Time
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer, audience string) *JWTManager {
	return &JWTManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
		audience:      audience,
		now:           time.Now,
	}
}

// GenerateAccessToken signs a short-lived access token for the user.
func (m *JWTManager) GenerateAccessToken(userID uint64) (string, time.Time, error) {
	return m.generate(userID, constants.TokenTypeAccess, m.accessSecret, m.accessTTL)
}

// GenerateRefreshToken signs a long-lived refresh token for the user.
func (m *JWTManager) GenerateRefreshToken(userID uint64) (string, time.Time, error) {
	return m.generate(userID, constants.TokenTypeRefresh, m.refreshSecret, m.refreshTTL)
}

func (m *JWTManager) ParseAccessToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, constants.TokenTypeAccess, m.accessSecret)
}

func (m *JWTManager) ParseRefreshToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, constants.TokenTypeRefresh, m.refreshSecret)
}

func (m *JWTManager) generate(userID uint64, tokenType string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (m *JWTManager) parse(tokenString, tokenType string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
