package auth

import (
	"errors"
	"fmt"
	"time"

	"jobready-portal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims carried by an access token
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService issues and validates the signed bearer tokens used on
// protected routes. Tokens are self-contained; there is no server-side
// session table, so logout is a client-side token discard.
type JWTService struct {
	secretKey []byte
	issuer    string
	expiry    time.Duration
}

// ValidationError represents a token validation failure
type ValidationError struct {
	Message string
	Code    string
}

func (e ValidationError) Error() string {
	return e.Message
}

var (
	ErrTokenExpired   = ValidationError{Message: "Token has expired", Code: "TOKEN_EXPIRED"}
	ErrTokenInvalid   = ValidationError{Message: "Invalid token", Code: "TOKEN_INVALID"}
	ErrTokenMalformed = ValidationError{Message: "Token is malformed", Code: "TOKEN_MALFORMED"}
)

// NewJWTService creates a new JWT service
func NewJWTService(cfg *config.Config) *JWTService {
	return &JWTService{
		secretKey: []byte(cfg.JWT.Secret),
		issuer:    "jobready-portal",
		expiry:    cfg.JWT.Expiry,
	}
}

// GenerateToken generates a signed token encoding the user identifier
func (js *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    js.issuer,
			Subject:   userID.String(),
			Audience:  []string{"jobready-portal-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(js.expiry)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(js.secretKey)
}

// ValidateToken validates and parses a token
func (js *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return js.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// ExtractTokenFromBearer extracts the token from a Bearer authorization header
func ExtractTokenFromBearer(authHeader string) string {
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}

// TokenExpiry returns the configured token lifetime
func (js *JWTService) TokenExpiry() time.Duration {
	return js.expiry
}
