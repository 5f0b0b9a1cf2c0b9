package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/marketpay/internal/model"
)

type Claims struct {
	ProfileID string `json:"profile_id,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Parser validates HMAC-signed access tokens. Admin tokens carry only a
// role claim; profile_id is optional.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(token string) (*model.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("token is missing role claim")
	}

	principal := &model.Principal{Role: claims.Role}
	if claims.ProfileID != "" {
		id, err := uuid.Parse(claims.ProfileID)
		if err != nil {
			return nil, fmt.Errorf("invalid profile_id claim: %w", err)
		}
		principal.ProfileID = id
	}
	return principal, nil
}
