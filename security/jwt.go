package security

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Verifier turns an access credential into the id of the user it was issued for.
type Verifier interface {
	Verify(token string) (uint, error)
}

type JWT struct {
	secret []byte
}

func NewJWT(secret []byte) *JWT {
	return &JWT{secret: secret}
}

func (j *JWT) VerifyJwtToken(token string) (jwt.MapClaims, error) {
	tokenParse, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := tokenParse.Claims.(jwt.MapClaims)
	if !ok || !tokenParse.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify checks signature and expiry and returns the user_id claim.
func (j *JWT) Verify(token string) (uint, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}
	claims, err := j.VerifyJwtToken(token)
	if err != nil {
		return 0, err
	}
	return UserIDFromClaims(claims)
}

// UserIDFromClaims reads user_id, which issuers encode either as a JSON number or a string.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	switch v := claims["user_id"].(type) {
	case float64:
		if v <= 0 || v != float64(uint(v)) {
			return 0, ErrInvalidToken
		}
		return uint(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return 0, ErrInvalidToken
		}
		return uint(id), nil
	default:
		return 0, ErrInvalidToken
	}
}
