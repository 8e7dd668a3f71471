package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by tokens issued by the identity service. This engine only
// verifies and reads them; issuing tokens is not its concern.
type Claims struct {
	ActorID string
	Role    string
}

func VerifyJWT(tokenString string, secret []byte) (*jwt.Token, error) {
	jwtToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !jwtToken.Valid {
		return nil, errors.New("token invalid")
	}

	return jwtToken, nil
}

func GetClaimsFromToken(token *jwt.Token) (*Claims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	actorID, ok := mapClaims["actor_id"].(string)
	if !ok || actorID == "" {
		return nil, errors.New("actor_id claim missing")
	}

	role, _ := mapClaims["role"].(string)

	return &Claims{ActorID: actorID, Role: role}, nil
}
