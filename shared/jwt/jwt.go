package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/apexcharge/paddock/shared/domain"
	internal_errors "github.com/apexcharge/paddock/shared/errors"
	"github.com/apexcharge/paddock/shared/logger"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidClaims = errors.New("invalid claims")

type JwtService interface {
	NewToken(actor domain.Actor) (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
	DecodeActor(jwtStr string) (*domain.Actor, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(actor domain.Actor) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = actor.Id
	claims["email"] = actor.Email
	claims["name"] = actor.Name
	claims["role"] = string(actor.Role)
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}

	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	return token, nil
}

// DecodeActor validates the token and rebuilds the identity it was issued for.
func (j *Jwt) DecodeActor(jwtStr string) (*domain.Actor, error) {
	token, err := j.DecodeToken(jwtStr)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return nil, ErrInvalidClaims
	}
	role, _ := claims["role"].(string)
	if role != string(domain.RoleAdmin) && role != string(domain.RoleUser) {
		return nil, ErrInvalidClaims
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &domain.Actor{Id: uid, Email: email, Name: name, Role: domain.Role(role)}, nil
}
