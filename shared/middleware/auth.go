package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/apexcharge/paddock/shared/domain"
	jwt_internal "github.com/apexcharge/paddock/shared/jwt"
	"github.com/apexcharge/paddock/shared/logger"
	"github.com/apexcharge/paddock/shared/utils"
)

const AccessTokenCookie = "accessToken"

type key int

const actorKey key = 0

var errNoToken = errors.New("no token")

type Auth struct {
	jwtService    jwt_internal.JwtService
	secureCookies bool
}

func NewAuth(jwtService jwt_internal.JwtService, secureCookies bool) *Auth {
	return &Auth{jwtService: jwtService, secureCookies: secureCookies}
}

// NeedAuth rejects requests without a valid session.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth attaches the actor when the token is valid and lets guests through otherwise.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor, err := a.extractActor(r); err == nil {
				r = r.WithContext(WithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Auth) extractActor(r *http.Request) (*domain.Actor, error) {
	var tokenString string
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}
	if tokenString == "" {
		return nil, errNoToken
	}
	return a.jwtService.DecodeActor(tokenString)
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := a.extractActor(r)
			if err != nil {
				switch {
				case errors.Is(err, errNoToken):
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errors.Is(err, jwt_internal.ErrInvalidClaims):
					logger.Log.Warn("invalid jwt claims", "component", "http")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if adminOnly && !actor.IsAdmin() {
				http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// SetSessionCookie stores token in the access cookie.
func (a *Auth) SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    token,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) ClearSessionCookie(w http.ResponseWriter) {
	a.SetSessionCookie(w, "", -1)
}

func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActorFromContext returns the signed-in actor, or nil for a guest.
func GetActorFromContext(r *http.Request) *domain.Actor {
	actor, _ := r.Context().Value(actorKey).(*domain.Actor)
	return actor
}
