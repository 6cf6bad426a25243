package middleware

import (
	"net/http"

	"github.com/apexcharge/paddock/shared/middleware/ratelimiter"
	"github.com/apexcharge/paddock/shared/utils"
)

func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetActorFromContext(r).IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ActorOrIP keys signed-in actors by id and guests by client IP.
func ActorOrIP(r *http.Request) (string, error) {
	if actor := GetActorFromContext(r); actor != nil {
		return "actor:" + actor.Id, nil
	}
	ip, err := utils.GetIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + ip, nil
}
