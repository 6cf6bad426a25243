package service

import (
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/apexcharge/paddock/shared/domain"
	"github.com/apexcharge/paddock/shared/errors"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordRunes = 4

type AuthService interface {
	Login(email, password string) (string, domain.Actor, error)
}

type Jwt interface {
	NewToken(actor domain.Actor) (string, error)
}

type AdminList interface {
	IsAdminEmail(email string) bool
}

// Auth is a mock login: any well formed email with a long enough password
// gets a session. Nothing is stored.
type Auth struct {
	jwt    Jwt
	admins AdminList
}

func NewAuth(jwt Jwt, admins AdminList) *Auth {
	return &Auth{jwt: jwt, admins: admins}
}

func (a *Auth) Login(email, password string) (string, domain.Actor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) || utf8.RuneCountInString(strings.TrimSpace(password)) < minPasswordRunes {
		return "", domain.Actor{}, &errors.ErrorWithStatusCode{
			Message:    "Invalid credentials",
			StatusCode: http.StatusUnauthorized,
		}
	}

	actor := domain.Actor{
		// Same email, same id across logins.
		Id:    uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Email: email,
		Name:  email[:strings.IndexByte(email, '@')],
		Role:  domain.RoleUser,
	}
	if a.admins.IsAdminEmail(email) {
		actor.Role = domain.RoleAdmin
	}

	token, err := a.jwt.NewToken(actor)
	if err != nil {
		return "", domain.Actor{}, err
	}
	return token, actor, nil
}
