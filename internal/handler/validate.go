package handler

import (
	"net/mail"
	"strings"

	"github.com/iliyamo/session-auth/internal/service"
)

// maxPasswordBytes is bcrypt's input limit; longer passwords would be
// silently truncated.
const maxPasswordBytes = 72

func validateSignup(req signupReq) (service.SignupInput, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return service.SignupInput{}, service.Validation("name is required")
	}
	email, err := validEmail(req.Email)
	if err != nil {
		return service.SignupInput{}, err
	}
	if err := validPassword(req.Password); err != nil {
		return service.SignupInput{}, err
	}
	return service.SignupInput{Name: name, Email: email, Password: req.Password}, nil
}

func validateLogin(req loginReq) (service.LoginInput, error) {
	email, err := validEmail(req.Email)
	if err != nil {
		return service.LoginInput{}, err
	}
	if err := validPassword(req.Password); err != nil {
		return service.LoginInput{}, err
	}
	return service.LoginInput{Email: email, Password: req.Password}, nil
}

// validEmail accepts a bare address only, no display name.
func validEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", service.Validation("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", service.Validation("email is invalid")
	}
	return email, nil
}

func validPassword(p string) error {
	switch {
	case p == "":
		return service.Validation("password is required")
	case len(p) > maxPasswordBytes:
		return service.Validation("password is too long")
	}
	return nil
}
