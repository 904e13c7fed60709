package web

import (
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"estatehub/internal/auth"
	"estatehub/internal/models"
	"estatehub/internal/store"
)

type loginView struct {
	Email string
	Next  string
	Error string
}

type registerView struct {
	Name  string
	Email string
	Error string
}

// localPath accepts only same-site paths so redirects cannot leave the site.
func localPath(raw, host string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Host != "" && u.Host != host {
		return "", false
	}
	if !strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	// Browsers read "/\host" like "//host".
	if len(u.Path) > 1 && (u.Path[1] == '/' || u.Path[1] == '\\') {
		return "", false
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery, true
	}
	return u.Path, true
}

func (s *Server) loginForm(c echo.Context) error {
	return s.render(c, http.StatusOK, "login", s.page(c, "Sign in", loginView{Next: c.QueryParam("next")}))
}

func (s *Server) login(c echo.Context) error {
	view := loginView{Email: c.FormValue("email"), Next: c.FormValue("next")}

	u, err := s.store.UserByEmail(c.Request().Context(), view.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		err = auth.ErrInvalidCredentials
	case err == nil:
		err = auth.CheckPassword(u.PasswordHash, c.FormValue("password"))
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		view.Error = "Invalid email or password."
		return s.render(c, http.StatusUnauthorized, "login", s.page(c, "Sign in", view))
	}
	if err != nil {
		return err
	}

	if err := s.auth.SetSession(c, auth.NewSessionUser(u)); err != nil {
		return err
	}
	target := "/profile"
	if next, ok := localPath(view.Next, ""); ok {
		target = next
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) registerForm(c echo.Context) error {
	return s.render(c, http.StatusOK, "register", s.page(c, "Create account", registerView{}))
}

func (s *Server) register(c echo.Context) error {
	view := registerView{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Email: strings.TrimSpace(c.FormValue("email")),
	}
	password := c.FormValue("password")

	switch {
	case view.Name == "":
		view.Error = "Name is required."
	case !validEmail(view.Email):
		view.Error = "Enter a valid email address."
	case len(password) < 8:
		view.Error = "Password must be at least 8 characters."
	}
	if view.Error != "" {
		return s.render(c, http.StatusBadRequest, "register", s.page(c, "Create account", view))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := &models.User{Name: view.Name, Email: view.Email, PasswordHash: hash, Role: models.RoleUser}
	err = s.store.CreateUser(c.Request().Context(), u)
	if errors.Is(err, store.ErrDuplicateEmail) {
		view.Error = "An account with this email already exists."
		return s.render(c, http.StatusConflict, "register", s.page(c, "Create account", view))
	}
	if err != nil {
		return err
	}

	if err := s.auth.SetSession(c, auth.NewSessionUser(u)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/profile")
}

func (s *Server) logout(c echo.Context) error {
	auth.ClearSession(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
