// Package web serves the server-rendered pages.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"estatehub/internal/auth"
	"estatehub/internal/config"
	"estatehub/internal/i18n"
	"estatehub/internal/imaging"
	"estatehub/internal/logging"
	"estatehub/internal/store"
)

// Uploader stores listing photos. *storage.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type Options struct {
	Store   *store.Store
	Storage Uploader
	Auth    *auth.Manager
	Logger  *zap.Logger
	Site    *config.Site
	Images  *config.ImagePolicy
}

// Server holds the dependencies shared by every handler. It is read-only
// once NewServer returns.
type Server struct {
	store   *store.Store
	storage Uploader
	auth    *auth.Manager
	log     *zap.Logger
	site    *config.Site
	pages   map[string]compiledPage
	icon    []byte
	echo    *echo.Echo
}

func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil || opts.Auth == nil {
		return nil, errors.New("web: store and auth are required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	site := opts.Site
	if site == nil {
		site = config.DefaultSite()
	}
	images := opts.Images
	if images == nil {
		images = config.NewImagePolicy(site)
	}

	pages, errs := parsePages(templateFuncs(images), pageSources)
	if len(errs) > 0 {
		names := make([]string, 0, len(errs))
		for name := range errs {
			names = append(names, name)
		}
		sort.Strings(names)
		if !site.Build.IgnoreTemplateErrors {
			return nil, errs[names[0]]
		}
		for _, name := range names {
			log.Warn("page template disabled", zap.Error(errs[name]))
		}
	}

	icon, err := imaging.Icon()
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:   opts.Store,
		storage: opts.Storage,
		auth:    opts.Auth,
		log:     log,
		site:    site,
		pages:   pages,
		icon:    icon,
	}
	s.echo = s.newEcho()
	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(logging.Middleware(s.log))
	e.Use(s.auth.Session())

	e.GET("/", s.home)
	e.GET("/health", s.health)
	e.GET("/icon.png", s.favicon)

	e.GET("/properties", s.properties)
	e.GET("/properties/:id", s.property)
	e.GET("/complexes", s.complexes)
	e.GET("/complexes/:id", s.complex)
	e.GET("/agents", s.agents)
	e.GET("/agents/:id", s.agent)

	e.GET("/login", s.loginForm)
	e.POST("/login", s.login)
	e.GET("/register", s.registerForm)
	e.POST("/register", s.register)
	e.POST("/logout", s.logout)

	requireUser := auth.RequireUser()
	e.GET("/profile", s.profile, requireUser)
	e.POST("/favorites/:id", s.addFavorite, requireUser)
	e.POST("/favorites/:id/delete", s.removeFavorite, requireUser)
	if s.site.Experimental.ServerActions {
		e.POST("/properties/:id/images", s.uploadImage, requireUser)
	}

	e.GET("/admin/recent", s.adminRecent, auth.RequireAdmin())

	return e
}

// page is the data every template receives.
type page struct {
	Title string
	User  *auth.SessionUser
	L     i18n.Localizer
	Data  interface{}
}

func (s *Server) page(c echo.Context, title string, data interface{}) page {
	p := page{Title: title, L: i18n.FromRequest(c.Request()), Data: data}
	if u, ok := auth.CurrentUser(c); ok {
		p.User = &u
	}
	return p
}

func (s *Server) render(c echo.Context, status int, name string, p page) error {
	compiled, ok := s.pages[name]
	if !ok {
		return fmt.Errorf("page %s is not available", name)
	}
	var buf bytes.Buffer
	if err := compiled.tmpl.ExecuteTemplate(&buf, compiled.layout, p); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return c.HTMLBlob(status, buf.Bytes())
}

type statusView struct {
	Heading   string
	Link      string
	LinkLabel string
}

// handleError turns handler errors into the generic error pages.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Request().URL.Path), zap.Error(err))
	}

	var renderErr error
	switch {
	case code == http.StatusNotFound:
		renderErr = s.render(c, code, "not_found", s.page(c, "Not found", statusView{
			Heading:   "Page not found",
			Link:      "/",
			LinkLabel: "EstateHub",
		}))
	case code >= http.StatusInternalServerError:
		renderErr = s.render(c, code, "error", s.page(c, "Error", statusView{Heading: "Something went wrong."}))
	default:
		msg := http.StatusText(code)
		if httpErr != nil {
			if m, ok := httpErr.Message.(string); ok {
				msg = m
			}
		}
		renderErr = c.String(code, msg)
	}
	if renderErr != nil {
		s.log.Error("failed to render error page", zap.Error(renderErr))
		_ = c.String(code, http.StatusText(code))
	}
}
