package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"estatehub/internal/auth"
	"estatehub/internal/i18n"
	"estatehub/internal/imaging"
	"estatehub/internal/models"
	"estatehub/internal/store"
	"estatehub/internal/ui"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) favicon(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/png", s.icon)
}

func (s *Server) home(c echo.Context) error {
	featured, err := s.store.FeaturedProperties(c.Request().Context(), store.ModeratedOnly)
	if err != nil {
		return err
	}
	return s.render(c, http.StatusOK, "home", s.page(c, "Home", featured))
}

type searchView struct {
	SearchBar *ui.SearchBar
	Sort      ui.Dropdown
	Results   []models.Property
}

func sortDropdown(l i18n.Localizer, value store.SortOrder, onChange func(string)) ui.Dropdown {
	options := make([]ui.Option, len(store.SortOrders))
	for i, o := range store.SortOrders {
		options[i] = ui.Option{Label: l.T("sort_" + string(o)), Value: string(o)}
	}
	return ui.Dropdown{Name: "sort", Options: options, Value: string(value), OnChange: onChange}
}

// properties runs a search submitted by the search bar and sort dropdown.
func (s *Server) properties(c echo.Context) error {
	ctx := c.Request().Context()
	p := s.page(c, "Properties", nil)

	order := store.SortNewest
	dropdown := sortDropdown(p.L, order, func(v string) { order = store.ParseSort(v) })
	if raw := c.QueryParam("sort"); raw != "" {
		dropdown.Select(raw)
	}

	var (
		results   []models.Property
		searchErr error
	)
	bar := ui.NewSearchBar("q", p.L.T("search_placeholder"), p.L.T("search"), func(q string) {
		results, searchErr = s.store.SearchProperties(ctx, q, order)
	})
	bar.Type(c.QueryParam("q"))
	bar.Submit()
	if searchErr != nil {
		return searchErr
	}

	p.Data = searchView{
		SearchBar: bar,
		Sort:      sortDropdown(p.L, order, nil),
		Results:   results,
	}
	return s.render(c, http.StatusOK, "properties", p)
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

type propertyView struct {
	Property  *models.Property
	Favorite  bool
	CanUpload bool
}

func (s *Server) propertyNotFound(c echo.Context) error {
	p := s.page(c, "Not found", nil)
	p.Data = statusView{
		Heading:   p.L.T("property_not_found"),
		Link:      "/properties",
		LinkLabel: p.L.T("back_to_properties"),
	}
	return s.render(c, http.StatusNotFound, "property_not_found", p)
}

func (s *Server) propertyError(c echo.Context, err error) error {
	s.log.Error("failed to load property", zap.String("id", c.Param("id")), zap.Error(err))
	p := s.page(c, "Error", nil)
	p.Data = statusView{Heading: p.L.T("property_error")}
	return s.render(c, http.StatusInternalServerError, "property_error", p)
}

func canManage(u *auth.SessionUser, prop *models.Property) bool {
	return u != nil && (u.ID == prop.OwnerID || u.IsAdmin())
}

func (s *Server) property(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return s.propertyNotFound(c)
	}
	ctx := c.Request().Context()

	prop, err := s.store.PropertyByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return s.propertyNotFound(c)
	}
	if err != nil {
		return s.propertyError(c, err)
	}

	p := s.page(c, prop.Title, nil)
	if !prop.Published() && !canManage(p.User, prop) {
		return s.propertyNotFound(c)
	}

	view := propertyView{
		Property:  prop,
		CanUpload: s.storage != nil && s.site.Experimental.ServerActions && canManage(p.User, prop),
	}
	if p.User != nil {
		view.Favorite, err = s.store.IsFavorite(ctx, p.User.ID, prop.ID)
		if err != nil {
			return s.propertyError(c, err)
		}
	}
	p.Data = view
	return s.render(c, http.StatusOK, "property", p)
}

func (s *Server) complexes(c echo.Context) error {
	list, err := s.store.Complexes(c.Request().Context())
	if err != nil {
		return err
	}
	return s.render(c, http.StatusOK, "complexes", s.page(c, "Residential complexes", list))
}

func (s *Server) complexNotFound(c echo.Context) error {
	p := s.page(c, "Not found", nil)
	p.Data = statusView{
		Heading:   p.L.T("complex_not_found"),
		Link:      "/complexes",
		LinkLabel: p.L.T("back_to_complexes"),
	}
	return s.render(c, http.StatusNotFound, "complex_not_found", p)
}

func (s *Server) complex(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return s.complexNotFound(c)
	}

	cx, err := s.store.ComplexByID(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return s.complexNotFound(c)
	}
	if err != nil {
		s.log.Error("failed to load complex", zap.Uint("id", id), zap.Error(err))
		p := s.page(c, "Error", nil)
		p.Data = statusView{Heading: p.L.T("complex_error")}
		return s.render(c, http.StatusInternalServerError, "complex_error", p)
	}
	return s.render(c, http.StatusOK, "complex", s.page(c, cx.Name, cx))
}

func (s *Server) agents(c echo.Context) error {
	list, err := s.store.Agents(c.Request().Context())
	if err != nil {
		return err
	}
	return s.render(c, http.StatusOK, "agents", s.page(c, "Agents", list))
}

type agentView struct {
	Agent    *models.Agent
	Listings []models.Property
}

func (s *Server) agent(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()

	a, err := s.store.AgentByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	listings, err := s.store.AgentListings(ctx, a)
	if err != nil {
		return err
	}
	return s.render(c, http.StatusOK, "agent", s.page(c, a.Name, agentView{Agent: a, Listings: listings}))
}

type profileView struct {
	Owned     []models.Property
	Favorites []models.Property
}

// profile shows the owner's listings next to the buyer dashboard. It is
// never cached.
func (s *Server) profile(c echo.Context) error {
	p := s.page(c, "Profile", nil)
	c.Response().Header().Set("Cache-Control", "no-store")

	var view profileView
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		view.Owned, err = s.store.OwnerProperties(ctx, p.User.ID)
		return err
	})
	g.Go(func() error {
		var err error
		view.Favorites, err = s.store.Favorites(ctx, p.User.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	p.Data = view
	return s.render(c, http.StatusOK, "profile", p)
}

func (s *Server) adminRecent(c echo.Context) error {
	recent, err := s.store.FeaturedProperties(c.Request().Context(), store.AllListings)
	if err != nil {
		return err
	}
	return s.render(c, http.StatusOK, "admin_recent", s.page(c, "Recent listings", recent))
}

func redirectBack(c echo.Context, fallback string) error {
	target := fallback
	if ref := c.Request().Referer(); ref != "" {
		if path, ok := localPath(ref, c.Request().Host); ok {
			target = path
		}
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) addFavorite(c echo.Context) error {
	u, _ := auth.CurrentUser(c)
	id, ok := parseID(c)
	if !ok {
		return echo.ErrNotFound
	}
	err := s.store.AddFavorite(c.Request().Context(), u.ID, id)
	if errors.Is(err, store.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return redirectBack(c, fmt.Sprintf("/properties/%d", id))
}

func (s *Server) removeFavorite(c echo.Context) error {
	u, _ := auth.CurrentUser(c)
	id, ok := parseID(c)
	if !ok {
		return echo.ErrNotFound
	}
	if err := s.store.RemoveFavorite(c.Request().Context(), u.ID, id); err != nil {
		return err
	}
	return redirectBack(c, "/profile")
}

// uploadImage stores a photo for a listing. Only the owner or an admin may
// upload.
func (s *Server) uploadImage(c echo.Context) error {
	if s.storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "image storage is not configured")
	}
	id, ok := parseID(c)
	if !ok {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()

	prop, err := s.store.PropertyByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	u, _ := auth.CurrentUser(c)
	if !canManage(&u, prop) {
		return echo.NewHTTPError(http.StatusForbidden, "only the owner can add photos")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	maxBytes := int64(s.site.Experimental.ImageUploadSize) << 20
	up, err := imaging.PrepareUpload(f, maxBytes)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, imaging.ErrUnsupported):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported image format")
	case err != nil:
		return err
	}

	key := fmt.Sprintf("properties/%d/%s%s", prop.ID, uuid.NewString(), up.Ext)
	url, err := s.storage.Upload(ctx, key, up.ContentType, bytes.NewReader(up.Data))
	if err != nil {
		return err
	}
	if _, err := s.store.AddImage(ctx, prop.ID, url, key); err != nil {
		return err
	}
	s.log.Info("image uploaded", zap.Uint("property_id", prop.ID), zap.String("key", key))
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/properties/%d", prop.ID))
}
