package web

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estatehub/internal/auth"
	"estatehub/internal/config"
	"estatehub/internal/i18n"
	"estatehub/internal/migration"
	"estatehub/internal/migrations"
	"estatehub/internal/models"
	"estatehub/internal/store"
)

type fakeUploader struct {
	keys []string
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://bucket.s3.eu-central-1.amazonaws.com/" + key, nil
}

type testEnv struct {
	t        *testing.T
	store    *store.Store
	auth     *auth.Manager
	uploader *fakeUploader
	server   *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	migrator, err := migration.NewMigrator(db, migrations.All()...)
	require.NoError(t, err)
	_, err = migrator.Up(context.Background())
	require.NoError(t, err)

	manager, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	site := config.DefaultSite()
	site.Experimental.ServerActions = true
	uploader := &fakeUploader{}
	st := store.New(db)

	srv, err := NewServer(Options{
		Store:   st,
		Storage: uploader,
		Auth:    manager,
		Site:    site,
		Images:  config.NewImagePolicy(site, "bucket.s3.eu-central-1.amazonaws.com"),
	})
	require.NoError(t, err)

	return &testEnv{t: t, store: st, auth: manager, uploader: uploader, server: srv}
}

func (e *testEnv) user(name string, role models.Role) *models.User {
	e.t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(e.t, err)
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: hash, Role: role}
	require.NoError(e.t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) property(owner *models.User, title string, moderated bool) *models.Property {
	e.t.Helper()
	p := &models.Property{
		Title:     title,
		City:      "Almaty",
		Price:     1250000,
		Rating:    models.RatingBPlus,
		Moderated: moderated,
		OwnerID:   owner.ID,
		Latitude:  43.238,
		Longitude: 76.945,
	}
	require.NoError(e.t, e.store.DB().Create(p).Error)
	return p
}

func (e *testEnv) do(method, target string, body io.Reader, as *models.User, header http.Header) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if as != nil {
		token, err := e.auth.GenerateJWT(auth.NewSessionUser(as))
		require.NoError(e.t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(target string, as *models.User) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, nil, as, nil)
}

func (e *testEnv) postForm(target string, form url.Values, as *models.User) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, target, strings.NewReader(form.Encode()), as,
		http.Header{echo.HeaderContentType: {echo.MIMEApplicationForm}})
}

func TestHomeShowsOnlyModeratedListings(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("olga", models.RoleUser)
	env.property(owner, "Approved loft", true)
	env.property(owner, "Pending loft", false)

	rec := env.get("/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Approved loft")
	assert.NotContains(t, body, "Pending loft")
	assert.Contains(t, body, "Rating B+")
	assert.Contains(t, body, "bg-blue-100 text-blue-800 border-blue-300")
}

func TestPropertyPage(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("olga", models.RoleUser)
	p := env.property(owner, "Approved loft", true)

	rec := env.get("/properties/"+itoa(p.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Approved loft")
	assert.Contains(t, body, "Show on map")
	assert.Contains(t, body, `data-lat="43.238"`)
	assert.Contains(t, body, "1,250,000")
	assert.NotContains(t, body, `action="/favorites/`)

	rec = env.get("/properties/"+itoa(p.ID), owner)
	assert.Contains(t, rec.Body.String(), `action="/favorites/`+itoa(p.ID)+`"`)
	assert.Contains(t, rec.Body.String(), `enctype="multipart/form-data"`)

	rec = env.do(http.MethodGet, "/properties/"+itoa(p.ID), nil, nil, http.Header{"Accept-Language": {"ru"}})
	assert.Contains(t, rec.Body.String(), "Показать на карте")
}

func TestPropertyNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("olga", models.RoleUser)
	pending := env.property(owner, "Pending loft", false)

	for _, target := range []string{"/properties/999", "/properties/abc", "/properties/" + itoa(pending.ID)} {
		rec := env.get(target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "Property not found", target)
		assert.Contains(t, rec.Body.String(), `href="/properties"`, target)
	}

	rec := env.get("/properties/"+itoa(pending.ID), owner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pending moderation")
}

func TestComplexPages(t *testing.T) {
	env := newTestEnv(t)
	c := &models.Complex{Name: "Esentai City", City: "Almaty"}
	require.NoError(t, env.store.DB().Create(c).Error)

	rec := env.get("/complexes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Esentai City")

	rec = env.get("/complexes/"+itoa(c.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Esentai City")

	rec = env.get("/complexes/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Complex not found")
	assert.Contains(t, rec.Body.String(), `href="/complexes"`)
}

func TestDetailErrorPages(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.DB().Exec("DROP TABLE favorites").Error)
	require.NoError(t, env.store.DB().Exec("DROP TABLE images").Error)
	require.NoError(t, env.store.DB().Exec("DROP TABLE properties").Error)

	rec := env.get("/properties/1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong while loading this property.")
	assert.NotContains(t, rec.Body.String(), "retry")

	require.NoError(t, env.store.DB().Exec("DROP TABLE complexes").Error)
	rec = env.get("/complexes/1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong while loading this complex.")
}

func TestSearchPage(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("olga", models.RoleUser)
	env.property(owner, "Sunny flat", true)
	env.property(owner, "Garden house", true)

	rec := env.get("/properties?q=flat&sort=price_desc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Sunny flat")
	assert.NotContains(t, body, "Garden house")
	assert.Contains(t, body, `value="flat"`)
	assert.Contains(t, body, `<option value="price_desc" selected>`)
}

func TestProfileRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/profile", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=/profile", rec.Header().Get("Location"))
}

func TestProfileAndFavorites(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("olga", models.RoleUser)
	buyer := env.user("ivan", models.RoleUser)
	env.property(owner, "Olga's pending flat", false)
	listed := env.property(owner, "Olga's listed flat", true)

	rec := env.postForm("/favorites/"+itoa(listed.ID), nil, buyer)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/properties/"+itoa(listed.ID), rec.Header().Get("Location"))

	rec = env.get("/profile", buyer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "Olga&#39;s listed flat")
	assert.NotContains(t, rec.Body.String(), "Olga&#39;s pending flat")

	rec = env.get("/profile", owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Olga&#39;s pending flat")
	assert.Contains(t, rec.Body.String(), "Pending moderation")

	rec = env.postForm("/favorites/"+itoa(listed.ID)+"/delete", nil, buyer)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	favs, err := env.store.Favorites(context.Background(), buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)

	rec = env.postForm("/favorites/999", nil, buyer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRecent(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("olga", models.RoleUser)
	admin := env.user("root", models.RoleAdmin)
	env.property(owner, "Pending loft", false)

	rec := env.get("/admin/recent", owner)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.get("/admin/recent", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pending loft")
}

func TestAgentPages(t *testing.T) {
	env := newTestEnv(t)
	agent := env.user("anna", models.RoleAgent)
	buyer := env.user("ivan", models.RoleUser)
	require.NoError(t, env.store.DB().Create(&models.AgentProfile{UserID: agent.ID, Agency: "Prime Realty"}).Error)
	require.NoError(t, env.store.DB().Create(&models.Review{AgentID: agent.ID, AuthorID: buyer.ID, Score: 4}).Error)
	env.property(agent, "Agent listing", true)

	rec := env.get("/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prime Realty")
	assert.Contains(t, rec.Body.String(), "4.0 (1 reviews)")

	rec = env.get("/agents/"+itoa(agent.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Agent listing")

	rec = env.get("/agents/"+itoa(buyer.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginAndRegister(t *testing.T) {
	env := newTestEnv(t)
	env.user("olga", models.RoleUser)

	rec := env.get("/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "max-w-md")

	rec = env.postForm("/login", url.Values{"email": {"olga@example.com"}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")

	rec = env.postForm("/login", url.Values{
		"email":    {"olga@example.com"},
		"password": {"password123"},
		"next":     {"https://evil.example.com/"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, auth.CookieName, rec.Result().Cookies()[0].Name)

	for _, next := range []string{`/\evil.example.org/phish`, "//evil.example.org/phish", `\evil.example.org`} {
		rec = env.postForm("/login", url.Values{
			"email":    {"olga@example.com"},
			"password": {"password123"},
			"next":     {next},
		}, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, next)
		assert.Equal(t, "/profile", rec.Header().Get("Location"), next)
	}

	rec = env.postForm("/login", url.Values{
		"email":    {"olga@example.com"},
		"password": {"password123"},
		"next":     {"/properties?q=loft"},
	}, nil)
	assert.Equal(t, "/properties?q=loft", rec.Header().Get("Location"))

	rec = env.postForm("/register", url.Values{"name": {"Ivan"}, "email": {"ivan@example.com"}, "password": {"short"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.postForm("/register", url.Values{"name": {"Ivan"}, "email": {"olga@example.com"}, "password": {"long enough"}}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.postForm("/register", url.Values{"name": {"Ivan"}, "email": {"ivan@example.com"}, "password": {"long enough"}}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, err := env.store.UserByEmail(context.Background(), "ivan@example.com")
	assert.NoError(t, err)

	rec = env.postForm("/logout", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestFavicon(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get("/icon.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get("/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func uploadBody(t *testing.T) (io.Reader, string) {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("olga", models.RoleUser)
	stranger := env.user("ivan", models.RoleUser)
	p := env.property(owner, "Approved loft", true)
	target := "/properties/" + itoa(p.ID) + "/images"

	body, contentType := uploadBody(t)
	rec := env.do(http.MethodPost, target, body, stranger, http.Header{"Content-Type": {contentType}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.uploader.keys)

	body, contentType = uploadBody(t)
	rec = env.do(http.MethodPost, target, body, owner, http.Header{"Content-Type": {contentType}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, env.uploader.keys, 1)
	assert.True(t, strings.HasPrefix(env.uploader.keys[0], "properties/"+itoa(p.ID)+"/"))
	assert.True(t, strings.HasSuffix(env.uploader.keys[0], ".png"))

	got, err := env.store.PropertyByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)

	rec = env.get("/properties/"+itoa(p.ID), nil)
	assert.Contains(t, rec.Body.String(), `src="https://bucket.s3.eu-central-1.amazonaws.com/`+env.uploader.keys[0]+`"`)
}

func TestImagesOutsideAllowListAreDropped(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user("olga", models.RoleUser)
	p := env.property(owner, "Approved loft", true)
	_, err := env.store.AddImage(context.Background(), p.ID, "https://tracker.example.net/pixel.png", "x")
	require.NoError(t, err)

	rec := env.get("/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "tracker.example.net")
}

func TestNewServerTemplateErrors(t *testing.T) {
	broken := map[string]pageSource{"home": {"layout", `{{define "content"}}{{.Broken`}}
	_, errs := parsePages(templateFuncs(config.NewImagePolicy(nil)), broken)
	assert.Contains(t, errs, "home")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"/profile", "/profile", true},
		{"/properties?sort=price_asc", "/properties?sort=price_asc", true},
		{"http://estatehub.test/complexes/3", "/complexes/3", true},
		{"https://evil.example.org/", "", false},
		{"//evil.example.org/", "", false},
		{`/\evil.example.org/phish`, "", false},
		{"relative/path", "", false},
	}
	for _, tt := range tests {
		got, ok := localPath(tt.raw, "estatehub.test")
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestPriceFormatting(t *testing.T) {
	price, ok := templateFuncs(config.NewImagePolicy(nil))["price"].(func(i18n.Localizer, float64) string)
	require.True(t, ok)

	en := i18n.New("en")
	assert.Equal(t, "1,250,000", price(en, 1250000))
	assert.Equal(t, "1,500.75", price(en, 1500.75))
	assert.Equal(t, "0.50", price(en, 0.5))
}
