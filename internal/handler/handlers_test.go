package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-tour/internal/config"
	"github.com/iliyamo/virtual-tour/internal/handler"
	"github.com/iliyamo/virtual-tour/internal/model"
	"github.com/iliyamo/virtual-tour/internal/repository"
	"github.com/iliyamo/virtual-tour/internal/router"
	"github.com/iliyamo/virtual-tour/internal/testutil"
)

const testSecret = "test-secret"

// testApp wires the real router against an in-memory database, seeded the
// same way main does: admin account plus the POI fixture.
type testApp struct {
	e         *echo.Echo
	users     *repository.UserRepo
	staticDir string
}

func newTestApp(t *testing.T, name string) *testApp {
	t.Helper()
	db := testutil.OpenInMemoryDB(t, name)
	users := repository.NewUserRepo(db)
	pois := repository.NewPOIRepo(db)
	posters := repository.NewPosterRepo(db)
	navs := repository.NewNavLinkRepo(db)

	ctx := context.Background()
	if err := users.EnsureAdmin(ctx, "admin", "password", 4); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := pois.ResetToFixture(ctx, repository.DefaultFixture()); err != nil {
		t.Fatalf("seed pois: %v", err)
	}

	cfg := config.Config{
		Env:           "test",
		Port:          "0",
		SessionSecret: testSecret,
		SessionTTLMin: 60,
		BcryptCost:    4,
		StaticDir:     t.TempDir(),
	}
	e := echo.New()
	router.Register(e, cfg, nil,
		handler.NewAuthHandler(cfg, users),
		handler.NewPublicHandler(pois, posters, navs),
		handler.NewAdminHandler(pois, posters, navs),
	)
	return &testApp{e: e, users: users, staticDir: cfg.StaticDir}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func formPost(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

// The seeded admin is the first row, so its id is 1.
func adminCookie(t *testing.T) *http.Cookie {
	return testutil.SessionCookie(t, testSecret, 1, true)
}

type sceneView struct {
	SceneID      string           `json:"scene_id"`
	Posters      []*model.Poster  `json:"posters"`
	NavLinks     []*model.NavLink `json:"nav_links"`
	SceneChoices []string         `json:"scene_choices"`
	IsAdmin      bool             `json:"is_admin"`
}

func (a *testApp) getScene(t *testing.T, sceneID string, cookie *http.Cookie) sceneView {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/tour/"+sceneID, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := a.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /tour/%s: status = %d, body %s", sceneID, rec.Code, rec.Body)
	}
	var view sceneView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode scene: %v", err)
	}
	return view
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, "app_health")
	rec := app.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("status = %d, body = %q", rec.Code, rec.Body.String())
	}
}

func TestIndexRedirectsToMap(t *testing.T) {
	app := newTestApp(t, "app_index")
	rec := app.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/map" {
		t.Errorf("status = %d, location = %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestMapListsFixture(t *testing.T) {
	app := newTestApp(t, "app_map")
	rec := app.do(httptest.NewRequest(http.MethodGet, "/map", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		POIs []*model.POI `json:"pois"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.POIs) != 7 {
		t.Errorf("pois = %d, want 7", len(body.POIs))
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t, "app_login")

	rec := app.do(formPost("/login", url.Values{"username": {"admin"}, "password": {"password"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Token   string `json:"token"`
		IsAdmin bool   `json:"is_admin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" || !body.IsAdmin {
		t.Errorf("unexpected login body: %s", rec.Body)
	}
	var sawCookie bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session" && ck.Value != "" && ck.HttpOnly {
			sawCookie = true
		}
	}
	if !sawCookie {
		t.Error("no HttpOnly session cookie set")
	}

	// Browser logins redirect to the map instead of returning JSON.
	req := formPost("/login", url.Values{"username": {"admin"}, "password": {"password"}})
	req.Header.Set("Accept", "text/html")
	rec = app.do(req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/map" {
		t.Errorf("html login: status = %d, location = %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t, "app_login_bad")

	for _, form := range []url.Values{
		{"username": {"admin"}, "password": {"wrong"}},
		{"username": {"ghost"}, "password": {"password"}},
	} {
		rec := app.do(formPost("/login", form))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("form %v: status = %d, want 401", form, rec.Code)
		}
	}

	rec := app.do(formPost("/login", url.Values{"username": {"admin"}}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing password: status = %d, want 400", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, "app_logout")

	rec := app.do(httptest.NewRequest(http.MethodGet, "/logout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous logout: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(adminCookie(t))
	rec = app.do(req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared")
	}
}

func TestAddNavAppearsInScene(t *testing.T) {
	app := newTestApp(t, "app_addnav")

	req := formPost("/add_nav", url.Values{
		"scene_id":        {"scene1"},
		"target_scene_id": {"scene2"},
		"pitch":           {"0.1"},
		"yaw":             {"1.2"},
		"label":           {"Next"},
	})
	req.AddCookie(adminCookie(t))
	rec := app.do(req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/tour/scene1" {
		t.Fatalf("status = %d, location = %q, body %s", rec.Code, rec.Header().Get(echo.HeaderLocation), rec.Body)
	}

	view := app.getScene(t, "scene1", nil)
	if len(view.NavLinks) != 1 {
		t.Fatalf("nav_links = %d, want 1", len(view.NavLinks))
	}
	n := view.NavLinks[0]
	if n.TargetSceneID != "scene2" || n.Label != "Next" || n.Pitch != 0.1 || n.Yaw != 1.2 {
		t.Errorf("unexpected link: %+v", n)
	}
	if n.Color != "#ffc107" {
		t.Errorf("color = %q, want default #ffc107", n.Color)
	}

	// The link belongs to scene1 only.
	if other := app.getScene(t, "scene2", nil); len(other.NavLinks) != 0 {
		t.Errorf("scene2 nav_links = %d, want 0", len(other.NavLinks))
	}
}

func TestAddPosterDefaultsAndValidation(t *testing.T) {
	app := newTestApp(t, "app_addposter")

	req := formPost("/add_poster", url.Values{
		"scene_id": {"scene3"},
		"text":     {"Reading Room"},
		"pitch":    {"-0.4"},
		"yaw":      {"2.0"},
	})
	req.AddCookie(adminCookie(t))
	rec := app.do(req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	view := app.getScene(t, "scene3", nil)
	if len(view.Posters) != 1 {
		t.Fatalf("posters = %d, want 1", len(view.Posters))
	}
	p := view.Posters[0]
	if p.Text != "Reading Room" || p.Scale != 1.0 || p.FontSize != 14.0 {
		t.Errorf("unexpected poster: %+v", p)
	}

	// Missing or unparseable pitch is a 400.
	for _, form := range []url.Values{
		{"scene_id": {"scene3"}, "yaw": {"1"}},
		{"scene_id": {"scene3"}, "pitch": {"up"}, "yaw": {"1"}},
	} {
		req := formPost("/add_poster", form)
		req.AddCookie(adminCookie(t))
		if rec := app.do(req); rec.Code != http.StatusBadRequest {
			t.Errorf("form %v: status = %d, want 400", form, rec.Code)
		}
	}
}

func TestUpdatePosterPartialOverHTTP(t *testing.T) {
	app := newTestApp(t, "app_updateposter")

	req := formPost("/add_poster", url.Values{
		"scene_id": {"scene1"},
		"text":     {"Before"},
		"color":    {"#112233"},
		"pitch":    {"0.5"},
		"yaw":      {"1.0"},
	})
	req.AddCookie(adminCookie(t))
	if rec := app.do(req); rec.Code != http.StatusSeeOther {
		t.Fatalf("add: status = %d", rec.Code)
	}
	id := app.getScene(t, "scene1", nil).Posters[0].ID

	// font_size only; everything else must stay.
	req = formPost("/update_poster", url.Values{
		"id":        {formatID(id)},
		"font_size": {"20"},
	})
	req.AddCookie(adminCookie(t))
	if rec := app.do(req); rec.Code != http.StatusSeeOther {
		t.Fatalf("update: status = %d, body %s", rec.Code, rec.Body)
	}

	p := app.getScene(t, "scene1", nil).Posters[0]
	if p.FontSize != 20 {
		t.Errorf("font_size = %v, want 20", p.FontSize)
	}
	if p.Text != "Before" || p.Color != "#112233" || p.Pitch != 0.5 || p.Yaw != 1.0 || p.Scale != 1.0 {
		t.Errorf("untouched fields changed: %+v", p)
	}

	// Unknown id is a 404, malformed id a 400.
	req = formPost("/update_poster", url.Values{"id": {"9999"}, "text": {"x"}})
	req.AddCookie(adminCookie(t))
	if rec := app.do(req); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
	req = formPost("/update_poster", url.Values{"id": {"abc"}})
	req.AddCookie(adminCookie(t))
	if rec := app.do(req); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", rec.Code)
	}
}

func TestDeletePosterTwiceOverHTTP(t *testing.T) {
	app := newTestApp(t, "app_deleteposter")

	req := formPost("/add_poster", url.Values{"scene_id": {"scene2"}, "pitch": {"0"}, "yaw": {"0"}})
	req.AddCookie(adminCookie(t))
	if rec := app.do(req); rec.Code != http.StatusSeeOther {
		t.Fatalf("add: status = %d", rec.Code)
	}
	id := app.getScene(t, "scene2", nil).Posters[0].ID

	form := url.Values{"id": {formatID(id)}}
	req = formPost("/delete_poster", form)
	req.AddCookie(adminCookie(t))
	if rec := app.do(req); rec.Code != http.StatusSeeOther {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	req = formPost("/delete_poster", form)
	req.AddCookie(adminCookie(t))
	if rec := app.do(req); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
	if posters := app.getScene(t, "scene2", nil).Posters; len(posters) != 0 {
		t.Errorf("posters = %d, want 0", len(posters))
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	app := newTestApp(t, "app_authz")

	// A logged-in but non-admin user.
	viewerID, err := app.users.Create(context.Background(), "viewer", "secret", false, 4)
	if err != nil {
		t.Fatalf("create viewer: %v", err)
	}
	viewer := testutil.SessionCookie(t, testSecret, viewerID, false)

	form := url.Values{"scene_id": {"scene1"}, "pitch": {"0"}, "yaw": {"0"}}
	paths := []string{"/add_poster", "/update_poster", "/delete_poster", "/add_nav", "/update_nav", "/delete_nav"}

	for _, path := range paths {
		if rec := app.do(formPost(path, form)); rec.Code != http.StatusUnauthorized {
			t.Errorf("anonymous %s: status = %d, want 401", path, rec.Code)
		}
		req := formPost(path, form)
		req.AddCookie(viewer)
		if rec := app.do(req); rec.Code != http.StatusForbidden {
			t.Errorf("viewer %s: status = %d, want 403", path, rec.Code)
		}
	}

	// Rejected requests must not have written anything.
	view := app.getScene(t, "scene1", nil)
	if len(view.Posters) != 0 || len(view.NavLinks) != 0 {
		t.Errorf("rejected mutations changed state: %+v", view)
	}

	// GET /admin is gated the same way.
	if rec := app.do(httptest.NewRequest(http.MethodGet, "/admin", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous /admin: status = %d, want 401", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(viewer)
	if rec := app.do(req); rec.Code != http.StatusForbidden {
		t.Errorf("viewer /admin: status = %d, want 403", rec.Code)
	}
}

func TestAnonymousHTMLMutationRedirectsToLogin(t *testing.T) {
	app := newTestApp(t, "app_html_redirect")

	req := formPost("/add_poster", url.Values{"scene_id": {"scene1"}, "pitch": {"0"}, "yaw": {"0"}})
	req.Header.Set("Accept", "text/html")
	rec := app.do(req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Errorf("status = %d, location = %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestSceneUnknownIDIsEmpty(t *testing.T) {
	app := newTestApp(t, "app_scene_unknown")

	view := app.getScene(t, "scene99", nil)
	if view.SceneID != "scene99" {
		t.Errorf("scene_id = %q", view.SceneID)
	}
	if len(view.Posters) != 0 || len(view.NavLinks) != 0 {
		t.Errorf("expected empty scene, got %+v", view)
	}
	if want := []string{"scene1", "scene2", "scene3", "scene4", "scene5"}; len(view.SceneChoices) != len(want) {
		t.Errorf("scene_choices = %v, want %v", view.SceneChoices, want)
	}
	if view.IsAdmin {
		t.Error("anonymous viewer flagged as admin")
	}
}

func TestSceneReportsAdminFlag(t *testing.T) {
	app := newTestApp(t, "app_scene_admin")

	if view := app.getScene(t, "scene1", adminCookie(t)); !view.IsAdmin {
		t.Error("admin session not reflected in scene view")
	}
}

func TestAdminOverview(t *testing.T) {
	app := newTestApp(t, "app_admin_view")

	req := formPost("/add_poster", url.Values{"scene_id": {"scene4"}, "text": {"Stage"}, "pitch": {"0"}, "yaw": {"0"}})
	req.AddCookie(adminCookie(t))
	if rec := app.do(req); rec.Code != http.StatusSeeOther {
		t.Fatalf("add: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(adminCookie(t))
	rec := app.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Posters      []*model.Poster `json:"posters"`
		SceneChoices []string        `json:"scene_choices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Posters) != 1 || body.Posters[0].Text != "Stage" {
		t.Errorf("unexpected posters: %+v", body.Posters)
	}
	if len(body.SceneChoices) != 5 {
		t.Errorf("scene_choices = %v", body.SceneChoices)
	}
}

func TestBearerTokenAuth(t *testing.T) {
	app := newTestApp(t, "app_bearer")

	req := formPost("/add_nav", url.Values{
		"scene_id":        {"scene1"},
		"target_scene_id": {"scene2"},
		"pitch":           {"0"},
		"yaw":             {"0"},
	})
	req.Header.Set("Authorization", "Bearer "+adminCookie(t).Value)
	if rec := app.do(req); rec.Code != http.StatusSeeOther {
		t.Errorf("bearer mutation: status = %d", rec.Code)
	}
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
