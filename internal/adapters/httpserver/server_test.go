package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sportsapparel/sport-apparel-admin/internal/adapters/repo/postgres"
	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
	"github.com/sportsapparel/sport-apparel-admin/internal/usecase"
)

const (
	testAdminKey   = "test-admin-key"
	testAdminEmail = "admin@example.com"
)

type fakeMedia struct{}

func (fakeMedia) Upload(_ context.Context, folder, filename string, _ []byte) (string, error) {
	return "https://cdn.test/" + folder + "/" + filename, nil
}
func (fakeMedia) Destroy(context.Context, []string) error     { return nil }
func (fakeMedia) DestroyFolder(context.Context, string) error { return nil }

func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	t.Setenv("ADMIN_API_KEY", testAdminKey)
	t.Setenv("ADMIN_ALLOWED_EMAILS", testAdminEmail)
	t.Setenv("JWT_ADMIN_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:http-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&domain.Category{}, &domain.Subcategory{}, &domain.GalleryImage{},
		&domain.Product{}, &domain.ProductImage{}, &domain.ContactMessage{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	catRepo := postgres.NewCategoryRepo(db)
	subRepo := postgres.NewSubcategoryRepo(db)
	prodRepo := postgres.NewProductRepo(db)
	galRepo := postgres.NewGalleryRepo(db)
	base := "https://shop.example.com"

	h := New(
		&usecase.CategoryUC{Categories: catRepo, BaseURL: base},
		&usecase.SubcategoryUC{Subcategories: subRepo, Categories: catRepo, BaseURL: base},
		&usecase.ProductUC{Products: prodRepo, Subcategories: subRepo, Gallery: galRepo, BaseURL: base},
		&usecase.GalleryUC{Images: galRepo, Media: fakeMedia{}},
		&usecase.ContactUC{Messages: postgres.NewContactRepo(db)},
		&usecase.DashboardUC{Admin: postgres.NewAdminRepo(db)},
		nil,
	)
	return h, db
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	body := bytes.NewBufferString(`{"email":"` + testAdminEmail + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Fatal("no token issued")
	}
	return resp.Token
}

func doJSON(t *testing.T, h http.Handler, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewBuffer(b)
	} else {
		rd = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doJSON(t, h, "", http.MethodGet, "/healthz", nil)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	h, _ := newTestServer(t)
	for _, path := range []string{"/api/category", "/api/products", "/api/gallery", "/api/dashboard"} {
		rec := doJSON(t, h, "", http.MethodGet, path, nil)
		if rec.Code != 401 {
			t.Fatalf("GET %s without token = %d, want 401", path, rec.Code)
		}
	}
	rec := doJSON(t, h, "bogus.token.here", http.MethodGet, "/api/category", nil)
	if rec.Code != 401 {
		t.Fatalf("bogus token = %d, want 401", rec.Code)
	}
}

func TestLoginRejectsBadKey(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{}`))
	req.Header.Set("X-Admin-Key", "wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 401 {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCategoryCRUD(t *testing.T) {
	h, _ := newTestServer(t)
	tok := login(t, h)

	rec := doJSON(t, h, tok, http.MethodPost, "/api/category", map[string]string{"name": "Apparel"})
	if rec.Code != 201 {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body.String())
	}
	var created domain.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Slug != "apparel" {
		t.Fatalf("slug = %q", created.Slug)
	}

	// duplicate → 409
	rec = doJSON(t, h, tok, http.MethodPost, "/api/category", map[string]string{"name": "Apparel"})
	if rec.Code != 409 {
		t.Fatalf("duplicate = %d, want 409", rec.Code)
	}
	// empty name → 400
	rec = doJSON(t, h, tok, http.MethodPost, "/api/category", map[string]string{"name": "  "})
	if rec.Code != 400 {
		t.Fatalf("blank = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, tok, http.MethodGet, "/api/category", nil)
	if rec.Code != 200 {
		t.Fatalf("list = %d", rec.Code)
	}
	var list []domain.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d", len(list))
	}

	rec = doJSON(t, h, tok, http.MethodPatch, fmt.Sprintf("/api/category/%d", created.ID), map[string]string{"description": "Everything fabric"})
	if rec.Code != 200 {
		t.Fatalf("patch = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, tok, http.MethodDelete, fmt.Sprintf("/api/category/%d", created.ID), nil)
	if rec.Code != 200 {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doJSON(t, h, tok, http.MethodDelete, fmt.Sprintf("/api/category/%d", created.ID), nil)
	if rec.Code != 404 {
		t.Fatalf("delete missing = %d, want 404", rec.Code)
	}
	rec = doJSON(t, h, tok, http.MethodDelete, "/api/category/abc", nil)
	if rec.Code != 400 {
		t.Fatalf("bad id = %d, want 400", rec.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	h, db := newTestServer(t)
	tok := login(t, h)

	rec := doJSON(t, h, tok, http.MethodPost, "/api/category", map[string]string{"name": "Apparel"})
	var cat domain.Category
	_ = json.Unmarshal(rec.Body.Bytes(), &cat)
	rec = doJSON(t, h, tok, http.MethodPost, "/api/subcategories", map[string]any{"name": "Jerseys", "categoryId": cat.ID})
	if rec.Code != 201 {
		t.Fatalf("subcategory = %d, body %s", rec.Code, rec.Body.String())
	}
	var sub domain.Subcategory
	_ = json.Unmarshal(rec.Body.Bytes(), &sub)

	imgs := []domain.GalleryImage{{ImageURL: "https://cdn.test/a.jpg"}, {ImageURL: "https://cdn.test/b.jpg"}}
	if err := db.Create(&imgs).Error; err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, h, tok, http.MethodPost, "/api/products", map[string]any{
		"name":           "Home Jersey",
		"description":    "Official",
		"whatsappNumber": "+1",
		"subcategoryId":  sub.ID,
	})
	if rec.Code != 201 {
		t.Fatalf("create product = %d, body %s", rec.Code, rec.Body.String())
	}
	var p domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}

	// unknown subcategory → 404
	rec = doJSON(t, h, tok, http.MethodPost, "/api/products", map[string]any{"name": "X", "whatsappNumber": "+1", "subcategoryId": 9999})
	if rec.Code != 404 {
		t.Fatalf("bad subcategory = %d, want 404", rec.Code)
	}

	// associate then read back in order
	rec = doJSON(t, h, tok, http.MethodPost, "/api/productImages", map[string]any{
		"productId":  p.ID.String(),
		"galleryIds": []uint{imgs[0].ID, imgs[1].ID},
	})
	if rec.Code != 200 {
		t.Fatalf("associate = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, tok, http.MethodGet, "/api/products/"+p.ID.String(), nil)
	if rec.Code != 200 {
		t.Fatalf("get = %d", rec.Code)
	}
	var detail struct {
		Success bool `json:"success"`
		Data    struct {
			Images []domain.ProductImage `json:"images"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if !detail.Success || len(detail.Data.Images) != 2 {
		t.Fatalf("detail = %s", rec.Body.String())
	}

	// listing carries pagination metadata and category counts
	rec = doJSON(t, h, tok, http.MethodGet, "/api/products?page=1&limit=10", nil)
	if rec.Code != 200 {
		t.Fatalf("list = %d", rec.Code)
	}
	var listing usecase.ProductListing
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if listing.Total != 1 || len(listing.Categories) != 1 {
		t.Fatalf("listing = %s", rec.Body.String())
	}

	rec = doJSON(t, h, tok, http.MethodGet, "/api/products/not-a-uuid", nil)
	if rec.Code != 400 {
		t.Fatalf("bad id = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, tok, http.MethodDelete, "/api/products/"+p.ID.String(), nil)
	if rec.Code != 200 {
		t.Fatalf("delete = %d", rec.Code)
	}
	var n int64
	db.Model(&domain.ProductImage{}).Count(&n)
	if n != 0 {
		t.Fatalf("associations left: %d", n)
	}
	db.Model(&domain.GalleryImage{}).Count(&n)
	if n != 2 {
		t.Fatalf("gallery rows must survive, got %d", n)
	}
}

func TestGalleryUploadEndpoint(t *testing.T) {
	h, _ := newTestServer(t)
	tok := login(t, h)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="files"; filename="a.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("jpegdata"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/gallery", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("upload = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool     `json:"success"`
		URLs    []string `json:"urls"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || len(resp.URLs) != 1 || resp.URLs[0] != "https://cdn.test/product_images/a.jpg" {
		t.Fatalf("resp = %s", rec.Body.String())
	}

	// single-string delete shape is accepted
	rec = doJSON(t, h, tok, http.MethodDelete, "/api/gallery", map[string]any{"imageUrls": resp.URLs[0]})
	if rec.Code != 200 {
		t.Fatalf("delete = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestContactFlow(t *testing.T) {
	h, _ := newTestServer(t)

	// submission is public
	rec := doJSON(t, h, "", http.MethodPost, "/api/contact", map[string]string{
		"name": "Jo", "email": "jo@example.com", "message": "sizes?",
	})
	if rec.Code != 201 {
		t.Fatalf("submit = %d, body %s", rec.Code, rec.Body.String())
	}
	var m domain.ContactMessage
	_ = json.Unmarshal(rec.Body.Bytes(), &m)

	rec = doJSON(t, h, "", http.MethodPost, "/api/contact", map[string]string{"name": "Jo"})
	if rec.Code != 400 {
		t.Fatalf("invalid submit = %d, want 400", rec.Code)
	}

	// listing and deleting need a session
	rec = doJSON(t, h, "", http.MethodGet, "/api/contact", nil)
	if rec.Code != 401 {
		t.Fatalf("unauthenticated list = %d, want 401", rec.Code)
	}
	tok := login(t, h)
	rec = doJSON(t, h, tok, http.MethodGet, "/api/contact", nil)
	if rec.Code != 200 {
		t.Fatalf("list = %d", rec.Code)
	}
	rec = doJSON(t, h, tok, http.MethodDelete, fmt.Sprintf("/api/contact/%d", m.ID), nil)
	if rec.Code != 200 {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doJSON(t, h, tok, http.MethodDelete, fmt.Sprintf("/api/contact/%d", m.ID), nil)
	if rec.Code != 404 {
		t.Fatalf("delete missing = %d, want 404", rec.Code)
	}
}

func TestDashboardAndReset(t *testing.T) {
	h, _ := newTestServer(t)
	tok := login(t, h)

	doJSON(t, h, tok, http.MethodPost, "/api/category", map[string]string{"name": "Apparel"})

	rec := doJSON(t, h, tok, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != 200 {
		t.Fatalf("dashboard = %d", rec.Code)
	}
	var resp struct {
		Stats []usecase.Stat `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Stats) != 5 {
		t.Fatalf("stats = %+v", resp.Stats)
	}

	rec = doJSON(t, h, tok, http.MethodDelete, "/api/reset", nil)
	if rec.Code != 200 {
		t.Fatalf("reset = %d", rec.Code)
	}
	rec = doJSON(t, h, tok, http.MethodGet, "/api/category", nil)
	var list []domain.Category
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Fatalf("categories after reset: %d", len(list))
	}
}

func TestGoogleCallback(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"bearer"}`))
	}))
	defer tokenSrv.Close()

	userinfoStatus := 200
	userinfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(userinfoStatus)
		_, _ = w.Write([]byte(`{"email":"` + testAdminEmail + `"}`))
	}))
	defer userinfoSrv.Close()

	s := &Server{
		oauthCfg: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint:     oauth2.Endpoint{AuthURL: tokenSrv.URL + "/auth", TokenURL: tokenSrv.URL + "/token"},
		},
		userinfoURL:  userinfoSrv.URL,
		adminAllowed: map[string]struct{}{testAdminEmail: {}},
		adminSecret:  []byte("test-secret"),
	}

	callback := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=s1&code=c1", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
		rec := httptest.NewRecorder()
		s.handleGoogleCallback(rec, req)
		return rec
	}

	rec := callback()
	if rec.Code != 302 {
		t.Fatalf("success callback = %d, body %s", rec.Code, rec.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_token" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("admin_token cookie not set")
	}
	if _, err := s.verifyAdminToken(cookie.Value); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}

	// a failing userinfo response is reported, not treated as a session
	userinfoStatus = 500
	rec = callback()
	if rec.Code != 400 {
		t.Fatalf("failed userinfo = %d, want 400", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_token" && c.Value != "" {
			t.Fatal("no session should be issued on userinfo failure")
		}
	}

	// state mismatch short-circuits before any exchange
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=other&code=c1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	rec = httptest.NewRecorder()
	s.handleGoogleCallback(rec, req)
	if rec.Code != 400 {
		t.Fatalf("state mismatch = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestServer(t)
	tok := login(t, h)
	rec := doJSON(t, h, tok, http.MethodPut, "/api/dashboard", nil)
	if rec.Code != 405 {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
