package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
	"github.com/sportsapparel/sport-apparel-admin/internal/usecase"
)

type Server struct {
	mux           *http.ServeMux
	categories    *usecase.CategoryUC
	subcategories *usecase.SubcategoryUC
	products      *usecase.ProductUC
	gallery       *usecase.GalleryUC
	contact       *usecase.ContactUC
	dashboard     *usecase.DashboardUC
	oauthCfg      *oauth2.Config
	userinfoURL   string

	adminAllowed map[string]struct{}
	adminSecret  []byte
}

func New(cat *usecase.CategoryUC, sub *usecase.SubcategoryUC, prod *usecase.ProductUC, gal *usecase.GalleryUC, con *usecase.ContactUC, dash *usecase.DashboardUC, oauthCfg *oauth2.Config) http.Handler {
	s := &Server{
		categories:    cat,
		subcategories: sub,
		products:      prod,
		gallery:       gal,
		contact:       con,
		dashboard:     dash,
		oauthCfg:      oauthCfg,
		userinfoURL:   "https://www.googleapis.com/oauth2/v3/userinfo",
		mux:           http.NewServeMux(),
	}

	allowed := map[string]struct{}{}
	if raw := os.Getenv("ADMIN_ALLOWED_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				allowed[e] = struct{}{}
			}
		}
	}
	s.adminAllowed = allowed
	sec := os.Getenv("JWT_ADMIN_SECRET")
	if sec == "" {
		sec = os.Getenv("SECRET_KEY")
	}
	if sec == "" {
		sec = "dev-admin-secret"
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return Chain(s.mux,
		PublicRateLimit(map[string]int{
			"/api/contact":    15,
			"/api/auth/login": 10,
		}),
		RateLimit(120),
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/auth/login", s.handleAdminLogin)
	s.mux.HandleFunc("/api/auth/logout", s.handleAdminLogout)
	s.mux.HandleFunc("/api/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/api/auth/google/callback", s.handleGoogleCallback)

	s.mux.HandleFunc("/api/category", s.apiCategories)
	s.mux.HandleFunc("/api/category/", s.apiCategoryByID)
	s.mux.HandleFunc("/api/subcategories", s.apiSubcategories)
	s.mux.HandleFunc("/api/subcategories/", s.apiSubcategoryByID)

	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/export", s.apiProductsExport)
	s.mux.HandleFunc("/api/products/", s.apiProductByID)
	s.mux.HandleFunc("/api/productImages", s.apiProductImages)

	s.mux.HandleFunc("/api/gallery", s.apiGallery)
	s.mux.HandleFunc("/api/upload", s.apiUpload)

	s.mux.HandleFunc("/api/contact", s.apiContact)
	s.mux.HandleFunc("/api/contact/", s.apiContactByID)

	s.mux.HandleFunc("/api/dashboard", s.apiDashboard)
	s.mux.HandleFunc("/api/reset", s.apiReset)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged with the request path.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, 400, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, 404, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, 409, map[string]string{"error": "conflict"})
	case errors.Is(err, domain.ErrUnavailable):
		writeJSON(w, 503, map[string]string{"error": "service unavailable"})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, 500, map[string]string{"error": "internal server error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("invalid json body")
	}
	return nil
}

// pathUint parses the numeric id segment after prefix.
func pathUint(r *http.Request, prefix string) (uint, error) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, domain.Invalid("invalid id")
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, domain.Invalid("invalid id")
	}
	return uint(n), nil
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, 405, map[string]string{"error": "method not allowed"})
}

func nowStamp() string { return time.Now().Format("20060102") }
