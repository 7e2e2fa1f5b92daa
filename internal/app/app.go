package app

import (
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/sportsapparel/sport-apparel-admin/internal/adapters/httpserver"
	"github.com/sportsapparel/sport-apparel-admin/internal/adapters/media/cloudinary"
	"github.com/sportsapparel/sport-apparel-admin/internal/adapters/repo/postgres"
	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
	"github.com/sportsapparel/sport-apparel-admin/internal/usecase"
)

type App struct {
	DB            *gorm.DB
	CategoryUC    *usecase.CategoryUC
	SubcategoryUC *usecase.SubcategoryUC
	ProductUC     *usecase.ProductUC
	GalleryUC     *usecase.GalleryUC
	ContactUC     *usecase.ContactUC
	DashboardUC   *usecase.DashboardUC
	Media         domain.MediaStorage
	OAuthConfig   *oauth2.Config
}

func NewApp(db *gorm.DB) (*App, error) {
	catRepo := postgres.NewCategoryRepo(db)
	subRepo := postgres.NewSubcategoryRepo(db)
	prodRepo := postgres.NewProductRepo(db)
	galRepo := postgres.NewGalleryRepo(db)
	conRepo := postgres.NewContactRepo(db)
	admRepo := postgres.NewAdminRepo(db)

	media := cloudinary.New(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &App{
		DB:            db,
		CategoryUC:    &usecase.CategoryUC{Categories: catRepo, BaseURL: baseURL},
		SubcategoryUC: &usecase.SubcategoryUC{Subcategories: subRepo, Categories: catRepo, BaseURL: baseURL},
		ProductUC:     &usecase.ProductUC{Products: prodRepo, Subcategories: subRepo, Gallery: galRepo, BaseURL: baseURL},
		GalleryUC:     &usecase.GalleryUC{Images: galRepo, Media: media},
		ContactUC:     &usecase.ContactUC{Messages: conRepo},
		DashboardUC:   &usecase.DashboardUC{Admin: admRepo},
		Media:         media,
		OAuthConfig:   oauthCfg,
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CategoryUC, a.SubcategoryUC, a.ProductUC, a.GalleryUC, a.ContactUC, a.DashboardUC, a.OAuthConfig)
}

func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(
		&domain.Category{}, &domain.Subcategory{}, &domain.GalleryImage{},
		&domain.Product{}, &domain.ProductImage{}, &domain.ContactMessage{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_subcategory_active ON products (subcategory_id, is_active)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_product_images_product_order ON product_images (product_id, display_order)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_gallery_created_at ON gallery (created_at)").Error

	return nil
}
