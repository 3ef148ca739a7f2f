package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fadhilmh/donasiku/config"
	"github.com/fadhilmh/donasiku/internal/cache"
	"github.com/fadhilmh/donasiku/internal/donations"
	"github.com/fadhilmh/donasiku/internal/handlers"
	"github.com/fadhilmh/donasiku/internal/middleware"
	"github.com/fadhilmh/donasiku/internal/models"
	"github.com/fadhilmh/donasiku/internal/payment"
	"github.com/fadhilmh/donasiku/internal/worker"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	midtransCfg, err := config.LoadMidtransConfig()
	if err != nil {
		return fmt.Errorf("failed to load midtrans config: %v", err)
	}

	relay := payment.NewRelay(midtransCfg.ServerKey, midtransCfg.Production)
	statusClient := payment.NewStatusClient(midtransCfg.ServerKey, midtransCfg.Production)

	settingsCache := cache.NewSettingsCache(5*time.Minute, settingsLoader(db))

	store := donations.NewGormStore(db)
	intentService := donations.NewIntentService(store, relay)
	donationHandler := handlers.NewDonationHandler(intentService, store, midtransCfg.ClientKey)

	reconciler := worker.NewReconciler(db, statusClient, config.ReconcileInterval())
	go reconciler.Start(context.Background())

	r := gin.Default()

	setupRoutes(r, db, relay, settingsCache, donationHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func settingsLoader(db *gorm.DB) cache.LoaderFunc {
	return func() (map[string]string, error) {
		var settings []models.Setting
		if err := db.Find(&settings).Error; err != nil {
			return nil, err
		}
		values := make(map[string]string, len(settings))
		for _, setting := range settings {
			values[setting.Key] = setting.Value
		}
		return values, nil
	}
}

func setupRoutes(r *gin.Engine, db *gorm.DB, relay *payment.Relay, settingsCache *cache.SettingsCache, donationHandler *handlers.DonationHandler) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.RelayMiddleware(relay))
	r.Use(middleware.SettingsCacheMiddleware(settingsCache))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		campaignPublic := public.Group("/campaigns")
		{
			campaignPublic.GET("", handlers.ListCampaigns)
			campaignPublic.GET("/:slug", handlers.GetCampaign)
			campaignPublic.GET("/:slug/qr", handlers.CampaignQR)
		}

		articlePublic := public.Group("/articles")
		{
			articlePublic.GET("", handlers.ListArticles)
			articlePublic.GET("/:slug", handlers.GetArticle)
		}

		public.GET("/banners/active", handlers.ActiveBanner)
		public.GET("/settings/site", handlers.GetSiteSettings)

		donationPublic := public.Group("/donations")
		{
			donationPublic.POST("", donationHandler.CreateDonation)
			donationPublic.GET("/:id", donationHandler.GetDonation)
			donationPublic.GET("/:id/await", donationHandler.AwaitDonationStatus)
		}

		public.GET("/payments/notification", handlers.NotificationPing)
		public.POST("/payments/notification", handlers.PaymentNotification)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)

		campaignProtected := protected.Group("/campaigns")
		{
			campaignProtected.POST("", handlers.CreateCampaign)
			campaignProtected.PUT("/:id", handlers.UpdateCampaign)
			campaignProtected.DELETE("/:id", handlers.DeleteCampaign)
		}
		protected.GET("/admin/campaigns/:slug/donations", handlers.ListCampaignDonations)

		articleProtected := protected.Group("/articles")
		{
			articleProtected.POST("", handlers.CreateArticle)
			articleProtected.PUT("/:id", handlers.UpdateArticle)
			articleProtected.DELETE("/:id", handlers.DeleteArticle)
		}

		bannerProtected := protected.Group("/banners")
		{
			bannerProtected.GET("", handlers.ListBanners)
			bannerProtected.POST("", handlers.CreateBanner)
			bannerProtected.PUT("/:id", handlers.UpdateBanner)
			bannerProtected.DELETE("/:id", handlers.DeleteBanner)
		}

		protected.PUT("/settings/site", handlers.UpdateSiteSettings)
	}
}
