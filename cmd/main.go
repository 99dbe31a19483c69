package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/config"
	"campus-classifieds/internal/database"
	"campus-classifieds/internal/geo"
	"campus-classifieds/internal/handlers"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations and seed the default categories
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed default data: %v", err)
	}

	// Initialize the media store
	var store media.Store
	if cfg.Media.CloudinaryURL != "" {
		store, err = media.NewCloudinaryStore(cfg.Media.CloudinaryURL)
		if err != nil {
			log.Fatalf("Failed to configure media store: %v", err)
		}
	} else {
		log.Println("CLOUDINARY_URL not set, using in-memory media store")
		store = media.NewMemoryStore()
	}
	mediaService := media.NewService(store)

	// Initialize the geocoder
	var geocoder geo.Geocoder
	if cfg.Geo.Enabled {
		geocoder = geo.NewNominatim(cfg.Geo.UserAgent)
	}

	// Initialize services
	db := database.GetDB()
	userService := services.NewUserService(db, mediaService)
	productService := services.NewProductService(db, mediaService)
	offerService := services.NewOfferService(db)
	housingService := services.NewHousingService(db, mediaService, geocoder)
	favoriteService := services.NewFavoriteService(db)
	foodService := services.NewFoodService(db, mediaService)
	reviewService := services.NewReviewService(db)
	lostFoundService := services.NewLostFoundService(db, mediaService, geocoder)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, mediaService)
	productHandler := handlers.NewProductHandler(db, productService, offerService, mediaService)
	housingHandler := handlers.NewHousingHandler(housingService, favoriteService, mediaService)
	foodHandler := handlers.NewFoodHandler(foodService, reviewService, mediaService)
	lostFoundHandler := handlers.NewLostFoundHandler(lostFoundService, mediaService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if cfg.App.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.App.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.Me)
	}

	// Public read routes. Optional auth so view counting can skip owners.
	public := router.Group("/api")
	public.Use(auth.OptionalAuthMiddleware())
	{
		public.GET("/categories", productHandler.Categories)
		public.GET("/products", productHandler.List)
		public.GET("/products/:id", productHandler.Get)
		public.GET("/housing", housingHandler.List)
		public.GET("/housing/:id", housingHandler.Get)
		public.GET("/food", foodHandler.List)
		public.GET("/food/:id", foodHandler.Get)
		public.GET("/food/:id/menu", foodHandler.ListMenu)
		public.GET("/food/:id/reviews", foodHandler.ListReviews)
		public.GET("/lostfound", lostFoundHandler.List)
		public.GET("/lostfound/:id", lostFoundHandler.Get)
		public.GET("/users/:id", userHandler.GetProfile)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Profile endpoints
		api.PUT("/profile", userHandler.UpdateProfile)
		api.POST("/profile/avatar", userHandler.UploadAvatar)
		api.DELETE("/profile", userHandler.Deactivate)

		// Marketplace endpoints
		api.POST("/products", productHandler.Create)
		api.PUT("/products/:id", productHandler.Update)
		api.POST("/products/:id/sold", productHandler.MarkSold)
		api.DELETE("/products/:id", productHandler.Delete)
		api.GET("/my/products", productHandler.MyProducts)

		// Offer endpoints
		api.POST("/products/:id/offers", productHandler.CreateOffer)
		api.GET("/products/:id/offers", productHandler.ListOffers)
		api.PUT("/offers/:id", productHandler.DecideOffer)
		api.GET("/my/offers", productHandler.MyOffers)

		// Housing endpoints
		api.POST("/housing", housingHandler.Create)
		api.PUT("/housing/:id", housingHandler.Update)
		api.PUT("/housing/:id/availability", housingHandler.SetAvailability)
		api.DELETE("/housing/:id", housingHandler.Delete)
		api.GET("/my/properties", housingHandler.MyProperties)

		// Favorite endpoints
		api.POST("/housing/:id/favorite", housingHandler.ToggleFavorite)
		api.GET("/my/favorites", housingHandler.MyFavorites)

		// Food directory endpoints
		api.POST("/food", foodHandler.Create)
		api.PUT("/food/:id", foodHandler.Update)
		api.POST("/food/:id/close", foodHandler.Close)
		api.DELETE("/food/:id", foodHandler.Delete)
		api.POST("/food/:id/menu", foodHandler.AddMenuItem)
		api.PUT("/menu/:id", foodHandler.UpdateMenuItem)
		api.DELETE("/menu/:id", foodHandler.DeleteMenuItem)

		// Review endpoints
		api.PUT("/food/:id/review", foodHandler.UpsertReview)
		api.DELETE("/reviews/:id", foodHandler.DeleteReview)

		// Lost and found endpoints
		api.POST("/lostfound", lostFoundHandler.Create)
		api.PUT("/lostfound/:id", lostFoundHandler.Update)
		api.POST("/lostfound/:id/returned", lostFoundHandler.MarkReturned)
		api.DELETE("/lostfound/:id", lostFoundHandler.Delete)

		// Reports (any authenticated user may flag content)
		api.POST("/reports", reportHandler.Create)
	}

	// Admin routes (protected + staff only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.StaffMiddleware())
	{
		admin.GET("/reports", reportHandler.List)
		admin.PUT("/reports/:id", reportHandler.Transition)
		admin.GET("/users", userHandler.ListUsers)
		admin.PUT("/food/:id/verify", foodHandler.Verify)
	}

	log.Printf("Campus classifieds API listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
