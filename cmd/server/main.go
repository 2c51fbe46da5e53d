package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"geo-attendance/internal/auth"
	"geo-attendance/internal/config"
	"geo-attendance/internal/geofence"
	"geo-attendance/internal/handler"
	"geo-attendance/internal/i18n"
	"geo-attendance/internal/media"
	"geo-attendance/internal/service"
	"geo-attendance/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	i18n.Init(cfg.DefaultLocale)

	// Connect to MongoDB
	db, err := store.NewMongoDB(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	// Stores
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	checkinStore, err := store.NewCheckinStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init check-in store: %v", err)
	}
	checkoutStore, err := store.NewCheckoutStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init checkout store: %v", err)
	}
	employeeStore, err := store.NewEmployeeStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init worker store: %v", err)
	}
	orgStore, err := store.NewOrganizationStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to init organization store: %v", err)
	}

	directory, closeDirectory := officeDirectory(ctx, cfg)
	defer closeDirectory()
	cancel()

	// Services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	locator := geofence.NewEvaluator(directory, cfg.GeofenceRadius)
	photos, err := media.NewClient(cfg.MediaBaseURL, cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.UploadTimeout)
	if err != nil {
		log.Fatalf("Failed to configure media client: %v", err)
	}

	services := handler.Services{
		Auth:         service.NewAuthService(employeeStore, tokens),
		Attendance:   service.NewAttendanceService(checkinStore, checkoutStore, employeeStore, locator, photos, cfg.ReviewLock),
		Employees:    service.NewEmployeeService(employeeStore, orgStore),
		Organization: service.NewOrganizationService(orgStore),
		Tokens:       tokens,
	}

	// Routes
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(), handler.Locale())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept-Language"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	router.Use(cors.New(corsConfig))

	handler.RegisterRoutes(router.Group("/api"), services)

	// Health checks
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Printf("ERROR readiness: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": i18n.T(c.Request.Context(), "error.not_ready"), "code": "error.not_ready"})
			return
		}
		c.String(http.StatusOK, "ok")
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.UploadTimeout + 10*time.Second,
	}

	go func() {
		log.Printf("Attendance service started on :%s (env: %s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR shutdown: %v", err)
	}
}

// officeDirectory builds the office source named by the configuration,
// wrapped in a TTL cache.
func officeDirectory(ctx context.Context, cfg *config.Config) (geofence.Directory, func()) {
	var (
		dir     geofence.Directory
		closeFn = func() {}
	)
	switch {
	case cfg.OfficeDatabaseURL != "":
		pool, err := geofence.ConnectPostgres(ctx, cfg.OfficeDatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to office database: %v", err)
		}
		dir, closeFn = geofence.NewPostgresDirectory(pool), pool.Close
		log.Println("Office directory: postgres")
	case cfg.OfficeDirectoryFile != "":
		static, err := geofence.LoadFileDirectory(cfg.OfficeDirectoryFile)
		if err != nil {
			log.Fatalf("Failed to load office file: %v", err)
		}
		dir = static
		log.Printf("Office directory: %s", cfg.OfficeDirectoryFile)
	default:
		dir = geofence.NewHTTPDirectory(cfg.OfficeDirectoryURL, cfg.OfficeFetchTimeout)
		log.Printf("Office directory: %s", cfg.OfficeDirectoryURL)
	}
	return geofence.NewCachedDirectory(dir, cfg.OfficeCacheTTL), closeFn
}
