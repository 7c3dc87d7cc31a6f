package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/egarlo/libreria/internal/config"
	"github.com/egarlo/libreria/internal/covers"
	"github.com/egarlo/libreria/internal/database"
	http_controllers "github.com/egarlo/libreria/internal/http"
	"github.com/egarlo/libreria/internal/scheduler"
	"github.com/egarlo/libreria/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the database, services, cover store and scheduler together
// and serves HTTP.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Libreria v%s", version)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	coverStore, err := covers.NewStore(cfg.Covers.Dir, cfg.Covers.URLPrefix)
	if err != nil {
		log.Fatalf("Failed to initialize cover store: %v", err)
	}

	bookService := services.NewBookService(db.DB)
	catalogService := services.NewCatalogService(db.DB)

	var sweep *scheduler.CoverSweepScheduler
	if cfg.CoverSweep.Enabled {
		sweep = scheduler.NewCoverSweepScheduler(db, coverStore, cfg.CoverSweep.Schedule)
		if err := sweep.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start cover sweep scheduler: %v", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		BookService:    bookService,
		CatalogService: catalogService,
		CoverStore:     coverStore,
		CoversURL:      cfg.Covers.URLPrefix,
		Version:        version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if sweep != nil {
			sweep.Stop()
		}
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	})
}
