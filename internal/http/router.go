package http

import (
	"github.com/gin-gonic/gin"

	"github.com/egarlo/libreria/internal/covers"
	"github.com/egarlo/libreria/internal/database"
	"github.com/egarlo/libreria/internal/services"
)

// RouterConfig carries the router dependencies, keeping NewRouter's
// signature stable as wiring grows.
type RouterConfig struct {
	Database       *database.Database
	BookService    *services.BookService
	CatalogService *services.CatalogService
	CoverStore     *covers.Store
	CoversURL      string
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Uploaded covers are served straight from the content directory.
	if cfg.CoverStore != nil {
		router.Static(cfg.CoversURL, cfg.CoverStore.Dir())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	booksController := NewBooksController(cfg.BookService)
	libros := router.Group("/libros")
	{
		libros.GET("/", booksController.ListBooks)
		libros.POST("/", booksController.CreateBook)
		libros.GET("/:isbn", booksController.GetBook)
		libros.PATCH("/:isbn", booksController.UpdateBook)
		libros.DELETE("/:isbn", booksController.DeleteBook)
		libros.GET("/:isbn/detalle", booksController.GetBookDetail)
	}

	if cfg.CoverStore != nil {
		coversController := NewCoversController(cfg.CoverStore, cfg.BookService)
		libros.POST("/:isbn/portada", coversController.UploadCover)
	}

	catalogController := NewCatalogController(cfg.CatalogService)

	editoriales := router.Group("/editoriales")
	{
		editoriales.GET("/", catalogController.ListPublishers)
		editoriales.POST("/", catalogController.CreatePublisher)
		editoriales.GET("/:id", catalogController.GetPublisher)
		editoriales.PUT("/:id", catalogController.UpdatePublisher)
		editoriales.DELETE("/:id", catalogController.DeletePublisher)
	}

	categorias := router.Group("/categorias")
	{
		categorias.GET("/", catalogController.ListCategories)
		categorias.POST("/", catalogController.CreateCategory)
		categorias.GET("/:id", catalogController.GetCategory)
		categorias.PUT("/:id", catalogController.UpdateCategory)
		categorias.DELETE("/:id", catalogController.DeleteCategory)
	}

	series := router.Group("/series")
	{
		series.GET("/", catalogController.ListSeries)
		series.POST("/", catalogController.CreateSeries)
		series.GET("/:id", catalogController.GetSeries)
		series.PUT("/:id", catalogController.UpdateSeries)
		series.DELETE("/:id", catalogController.DeleteSeries)
	}

	publicos := router.Group("/publicos")
	{
		publicos.GET("/", catalogController.ListAudiences)
		publicos.POST("/", catalogController.CreateAudience)
		publicos.GET("/:id", catalogController.GetAudience)
		publicos.PUT("/:id", catalogController.UpdateAudience)
		publicos.DELETE("/:id", catalogController.DeleteAudience)
	}

	autores := router.Group("/autores")
	{
		autores.GET("/", catalogController.ListAuthors)
		autores.POST("/", catalogController.CreateAuthor)
		autores.GET("/:id", catalogController.GetAuthor)
		autores.PUT("/:id", catalogController.UpdateAuthor)
		autores.DELETE("/:id", catalogController.DeleteAuthor)
	}

	return router
}
