package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/egarlo/libreria/internal/entities"
	"github.com/egarlo/libreria/internal/services"
)

// DefaultPageSize caps unpaginated listings.
const DefaultPageSize = 100

// BooksController exposes the book service over REST.
type BooksController struct {
	service *services.BookService
}

func NewBooksController(service *services.BookService) *BooksController {
	return &BooksController{service: service}
}

// ListBooks handles GET /libros/. Without filters it returns a page of
// skip/limit (default limit 100). Exactly one filter is applied when
// present, checked in this order: titulo, autor_id, categoria_id,
// editorial_id, formato, precio_min+precio_max.
func (controller *BooksController) ListBooks(c *gin.Context) {
	books, handled := controller.filteredBooks(c)
	if handled {
		return
	}
	if books != nil {
		c.JSON(http.StatusOK, books)
		return
	}

	skip, ok := parseQueryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := parseQueryInt(c, "limit", DefaultPageSize)
	if !ok {
		return
	}
	// A zero limit would disable pagination entirely.
	if limit == 0 {
		respondBadRequest(c, "invalid limit")
		return
	}

	books, err := controller.service.List(skip, limit)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// filteredBooks applies the first matching filter query parameter. It
// returns (nil, false) when no filter is present, and (nil, true) when a
// response has already been written.
func (controller *BooksController) filteredBooks(c *gin.Context) ([]entities.Book, bool) {
	var (
		books []entities.Book
		err   error
	)

	switch {
	case c.Query("titulo") != "":
		books, err = controller.service.SearchByTitle(c.Query("titulo"))
	case c.Query("autor_id") != "":
		id, ok := parseQueryUint(c, "autor_id")
		if !ok {
			return nil, true
		}
		books, err = controller.service.SearchByAuthor(id)
	case c.Query("categoria_id") != "":
		id, ok := parseQueryUint(c, "categoria_id")
		if !ok {
			return nil, true
		}
		books, err = controller.service.ListByCategory(id)
	case c.Query("editorial_id") != "":
		id, ok := parseQueryUint(c, "editorial_id")
		if !ok {
			return nil, true
		}
		books, err = controller.service.ListByPublisher(id)
	case c.Query("formato") != "":
		books, err = controller.service.ListByFormat(c.Query("formato"))
	case c.Query("precio_min") != "" || c.Query("precio_max") != "":
		min, parseErr := decimal.NewFromString(c.DefaultQuery("precio_min", "0"))
		if parseErr != nil {
			respondBadRequest(c, "invalid precio_min")
			return nil, true
		}
		max, parseErr := decimal.NewFromString(c.Query("precio_max"))
		if parseErr != nil {
			respondBadRequest(c, "invalid precio_max")
			return nil, true
		}
		books, err = controller.service.ListByPriceRange(min, max)
	default:
		return nil, false
	}

	if err != nil {
		respondInternalError(c, err, "filter books")
		return nil, true
	}
	if books == nil {
		books = []entities.Book{}
	}
	return books, false
}

func parseQueryUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// CreateBook handles POST /libros/.
func (controller *BooksController) CreateBook(c *gin.Context) {
	var input services.CreateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := controller.service.Create(input)
	if err != nil {
		respondServiceError(c, err, "create book")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// GetBook handles GET /libros/:isbn.
func (controller *BooksController) GetBook(c *gin.Context) {
	book, err := controller.service.GetByISBN(c.Param("isbn"))
	if err != nil {
		respondServiceError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// GetBookDetail handles GET /libros/:isbn/detalle, returning the
// flattened detail object with resolved publisher, category and author
// names.
func (controller *BooksController) GetBookDetail(c *gin.Context) {
	detail, err := controller.service.Detail(c.Param("isbn"))
	if err != nil {
		respondServiceError(c, err, "book detail")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateBook handles PATCH /libros/:isbn with partial-update semantics.
func (controller *BooksController) UpdateBook(c *gin.Context) {
	var patch services.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := controller.service.Update(c.Param("isbn"), patch)
	if err != nil {
		respondServiceError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /libros/:isbn.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	if err := controller.service.Delete(c.Param("isbn")); err != nil {
		respondServiceError(c, err, "delete book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Libro eliminado"})
}
