package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egarlo/libreria/internal/covers"
	"github.com/egarlo/libreria/internal/database"
	"github.com/egarlo/libreria/internal/entities"
	"github.com/egarlo/libreria/internal/services"
)

type testEnv struct {
	router *gin.Engine
	db     *database.Database
	store  *covers.Store
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	store, err := covers.NewStore(filepath.Join(t.TempDir(), "covers"), "/static/covers")
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database:       db,
		BookService:    services.NewBookService(db.DB),
		CatalogService: services.NewCatalogService(db.DB),
		CoverStore:     store,
		CoversURL:      "/static/covers",
		Version:        "test",
	})

	return &testEnv{router: router, db: db, store: store}
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) seedCatalog(t *testing.T) (publisher entities.Publisher, category entities.Category, author entities.Author) {
	t.Helper()
	catalogService := services.NewCatalogService(env.db.DB)

	publisher = entities.Publisher{Name: "Planeta"}
	require.NoError(t, catalogService.CreatePublisher(&publisher))
	category = entities.Category{Name: "Fantasy"}
	require.NoError(t, catalogService.CreateCategory(&category))
	author = entities.Author{Name: "Tolkien"}
	require.NoError(t, catalogService.CreateAuthor(&author))
	return publisher, category, author
}

func (env *testEnv) seedBook(t *testing.T, isbn, title string) (entities.Publisher, entities.Category, entities.Author) {
	t.Helper()
	publisher, category, author := env.seedCatalog(t)

	w := env.request(t, http.MethodPost, "/libros/", gin.H{
		"isbn":         isbn,
		"titulo":       title,
		"editorial_id": publisher.ID,
		"categoria_id": category.ID,
		"autores_ids":  []uint{author.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return publisher, category, author
}

func TestCreateBook(t *testing.T) {
	env := setupTestRouter(t)
	_, _, author := env.seedCatalog(t)

	w := env.request(t, http.MethodPost, "/libros/", gin.H{
		"isbn":        "978-1",
		"titulo":      "The Hobbit",
		"precio":      "15.99",
		"formato":     "fisico",
		"autores_ids": []uint{author.ID},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, "978-1", book.ISBN)
	assert.Equal(t, "The Hobbit", book.Title)
	require.NotNil(t, book.Format)
	assert.Equal(t, "FISICO", *book.Format)
	require.Len(t, book.Authors, 1)
	assert.Equal(t, "Tolkien", book.Authors[0].Name)
}

func TestCreateBook_MissingRequiredFields(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodPost, "/libros/", gin.H{"titulo": "No ISBN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBook_DuplicateISBN(t *testing.T) {
	env := setupTestRouter(t)
	env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodPost, "/libros/", gin.H{
		"isbn":   "978-1",
		"titulo": "Duplicate",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "isbn", response.Field)
}

func TestCreateBook_DanglingReference(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodPost, "/libros/", gin.H{
		"isbn":         "978-1",
		"titulo":       "Dangling",
		"editorial_id": 999,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "editorial_id", response.Field)
}

func TestGetBook(t *testing.T) {
	env := setupTestRouter(t)
	env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodGet, "/libros/978-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, "The Hobbit", book.Title)
}

func TestGetBook_NotFound(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodGet, "/libros/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBooks_Pagination(t *testing.T) {
	env := setupTestRouter(t)
	publisher, category, author := env.seedCatalog(t)

	for _, isbn := range []string{"978-1", "978-2", "978-3"} {
		w := env.request(t, http.MethodPost, "/libros/", gin.H{
			"isbn":         isbn,
			"titulo":       "Book " + isbn,
			"editorial_id": publisher.ID,
			"categoria_id": category.ID,
			"autores_ids":  []uint{author.ID},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.request(t, http.MethodGet, "/libros/?skip=1&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var books []entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "978-2", books[0].ISBN)
}

func TestListBooks_InvalidSkip(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodGet, "/libros/?skip=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBooks_ZeroLimitRejected(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodGet, "/libros/?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// skip=0 stays valid.
	w = env.request(t, http.MethodGet, "/libros/?skip=0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListBooks_TitleFilter(t *testing.T) {
	env := setupTestRouter(t)
	publisher, category, author := env.seedCatalog(t)

	for isbn, title := range map[string]string{
		"978-1": "Harry Potter and the Goblet of Fire",
		"978-2": "The Silmarillion",
	} {
		w := env.request(t, http.MethodPost, "/libros/", gin.H{
			"isbn":         isbn,
			"titulo":       title,
			"editorial_id": publisher.ID,
			"categoria_id": category.ID,
			"autores_ids":  []uint{author.ID},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.request(t, http.MethodGet, "/libros/?titulo=harry", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var books []entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "978-1", books[0].ISBN)
}

func TestListBooks_AuthorFilter(t *testing.T) {
	env := setupTestRouter(t)
	_, _, author := env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodGet, fmt.Sprintf("/libros/?autor_id=%d", author.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var books []entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	assert.Len(t, books, 1)

	w = env.request(t, http.MethodGet, "/libros/?autor_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBooks_PriceFilter(t *testing.T) {
	env := setupTestRouter(t)
	_, _, author := env.seedCatalog(t)

	for isbn, price := range map[string]string{"978-1": "9.99", "978-2": "15.00", "978-3": "25.00"} {
		w := env.request(t, http.MethodPost, "/libros/", gin.H{
			"isbn":        isbn,
			"titulo":      "Book " + isbn,
			"precio":      price,
			"autores_ids": []uint{author.ID},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.request(t, http.MethodGet, "/libros/?precio_min=10.00&precio_max=20.00", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var books []entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "978-2", books[0].ISBN)

	w = env.request(t, http.MethodGet, "/libros/?precio_min=abc&precio_max=20.00", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBook_Partial(t *testing.T) {
	env := setupTestRouter(t)
	env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodPatch, "/libros/978-1", gin.H{"titulo": "The Hobbit (revised)"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, "The Hobbit (revised)", book.Title)
	// Author set untouched by a title-only patch.
	assert.Len(t, book.Authors, 1)
}

func TestUpdateBook_NullClearsPrice(t *testing.T) {
	env := setupTestRouter(t)
	_, _, author := env.seedCatalog(t)

	w := env.request(t, http.MethodPost, "/libros/", gin.H{
		"isbn":        "978-1",
		"titulo":      "The Hobbit",
		"precio":      "15.99",
		"autores_ids": []uint{author.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPatch, "/libros/978-1", json.RawMessage(`{"precio": null}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.False(t, book.Price.Valid)
}

func TestUpdateBook_NullTitleRejected(t *testing.T) {
	env := setupTestRouter(t)
	env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodPatch, "/libros/978-1", json.RawMessage(`{"titulo": null}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBook_NotFound(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodPatch, "/libros/missing", gin.H{"titulo": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBook(t *testing.T) {
	env := setupTestRouter(t)
	env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodDelete, "/libros/978-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/libros/978-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBook_NotFound(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodDelete, "/libros/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBookDetail(t *testing.T) {
	env := setupTestRouter(t)
	env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodGet, "/libros/978-1/detalle", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail entities.BookDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "978-1", detail.ISBN)
	require.NotNil(t, detail.Publisher)
	assert.Equal(t, "Planeta", *detail.Publisher)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Fantasy", *detail.Category)
	assert.Equal(t, []string{"Tolkien"}, detail.Authors)
}

func TestBookPayload_PriceIsNumber(t *testing.T) {
	env := setupTestRouter(t)
	_, _, author := env.seedCatalog(t)

	w := env.request(t, http.MethodPost, "/libros/", gin.H{
		"isbn":        "978-1",
		"titulo":      "The Hobbit",
		"precio":      15.99,
		"autores_ids": []uint{author.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// precio must come back as a JSON number, not a quoted string.
	var created struct {
		Price *float64 `json:"precio"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.Price)
	assert.Equal(t, 15.99, *created.Price)

	w = env.request(t, http.MethodGet, "/libros/978-1/detalle", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Price *float64 `json:"precio"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.NotNil(t, detail.Price)
	assert.Equal(t, 15.99, *detail.Price)
	assert.Contains(t, w.Body.String(), `"precio":15.99`)
}

func TestBookPayload_MissingPriceIsNull(t *testing.T) {
	env := setupTestRouter(t)
	env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodGet, "/libros/978-1/detalle", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Price *float64 `json:"precio"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Nil(t, detail.Price)
	assert.Contains(t, w.Body.String(), `"precio":null`)
}

func TestGetBookDetail_NotFound(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodGet, "/libros/missing/detalle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
