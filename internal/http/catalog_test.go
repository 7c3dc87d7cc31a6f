package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egarlo/libreria/internal/entities"
)

func TestPublisherCRUD(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodPost, "/editoriales/", gin.H{
		"nombre": "Planeta",
		"calle":  "Av. Diagonal 662",
		"cp":     "08034",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var publisher entities.Publisher
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &publisher))
	require.NotZero(t, publisher.ID)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/editoriales/%d", publisher.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPut, fmt.Sprintf("/editoriales/%d", publisher.ID), gin.H{
		"nombre": "Planeta Libros",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated entities.Publisher
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, publisher.ID, updated.ID)
	assert.Equal(t, "Planeta Libros", updated.Name)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/editoriales/%d", publisher.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/editoriales/%d", publisher.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublisher_InvalidID(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodGet, "/editoriales/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodPost, "/categorias/", gin.H{"nombre": "Fantasy"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/categorias/", gin.H{"nombre": "Fantasy"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCategory_MissingName(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodPost, "/categorias/", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCategory_InUse(t *testing.T) {
	env := setupTestRouter(t)
	_, category, _ := env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/categorias/%d", category.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Once the book is gone the category can be removed.
	w = env.request(t, http.MethodDelete, "/libros/978-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("/categorias/%d", category.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListSeries_IncludesSentinel(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodGet, "/series/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var series []entities.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
	require.Len(t, series, 1)
	assert.Equal(t, "Sin serie", series[0].Name)
}

func TestDeleteSeries_SentinelRefused(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/series/%d", entities.SeriesNone), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAudience_Duplicate(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodPost, "/publicos/", gin.H{"nombre": "Adult"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/publicos/", gin.H{"nombre": "adult"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListAuthors_NameSearch(t *testing.T) {
	env := setupTestRouter(t)

	for _, name := range []string{"J. R. R. Tolkien", "J. K. Rowling"} {
		w := env.request(t, http.MethodPost, "/autores/", gin.H{"nombre": name})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.request(t, http.MethodGet, "/autores/?nombre=tolkien", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var authors []entities.Author
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &authors))
	require.Len(t, authors, 1)
	assert.Equal(t, "J. R. R. Tolkien", authors[0].Name)

	w = env.request(t, http.MethodGet, "/autores/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &authors))
	assert.Len(t, authors, 2)
}

func TestDeleteAuthor_InUse(t *testing.T) {
	env := setupTestRouter(t)
	_, _, author := env.seedBook(t, "978-1", "The Hobbit")

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/autores/%d", author.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetAuthor_NotFound(t *testing.T) {
	env := setupTestRouter(t)

	w := env.request(t, http.MethodGet, "/autores/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
