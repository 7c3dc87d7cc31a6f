package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egarlo/libreria/internal/covers"
	"github.com/egarlo/libreria/internal/services"
)

// CoversController handles cover image uploads for books.
type CoversController struct {
	store   *covers.Store
	service *services.BookService
}

func NewCoversController(store *covers.Store, service *services.BookService) *CoversController {
	return &CoversController{
		store:   store,
		service: service,
	}
}

// UploadCover handles POST /libros/:isbn/portada with a multipart file.
// The file is stored under the covers directory as {isbn}_{filename} and
// the book's portada column is updated to the public path. Re-uploading
// the same filename overwrites the previous file.
func (cc *CoversController) UploadCover(c *gin.Context) {
	isbn := c.Param("isbn")

	// Reject unknown ISBNs before touching the filesystem.
	if _, err := cc.service.GetByISBN(isbn); err != nil {
		respondServiceError(c, err, "upload cover")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	path, err := cc.store.Save(isbn, fileHeader.Filename, file)
	if err != nil {
		respondInternalError(c, err, "store cover")
		return
	}

	if err := cc.service.SetCoverPath(isbn, path); err != nil {
		respondServiceError(c, err, "record cover path")
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Portada subida correctamente", "portada": path})
}
