package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egarlo/libreria/internal/entities"
	"github.com/egarlo/libreria/internal/services"
)

// CatalogController exposes CRUD over the reference tables: publishers,
// categories, series, target audiences and authors.
type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController(service *services.CatalogService) *CatalogController {
	return &CatalogController{service: service}
}

// --- Publishers ---

func (controller *CatalogController) ListPublishers(c *gin.Context) {
	publishers, err := controller.service.ListPublishers()
	if err != nil {
		respondInternalError(c, err, "list publishers")
		return
	}
	c.JSON(http.StatusOK, publishers)
}

func (controller *CatalogController) CreatePublisher(c *gin.Context) {
	var publisher entities.Publisher
	if err := c.ShouldBindJSON(&publisher); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := controller.service.CreatePublisher(&publisher); err != nil {
		respondServiceError(c, err, "create publisher")
		return
	}
	c.JSON(http.StatusCreated, publisher)
}

func (controller *CatalogController) GetPublisher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	publisher, err := controller.service.GetPublisher(id)
	if err != nil {
		respondServiceError(c, err, "get publisher")
		return
	}
	c.JSON(http.StatusOK, publisher)
}

func (controller *CatalogController) UpdatePublisher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var publisher entities.Publisher
	if err := c.ShouldBindJSON(&publisher); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	updated, err := controller.service.UpdatePublisher(id, &publisher)
	if err != nil {
		respondServiceError(c, err, "update publisher")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (controller *CatalogController) DeletePublisher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := controller.service.DeletePublisher(id); err != nil {
		respondServiceError(c, err, "delete publisher")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Editorial eliminada"})
}

// --- Categories ---

func (controller *CatalogController) ListCategories(c *gin.Context) {
	categories, err := controller.service.ListCategories()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (controller *CatalogController) CreateCategory(c *gin.Context) {
	var category entities.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := controller.service.CreateCategory(&category); err != nil {
		respondServiceError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (controller *CatalogController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := controller.service.GetCategory(id)
	if err != nil {
		respondServiceError(c, err, "get category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (controller *CatalogController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var category entities.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	updated, err := controller.service.UpdateCategory(id, &category)
	if err != nil {
		respondServiceError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (controller *CatalogController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := controller.service.DeleteCategory(id); err != nil {
		respondServiceError(c, err, "delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Categoría eliminada"})
}

// --- Series ---

func (controller *CatalogController) ListSeries(c *gin.Context) {
	series, err := controller.service.ListSeries()
	if err != nil {
		respondInternalError(c, err, "list series")
		return
	}
	c.JSON(http.StatusOK, series)
}

func (controller *CatalogController) CreateSeries(c *gin.Context) {
	var series entities.Series
	if err := c.ShouldBindJSON(&series); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := controller.service.CreateSeries(&series); err != nil {
		respondServiceError(c, err, "create series")
		return
	}
	c.JSON(http.StatusCreated, series)
}

func (controller *CatalogController) GetSeries(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	series, err := controller.service.GetSeries(id)
	if err != nil {
		respondServiceError(c, err, "get series")
		return
	}
	c.JSON(http.StatusOK, series)
}

func (controller *CatalogController) UpdateSeries(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var series entities.Series
	if err := c.ShouldBindJSON(&series); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	updated, err := controller.service.UpdateSeries(id, &series)
	if err != nil {
		respondServiceError(c, err, "update series")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (controller *CatalogController) DeleteSeries(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := controller.service.DeleteSeries(id); err != nil {
		respondServiceError(c, err, "delete series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Serie eliminada"})
}

// --- Target audiences ---

func (controller *CatalogController) ListAudiences(c *gin.Context) {
	audiences, err := controller.service.ListAudiences()
	if err != nil {
		respondInternalError(c, err, "list audiences")
		return
	}
	c.JSON(http.StatusOK, audiences)
}

func (controller *CatalogController) CreateAudience(c *gin.Context) {
	var audience entities.TargetAudience
	if err := c.ShouldBindJSON(&audience); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := controller.service.CreateAudience(&audience); err != nil {
		respondServiceError(c, err, "create audience")
		return
	}
	c.JSON(http.StatusCreated, audience)
}

func (controller *CatalogController) GetAudience(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	audience, err := controller.service.GetAudience(id)
	if err != nil {
		respondServiceError(c, err, "get audience")
		return
	}
	c.JSON(http.StatusOK, audience)
}

func (controller *CatalogController) UpdateAudience(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var audience entities.TargetAudience
	if err := c.ShouldBindJSON(&audience); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	updated, err := controller.service.UpdateAudience(id, &audience)
	if err != nil {
		respondServiceError(c, err, "update audience")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (controller *CatalogController) DeleteAudience(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := controller.service.DeleteAudience(id); err != nil {
		respondServiceError(c, err, "delete audience")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Público objetivo eliminado"})
}

// --- Authors ---

func (controller *CatalogController) ListAuthors(c *gin.Context) {
	if fragment := c.Query("nombre"); fragment != "" {
		authors, err := controller.service.SearchAuthors(fragment)
		if err != nil {
			respondInternalError(c, err, "search authors")
			return
		}
		c.JSON(http.StatusOK, authors)
		return
	}

	authors, err := controller.service.ListAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (controller *CatalogController) CreateAuthor(c *gin.Context) {
	var author entities.Author
	if err := c.ShouldBindJSON(&author); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := controller.service.CreateAuthor(&author); err != nil {
		respondServiceError(c, err, "create author")
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (controller *CatalogController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := controller.service.GetAuthor(id)
	if err != nil {
		respondServiceError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

func (controller *CatalogController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var author entities.Author
	if err := c.ShouldBindJSON(&author); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	updated, err := controller.service.UpdateAuthor(id, &author)
	if err != nil {
		respondServiceError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (controller *CatalogController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := controller.service.DeleteAuthor(id); err != nil {
		respondServiceError(c, err, "delete author")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Autor eliminado"})
}
