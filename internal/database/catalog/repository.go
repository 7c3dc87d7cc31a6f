// Package catalog provides database operations for the reference tables
// the book aggregate points at: publishers, categories, series, target
// audiences and authors.
package catalog

import (
	"gorm.io/gorm"

	"github.com/egarlo/libreria/internal/entities"
	"github.com/egarlo/libreria/internal/utils"
)

// Repository handles reference-entity database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository bound to db, which may be
// a transaction handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Publishers ---

func (r *Repository) CreatePublisher(publisher *entities.Publisher) error {
	return r.db.Create(publisher).Error
}

func (r *Repository) GetPublisher(id uint) (*entities.Publisher, error) {
	var publisher entities.Publisher
	if err := r.db.First(&publisher, id).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

func (r *Repository) ListPublishers() ([]entities.Publisher, error) {
	var publishers []entities.Publisher
	err := r.db.Order("id ASC").Find(&publishers).Error
	return publishers, err
}

func (r *Repository) SavePublisher(publisher *entities.Publisher) error {
	return r.db.Save(publisher).Error
}

func (r *Repository) DeletePublisher(id uint) error {
	return r.db.Delete(&entities.Publisher{}, id).Error
}

func (r *Repository) ExistsPublisher(id uint) (bool, error) {
	return r.exists(&entities.Publisher{}, id)
}

// PublisherInUse reports whether any book still references the publisher.
func (r *Repository) PublisherInUse(id uint) (bool, error) {
	return r.bookReferences("editorial_id = ?", id)
}

// --- Categories ---

func (r *Repository) CreateCategory(category *entities.Category) error {
	return r.db.Create(category).Error
}

func (r *Repository) GetCategory(id uint) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoryByName performs a case-insensitive name lookup, used to
// enforce the unique-name invariant before insert.
func (r *Repository) GetCategoryByName(name string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Where("LOWER(nombre) = LOWER(?)", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) ListCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *Repository) SaveCategory(category *entities.Category) error {
	return r.db.Save(category).Error
}

func (r *Repository) DeleteCategory(id uint) error {
	return r.db.Delete(&entities.Category{}, id).Error
}

func (r *Repository) ExistsCategory(id uint) (bool, error) {
	return r.exists(&entities.Category{}, id)
}

func (r *Repository) CategoryInUse(id uint) (bool, error) {
	return r.bookReferences("categoria_id = ?", id)
}

// --- Series ---

func (r *Repository) CreateSeries(series *entities.Series) error {
	return r.db.Create(series).Error
}

func (r *Repository) GetSeries(id uint) (*entities.Series, error) {
	var series entities.Series
	if err := r.db.First(&series, id).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

func (r *Repository) ListSeries() ([]entities.Series, error) {
	var series []entities.Series
	err := r.db.Order("id ASC").Find(&series).Error
	return series, err
}

func (r *Repository) SaveSeries(series *entities.Series) error {
	return r.db.Save(series).Error
}

func (r *Repository) DeleteSeries(id uint) error {
	return r.db.Delete(&entities.Series{}, id).Error
}

func (r *Repository) ExistsSeries(id uint) (bool, error) {
	return r.exists(&entities.Series{}, id)
}

func (r *Repository) SeriesInUse(id uint) (bool, error) {
	return r.bookReferences("serie_id = ?", id)
}

// --- Target audiences ---

func (r *Repository) CreateAudience(audience *entities.TargetAudience) error {
	return r.db.Create(audience).Error
}

func (r *Repository) GetAudience(id uint) (*entities.TargetAudience, error) {
	var audience entities.TargetAudience
	if err := r.db.First(&audience, id).Error; err != nil {
		return nil, err
	}
	return &audience, nil
}

func (r *Repository) GetAudienceByName(name string) (*entities.TargetAudience, error) {
	var audience entities.TargetAudience
	err := r.db.Where("LOWER(nombre) = LOWER(?)", name).First(&audience).Error
	if err != nil {
		return nil, err
	}
	return &audience, nil
}

func (r *Repository) ListAudiences() ([]entities.TargetAudience, error) {
	var audiences []entities.TargetAudience
	err := r.db.Order("id ASC").Find(&audiences).Error
	return audiences, err
}

func (r *Repository) SaveAudience(audience *entities.TargetAudience) error {
	return r.db.Save(audience).Error
}

func (r *Repository) DeleteAudience(id uint) error {
	return r.db.Delete(&entities.TargetAudience{}, id).Error
}

func (r *Repository) ExistsAudience(id uint) (bool, error) {
	return r.exists(&entities.TargetAudience{}, id)
}

func (r *Repository) AudienceInUse(id uint) (bool, error) {
	return r.bookReferences("publico_id = ?", id)
}

// --- Authors ---

func (r *Repository) CreateAuthor(author *entities.Author) error {
	return r.db.Create(author).Error
}

func (r *Repository) GetAuthor(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *Repository) ListAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("id ASC").Find(&authors).Error
	return authors, err
}

// SearchAuthors matches author names case-insensitively by substring.
// Wildcard characters in the fragment match literally.
func (r *Repository) SearchAuthors(fragment string) ([]entities.Author, error) {
	var authors []entities.Author
	pattern := "%" + utils.EscapeLike(fragment) + "%"
	err := r.db.Where(`LOWER(nombre) LIKE LOWER(?) ESCAPE '\'`, pattern).Order("id ASC").Find(&authors).Error
	return authors, err
}

func (r *Repository) SaveAuthor(author *entities.Author) error {
	return r.db.Save(author).Error
}

func (r *Repository) DeleteAuthor(id uint) error {
	return r.db.Delete(&entities.Author{}, id).Error
}

func (r *Repository) ExistsAuthor(id uint) (bool, error) {
	return r.exists(&entities.Author{}, id)
}

// AuthorInUse reports whether any bridge row still references the author.
func (r *Repository) AuthorInUse(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.BookAuthor{}).Where("autor_id = ?", id).Count(&count).Error
	return count > 0, err
}

// MissingAuthors returns the subset of ids with no matching author row,
// preserving input order.
func (r *Repository) MissingAuthors(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := r.db.Model(&entities.Author{}).Where("id IN ?", ids).Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *Repository) exists(model interface{}, id uint) (bool, error) {
	var count int64
	err := r.db.Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) bookReferences(condition string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where(condition, id).Count(&count).Error
	return count > 0, err
}
