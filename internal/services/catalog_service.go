package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/egarlo/libreria/internal/database/catalog"
	"github.com/egarlo/libreria/internal/entities"
)

// CatalogService manages the reference tables books point at. It enforces
// the unique-name invariants of categories and target audiences and
// refuses to delete rows that books still reference.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// --- Publishers ---

func (s *CatalogService) CreatePublisher(publisher *entities.Publisher) error {
	// The database assigns ids; client-supplied ones are ignored.
	publisher.ID = 0
	return catalog.NewRepository(s.db).CreatePublisher(publisher)
}

func (s *CatalogService) GetPublisher(id uint) (*entities.Publisher, error) {
	publisher, err := catalog.NewRepository(s.db).GetPublisher(id)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "publisher", Key: fmt.Sprint(id)}
	}
	return publisher, err
}

func (s *CatalogService) ListPublishers() ([]entities.Publisher, error) {
	return catalog.NewRepository(s.db).ListPublishers()
}

func (s *CatalogService) UpdatePublisher(id uint, publisher *entities.Publisher) (*entities.Publisher, error) {
	repo := catalog.NewRepository(s.db)
	existing, err := repo.GetPublisher(id)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "publisher", Key: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, err
	}
	publisher.ID = existing.ID
	if err := repo.SavePublisher(publisher); err != nil {
		return nil, err
	}
	return publisher, nil
}

func (s *CatalogService) DeletePublisher(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		exists, err := repo.ExistsPublisher(id)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "publisher", Key: fmt.Sprint(id)}
		}
		inUse, err := repo.PublisherInUse(id)
		if err != nil {
			return err
		}
		if inUse {
			return &InUseError{Entity: "publisher", ID: id}
		}
		return repo.DeletePublisher(id)
	})
}

// --- Categories ---

func (s *CatalogService) CreateCategory(category *entities.Category) error {
	category.ID = 0
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		existing, err := repo.GetCategoryByName(category.Name)
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if existing != nil {
			return &ConflictError{Entity: "category", Field: "nombre", Value: category.Name}
		}
		return repo.CreateCategory(category)
	})
}

func (s *CatalogService) GetCategory(id uint) (*entities.Category, error) {
	category, err := catalog.NewRepository(s.db).GetCategory(id)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "category", Key: fmt.Sprint(id)}
	}
	return category, err
}

func (s *CatalogService) ListCategories() ([]entities.Category, error) {
	return catalog.NewRepository(s.db).ListCategories()
}

func (s *CatalogService) UpdateCategory(id uint, category *entities.Category) (*entities.Category, error) {
	var updated *entities.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		existing, err := repo.GetCategory(id)
		if err == gorm.ErrRecordNotFound {
			return &NotFoundError{Entity: "category", Key: fmt.Sprint(id)}
		}
		if err != nil {
			return err
		}
		byName, err := repo.GetCategoryByName(category.Name)
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if byName != nil && byName.ID != existing.ID {
			return &ConflictError{Entity: "category", Field: "nombre", Value: category.Name}
		}
		category.ID = existing.ID
		if err := repo.SaveCategory(category); err != nil {
			return err
		}
		updated = category
		return nil
	})
	return updated, err
}

func (s *CatalogService) DeleteCategory(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		exists, err := repo.ExistsCategory(id)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "category", Key: fmt.Sprint(id)}
		}
		inUse, err := repo.CategoryInUse(id)
		if err != nil {
			return err
		}
		if inUse {
			return &InUseError{Entity: "category", ID: id}
		}
		return repo.DeleteCategory(id)
	})
}

// --- Series ---

func (s *CatalogService) CreateSeries(series *entities.Series) error {
	series.ID = 0
	return catalog.NewRepository(s.db).CreateSeries(series)
}

func (s *CatalogService) GetSeries(id uint) (*entities.Series, error) {
	series, err := catalog.NewRepository(s.db).GetSeries(id)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "series", Key: fmt.Sprint(id)}
	}
	return series, err
}

func (s *CatalogService) ListSeries() ([]entities.Series, error) {
	return catalog.NewRepository(s.db).ListSeries()
}

func (s *CatalogService) UpdateSeries(id uint, series *entities.Series) (*entities.Series, error) {
	repo := catalog.NewRepository(s.db)
	existing, err := repo.GetSeries(id)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "series", Key: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, err
	}
	series.ID = existing.ID
	if err := repo.SaveSeries(series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *CatalogService) DeleteSeries(id uint) error {
	if id == entities.SeriesNone {
		return &InUseError{Entity: "series", ID: id}
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		exists, err := repo.ExistsSeries(id)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "series", Key: fmt.Sprint(id)}
		}
		inUse, err := repo.SeriesInUse(id)
		if err != nil {
			return err
		}
		if inUse {
			return &InUseError{Entity: "series", ID: id}
		}
		return repo.DeleteSeries(id)
	})
}

// --- Target audiences ---

func (s *CatalogService) CreateAudience(audience *entities.TargetAudience) error {
	audience.ID = 0
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		existing, err := repo.GetAudienceByName(audience.Name)
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if existing != nil {
			return &ConflictError{Entity: "audience", Field: "nombre", Value: audience.Name}
		}
		return repo.CreateAudience(audience)
	})
}

func (s *CatalogService) GetAudience(id uint) (*entities.TargetAudience, error) {
	audience, err := catalog.NewRepository(s.db).GetAudience(id)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "audience", Key: fmt.Sprint(id)}
	}
	return audience, err
}

func (s *CatalogService) ListAudiences() ([]entities.TargetAudience, error) {
	return catalog.NewRepository(s.db).ListAudiences()
}

func (s *CatalogService) UpdateAudience(id uint, audience *entities.TargetAudience) (*entities.TargetAudience, error) {
	var updated *entities.TargetAudience
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		existing, err := repo.GetAudience(id)
		if err == gorm.ErrRecordNotFound {
			return &NotFoundError{Entity: "audience", Key: fmt.Sprint(id)}
		}
		if err != nil {
			return err
		}
		byName, err := repo.GetAudienceByName(audience.Name)
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if byName != nil && byName.ID != existing.ID {
			return &ConflictError{Entity: "audience", Field: "nombre", Value: audience.Name}
		}
		audience.ID = existing.ID
		if err := repo.SaveAudience(audience); err != nil {
			return err
		}
		updated = audience
		return nil
	})
	return updated, err
}

func (s *CatalogService) DeleteAudience(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		exists, err := repo.ExistsAudience(id)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "audience", Key: fmt.Sprint(id)}
		}
		inUse, err := repo.AudienceInUse(id)
		if err != nil {
			return err
		}
		if inUse {
			return &InUseError{Entity: "audience", ID: id}
		}
		return repo.DeleteAudience(id)
	})
}

// --- Authors ---

func (s *CatalogService) CreateAuthor(author *entities.Author) error {
	author.ID = 0
	return catalog.NewRepository(s.db).CreateAuthor(author)
}

func (s *CatalogService) GetAuthor(id uint) (*entities.Author, error) {
	author, err := catalog.NewRepository(s.db).GetAuthor(id)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "author", Key: fmt.Sprint(id)}
	}
	return author, err
}

func (s *CatalogService) ListAuthors() ([]entities.Author, error) {
	return catalog.NewRepository(s.db).ListAuthors()
}

func (s *CatalogService) SearchAuthors(fragment string) ([]entities.Author, error) {
	return catalog.NewRepository(s.db).SearchAuthors(fragment)
}

func (s *CatalogService) UpdateAuthor(id uint, author *entities.Author) (*entities.Author, error) {
	repo := catalog.NewRepository(s.db)
	existing, err := repo.GetAuthor(id)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "author", Key: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, err
	}
	author.ID = existing.ID
	if err := repo.SaveAuthor(author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *CatalogService) DeleteAuthor(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := catalog.NewRepository(tx)
		exists, err := repo.ExistsAuthor(id)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "author", Key: fmt.Sprint(id)}
		}
		inUse, err := repo.AuthorInUse(id)
		if err != nil {
			return err
		}
		if inUse {
			return &InUseError{Entity: "author", ID: id}
		}
		return repo.DeleteAuthor(id)
	})
}
