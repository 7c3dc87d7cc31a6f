// Package services implements the application-level protocol on top of the
// repositories: referential-integrity validation that the storage engine
// alone does not enforce, and the single point of mutation for the book
// aggregate (a book plus its author set).
package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/egarlo/libreria/internal/database/books"
	"github.com/egarlo/libreria/internal/database/catalog"
	"github.com/egarlo/libreria/internal/entities"
)

// CreateBookInput is the payload for creating a book together with its
// author set. Optional foreign keys may be omitted; a missing serie_id
// defaults to the sentinel "no series" row.
type CreateBookInput struct {
	ISBN        string           `json:"isbn" binding:"required"`
	Title       string           `json:"titulo" binding:"required"`
	Edition     *string          `json:"edicion"`
	Year        *int             `json:"anio"`
	Pages       *int             `json:"paginas"`
	Price       *decimal.Decimal `json:"precio"`
	Format      *string          `json:"formato"`
	PublisherID *uint            `json:"editorial_id"`
	CategoryID  *uint            `json:"categoria_id"`
	AudienceID  *uint            `json:"publico_id"`
	SeriesID    *uint            `json:"serie_id"`
	SeriesIndex *int             `json:"num_en_serie"`
	AuthorIDs   []uint           `json:"autores_ids"`
}

// BookPatch is the sparse field set for partial updates. Absent fields are
// left untouched; fields set to null clear the column where the schema
// allows it. An included author set fully replaces the bridge rows.
type BookPatch struct {
	Title       Optional[string]          `json:"titulo"`
	Edition     Optional[string]          `json:"edicion"`
	Year        Optional[int]             `json:"anio"`
	Pages       Optional[int]             `json:"paginas"`
	Price       Optional[decimal.Decimal] `json:"precio"`
	Format      Optional[string]          `json:"formato"`
	PublisherID Optional[uint]            `json:"editorial_id"`
	CategoryID  Optional[uint]            `json:"categoria_id"`
	AudienceID  Optional[uint]            `json:"publico_id"`
	SeriesID    Optional[uint]            `json:"serie_id"`
	SeriesIndex Optional[int]             `json:"num_en_serie"`
	AuthorIDs   Optional[[]uint]          `json:"autores_ids"`
}

// BookService validates and mutates the book aggregate. Every mutating
// operation runs in its own transaction; no partial writes are visible
// outside it.
type BookService struct {
	db *gorm.DB
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db}
}

// Create validates the input in a fixed order (ISBN, publisher, category,
// audience, series, authors), then inserts the book row and its bridge
// rows as one unit of work.
func (s *BookService) Create(input CreateBookInput) (*entities.Book, error) {
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	var created *entities.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		bookRepo := books.NewRepository(tx)
		refRepo := catalog.NewRepository(tx)

		exists, err := bookRepo.Exists(input.ISBN)
		if err != nil {
			return err
		}
		if exists {
			return &ConflictError{Entity: "book", Field: "isbn", Value: input.ISBN}
		}

		seriesID := input.SeriesID
		if seriesID == nil {
			sentinel := entities.SeriesNone
			seriesID = &sentinel
		}

		if err := validateReferences(refRepo, input.PublisherID, input.CategoryID, input.AudienceID, seriesID); err != nil {
			return err
		}
		if err := validateAuthors(refRepo, input.AuthorIDs); err != nil {
			return err
		}

		book := entities.Book{
			ISBN:        input.ISBN,
			Title:       input.Title,
			Edition:     "1",
			Year:        input.Year,
			Pages:       input.Pages,
			Format:      normalizeFormat(input.Format),
			PublisherID: input.PublisherID,
			CategoryID:  input.CategoryID,
			AudienceID:  input.AudienceID,
			SeriesID:    seriesID,
			SeriesIndex: 1,
		}
		if input.Edition != nil {
			book.Edition = *input.Edition
		}
		if input.SeriesIndex != nil {
			book.SeriesIndex = *input.SeriesIndex
		}
		if input.Price != nil {
			book.Price = decimal.NewNullDecimal(*input.Price)
		}

		if err := bookRepo.Create(&book, input.AuthorIDs); err != nil {
			return err
		}

		created, err = bookRepo.GetByISBN(book.ISBN)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByISBN returns the book with its author set, or NotFoundError.
func (s *BookService) GetByISBN(isbn string) (*entities.Book, error) {
	book, err := books.NewRepository(s.db).GetByISBN(isbn)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "book", Key: isbn}
	}
	return book, err
}

// List returns a page of books ordered by ISBN.
func (s *BookService) List(skip, limit int) ([]entities.Book, error) {
	return books.NewRepository(s.db).List(skip, limit)
}

// SearchByTitle performs a case-insensitive substring search.
func (s *BookService) SearchByTitle(fragment string) ([]entities.Book, error) {
	return books.NewRepository(s.db).SearchByTitle(fragment)
}

// SearchByAuthor returns books linked to the author through the bridge.
func (s *BookService) SearchByAuthor(authorID uint) ([]entities.Book, error) {
	return books.NewRepository(s.db).SearchByAuthor(authorID)
}

// ListByCategory returns books in the category.
func (s *BookService) ListByCategory(categoryID uint) ([]entities.Book, error) {
	return books.NewRepository(s.db).ListByCategory(categoryID)
}

// ListByPublisher returns books from the publisher.
func (s *BookService) ListByPublisher(publisherID uint) ([]entities.Book, error) {
	return books.NewRepository(s.db).ListByPublisher(publisherID)
}

// ListByFormat matches the format tag case-insensitively.
func (s *BookService) ListByFormat(format string) ([]entities.Book, error) {
	return books.NewRepository(s.db).ListByFormat(format)
}

// ListByPriceRange returns books priced within [min, max] inclusive.
func (s *BookService) ListByPriceRange(min, max decimal.Decimal) ([]entities.Book, error) {
	return books.NewRepository(s.db).ListByPriceRange(min, max)
}

// Detail returns the flattened read model or NotFoundError.
func (s *BookService) Detail(isbn string) (*entities.BookDetail, error) {
	detail, err := books.NewRepository(s.db).Detail(isbn)
	if err == gorm.ErrRecordNotFound {
		return nil, &NotFoundError{Entity: "book", Key: isbn}
	}
	return detail, err
}

// Update applies a sparse patch to an existing book. Provided foreign
// keys are validated like at creation; an included author set replaces the
// bridge rows wholesale even when identical. Everything commits as one
// unit of work.
func (s *BookService) Update(isbn string, patch BookPatch) (*entities.Book, error) {
	if patch.Price.Set {
		if err := validatePrice(patch.Price.Value); err != nil {
			return nil, err
		}
	}

	var updated *entities.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		bookRepo := books.NewRepository(tx)
		refRepo := catalog.NewRepository(tx)

		book, err := bookRepo.GetByISBN(isbn)
		if err == gorm.ErrRecordNotFound {
			return &NotFoundError{Entity: "book", Key: isbn}
		}
		if err != nil {
			return err
		}

		if err := applyPatch(book, patch); err != nil {
			return err
		}
		if err := validateReferences(refRepo, book.PublisherID, book.CategoryID, book.AudienceID, book.SeriesID); err != nil {
			return err
		}

		var newAuthors []uint
		if patch.AuthorIDs.Set {
			if patch.AuthorIDs.Value != nil {
				newAuthors = *patch.AuthorIDs.Value
			}
			if err := validateAuthors(refRepo, newAuthors); err != nil {
				return err
			}
		}

		if err := bookRepo.Save(book); err != nil {
			return err
		}
		if patch.AuthorIDs.Set {
			if err := bookRepo.ReplaceAuthors(isbn, newAuthors); err != nil {
				return err
			}
		}

		updated, err = bookRepo.GetByISBN(isbn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the book and its bridge rows atomically. Referenced
// publisher, category, series, audience and author rows survive.
func (s *BookService) Delete(isbn string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		bookRepo := books.NewRepository(tx)
		exists, err := bookRepo.Exists(isbn)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Entity: "book", Key: isbn}
		}
		return bookRepo.Delete(isbn)
	})
}

// SetCoverPath records the stored cover location on the book.
func (s *BookService) SetCoverPath(isbn, path string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		bookRepo := books.NewRepository(tx)
		book, err := bookRepo.GetByISBN(isbn)
		if err == gorm.ErrRecordNotFound {
			return &NotFoundError{Entity: "book", Key: isbn}
		}
		if err != nil {
			return err
		}
		book.CoverPath = &path
		return bookRepo.Save(book)
	})
}

func applyPatch(book *entities.Book, patch BookPatch) error {
	if patch.Title.Set {
		if patch.Title.Value == nil {
			return &ValidationError{Field: "titulo", Reason: "must not be null"}
		}
		book.Title = *patch.Title.Value
	}
	if patch.Edition.Set {
		if patch.Edition.Value == nil {
			return &ValidationError{Field: "edicion", Reason: "must not be null"}
		}
		book.Edition = *patch.Edition.Value
	}
	if patch.Year.Set {
		book.Year = patch.Year.Value
	}
	if patch.Pages.Set {
		book.Pages = patch.Pages.Value
	}
	if patch.Price.Set {
		if patch.Price.Value == nil {
			book.Price = decimal.NullDecimal{}
		} else {
			book.Price = decimal.NewNullDecimal(*patch.Price.Value)
		}
	}
	if patch.Format.Set {
		book.Format = normalizeFormat(patch.Format.Value)
	}
	if patch.PublisherID.Set {
		book.PublisherID = patch.PublisherID.Value
	}
	if patch.CategoryID.Set {
		book.CategoryID = patch.CategoryID.Value
	}
	if patch.AudienceID.Set {
		book.AudienceID = patch.AudienceID.Value
	}
	if patch.SeriesID.Set {
		book.SeriesID = patch.SeriesID.Value
	}
	if patch.SeriesIndex.Set {
		if patch.SeriesIndex.Value == nil {
			return &ValidationError{Field: "num_en_serie", Reason: "must not be null"}
		}
		book.SeriesIndex = *patch.SeriesIndex.Value
	}
	return nil
}

// validateReferences checks the four optional foreign keys in the fixed
// order publisher, category, audience, series. A nil key is valid.
func validateReferences(refRepo *catalog.Repository, publisherID, categoryID, audienceID, seriesID *uint) error {
	checks := []struct {
		field  string
		id     *uint
		exists func(uint) (bool, error)
	}{
		{"editorial_id", publisherID, refRepo.ExistsPublisher},
		{"categoria_id", categoryID, refRepo.ExistsCategory},
		{"publico_id", audienceID, refRepo.ExistsAudience},
		{"serie_id", seriesID, refRepo.ExistsSeries},
	}
	for _, check := range checks {
		if check.id == nil {
			continue
		}
		ok, err := check.exists(*check.id)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidReferenceError{Field: check.field, ID: *check.id}
		}
	}
	return nil
}

func validateAuthors(refRepo *catalog.Repository, authorIDs []uint) error {
	missing, err := refRepo.MissingAuthors(authorIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &InvalidReferenceError{Field: "autores_ids", ID: missing[0]}
	}
	return nil
}

func validatePrice(price *decimal.Decimal) error {
	if price == nil {
		return nil
	}
	if price.IsNegative() {
		return &ValidationError{Field: "precio", Reason: "must not be negative"}
	}
	if price.Exponent() < -2 {
		return &ValidationError{Field: "precio", Reason: "at most 2 decimal places"}
	}
	return nil
}

func normalizeFormat(format *string) *string {
	if format == nil {
		return nil
	}
	normalized := strings.ToUpper(*format)
	return &normalized
}
