// Package books provides database operations for the book aggregate: the
// libro row plus its libro_autor bridge rows.
//
// Bridge rows are written explicitly (never through gorm associations) so
// that the author set of a book has exactly one source of truth. Mutating
// methods expect to run inside a transaction opened by the caller; pass the
// transaction handle to NewRepository.
package books

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/egarlo/libreria/internal/entities"
	"github.com/egarlo/libreria/internal/utils"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book repository bound to db, which may be a
// transaction handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Exists reports whether a book with the given ISBN is present.
func (r *Repository) Exists(isbn string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("isbn = ?", isbn).Count(&count).Error
	return count > 0, err
}

// GetByISBN retrieves a single book with its author set loaded.
func (r *Repository) GetByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, "isbn = ?", isbn).Error; err != nil {
		return nil, err
	}
	books := []entities.Book{book}
	if err := r.attachAuthors(books); err != nil {
		return nil, err
	}
	return &books[0], nil
}

// List returns books ordered by ISBN for stable pagination.
func (r *Repository) List(skip, limit int) ([]entities.Book, error) {
	var booksList []entities.Book
	query := r.db.Order("isbn ASC")
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&booksList).Error; err != nil {
		return nil, err
	}
	return booksList, r.attachAuthors(booksList)
}

// SearchByTitle performs a case-insensitive substring match on the title.
// Wildcard characters in the fragment match literally.
func (r *Repository) SearchByTitle(fragment string) ([]entities.Book, error) {
	var booksList []entities.Book
	pattern := "%" + utils.EscapeLike(fragment) + "%"
	err := r.db.Where(`LOWER(titulo) LIKE LOWER(?) ESCAPE '\'`, pattern).Order("isbn ASC").Find(&booksList).Error
	if err != nil {
		return nil, err
	}
	return booksList, r.attachAuthors(booksList)
}

// SearchByAuthor returns all books linked to the author via the bridge.
func (r *Repository) SearchByAuthor(authorID uint) ([]entities.Book, error) {
	var booksList []entities.Book
	err := r.db.
		Joins("JOIN libro_autor ON libro_autor.libro_isbn = libro.isbn").
		Where("libro_autor.autor_id = ?", authorID).
		Order("libro.isbn ASC").
		Find(&booksList).Error
	if err != nil {
		return nil, err
	}
	return booksList, r.attachAuthors(booksList)
}

// ListByCategory returns books in the given category.
func (r *Repository) ListByCategory(categoryID uint) ([]entities.Book, error) {
	return r.listWhere("categoria_id = ?", categoryID)
}

// ListByPublisher returns books from the given publisher.
func (r *Repository) ListByPublisher(publisherID uint) ([]entities.Book, error) {
	return r.listWhere("editorial_id = ?", publisherID)
}

// ListByFormat matches the format tag case-insensitively.
func (r *Repository) ListByFormat(format string) ([]entities.Book, error) {
	return r.listWhere("UPPER(formato) = ?", strings.ToUpper(format))
}

// ListByPriceRange returns books priced within [min, max], both ends
// inclusive.
func (r *Repository) ListByPriceRange(min, max decimal.Decimal) ([]entities.Book, error) {
	return r.listWhere("precio >= ? AND precio <= ?", min.InexactFloat64(), max.InexactFloat64())
}

func (r *Repository) listWhere(condition string, args ...interface{}) ([]entities.Book, error) {
	var booksList []entities.Book
	err := r.db.Where(condition, args...).Order("isbn ASC").Find(&booksList).Error
	if err != nil {
		return nil, err
	}
	return booksList, r.attachAuthors(booksList)
}

// Create inserts the book row and one bridge row per author id. Callers
// are expected to run it inside a transaction so the rows commit together.
func (r *Repository) Create(book *entities.Book, authorIDs []uint) error {
	if err := r.db.Create(book).Error; err != nil {
		return err
	}
	return r.insertBridgeRows(book.ISBN, authorIDs)
}

// Save persists changes to an existing book row.
func (r *Repository) Save(book *entities.Book) error {
	return r.db.Save(book).Error
}

// ReplaceAuthors drops every bridge row of the book and inserts the new
// set, even when it is identical to the old one.
func (r *Repository) ReplaceAuthors(isbn string, authorIDs []uint) error {
	err := r.db.Where("libro_isbn = ?", isbn).Delete(&entities.BookAuthor{}).Error
	if err != nil {
		return err
	}
	return r.insertBridgeRows(isbn, authorIDs)
}

// Delete removes the book row and its bridge rows. Referenced publisher,
// category, series, audience and author rows are left untouched.
func (r *Repository) Delete(isbn string) error {
	err := r.db.Where("libro_isbn = ?", isbn).Delete(&entities.BookAuthor{}).Error
	if err != nil {
		return err
	}
	return r.db.Delete(&entities.Book{}, "isbn = ?", isbn).Error
}

// Detail builds the flattened read model for a book, resolving publisher
// and category names and the author name list.
func (r *Repository) Detail(isbn string) (*entities.BookDetail, error) {
	book, err := r.GetByISBN(isbn)
	if err != nil {
		return nil, err
	}

	detail := &entities.BookDetail{
		ISBN:    book.ISBN,
		Title:   book.Title,
		Year:    book.Year,
		Pages:   book.Pages,
		Price:   book.Price,
		Format:  book.Format,
		Authors: make([]string, 0, len(book.Authors)),
	}
	for _, author := range book.Authors {
		detail.Authors = append(detail.Authors, author.Name)
	}

	if book.PublisherID != nil {
		var publisher entities.Publisher
		if err := r.db.First(&publisher, *book.PublisherID).Error; err == nil {
			detail.Publisher = &publisher.Name
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	if book.CategoryID != nil {
		var category entities.Category
		if err := r.db.First(&category, *book.CategoryID).Error; err == nil {
			detail.Category = &category.Name
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	return detail, nil
}

// CoverPaths returns the portada values of every book that has one. Used
// by the orphan-cover sweep.
func (r *Repository) CoverPaths() ([]string, error) {
	var paths []string
	err := r.db.Model(&entities.Book{}).Where("portada IS NOT NULL").Pluck("portada", &paths).Error
	return paths, err
}

func (r *Repository) insertBridgeRows(isbn string, authorIDs []uint) error {
	for _, authorID := range authorIDs {
		row := entities.BookAuthor{BookISBN: isbn, AuthorID: authorID}
		if err := r.db.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

type authorRow struct {
	BookISBN string `gorm:"column:libro_isbn"`
	ID       uint   `gorm:"column:id"`
	Name     string `gorm:"column:nombre"`
}

// attachAuthors loads the author sets for a batch of books in one query.
func (r *Repository) attachAuthors(booksList []entities.Book) error {
	for i := range booksList {
		booksList[i].Authors = []entities.Author{}
	}
	if len(booksList) == 0 {
		return nil
	}

	isbns := make([]string, 0, len(booksList))
	for _, book := range booksList {
		isbns = append(isbns, book.ISBN)
	}

	var rows []authorRow
	err := r.db.Table("libro_autor").
		Select("libro_autor.libro_isbn, autor.id, autor.nombre").
		Joins("JOIN autor ON autor.id = libro_autor.autor_id").
		Where("libro_autor.libro_isbn IN ?", isbns).
		Order("autor.id ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byISBN := make(map[string][]entities.Author, len(booksList))
	for _, row := range rows {
		byISBN[row.BookISBN] = append(byISBN[row.BookISBN], entities.Author{ID: row.ID, Name: row.Name})
	}
	for i := range booksList {
		if authors, ok := byISBN[booksList[i].ISBN]; ok {
			booksList[i].Authors = authors
		}
	}
	return nil
}
