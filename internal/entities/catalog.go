package entities

import (
	"github.com/shopspring/decimal"
)

func init() {
	// precio travels the wire as a JSON number (or null), never as a
	// quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// SeriesNone is the id of the sentinel "no series" row seeded at migration
// time. Books created without an explicit series point here.
const SeriesNone = uint(1)

// Publisher is an independent reference table ("editorial").
type Publisher struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"column:nombre;size:150" json:"nombre" binding:"required"`
	Street     string  `gorm:"column:calle;size:150" json:"calle"`
	City       *string `gorm:"column:ciudad;size:100" json:"ciudad"`
	Country    *string `gorm:"column:pais;size:100" json:"pais"`
	PostalCode string  `gorm:"column:cp;size:10" json:"cp"`
}

func (Publisher) TableName() string {
	return "editorial"
}

// Category groups books by genre ("categoria"). Names are unique.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nombre;size:100;uniqueIndex" json:"nombre" binding:"required"`
}

func (Category) TableName() string {
	return "categoria"
}

// Series is a book series ("serie") with its expected volume count.
type Series struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"column:nombre;size:150" json:"nombre" binding:"required"`
	BookCount int    `gorm:"column:num_libros;default:1" json:"num_libros"`
}

func (Series) TableName() string {
	return "serie"
}

// TargetAudience tags the intended readership ("publico_objetivo").
// Names are unique.
type TargetAudience struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nombre;size:50;uniqueIndex" json:"nombre" binding:"required"`
}

func (TargetAudience) TableName() string {
	return "publico_objetivo"
}

// Author is linked to books through the libro_autor bridge table.
type Author struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nombre;size:150" json:"nombre" binding:"required"`
}

func (Author) TableName() string {
	return "autor"
}

// BookAuthor is the many-to-many bridge between books and authors.
// Bridge rows are the sole source of truth for a book's author set and are
// managed explicitly by the book repository, never through gorm
// associations.
type BookAuthor struct {
	BookISBN string `gorm:"column:libro_isbn;primaryKey;size:20" json:"libro_isbn"`
	AuthorID uint   `gorm:"column:autor_id;primaryKey" json:"autor_id"`
}

func (BookAuthor) TableName() string {
	return "libro_autor"
}

// Book is the aggregate root ("libro"). The ISBN is assigned at creation
// and never changes. Foreign keys are nullable; when present they must
// reference existing rows, which the book service enforces before any
// write. Formato is stored uppercase.
type Book struct {
	ISBN        string              `gorm:"column:isbn;primaryKey;size:20" json:"isbn"`
	Title       string              `gorm:"column:titulo;size:200" json:"titulo"`
	Edition     string              `gorm:"column:edicion;size:50" json:"edicion"`
	Year        *int                `gorm:"column:anio" json:"anio"`
	Pages       *int                `gorm:"column:paginas" json:"paginas"`
	Price       decimal.NullDecimal `gorm:"column:precio;type:decimal(10,2)" json:"precio"`
	Format      *string             `gorm:"column:formato;size:20" json:"formato"`
	PublisherID *uint               `gorm:"column:editorial_id" json:"editorial_id"`
	CategoryID  *uint               `gorm:"column:categoria_id" json:"categoria_id"`
	AudienceID  *uint               `gorm:"column:publico_id" json:"publico_id"`
	SeriesID    *uint               `gorm:"column:serie_id" json:"serie_id"`
	SeriesIndex int                 `gorm:"column:num_en_serie;default:1" json:"num_en_serie"`
	CoverPath   *string             `gorm:"column:portada;size:255" json:"portada"`

	// Loaded explicitly from the bridge table by the repository.
	Authors []Author `gorm:"-" json:"autores"`
}

func (Book) TableName() string {
	return "libro"
}

// BookDetail is the flattened read model served by /libros/:isbn/detalle.
type BookDetail struct {
	ISBN      string              `json:"isbn"`
	Title     string              `json:"titulo"`
	Year      *int                `json:"anio"`
	Pages     *int                `json:"paginas"`
	Price     decimal.NullDecimal `json:"precio"`
	Format    *string             `json:"formato"`
	Publisher *string             `json:"editorial"`
	Category  *string             `json:"categoria"`
	Authors   []string            `json:"autores"`
}
