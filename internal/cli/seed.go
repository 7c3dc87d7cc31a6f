package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/egarlo/libreria/internal/config"
	"github.com/egarlo/libreria/internal/database"
	"github.com/egarlo/libreria/internal/entities"
	"github.com/egarlo/libreria/internal/services"
)

// SeedCommand loads a small sample catalog into a fresh database, useful
// for local development and demos.
type SeedCommand struct {
	DatabasePath string
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the sqlite database file to seed")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Seed the catalog with sample publishers, categories, authors and books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SeedCommand) Run() error {
	db, err := database.NewSQLiteDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	catalogService := services.NewCatalogService(db.DB)
	bookService := services.NewBookService(db.DB)

	planeta := entities.Publisher{Name: "Planeta", Street: "Av. Diagonal 662", PostalCode: "08034"}
	if err := catalogService.CreatePublisher(&planeta); err != nil {
		return fmt.Errorf("failed to seed publisher: %w", err)
	}

	fantasy := entities.Category{Name: "Fantasy"}
	if err := catalogService.CreateCategory(&fantasy); err != nil {
		return fmt.Errorf("failed to seed category: %w", err)
	}

	adult := entities.TargetAudience{Name: "Adult"}
	if err := catalogService.CreateAudience(&adult); err != nil {
		return fmt.Errorf("failed to seed audience: %w", err)
	}

	tolkien := entities.Author{Name: "J. R. R. Tolkien"}
	if err := catalogService.CreateAuthor(&tolkien); err != nil {
		return fmt.Errorf("failed to seed author: %w", err)
	}

	price := decimal.RequireFromString("15.99")
	format := "FISICO"
	_, err = bookService.Create(services.CreateBookInput{
		ISBN:        "978-0261102217",
		Title:       "The Hobbit",
		Price:       &price,
		Format:      &format,
		PublisherID: &planeta.ID,
		CategoryID:  &fantasy.ID,
		AudienceID:  &adult.ID,
		AuthorIDs:   []uint{tolkien.ID},
	})
	if err != nil {
		return fmt.Errorf("failed to seed book: %w", err)
	}

	fmt.Printf("Seeded sample catalog into %s\n", cmd.DatabasePath)
	return nil
}
