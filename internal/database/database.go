package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/egarlo/libreria/internal/config"
	"github.com/egarlo/libreria/internal/entities"
)

// Database owns the gorm connection pool. It is constructed once at
// process startup and injected into repositories and services; per-request
// units of work are opened with DB.Transaction.
type Database struct {
	DB *gorm.DB
}

func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Publisher{},
		&entities.Category{},
		&entities.Series{},
		&entities.TargetAudience{},
		&entities.Author{},
		&entities.Book{},
		&entities.BookAuthor{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedDefaultSeries(); err != nil {
		return nil, fmt.Errorf("failed to seed default series: %w", err)
	}

	log.Printf("Database initialized (%s)", cfg.Driver)

	return database, nil
}

// NewSQLiteDatabase opens a standalone sqlite database at the given path.
// Used by tests and the seed command.
func NewSQLiteDatabase(path string) (*Database, error) {
	return NewDatabase(config.Database{Driver: config.DriverSQLite, Path: path})
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(cfg.Path), nil
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}

// seedDefaultSeries guarantees the sentinel "no series" row exists so that
// books created without an explicit series have a valid target.
func (d *Database) seedDefaultSeries() error {
	var existing entities.Series
	result := d.DB.First(&existing, entities.SeriesNone)
	if result.Error == gorm.ErrRecordNotFound {
		series := entities.Series{ID: entities.SeriesNone, Name: "Sin serie", BookCount: 0}
		if err := d.DB.Create(&series).Error; err != nil {
			return err
		}
		log.Printf("Created sentinel series %q", series.Name)
	} else if result.Error != nil {
		return result.Error
	}
	return nil
}
