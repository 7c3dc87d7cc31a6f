// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, sentinel seeding
//	├── books/           # Book rows and their libro_autor bridge rows
//	└── catalog/         # Reference tables: publishers, categories, series,
//	                     # target audiences and authors
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific
// operations. Repositories are cheap to construct and are bound to
// whatever handle they are given, so services open a transaction and build
// repositories on the transaction handle:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	err = db.DB.Transaction(func(tx *gorm.DB) error {
//		bookRepo := books.NewRepository(tx)
//		refRepo := catalog.NewRepository(tx)
//		// validate against refRepo, then write through bookRepo
//		return nil
//	})
//
// The Database struct itself only owns the connection pool, runs the
// migrations and seeds the sentinel "no series" row.
package database
