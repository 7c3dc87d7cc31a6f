package config

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultDatabasePath = "./libreria.db"
	DefaultCoversDir    = "./static/covers"
)
