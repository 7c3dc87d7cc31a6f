package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Covers
		CoverSweep
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	// Database holds the connection parameters resolved at startup.
	// Driver selects between the embedded sqlite store (Path) and
	// postgres (Host/Port/User/Password/Name).
	Database struct {
		Driver   string
		Path     string
		Host     string
		Port     int
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	// Covers configures the content directory for uploaded cover images
	// and the URL prefix they are served under.
	Covers struct {
		Dir       string
		URLPrefix string
	}

	// CoverSweep configures the periodic removal of cover files that no
	// book references anymore.
	CoverSweep struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "libreria")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("covers_dir", DefaultCoversDir)
	v.SetDefault("covers_url_prefix", "/static/covers")
	v.SetDefault("cover_sweep_enabled", false)
	v.SetDefault("cover_sweep_schedule", "0 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   v.GetString("DB_DRIVER"),
			Path:     v.GetString("DATABASE_PATH"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Covers: Covers{
			Dir:       v.GetString("COVERS_DIR"),
			URLPrefix: v.GetString("COVERS_URL_PREFIX"),
		},
		CoverSweep: CoverSweep{
			Enabled:  v.GetBool("COVER_SWEEP_ENABLED"),
			Schedule: v.GetString("COVER_SWEEP_SCHEDULE"),
		},
	}
}
