package gorm

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverPostgres selects gorm.io/driver/postgres
	DriverPostgres = "postgres"
	// DriverSQLite selects gorm.io/driver/sqlite
	DriverSQLite = "sqlite"
)

// PostgresOptions struct
type PostgresOptions struct {
	Host     string
	Port     string
	Username string
	Password string
	DbName   string
	SSLMode  bool
}

// Connect opens the archive database for the given driver
func Connect(driver string, pg PostgresOptions, sqlitePath string) (*gorm.DB, error) {
	switch driver {
	case DriverPostgres:
		return ConnectToPostgreSQL(pg)
	case DriverSQLite, "":
		return ConnectToSQLite(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// ConnectToPostgreSQL func
func ConnectToPostgreSQL(opts PostgresOptions) (*gorm.DB, error) {
	if opts.Host == "" && opts.Port == "" && opts.DbName == "" {
		return nil, errors.New("cannot estabished the connection")
	}

	sslmode := "disable"
	if opts.SSLMode {
		sslmode = "require"
	}
	connectionStr := fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=%v connect_timeout=0",
		opts.Host, opts.Username, opts.Password, opts.DbName, opts.Port, sslmode)

	db, err := gorm.Open(postgres.Open(connectionStr), newConfig())
	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	logrus.Infof("Connected to postgres host=%s port=%s dbname=%s", opts.Host, opts.Port, opts.DbName)
	return db, nil
}

// ConnectToSQLite func - path ":memory:" opens a private in-memory database
func ConnectToSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	db, err := gorm.Open(sqlite.Open(path), newConfig())
	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logrus.Infof("Connected to sqlite %s", path)
	return db, nil
}

// Disconnect func - a nil db is ignored
func Disconnect(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDb, err := db.DB()
	if err != nil {
		logrus.Error(err)
		return
	}
	if err := sqlDb.Close(); err != nil {
		logrus.Error(err)
	}
	logrus.Println("Database connection has closed")
}

func newConfig() *gorm.Config {
	return &gorm.Config{
		DryRun: false,
		Logger: logger.Default.LogMode(logger.Error),
	}
}
