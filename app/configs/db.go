package configs

import (
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for env.DBDriver and builds its DSN.
func Dialector(env ENV) (gorm.Dialector, string, error) {
	switch env.DBDriver {
	case "", "mysql":
		port := env.DBPort
		if port == "" {
			port = "3306"
		}
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			env.DBUser,
			env.DBPassword,
			env.DBHost,
			port,
			env.DBName,
		)
		return mysql.Open(dsn), dsn, nil
	case "postgres":
		port := env.DBPort
		if port == "" {
			port = "5432"
		}
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			env.DBHost,
			env.DBUser,
			env.DBPassword,
			env.DBName,
			port,
		)
		return postgres.Open(dsn), dsn, nil
	case "sqlite":
		dsn := env.DBName + "?_foreign_keys=on"
		return sqlite.Open(dsn), dsn, nil
	default:
		return nil, "", fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}
}

func OpenConnection(env ENV) (*gorm.DB, error) {
	dialector, dsn, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if env.IsDevelopment() {
		logLevel = logger.Info
	}
	config := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	maxRetries := env.DBMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	retryDelay := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		log.Printf("Attempting to connect to %s database (Attempt %d/%d)", env.DBDriver, i+1, maxRetries)
		db, err := gorm.Open(dialector, config)
		if err == nil {

			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Println("✅ Database connection successful!")
					return db, nil
				}
			}

			log.Printf("❌ Failed to ping database: %v. Retrying in %v...", pingErr, retryDelay)
		} else {
			log.Printf("❌ Failed to open GORM connection: %v. Retrying in %v...", err, retryDelay)
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries. Last DSN used: %s", maxRetries, redact(dsn, env.DBPassword))
}

func redact(dsn, secret string) string {
	if secret == "" {
		return dsn
	}
	return strings.ReplaceAll(dsn, secret, "****")
}
