package database

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func New(config *viper.Viper) *gorm.DB {
	username := config.GetString("database.username")
	password := config.GetString("database.password")
	host := config.GetString("database.host")
	port := config.GetInt("database.port")
	dbname := config.GetString("database.dbname")
	sslmode := config.GetString("database.sslmode")
	if sslmode == "" {
		sslmode = "disable"
	}
	timezone := config.GetString("database.timezone")
	if timezone == "" {
		timezone = "UTC"
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		host,
		username,
		password,
		dbname,
		port,
		sslmode,
		timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Errorf("failed to access database pool: %w", err))
	}

	// Turn writes are short and serialized per session, so a small pool is
	// enough; idle connections mostly serve reads.
	maxOpen := config.GetInt("database.pool.max_open")
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := config.GetInt("database.pool.max_idle")
	if maxIdle <= 0 {
		maxIdle = 5
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
