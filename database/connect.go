package database

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"table_order/config"
	"table_order/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	db, err := Open(config.ConfigOr("DB_DRIVER", "postgres"))
	if err != nil {
		panic(fmt.Sprintf("failed to connect database: %v", err))
	}
	log.Println("Connection Opened to Database")

	if err := Migrate(db); err != nil {
		panic(fmt.Sprintf("failed to migrate database: %v", err))
	}
	log.Println("Database Migrated")

	if config.Config("SEED_DEMO") == "true" {
		SeedData(db)
	}
	DB = db
}

// GormConfig stamps CreatedAt/UpdatedAt in UTC. SQLite compares timestamps
// as text, so every stored time and every query bound must share one zone.
func GormConfig() *gorm.Config {
	return &gorm.Config{NowFunc: func() time.Time { return time.Now().UTC() }}
}

func Open(driver string) (*gorm.DB, error) {
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(config.ConfigOr("DB_SOURCE", "table_order.db")), GormConfig())
	case "postgres":
		port, err := strconv.ParseUint(config.ConfigOr("DB_PORT", "5432"), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse DB_PORT: %w", err)
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			config.Config("DB_HOST"), port, config.Config("DB_USER"), config.Config("DB_PASSWORD"), config.Config("DB_NAME"))
		return gorm.Open(postgres.Open(dsn), GormConfig())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.User{}, "OwnedRestaurants", &model.RestaurantOwner{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}
	return db.AutoMigrate(
		&model.Restaurant{},
		&model.User{},
		&model.RestaurantOwner{},
		&model.PasswordResetToken{},
		&model.Table{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
	)
}
