package service

import (
	"sync"
	"testing"

	"table_order/database"
	"table_order/model"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := database.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	restaurant model.Restaurant
	table      model.Table
	burger     model.MenuItem
	soda       model.MenuItem
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{restaurant: model.Restaurant{Name: "Testaurant", Slug: "testaurant", Currency: "USD"}}
	mustCreate(t, db, &f.restaurant)
	f.table = model.Table{RestaurantID: f.restaurant.ID, Number: 1, Capacity: 4, Status: model.TableAvailable}
	mustCreate(t, db, &f.table)
	f.burger = model.MenuItem{RestaurantID: f.restaurant.ID, Name: "Burger", Price: decimal.RequireFromString("9.99"), Category: model.CategoryMainCourse, Available: true, Stock: 10}
	mustCreate(t, db, &f.burger)
	f.soda = model.MenuItem{RestaurantID: f.restaurant.ID, Name: "Soda", Price: decimal.RequireFromString("2.50"), Category: model.CategoryBeverage, Available: true, Stock: 10}
	mustCreate(t, db, &f.soda)
	return f
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu      sync.Mutex
	resets  []sentMail
	notices []sentMail
}

func (m *fakeMailer) SendPasswordReset(to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, sentMail{to: to, body: link})
	return nil
}

func (m *fakeMailer) SendSecurityNotice(to, subject, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, sentMail{to: to, subject: subject, body: body})
}
