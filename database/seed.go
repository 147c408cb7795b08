package database

import (
	"log"

	"table_order/constants"
	"table_order/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData creates a demo restaurant with an owner, tables and a small menu.
// It is idempotent: existing rows are matched on their natural keys.
func SeedData(db *gorm.DB) {
	restaurant := model.Restaurant{Name: "Demo Bistro", Slug: "demo-bistro", Currency: "USD", PrimaryColor: "#c2410c"}
	if err := db.Where(model.Restaurant{Slug: restaurant.Slug}).FirstOrCreate(&restaurant).Error; err != nil {
		log.Println("failed to seed restaurant:", err)
		return
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte("changeme123"), 10)
	if err != nil {
		log.Println("failed to hash seed password:", err)
		return
	}
	owner := model.User{
		Email:        "owner@demo-bistro.test",
		Password:     string(bytes),
		Name:         "Demo Owner",
		Role:         constants.ROLE_RESTAURANT_OWNER,
		Active:       true,
		RestaurantID: &restaurant.ID,
	}
	if err := db.Where(model.User{Email: owner.Email}).FirstOrCreate(&owner).Error; err != nil {
		log.Println("failed to seed owner:", err)
		return
	}
	if err := db.Where(model.RestaurantOwner{UserID: owner.ID, RestaurantID: restaurant.ID}).
		FirstOrCreate(&model.RestaurantOwner{UserID: owner.ID, RestaurantID: restaurant.ID}).Error; err != nil {
		log.Println("failed to seed ownership:", err)
	}

	for n := 1; n <= 6; n++ {
		table := model.Table{RestaurantID: restaurant.ID, Number: n, Capacity: 4, Status: model.TableAvailable}
		if err := db.Where(model.Table{RestaurantID: restaurant.ID, Number: n}).FirstOrCreate(&table).Error; err != nil {
			log.Println("failed to seed table:", n, "error:", err)
		}
	}

	items := []model.MenuItem{
		{Name: "Garlic Bread", Price: decimal.RequireFromString("4.50"), Category: model.CategoryAppetizer, Stock: 40},
		{Name: "Margherita Pizza", Price: decimal.RequireFromString("11.90"), Category: model.CategoryMainCourse, Stock: 25},
		{Name: "Cheeseburger", Price: decimal.RequireFromString("9.99"), Category: model.CategoryMainCourse, Stock: 30},
		{Name: "Fries", Price: decimal.RequireFromString("3.20"), Category: model.CategorySide, Stock: 60},
		{Name: "Tiramisu", Price: decimal.RequireFromString("5.75"), Category: model.CategoryDessert, Stock: 15},
		{Name: "Lemonade", Price: decimal.RequireFromString("2.80"), Category: model.CategoryBeverage, Stock: 80},
	}
	for _, item := range items {
		item.RestaurantID = restaurant.ID
		item.Available = true
		if err := db.Where(model.MenuItem{RestaurantID: restaurant.ID, Name: item.Name}).FirstOrCreate(&item).Error; err != nil {
			log.Println("failed to seed menu item:", item.Name, "error:", err)
		}
	}
	log.Printf("Seeded demo restaurant %q (id=%d)", restaurant.Name, restaurant.ID)
}
