package service

import (
	"context"
	"time"

	"table_order/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	revenueWindowDays = 7
	topItemsLimit     = 5
)

type AnalyticsService struct {
	DB       *gorm.DB
	Now      func() time.Time
	Location *time.Location
}

func NewAnalyticsService(db *gorm.DB, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsService{DB: db, Now: time.Now, Location: loc}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GetAnalytics aggregates a restaurant's non-cancelled orders. Days are cut
// in the service's time zone and the revenue series always has one entry per
// day of the trailing window, oldest first.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, restaurantID uint) (*model.Analytics, error) {
	db := s.DB.WithContext(ctx)

	var exists int64
	if err := db.Model(&model.Restaurant{}).Where("id = ?", restaurantID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, wrap(ErrNotFound, "restaurant not found")
	}

	now := s.Now().In(s.Location)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.Location)
	windowStart := startOfDay(now).AddDate(0, 0, -(revenueWindowDays - 1))

	// stored timestamps are UTC
	monthFrom, windowFrom := monthStart.UTC(), windowStart.UTC()

	counted := func() *gorm.DB {
		return db.Model(&model.Order{}).Where("restaurant_id = ? AND status <> ?", restaurantID, model.OrderCancelled)
	}

	result := &model.Analytics{
		RestaurantID:      restaurantID,
		RevenueByDay:      make([]model.DailyRevenue, revenueWindowDays),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TopItems:          []model.TopItem{},
	}

	if err := counted().Where("created_at >= ?", monthFrom).Count(&result.OrdersThisMonth).Error; err != nil {
		return nil, err
	}

	var recent []model.Order
	if err := counted().Select("id", "total_amount", "created_at").
		Where("created_at >= ?", windowFrom).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	index := make(map[string]int, revenueWindowDays)
	for i := 0; i < revenueWindowDays; i++ {
		day := windowStart.AddDate(0, 0, i).Format(time.DateOnly)
		index[day] = i
		result.RevenueByDay[i] = model.DailyRevenue{Date: day, Revenue: decimal.Zero}
	}
	for _, o := range recent {
		i, ok := index[o.CreatedAt.In(s.Location).Format(time.DateOnly)]
		if !ok {
			continue
		}
		result.RevenueByDay[i].Revenue = result.RevenueByDay[i].Revenue.Add(o.TotalAmount)
		result.RevenueByDay[i].Orders++
		result.TotalRevenue = result.TotalRevenue.Add(o.TotalAmount)
		result.OrderCount++
	}
	for i := range result.RevenueByDay {
		result.RevenueByDay[i].Revenue = result.RevenueByDay[i].Revenue.Round(2)
	}
	result.TotalRevenue = result.TotalRevenue.Round(2)
	if result.OrderCount > 0 {
		result.AverageOrderValue = result.TotalRevenue.Div(decimal.NewFromInt(result.OrderCount)).Round(2)
	}

	if err := db.Model(&model.OrderItem{}).
		Select("order_items.menu_item_id, order_items.name, SUM(order_items.quantity) AS quantity, SUM(order_items.price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.restaurant_id = ? AND orders.status <> ?", restaurantID, model.OrderCancelled).
		Group("order_items.menu_item_id, order_items.name").
		Order("quantity DESC, order_items.name ASC").
		Limit(topItemsLimit).
		Scan(&result.TopItems).Error; err != nil {
		return nil, err
	}
	for i := range result.TopItems {
		result.TopItems[i].Revenue = result.TopItems[i].Revenue.Round(2)
	}

	return result, nil
}
