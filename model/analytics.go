package model

import "github.com/shopspring/decimal"

type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

type TopItem struct {
	MenuItemID *uint           `json:"menuItemId"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type Analytics struct {
	RestaurantID      uint            `json:"restaurantId"`
	OrdersThisMonth   int64           `json:"ordersThisMonth"`
	RevenueByDay      []DailyRevenue  `json:"revenueByDay"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	OrderCount        int64           `json:"orderCount"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TopItems          []TopItem       `json:"topItems"`
}
