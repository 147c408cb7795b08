package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderServed    OrderStatus = "SERVED"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ActiveOrderStatuses keep a table occupied.
var ActiveOrderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady}

// progression is the kitchen-to-table order of statuses; CANCELLED sits outside it.
var progression = map[OrderStatus]int{
	OrderPending:   0,
	OrderPreparing: 1,
	OrderReady:     2,
	OrderServed:    3,
	OrderCompleted: 4,
}

func (s OrderStatus) Valid() bool {
	_, ok := progression[s]
	return ok || s == OrderCancelled
}

func (s OrderStatus) IsActive() bool {
	for _, a := range ActiveOrderStatuses {
		if a == s {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransitionTo allows forward moves (skipping steps is fine), cancellation
// of anything not yet served, and rewriting the current status. Nothing
// leaves a terminal status and nothing moves backwards.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == OrderCancelled {
		return s.IsActive()
	}
	return progression[next] > progression[s]
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentPaid, PaymentFailed},
	PaymentFailed:   {PaymentPending, PaymentPaid},
	PaymentPaid:     {PaymentRefunded},
	PaymentRefunded: {},
}

func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	DTO
	PublicCode    string          `gorm:"uniqueIndex;size:20;not null" json:"publicCode"`
	RestaurantID  uint            `gorm:"not null;index" json:"restaurantId"`
	TableID       uint            `gorm:"not null;index" json:"tableId"`
	Table         Table           `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	CustomerName  string          `gorm:"size:100;not null" json:"customerName"`
	CustomerPhone string          `gorm:"size:30" json:"customerPhone"`
	Note          string          `gorm:"type:text" json:"note"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	CancelledAt   *time.Time      `json:"cancelledAt,omitempty"`
}

// OrderItem is a point-in-time snapshot of a menu item inside an order. It is
// written once at order creation and never updated.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time       `json:"createdAt"`
	OrderID    uint            `gorm:"not null;index" json:"orderId"`
	MenuItemID *uint           `gorm:"index" json:"menuItemId"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"menuItem,omitempty"`
	Name       string          `gorm:"size:120;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity   int             `gorm:"not null" json:"quantity"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal sums price × quantity over the lines, rounded to cents.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}

type OrderLineInput struct {
	MenuItemID uint `json:"menuItemId" validate:"required"`
	Quantity   int  `json:"quantity" validate:"required,min=1,max=99"`
}

type CreateOrderInput struct {
	RestaurantID  uint             `json:"restaurantId" validate:"required"`
	TableID       uint             `json:"tableId" validate:"required"`
	CustomerName  string           `json:"customerName" validate:"required,max=100"`
	CustomerPhone string           `json:"customerPhone" validate:"omitempty,max=30"`
	Note          string           `json:"note" validate:"omitempty,max=500"`
	Items         []OrderLineInput `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusInput struct {
	Status OrderStatus `json:"status" validate:"required,oneof=PENDING PREPARING READY SERVED COMPLETED CANCELLED"`
}

type UpdatePaymentStatusInput struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"required,oneof=PENDING PAID FAILED REFUNDED"`
}

type FilterOrder struct {
	Pagination
	Status string `query:"status"`
}

type CheckoutInput struct {
	CustomerName  string `json:"customerName" validate:"required,max=100"`
	CustomerPhone string `json:"customerPhone" validate:"omitempty,max=30"`
	Note          string `json:"note" validate:"omitempty,max=500"`
}

type CartItemInput struct {
	MenuItemID uint `json:"menuItemId" validate:"required"`
}

// CartQuantityInput allows zero and negatives, which remove the line.
type CartQuantityInput struct {
	Quantity int `json:"quantity" validate:"max=99"`
}
