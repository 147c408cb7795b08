package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderPreparing, true},
		{OrderPending, OrderReady, true},
		{OrderPreparing, OrderReady, true},
		{OrderReady, OrderServed, true},
		{OrderServed, OrderCompleted, true},
		{OrderPending, OrderCancelled, true},
		{OrderReady, OrderCancelled, true},
		{OrderPreparing, OrderPreparing, true},
		{OrderServed, OrderCancelled, false},
		{OrderPreparing, OrderPending, false},
		{OrderCompleted, OrderPending, false},
		{OrderCancelled, OrderPreparing, false},
		{OrderPending, OrderStatus("LOST"), false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPaymentTransitions(t *testing.T) {
	if !PaymentPending.CanTransitionTo(PaymentPaid) {
		t.Error("PENDING -> PAID should be allowed")
	}
	if !PaymentPaid.CanTransitionTo(PaymentRefunded) {
		t.Error("PAID -> REFUNDED should be allowed")
	}
	if PaymentRefunded.CanTransitionTo(PaymentPaid) {
		t.Error("REFUNDED is final")
	}
	if PaymentPending.CanTransitionTo(PaymentRefunded) {
		t.Error("cannot refund an unpaid order")
	}
}

func TestComputeTotal(t *testing.T) {
	items := []OrderItem{
		{Name: "Burger", Price: decimal.RequireFromString("9.99"), Quantity: 2},
		{Name: "Soda", Price: decimal.RequireFromString("1.10"), Quantity: 3},
	}
	want := decimal.RequireFromString("23.28")
	if got := ComputeTotal(items); !got.Equal(want) {
		t.Fatalf("ComputeTotal() = %s, want %s", got, want)
	}
	if got := ComputeTotal(nil); !got.IsZero() {
		t.Fatalf("empty order total = %s, want 0", got)
	}
}

func TestUserCanManage(t *testing.T) {
	direct := uint(3)
	u := User{RestaurantID: &direct, OwnedRestaurants: []Restaurant{{DTO: DTO{ID: 7}}}}
	for _, id := range []uint{3, 7} {
		if !u.CanManage(id) {
			t.Errorf("expected access to restaurant %d", id)
		}
	}
	if u.CanManage(9) {
		t.Error("unexpected access to restaurant 9")
	}
}
