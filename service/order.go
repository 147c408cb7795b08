package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"table_order/model"
	"table_order/realtime"
	"table_order/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService struct {
	DB       *gorm.DB
	Notifier realtime.Notifier
	Now      func() time.Time
}

func NewOrderService(db *gorm.DB, notifier realtime.Notifier) *OrderService {
	return &OrderService{DB: db, Notifier: notifier, Now: time.Now}
}

func newPublicCode() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

func preloadOrder(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id ASC")
	}).Preload("Items.MenuItem").Preload("Table")
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *model.Order) {
	if s.Notifier == nil {
		return
	}
	realtime.PublishOrderEvent(ctx, s.Notifier, eventType, order)
}

// mergeLines folds repeated menu items into one line, keeping first-seen order.
func mergeLines(lines []model.OrderLineInput) ([]model.OrderLineInput, error) {
	merged := make([]model.OrderLineInput, 0, len(lines))
	index := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, wrap(ErrValidation, fmt.Sprintf("quantity for menu item %d must be at least 1", l.MenuItemID))
		}
		if i, ok := index[l.MenuItemID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.MenuItemID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// CreateOrder prices the lines from the current menu and writes the order
// and its item snapshots in one transaction. The table becomes occupied.
func (s *OrderService) CreateOrder(ctx context.Context, input model.CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, wrap(ErrValidation, "order must contain at least one item")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, wrap(ErrValidation, "customer name is required")
	}
	lines, err := mergeLines(input.Items)
	if err != nil {
		return nil, err
	}

	var order model.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table model.Table
		if err := tx.Where("id = ? AND restaurant_id = ?", input.TableID, input.RestaurantID).First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wrap(ErrValidation, "table does not belong to this restaurant")
			}
			return err
		}

		ids := make([]uint, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.MenuItemID)
		}
		var menuItems []model.MenuItem
		if err := tx.Where("id IN ? AND restaurant_id = ?", ids, input.RestaurantID).Find(&menuItems).Error; err != nil {
			return err
		}
		byID := make(map[uint]model.MenuItem, len(menuItems))
		for _, m := range menuItems {
			byID[m.ID] = m
		}

		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			m, ok := byID[l.MenuItemID]
			if !ok {
				return wrap(ErrValidation, fmt.Sprintf("menu item %d not found in this restaurant", l.MenuItemID))
			}
			if !m.Available {
				return wrap(ErrValidation, fmt.Sprintf("menu item %q is not available", m.Name))
			}
			items = append(items, model.OrderItem{
				MenuItemID: utils.Ptr(m.ID),
				Name:       m.Name,
				Price:      m.Price,
				Quantity:   l.Quantity,
			})
		}

		order = model.Order{
			PublicCode:    newPublicCode(),
			RestaurantID:  input.RestaurantID,
			TableID:       table.ID,
			CustomerName:  strings.TrimSpace(input.CustomerName),
			CustomerPhone: strings.TrimSpace(input.CustomerPhone),
			Note:          input.Note,
			Items:         items,
			Status:        model.OrderPending,
			PaymentStatus: model.PaymentPending,
			TotalAmount:   model.ComputeTotal(items),
		}
		if err := tx.Omit("Table").Create(&order).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Table{}).Where("id = ?", table.ID).Update("status", model.TableOccupied).Error; err != nil {
			return err
		}

		return preloadOrder(tx).First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.EventOrderCreated, &order)
	return &order, nil
}

// releaseTable frees a table once none of its orders is active. Reserved
// tables are left alone.
func releaseTable(tx *gorm.DB, tableID uint) error {
	var active int64
	if err := tx.Model(&model.Order{}).
		Where("table_id = ? AND status IN ?", tableID, model.ActiveOrderStatuses).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return nil
	}
	return tx.Model(&model.Table{}).
		Where("id = ? AND status = ?", tableID, model.TableOccupied).
		Update("status", model.TableAvailable).Error
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	if err := preloadOrder(s.DB.WithContext(ctx)).First(&order, orderID).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &order, nil
}

// GetOrderByCode is the customer-facing lookup used for order tracking.
func (s *OrderService) GetOrderByCode(ctx context.Context, code string) (*model.Order, error) {
	var order model.Order
	if err := preloadOrder(s.DB.WithContext(ctx)).Where("public_code = ?", strings.ToUpper(code)).First(&order).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &order, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, next model.OrderStatus) (*model.Order, error) {
	if !next.Valid() {
		return nil, wrap(ErrValidation, fmt.Sprintf("unknown order status %q", next))
	}

	var order model.Order
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return notFound(err, "order")
		}
		current := order.Status
		if !current.CanTransitionTo(next) {
			return wrap(ErrInvalidTransition, fmt.Sprintf("cannot move order from %s to %s", current, next))
		}
		if current != next {
			updates := map[string]any{"status": next}
			if next == model.OrderCancelled {
				updates["cancelled_at"] = s.Now().UTC()
			}
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return err
			}
			if current.IsActive() && !next.IsActive() {
				if err := releaseTable(tx, order.TableID); err != nil {
					return err
				}
			}
			changed = true
		}
		return preloadOrder(tx).First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, realtime.EventOrderStatusUpdated, &order)
	}
	return &order, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint, next model.PaymentStatus) (*model.Order, error) {
	var order model.Order
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return notFound(err, "order")
		}
		if order.PaymentStatus != next {
			if !order.PaymentStatus.CanTransitionTo(next) {
				return wrap(ErrInvalidTransition, fmt.Sprintf("cannot move payment from %s to %s", order.PaymentStatus, next))
			}
			// a cancelled order can only give money back
			if order.Status == model.OrderCancelled && !(order.PaymentStatus == model.PaymentPaid && next == model.PaymentRefunded) {
				return wrap(ErrInvalidTransition, fmt.Sprintf("cannot move payment of a cancelled order to %s", next))
			}
			updates := map[string]any{"payment_status": next}
			if next == model.PaymentPaid {
				updates["paid_at"] = s.Now().UTC()
			}
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return err
			}
			changed = true
		}
		return preloadOrder(tx).First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, realtime.EventOrderPaymentUpdated, &order)
	}
	return &order, nil
}

// ListOrders returns a restaurant's orders newest first. Without a limit and
// page every order is returned.
func (s *OrderService) ListOrders(ctx context.Context, restaurantID uint, filter model.FilterOrder) (model.ResponseCustom, error) {
	var statuses []string
	if filter.Status != "" {
		statuses = strings.Split(strings.ToUpper(filter.Status), ",")
		for _, st := range statuses {
			if !model.OrderStatus(st).Valid() {
				return model.ResponseCustom{}, wrap(ErrValidation, fmt.Sprintf("unknown order status %q", st))
			}
		}
	}
	base := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Model(&model.Order{}).Where("restaurant_id = ?", restaurantID)
		if len(statuses) > 0 {
			q = q.Where("status IN ?", statuses)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return model.ResponseCustom{}, err
	}

	orders := []model.Order{}
	query := utils.ApplyPagination(base(), filter.Limit, filter.Page)
	if err := preloadOrder(query).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return model.ResponseCustom{}, err
	}

	return model.ResponseCustom{
		Rows:       orders,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	}, nil
}

// CancelStalePending cancels orders that have sat in PENDING for longer than
// olderThan. It returns how many were cancelled.
func (s *OrderService) CancelStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	var ids []uint
	cutoff := s.Now().Add(-olderThan).UTC()
	if err := s.DB.WithContext(ctx).Model(&model.Order{}).
		Where("status = ? AND created_at < ?", model.OrderPending, cutoff).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	cancelled := 0
	for _, id := range ids {
		if _, err := s.UpdateOrderStatus(ctx, id, model.OrderCancelled); err != nil {
			log.Printf("could not cancel stale order %d: %v", id, err)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}
