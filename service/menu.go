package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"table_order/media"
	"table_order/model"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type MenuService struct {
	DB     *gorm.DB
	Images media.ImageStore
}

func NewMenuService(db *gorm.DB, images media.ImageStore) *MenuService {
	return &MenuService{DB: db, Images: images}
}

func checkMenuItem(item *model.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return wrap(ErrValidation, "name is required")
	}
	if item.Price.IsNegative() {
		return wrap(ErrValidation, "price must not be negative")
	}
	if !item.Category.Valid() {
		return wrap(ErrValidation, fmt.Sprintf("unknown category %q", item.Category))
	}
	if item.Stock < 0 {
		return wrap(ErrValidation, "stock must not be negative")
	}
	return nil
}

func (s *MenuService) List(ctx context.Context, restaurantID uint, onlyAvailable bool) ([]model.MenuItem, error) {
	items := []model.MenuItem{}
	query := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if onlyAvailable {
		query = query.Where("available = ?", true)
	}
	if err := query.Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MenuService) Get(ctx context.Context, restaurantID, itemID uint) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := s.DB.WithContext(ctx).Where("id = ? AND restaurant_id = ?", itemID, restaurantID).First(&item).Error; err != nil {
		return nil, notFound(err, "menu item")
	}
	return &item, nil
}

func (s *MenuService) Create(ctx context.Context, restaurantID uint, input model.CreateMenuItemInput) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := copier.Copy(&item, &input); err != nil {
		return nil, err
	}
	item.RestaurantID = restaurantID
	item.Name = strings.TrimSpace(item.Name)
	item.Price = input.Price.Round(2)
	item.Available = input.Available == nil || *input.Available
	if err := checkMenuItem(&item); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies only the fields present in input.
func (s *MenuService) Update(ctx context.Context, restaurantID, itemID uint, input model.UpdateMenuItemInput) (*model.MenuItem, error) {
	item, err := s.Get(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		item.Price = input.Price.Round(2)
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.ImageUrl != nil {
		item.ImageUrl = *input.ImageUrl
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	if input.Stock != nil {
		item.Stock = *input.Stock
	}
	if err := checkMenuItem(item); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a menu item for good. It is refused while an active order
// still contains the item; past order lines keep their name and price
// snapshot and lose only the link.
func (s *MenuService) Delete(ctx context.Context, restaurantID, itemID uint) error {
	var item model.MenuItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND restaurant_id = ?", itemID, restaurantID).First(&item).Error; err != nil {
			return notFound(err, "menu item")
		}

		var inFlight int64
		if err := tx.Model(&model.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.menu_item_id = ? AND orders.status IN ?", item.ID, model.ActiveOrderStatuses).
			Count(&inFlight).Error; err != nil {
			return err
		}
		if inFlight > 0 {
			return wrap(ErrConflict, fmt.Sprintf("menu item is part of %d active order line(s)", inFlight))
		}

		if err := tx.Model(&model.OrderItem{}).
			Where("menu_item_id = ?", item.ID).
			Update("menu_item_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return err
	}

	if s.Images != nil && item.ImagePublicID != "" {
		go func(publicID string) {
			if err := s.Images.Destroy(context.Background(), publicID); err != nil {
				log.Printf("could not delete image %s: %v", publicID, err)
			}
		}(item.ImagePublicID)
	}
	return nil
}

// UploadImage stores a new picture for the item and replaces the old one.
func (s *MenuService) UploadImage(ctx context.Context, restaurantID, itemID uint, file any) (*model.MenuItem, error) {
	if s.Images == nil {
		return nil, wrap(ErrNotConfigured, "image upload is not configured")
	}
	item, err := s.Get(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}

	folder := fmt.Sprintf("restaurants/%d/menu", restaurantID)
	publicID := fmt.Sprintf("item_%d_%d", item.ID, time.Now().UnixNano())
	img, err := s.Images.Upload(ctx, file, folder, publicID)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	previous := item.ImagePublicID
	if err := s.DB.WithContext(ctx).Model(item).Updates(map[string]any{
		"image_url":       img.URL,
		"image_public_id": img.PublicID,
	}).Error; err != nil {
		_ = s.Images.Destroy(context.Background(), img.PublicID)
		return nil, err
	}
	item.ImageUrl = img.URL
	item.ImagePublicID = img.PublicID

	if previous != "" {
		go func() {
			if err := s.Images.Destroy(context.Background(), previous); err != nil {
				log.Printf("could not delete image %s: %v", previous, err)
			}
		}()
	}
	return item, nil
}

// PublicMenu resolves a restaurant by id or slug and returns its available
// items grouped by category. A non-zero tableID must belong to the restaurant.
func (s *MenuService) PublicMenu(ctx context.Context, restaurantID, tableID uint, slug string) (*model.PublicMenu, error) {
	db := s.DB.WithContext(ctx)

	var restaurant model.Restaurant
	query := db
	switch {
	case slug != "":
		query = query.Where("slug = ?", slug)
	case restaurantID != 0:
		query = query.Where("id = ?", restaurantID)
	default:
		return nil, wrap(ErrValidation, "restaurantId or slug is required")
	}
	if err := query.First(&restaurant).Error; err != nil {
		return nil, notFound(err, "restaurant")
	}

	menu := &model.PublicMenu{Restaurant: restaurant, Categories: []model.MenuGroup{}}
	if tableID != 0 {
		var table model.Table
		if err := db.Where("id = ? AND restaurant_id = ?", tableID, restaurant.ID).First(&table).Error; err != nil {
			return nil, notFound(err, "table")
		}
		menu.Table = &table
	}

	items, err := s.List(ctx, restaurant.ID, true)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[model.MenuCategory][]model.MenuItem)
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}
	for _, cat := range model.MenuCategories {
		if len(byCategory[cat]) == 0 {
			continue
		}
		menu.Categories = append(menu.Categories, model.MenuGroup{Category: cat, Items: byCategory[cat]})
	}
	return menu, nil
}
