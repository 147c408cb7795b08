package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"table_order/model"
	"table_order/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type TableService struct {
	DB          *gorm.DB
	FrontendURL string
}

func NewTableService(db *gorm.DB, frontendURL string) *TableService {
	return &TableService{DB: db, FrontendURL: frontendURL}
}

func (s *TableService) List(ctx context.Context, restaurantID uint) ([]model.Table, error) {
	tables := []model.Table{}
	if err := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("number ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *TableService) Get(ctx context.Context, restaurantID, tableID uint) (*model.Table, error) {
	var table model.Table
	if err := s.DB.WithContext(ctx).Where("id = ? AND restaurant_id = ?", tableID, restaurantID).First(&table).Error; err != nil {
		return nil, notFound(err, "table")
	}
	return &table, nil
}

func numberTaken(tx *gorm.DB, restaurantID uint, number int, exceptID uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Table{}).
		Where("restaurant_id = ? AND number = ? AND id <> ?", restaurantID, number, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (s *TableService) Create(ctx context.Context, restaurantID uint, input model.CreateTableInput) (*model.Table, error) {
	if input.Number < 1 || input.Capacity < 1 {
		return nil, wrap(ErrValidation, "number and capacity must be positive")
	}
	table := model.Table{
		RestaurantID: restaurantID,
		Number:       input.Number,
		Capacity:     input.Capacity,
		Status:       model.TableAvailable,
	}
	if input.Status != "" {
		table.Status = input.Status
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := numberTaken(tx, restaurantID, table.Number, 0)
		if err != nil {
			return err
		}
		if taken {
			return wrap(ErrConflict, fmt.Sprintf("table number %d already exists", table.Number))
		}
		return tx.Create(&table).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *TableService) Update(ctx context.Context, restaurantID, tableID uint, input model.UpdateTableInput) (*model.Table, error) {
	var table model.Table
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND restaurant_id = ?", tableID, restaurantID).First(&table).Error; err != nil {
			return notFound(err, "table")
		}
		if input.Number != nil && *input.Number != table.Number {
			taken, err := numberTaken(tx, restaurantID, *input.Number, table.ID)
			if err != nil {
				return err
			}
			if taken {
				return wrap(ErrConflict, fmt.Sprintf("table number %d already exists", *input.Number))
			}
			table.Number = *input.Number
		}
		if input.Capacity != nil {
			table.Capacity = *input.Capacity
		}
		if input.Status != nil {
			table.Status = *input.Status
		}
		if table.Number < 1 || table.Capacity < 1 {
			return wrap(ErrValidation, "number and capacity must be positive")
		}
		return tx.Save(&table).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// Delete refuses tables that still have orders, active or historical, since
// orders keep a reference to where they were placed.
func (s *TableService) Delete(ctx context.Context, restaurantID, tableID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table model.Table
		if err := tx.Where("id = ? AND restaurant_id = ?", tableID, restaurantID).First(&table).Error; err != nil {
			return notFound(err, "table")
		}

		var active, total int64
		if err := tx.Model(&model.Order{}).Where("table_id = ?", table.ID).Count(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Order{}).Where("table_id = ? AND status IN ?", table.ID, model.ActiveOrderStatuses).Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return wrap(ErrConflict, "table has active orders")
		}
		if total > 0 {
			return wrap(ErrConflict, "table has order history; mark it RESERVED instead")
		}
		return tx.Delete(&table).Error
	})
}

// QRCode renders the table's ordering link as a PNG.
func (s *TableService) QRCode(ctx context.Context, restaurantID, tableID uint, size int) ([]byte, error) {
	table, err := s.Get(ctx, restaurantID, tableID)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	return utils.GenerateQRCode(utils.TableURL(s.FrontendURL, table.RestaurantID, table.ID), size)
}

// ExportQRCodes writes table-<number>.png for every table of the restaurant
// into dir and returns the written paths in table order.
func (s *TableService) ExportQRCodes(ctx context.Context, restaurantID uint, dir string, size, workers int) ([]string, error) {
	tables, err := s.List(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, wrap(ErrNotFound, "restaurant has no tables")
	}
	if size <= 0 {
		size = 256
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, table := range tables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			png, err := utils.GenerateQRCode(utils.TableURL(s.FrontendURL, table.RestaurantID, table.ID), size)
			if err != nil {
				return fmt.Errorf("table %d: %w", table.Number, err)
			}
			path := filepath.Join(dir, fmt.Sprintf("table-%d.png", table.Number))
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
