package service

import (
	"context"
	"strings"

	"table_order/helper"
	"table_order/model"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

const defaultCurrency = "USD"

type RestaurantService struct {
	DB *gorm.DB
}

func NewRestaurantService(db *gorm.DB) *RestaurantService {
	return &RestaurantService{DB: db}
}

// createRestaurant is shared by signup and anything else that opens a restaurant.
func createRestaurant(tx *gorm.DB, input model.CreateRestaurantInput) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := copier.Copy(&restaurant, &input); err != nil {
		return nil, err
	}
	restaurant.Name = strings.TrimSpace(restaurant.Name)
	if restaurant.Name == "" {
		return nil, wrap(ErrValidation, "restaurant name is required")
	}
	if restaurant.Currency == "" {
		restaurant.Currency = defaultCurrency
	}
	restaurant.Slug = helper.GenerateUniqueRestaurantSlug(tx, restaurant.Name)

	if err := tx.Create(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (s *RestaurantService) Get(ctx context.Context, id uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := s.DB.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, notFound(err, "restaurant")
	}
	return &restaurant, nil
}

func (s *RestaurantService) Update(ctx context.Context, id uint, input model.UpdateRestaurantInput) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&restaurant, id).Error; err != nil {
			return notFound(err, "restaurant")
		}
		if input.Name != nil && strings.TrimSpace(*input.Name) != restaurant.Name {
			restaurant.Name = strings.TrimSpace(*input.Name)
			if restaurant.Name == "" {
				return wrap(ErrValidation, "restaurant name is required")
			}
			restaurant.Slug = helper.GenerateUniqueRestaurantSlug(tx, restaurant.Name)
		}
		for dst, src := range map[*string]*string{
			&restaurant.Email:        input.Email,
			&restaurant.Phone:        input.Phone,
			&restaurant.Address:      input.Address,
			&restaurant.LogoUrl:      input.LogoUrl,
			&restaurant.CoverUrl:     input.CoverUrl,
			&restaurant.PrimaryColor: input.PrimaryColor,
			&restaurant.Currency:     input.Currency,
		} {
			if src != nil {
				*dst = strings.TrimSpace(*src)
			}
		}
		return tx.Save(&restaurant).Error
	})
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}
