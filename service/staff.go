package service

import (
	"context"
	"fmt"
	"strings"

	"table_order/constants"
	"table_order/helper"
	"table_order/model"

	"gorm.io/gorm"
)

// StaffService manages the STAFF and RESTAURANT_ADMIN accounts of one
// restaurant. Owners are never reachable through it.
type StaffService struct {
	DB     *gorm.DB
	Mailer Mailer
}

func NewStaffService(db *gorm.DB, mailer Mailer) *StaffService {
	return &StaffService{DB: db, Mailer: mailer}
}

// canHandle reports whether actor may create or manage an account with role.
// Owners handle both staff roles, admins only plain staff.
func canHandle(actor *model.User, role string) bool {
	switch actor.Role {
	case constants.ROLE_RESTAURANT_OWNER:
		return helper.HasRole(role, constants.STAFF_ROLES...)
	case constants.ROLE_RESTAURANT_ADMIN:
		return role == constants.ROLE_STAFF
	}
	return false
}

func (s *StaffService) List(ctx context.Context, restaurantID uint) ([]model.User, error) {
	users := []model.User{}
	err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND role IN ?", restaurantID, constants.STAFF_ROLES).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// load fetches a staff account of the restaurant and checks actor may touch it.
func (s *StaffService) load(tx *gorm.DB, actor *model.User, restaurantID, userID uint) (*model.User, error) {
	var user model.User
	err := tx.Where("id = ? AND restaurant_id = ? AND role IN ?", userID, restaurantID, constants.STAFF_ROLES).First(&user).Error
	if err != nil {
		return nil, notFound(err, "staff member")
	}
	if !canHandle(actor, user.Role) {
		return nil, wrap(ErrForbidden, constants.CANNOT_MANAGE_ROLE)
	}
	return &user, nil
}

func (s *StaffService) Create(ctx context.Context, actor *model.User, restaurantID uint, input model.CreateStaffInput) (*model.User, error) {
	role := input.Role
	if role == "" {
		role = constants.ROLE_STAFF
	}
	if !helper.HasRole(role, constants.STAFF_ROLES...) {
		return nil, wrap(ErrValidation, fmt.Sprintf("role %q cannot be assigned", role))
	}
	if !canHandle(actor, role) {
		return nil, wrap(ErrForbidden, constants.CANNOT_MANAGE_ROLE)
	}
	email := normalizeEmail(input.Email)
	if !helper.ValidEmail(email) {
		return nil, wrap(ErrValidation, "email is invalid")
	}
	if len(input.Password) < 8 {
		return nil, wrap(ErrValidation, "password must be at least 8 characters")
	}
	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", constants.CAN_NOT_HASH_PASSWORD, err)
	}

	user := model.User{
		Email:        email,
		Password:     hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		Active:       true,
		RestaurantID: &restaurantID,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return wrap(ErrConflict, "email is already registered")
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *StaffService) Update(ctx context.Context, actor *model.User, restaurantID, userID uint, input model.UpdateStaffInput) (*model.User, error) {
	var user *model.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = s.load(tx, actor, restaurantID, userID); err != nil {
			return err
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return wrap(ErrValidation, "name must not be blank")
			}
			user.Name = name
		}
		if input.Role != nil && *input.Role != user.Role {
			if !canHandle(actor, *input.Role) {
				return wrap(ErrForbidden, constants.CANNOT_MANAGE_ROLE)
			}
			user.Role = *input.Role
		}
		return tx.Model(user).Updates(map[string]any{"name": user.Name, "role": user.Role}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive switches an account on or off. A disabled account can neither
// log in nor use tokens it already holds.
func (s *StaffService) SetActive(ctx context.Context, actor *model.User, restaurantID, userID uint, active bool) (*model.User, error) {
	if actor.ID == userID {
		return nil, wrap(ErrValidation, "you cannot change the state of your own account")
	}
	var user *model.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = s.load(tx, actor, restaurantID, userID); err != nil {
			return err
		}
		user.Active = active
		return tx.Model(user).Update("active", active).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword replaces a staff member's password without knowing the old one.
func (s *StaffService) SetPassword(ctx context.Context, actor *model.User, restaurantID, userID uint, password string) error {
	if len(password) < 8 {
		return wrap(ErrValidation, "password must be at least 8 characters")
	}
	hash, err := helper.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%s: %w", constants.CAN_NOT_HASH_PASSWORD, err)
	}
	var user *model.User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = s.load(tx, actor, restaurantID, userID); err != nil {
			return err
		}
		if err := tx.Model(user).Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&model.PasswordResetToken{}).Error
	})
	if err != nil {
		return err
	}
	if s.Mailer != nil {
		s.Mailer.SendSecurityNotice(user.Email, "Your password was changed",
			"A manager of your restaurant set a new password for your account.")
	}
	return nil
}

func (s *StaffService) Delete(ctx context.Context, actor *model.User, restaurantID, userID uint) error {
	if actor.ID == userID {
		return wrap(ErrValidation, "you cannot delete your own account")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.load(tx, actor, restaurantID, userID)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
