package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	DTO
	Email            string         `gorm:"uniqueIndex;not null;size:120" json:"email"`
	Password         string         `gorm:"not null" json:"-"`
	Name             string         `gorm:"size:120" json:"name"`
	Role             string         `gorm:"not null;size:30" json:"role"`
	Active           bool           `gorm:"not null" json:"active"`
	RestaurantID     *uint          `json:"restaurantId"`
	Restaurant       *Restaurant    `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"restaurant,omitempty"`
	OwnedRestaurants []Restaurant   `gorm:"many2many:restaurant_owners;" json:"ownedRestaurants,omitempty"`
	TwoFactorEnabled bool           `gorm:"not null;default:false" json:"twoFactorEnabled"`
	TwoFactorSecret  string         `json:"-"`
	RecoveryCodes    datatypes.JSON `json:"-"`
}

// RestaurantOwner links an owner account to every restaurant it owns.
type RestaurantOwner struct {
	UserID       uint      `gorm:"primaryKey" json:"userId"`
	RestaurantID uint      `gorm:"primaryKey" json:"restaurantId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PasswordResetToken struct {
	DTO
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Token     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// CanManage reports whether the user is attached to the restaurant, either
// directly or through an ownership link.
func (u *User) CanManage(restaurantID uint) bool {
	if u.RestaurantID != nil && *u.RestaurantID == restaurantID {
		return true
	}
	for _, r := range u.OwnedRestaurants {
		if r.ID == restaurantID {
			return true
		}
	}
	return false
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Otp      string `json:"otp" validate:"omitempty,min=6,max=20"`
}

type SignupInput struct {
	Restaurant CreateRestaurantInput `json:"restaurant" validate:"required"`
	Name       string                `json:"name" validate:"required,max=120"`
	Email      string                `json:"email" validate:"required,email"`
	Password   string                `json:"password" validate:"required,min=8,max=72"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type TwoFactorTokenInput struct {
	Token string `json:"token" validate:"required,numeric,len=6"`
}

// TwoFactorCodeInput takes either an authenticator code or a recovery code
// (xxxxx-xxxxx).
type TwoFactorCodeInput struct {
	Token string `json:"token" validate:"required,min=6,max=20"`
}

type TwoFactorSetup struct {
	Secret        string   `json:"secret"`
	OtpauthUrl    string   `json:"otpauthUrl"`
	QrCode        string   `json:"qrCode"`
	RecoveryCodes []string `json:"recoveryCodes"`
}

type LoginResult struct {
	User User `json:"user"`
	TokenData
}

type CreateStaffInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=STAFF RESTAURANT_ADMIN"`
}

type UpdateStaffInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=120"`
	Role *string `json:"role" validate:"omitempty,oneof=STAFF RESTAURANT_ADMIN"`
}

type StaffActiveInput struct {
	Active *bool `json:"active" validate:"required"`
}

type StaffPasswordInput struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}
