package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"table_order/constants"
	"table_order/helper"
	"table_order/model"
	"table_order/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const recoveryCodeCount = 8

type Mailer interface {
	SendPasswordReset(to, resetLink string) error
	SendSecurityNotice(to, subject, body string)
}

type AuthService struct {
	DB          *gorm.DB
	Mailer      Mailer
	Now         func() time.Time
	Issuer      string
	FrontendURL string
	ResetTTL    time.Duration
}

func NewAuthService(db *gorm.DB, mailer Mailer, issuer, frontendURL string, resetTTL time.Duration) *AuthService {
	return &AuthService{
		DB:          db,
		Mailer:      mailer,
		Now:         time.Now,
		Issuer:      issuer,
		FrontendURL: frontendURL,
		ResetTTL:    resetTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) findUser(tx *gorm.DB, query string, arg any) (*model.User, error) {
	var user model.User
	err := tx.Preload("Restaurant").Preload("OwnedRestaurants").Where(query, arg).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func claimFor(user *model.User) model.TokenClaim {
	claim := model.TokenClaim{UserId: user.ID, Email: user.Email, Role: user.Role, RestaurantId: user.RestaurantID}
	if claim.RestaurantId == nil && len(user.OwnedRestaurants) > 0 {
		id := user.OwnedRestaurants[0].ID
		claim.RestaurantId = &id
	}
	return claim
}

func issueTokens(user *model.User) (model.TokenData, error) {
	claim := claimFor(user)
	access, err := helper.GenerateAccessToken(claim)
	if err != nil {
		return model.TokenData{}, err
	}
	refresh, err := helper.GenerateRefreshToken(claim)
	if err != nil {
		return model.TokenData{}, err
	}
	return model.TokenData{AccessToken: access, RefreshToken: refresh}, nil
}

// Signup opens a restaurant together with its owner account.
func (s *AuthService) Signup(ctx context.Context, input model.SignupInput) (*model.LoginResult, error) {
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

	var user *model.User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return wrap(ErrConflict, "email is already registered")
		}

		restaurant, err := createRestaurant(tx, input.Restaurant)
		if err != nil {
			return err
		}
		owner := model.User{
			Email:        email,
			Password:     hash,
			Name:         strings.TrimSpace(input.Name),
			Role:         constants.ROLE_RESTAURANT_OWNER,
			Active:       true,
			RestaurantID: &restaurant.ID,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.RestaurantOwner{UserID: owner.ID, RestaurantID: restaurant.ID}).Error; err != nil {
			return err
		}
		user, err = s.findUser(tx, "id = ?", owner.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	tokens, err := issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &model.LoginResult{User: *user, TokenData: tokens}, nil
}

// Login checks the password and, for accounts with 2FA, a TOTP or recovery code.
func (s *AuthService) Login(ctx context.Context, input model.LoginInput) (*model.LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, wrap(ErrValidation, constants.MISSING_LOGIN_INPUT)
	}
	db := s.DB.WithContext(ctx)
	user, err := s.findUser(db, "email = ?", normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrap(ErrUnauthorized, constants.INVALID_CREDENTIALS)
		}
		return nil, err
	}
	if !helper.CheckPasswordHash(input.Password, user.Password) {
		return nil, wrap(ErrUnauthorized, constants.INVALID_CREDENTIALS)
	}
	if !user.Active {
		return nil, wrap(ErrForbidden, constants.ACCOUNT_NOT_ACTIVE)
	}

	if user.TwoFactorEnabled {
		if strings.TrimSpace(input.Otp) == "" {
			return nil, ErrTwoFactorRequired
		}
		ok, err := s.checkSecondFactor(db, user, input.Otp)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, wrap(ErrUnauthorized, constants.INVALID_TWO_FACTOR)
		}
	}

	tokens, err := issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &model.LoginResult{User: *user, TokenData: tokens}, nil
}

// checkSecondFactor accepts a current TOTP code or burns one recovery code.
func (s *AuthService) checkSecondFactor(tx *gorm.DB, user *model.User, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if helper.ValidateTOTP(code, user.TwoFactorSecret, s.Now()) {
		return true, nil
	}

	var hashes []string
	if len(user.RecoveryCodes) > 0 {
		if err := json.Unmarshal(user.RecoveryCodes, &hashes); err != nil {
			return false, err
		}
	}
	target := helper.HashRecoveryCode(code)
	for i, h := range hashes {
		if h != target {
			continue
		}
		remaining := append(hashes[:i:i], hashes[i+1:]...)
		raw, err := json.Marshal(remaining)
		if err != nil {
			return false, err
		}
		if err := tx.Model(user).Update("recovery_codes", datatypes.JSON(raw)).Error; err != nil {
			return false, err
		}
		user.RecoveryCodes = raw
		s.Mailer.SendSecurityNotice(user.Email, "Recovery code used",
			fmt.Sprintf("A recovery code was used to sign in. %d code(s) remain.", len(remaining)))
		return true, nil
	}
	return false, nil
}

// RefreshToken trades a valid refresh token for a new token pair. Anything
// else, including an access token, is rejected without issuing tokens.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenData, error) {
	if refreshToken == "" {
		return nil, wrap(ErrUnauthorized, constants.INVALID_REFRESH_TOKEN)
	}
	token, err := helper.ParseToken(refreshToken)
	if err != nil || !token.Valid {
		return nil, wrap(ErrUnauthorized, constants.INVALID_REFRESH_TOKEN)
	}
	claim, tokenType, err := helper.ClaimsFromToken(token)
	if err != nil || tokenType != constants.TOKEN_REFRESH {
		return nil, wrap(ErrUnauthorized, constants.INVALID_REFRESH_TOKEN)
	}

	user, err := s.findUser(s.DB.WithContext(ctx), "id = ?", claim.UserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrap(ErrUnauthorized, constants.INVALID_REFRESH_TOKEN)
		}
		return nil, err
	}
	if !user.Active {
		return nil, wrap(ErrUnauthorized, constants.ACCOUNT_NOT_ACTIVE)
	}

	tokens, err := issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.findUser(s.DB.WithContext(ctx), "id = ?", userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// ForgotPassword stores a reset token and mails a link. Unknown addresses
// get the same silent success so accounts cannot be enumerated.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	db := s.DB.WithContext(ctx)

	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("password reset requested for unknown email %s", email)
			return nil
		}
		return err
	}
	if !user.Active {
		return nil
	}

	raw, err := helper.RandomHex(32)
	if err != nil {
		return err
	}
	reset := model.PasswordResetToken{
		UserID:    user.ID,
		Token:     raw,
		ExpiresAt: s.Now().Add(s.ResetTTL).UTC(),
	}
	if err := db.Create(&reset).Error; err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		strings.TrimRight(s.FrontendURL, "/"), url.QueryEscape(raw), url.QueryEscape(user.Email))
	if err := s.Mailer.SendPasswordReset(user.Email, link); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, input model.ResetPasswordRequest) error {
	if len(input.NewPassword) < 8 {
		return wrap(ErrValidation, "password must be at least 8 characters")
	}
	var user model.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wrap(ErrInvalidResetToken, constants.INVALID_RESET_TOKEN)
			}
			return err
		}

		var reset model.PasswordResetToken
		if err := tx.Where("user_id = ? AND token = ?", user.ID, strings.TrimSpace(input.Token)).First(&reset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wrap(ErrInvalidResetToken, constants.INVALID_RESET_TOKEN)
			}
			return err
		}
		if !s.Now().Before(reset.ExpiresAt) {
			return wrap(ErrInvalidResetToken, constants.INVALID_RESET_TOKEN)
		}

		hash, err := helper.HashPassword(input.NewPassword)
		if err != nil {
			return fmt.Errorf("%s: %w", constants.CAN_NOT_HASH_PASSWORD, err)
		}
		if err := tx.Model(&user).Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&model.PasswordResetToken{}).Error
	})
	if err != nil {
		return err
	}

	s.Mailer.SendSecurityNotice(user.Email, "Your password was changed",
		"The password for your account was just reset. If this was not you, contact your restaurant administrator.")
	return nil
}

// ChangePassword lets any signed-in user replace their own password.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, input model.ChangePasswordInput) error {
	if len(input.NewPassword) < 8 {
		return wrap(ErrValidation, "password must be at least 8 characters")
	}
	var user model.User
	db := s.DB.WithContext(ctx)
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return wrap(ErrUnauthorized, constants.INVALID_TOKEN)
		}
		return err
	}
	if !helper.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return wrap(ErrValidation, "current password is incorrect")
	}
	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", constants.CAN_NOT_HASH_PASSWORD, err)
	}
	if err := db.Model(&user).Update("password", hash).Error; err != nil {
		return err
	}
	s.Mailer.SendSecurityNotice(user.Email, "Your password was changed",
		"The password for your account was just changed. If this was not you, contact your restaurant administrator.")
	return nil
}

// PurgeExpiredResetTokens removes reset tokens that can no longer be used.
func (s *AuthService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expires_at < ?", s.Now().UTC()).Delete(&model.PasswordResetToken{})
	return res.RowsAffected, res.Error
}

// Setup2FA creates a fresh secret and recovery codes. 2FA stays off until
// Verify2FA sees a valid code.
func (s *AuthService) Setup2FA(ctx context.Context, userID uint) (*model.TwoFactorSetup, error) {
	db := s.DB.WithContext(ctx)
	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	if user.TwoFactorEnabled {
		return nil, wrap(ErrConflict, "two-factor authentication is already enabled")
	}

	key, err := helper.GenerateTOTPKey(s.Issuer, user.Email)
	if err != nil {
		return nil, err
	}
	plain, hashed, err := helper.GenerateRecoveryCodes(recoveryCodeCount)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(hashed)
	if err != nil {
		return nil, err
	}
	if err := db.Model(&user).Updates(map[string]any{
		"two_factor_secret": key.Secret(),
		"recovery_codes":    datatypes.JSON(raw),
	}).Error; err != nil {
		return nil, err
	}

	qr, err := utils.QRCodeDataURL(key.URL(), 256)
	if err != nil {
		return nil, err
	}
	return &model.TwoFactorSetup{
		Secret:        key.Secret(),
		OtpauthUrl:    key.URL(),
		QrCode:        qr,
		RecoveryCodes: plain,
	}, nil
}

func (s *AuthService) Verify2FA(ctx context.Context, userID uint, code string) (*model.User, error) {
	db := s.DB.WithContext(ctx)
	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	if user.TwoFactorSecret == "" {
		return nil, wrap(ErrValidation, "two-factor setup has not been started")
	}
	if !helper.ValidateTOTP(strings.TrimSpace(code), user.TwoFactorSecret, s.Now()) {
		return nil, wrap(ErrUnauthorized, constants.INVALID_TWO_FACTOR)
	}

	if !user.TwoFactorEnabled {
		if err := db.Model(&user).Update("two_factor_enabled", true).Error; err != nil {
			return nil, err
		}
		user.TwoFactorEnabled = true
		s.Mailer.SendSecurityNotice(user.Email, "Two-factor authentication enabled",
			"Two-factor authentication is now required when you sign in.")
	}
	return &user, nil
}

func (s *AuthService) Disable2FA(ctx context.Context, userID uint, code string) error {
	db := s.DB.WithContext(ctx)
	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		return notFound(err, "user")
	}
	if !user.TwoFactorEnabled {
		return wrap(ErrValidation, "two-factor authentication is not enabled")
	}
	ok, err := s.checkSecondFactor(db, &user, code)
	if err != nil {
		return err
	}
	if !ok {
		return wrap(ErrUnauthorized, constants.INVALID_TWO_FACTOR)
	}

	if err := db.Model(&user).Updates(map[string]any{
		"two_factor_enabled": false,
		"two_factor_secret":  "",
		"recovery_codes":     nil,
	}).Error; err != nil {
		return err
	}
	s.Mailer.SendSecurityNotice(user.Email, "Two-factor authentication disabled",
		"Two-factor authentication was turned off for your account.")
	return nil
}
