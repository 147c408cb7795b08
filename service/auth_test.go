package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"table_order/constants"
	"table_order/helper"
	"table_order/model"

	"github.com/pquerna/otp/totp"
)

func newAuth(t *testing.T) (*AuthService, *fakeMailer) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	mailer := &fakeMailer{}
	return NewAuthService(newTestDB(t), mailer, "TableOrder", "https://order.test", time.Hour), mailer
}

func signup(t *testing.T, svc *AuthService, email string) *model.LoginResult {
	t.Helper()
	res, err := svc.Signup(context.Background(), model.SignupInput{
		Restaurant: model.CreateRestaurantInput{Name: "Chez Test"},
		Name:       "Owner",
		Email:      email,
		Password:   "supersecret",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return res
}

func TestSignupCreatesRestaurantAndOwner(t *testing.T) {
	svc, _ := newAuth(t)
	res := signup(t, svc, "Owner@Example.com")

	if res.User.Email != "owner@example.com" || res.User.Role != constants.ROLE_RESTAURANT_OWNER {
		t.Fatalf("unexpected user %+v", res.User)
	}
	if res.User.Restaurant == nil || res.User.Restaurant.Slug != "chez-test" || res.User.Restaurant.Currency != "USD" {
		t.Fatalf("restaurant not attached: %+v", res.User.Restaurant)
	}
	if len(res.User.OwnedRestaurants) != 1 || !res.User.CanManage(res.User.Restaurant.ID) {
		t.Fatalf("ownership link missing: %+v", res.User.OwnedRestaurants)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("tokens not issued")
	}

	_, err := svc.Signup(context.Background(), model.SignupInput{
		Restaurant: model.CreateRestaurantInput{Name: "Chez Test"},
		Email:      "owner@example.com",
		Password:   "supersecret",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email: err = %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuth(t)
	signup(t, svc, "owner@example.com")
	ctx := context.Background()

	res, err := svc.Login(ctx, model.LoginInput{Email: "OWNER@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	token, err := helper.ParseToken(res.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	claim, typ, err := helper.ClaimsFromToken(token)
	if err != nil || typ != constants.TOKEN_ACCESS || claim.UserId != res.User.ID || claim.RestaurantId == nil {
		t.Fatalf("claims = %+v %s %v", claim, typ, err)
	}

	if _, err := svc.Login(ctx, model.LoginInput{Email: "owner@example.com", Password: "wrong"}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(ctx, model.LoginInput{Email: "nobody@example.com", Password: "supersecret"}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown email: err = %v", err)
	}

	svc.DB.Model(&model.User{}).Where("id = ?", res.User.ID).Update("active", false)
	if _, err := svc.Login(ctx, model.LoginInput{Email: "owner@example.com", Password: "supersecret"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("inactive: err = %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuth(t)
	res := signup(t, svc, "owner@example.com")
	ctx := context.Background()

	tokens, err := svc.RefreshToken(ctx, res.RefreshToken)
	if err != nil || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("RefreshToken = %+v, %v", tokens, err)
	}

	expired, err := helper.SignToken(model.TokenClaim{UserId: res.User.ID}, constants.TOKEN_REFRESH, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	invalid := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"expired", expired},
		{"access token", res.AccessToken},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.RefreshToken(ctx, tt.token)
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("err = %v, want ErrUnauthorized", err)
			}
			if got != nil {
				t.Fatal("tokens issued for invalid refresh token")
			}
		})
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, mailer := newAuth(t)
	signup(t, svc, "owner@example.com")
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("unknown email should succeed silently: %v", err)
	}
	if len(mailer.resets) != 0 {
		t.Fatal("mail sent for unknown email")
	}

	if err := svc.ForgotPassword(ctx, "owner@example.com"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.resets) != 1 {
		t.Fatalf("reset mails = %d", len(mailer.resets))
	}
	var stored model.PasswordResetToken
	svc.DB.First(&stored)
	if !strings.Contains(mailer.resets[0].body, stored.Token) {
		t.Fatalf("link %q does not carry the token", mailer.resets[0].body)
	}

	bad := model.ResetPasswordRequest{Email: "owner@example.com", Token: "nope", NewPassword: "brandnewpass"}
	err := svc.ResetPassword(ctx, bad)
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("wrong token: err = %v", err)
	}
	if err.Error() != constants.INVALID_RESET_TOKEN {
		t.Fatalf("message = %q", err.Error())
	}

	good := model.ResetPasswordRequest{Email: "owner@example.com", Token: stored.Token, NewPassword: "brandnewpass"}
	if err := svc.ResetPassword(ctx, good); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := svc.Login(ctx, model.LoginInput{Email: "owner@example.com", Password: "brandnewpass"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if err := svc.ResetPassword(ctx, good); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("token reuse: err = %v", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, _ := newAuth(t)
	signup(t, svc, "owner@example.com")
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "owner@example.com"); err != nil {
		t.Fatal(err)
	}
	var stored model.PasswordResetToken
	svc.DB.First(&stored)

	svc.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	err := svc.ResetPassword(ctx, model.ResetPasswordRequest{Email: "owner@example.com", Token: stored.Token, NewPassword: "brandnewpass"})
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expired token: err = %v", err)
	}

	purged, err := svc.PurgeExpiredResetTokens(ctx)
	if err != nil || purged != 1 {
		t.Fatalf("purge = %d, %v", purged, err)
	}
}

func TestTwoFactorFlow(t *testing.T) {
	svc, mailer := newAuth(t)
	res := signup(t, svc, "owner@example.com")
	ctx := context.Background()
	userID := res.User.ID

	setup, err := svc.Setup2FA(ctx, userID)
	if err != nil {
		t.Fatalf("Setup2FA: %v", err)
	}
	if !strings.HasPrefix(setup.OtpauthUrl, "otpauth://totp/") || !strings.HasPrefix(setup.QrCode, "data:image/png;base64,") {
		t.Fatalf("unexpected setup %+v", setup)
	}
	if len(setup.RecoveryCodes) != recoveryCodeCount {
		t.Fatalf("recovery codes = %d", len(setup.RecoveryCodes))
	}

	// not enforced until verified
	if _, err := svc.Login(ctx, model.LoginInput{Email: "owner@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("login before verify: %v", err)
	}

	if _, err := svc.Verify2FA(ctx, userID, "000000"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong code: err = %v", err)
	}
	code, _ := totp.GenerateCode(setup.Secret, time.Now())
	user, err := svc.Verify2FA(ctx, userID, code)
	if err != nil || !user.TwoFactorEnabled {
		t.Fatalf("Verify2FA = %+v, %v", user, err)
	}
	if len(mailer.notices) == 0 {
		t.Error("no security notice for enabling 2FA")
	}

	login := model.LoginInput{Email: "owner@example.com", Password: "supersecret"}
	if _, err := svc.Login(ctx, login); !errors.Is(err, ErrTwoFactorRequired) {
		t.Fatalf("missing otp: err = %v", err)
	}
	login.Otp = "123456"
	if code == login.Otp {
		login.Otp = "654321"
	}
	if _, err := svc.Login(ctx, login); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong otp: err = %v", err)
	}
	login.Otp = code
	if _, err := svc.Login(ctx, login); err != nil {
		t.Fatalf("login with otp: %v", err)
	}

	// recovery codes work once
	login.Otp = strings.ToUpper(setup.RecoveryCodes[0])
	if _, err := svc.Login(ctx, login); err != nil {
		t.Fatalf("login with recovery code: %v", err)
	}
	if _, err := svc.Login(ctx, login); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("recovery code reuse: err = %v", err)
	}

	if _, err := svc.Setup2FA(ctx, userID); !errors.Is(err, ErrConflict) {
		t.Fatalf("setup while enabled: err = %v", err)
	}

	if err := svc.Disable2FA(ctx, userID, setup.RecoveryCodes[1]); err != nil {
		t.Fatalf("Disable2FA: %v", err)
	}
	if _, err := svc.Login(ctx, model.LoginInput{Email: "owner@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("login after disable: %v", err)
	}
}
