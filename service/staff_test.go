package service

import (
	"context"
	"errors"
	"testing"

	"table_order/constants"
	"table_order/model"
)

func newStaff(t *testing.T) (*StaffService, *AuthService, *model.User, uint) {
	t.Helper()
	auth, mailer := newAuth(t)
	res := signup(t, auth, "owner@example.com")
	owner := res.User
	return NewStaffService(auth.DB, mailer), auth, &owner, *owner.RestaurantID
}

func TestStaffRoleRules(t *testing.T) {
	svc, _, owner, rid := newStaff(t)
	ctx := context.Background()

	admin, err := svc.Create(ctx, owner, rid, model.CreateStaffInput{Name: "Ada", Email: "Ada@Example.com", Password: "password123", Role: constants.ROLE_RESTAURANT_ADMIN})
	if err != nil {
		t.Fatalf("owner creates admin: %v", err)
	}
	if admin.Email != "ada@example.com" || !admin.Active || admin.RestaurantID == nil || *admin.RestaurantID != rid {
		t.Fatalf("admin = %+v", admin)
	}

	tests := []struct {
		name  string
		actor *model.User
		role  string
		want  error
	}{
		{"admin creates staff", admin, constants.ROLE_STAFF, nil},
		{"role defaults to staff", admin, "", nil},
		{"admin cannot create admin", admin, constants.ROLE_RESTAURANT_ADMIN, ErrForbidden},
		{"nobody creates owners", owner, constants.ROLE_RESTAURANT_OWNER, ErrValidation},
		{"staff cannot create staff", &model.User{DTO: model.DTO{ID: 999}, Role: constants.ROLE_STAFF}, constants.ROLE_STAFF, ErrForbidden},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := string(rune('a'+i)) + "@staff.example.com"
			user, err := svc.Create(ctx, tt.actor, rid, model.CreateStaffInput{Name: "S", Email: email, Password: "password123", Role: tt.role})
			if tt.want == nil {
				if err != nil {
					t.Fatalf("err = %v", err)
				}
				if user.Role != constants.ROLE_STAFF {
					t.Fatalf("role = %s", user.Role)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := svc.Create(ctx, owner, rid, model.CreateStaffInput{Name: "Dup", Email: "owner@example.com", Password: "password123"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email: err = %v", err)
	}

	list, err := svc.List(ctx, rid)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("listed %d accounts, want admin and two staff", len(list))
	}
	for _, u := range list {
		if u.Role == constants.ROLE_RESTAURANT_OWNER {
			t.Fatal("owner listed as staff")
		}
	}

	if _, err := svc.Update(ctx, admin, rid, admin.ID, model.UpdateStaffInput{Name: ptr("Ada L")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin edits admin: err = %v", err)
	}
	if _, err := svc.Update(ctx, admin, rid, owner.ID, model.UpdateStaffInput{Name: ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("owner reachable as staff: err = %v", err)
	}
	promoted, err := svc.Update(ctx, owner, rid, list[1].ID, model.UpdateStaffInput{Role: ptr(constants.ROLE_RESTAURANT_ADMIN)})
	if err != nil || promoted.Role != constants.ROLE_RESTAURANT_ADMIN {
		t.Fatalf("promote: %+v, %v", promoted, err)
	}
}

func TestStaffDeactivationBlocksLogin(t *testing.T) {
	svc, auth, owner, rid := newStaff(t)
	ctx := context.Background()

	staff, err := svc.Create(ctx, owner, rid, model.CreateStaffInput{Name: "Sam", Email: "sam@example.com", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}
	login := model.LoginInput{Email: "sam@example.com", Password: "password123"}
	res, err := auth.Login(ctx, login)
	if err != nil {
		t.Fatalf("staff login: %v", err)
	}
	if res.User.Role != constants.ROLE_STAFF {
		t.Fatalf("role = %s", res.User.Role)
	}

	if _, err := svc.SetActive(ctx, owner, rid, staff.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Login(ctx, login); !errors.Is(err, ErrForbidden) {
		t.Fatalf("disabled login: err = %v", err)
	}
	if _, err := auth.RefreshToken(ctx, res.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("disabled refresh: err = %v", err)
	}

	if _, err := svc.SetActive(ctx, owner, rid, staff.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Login(ctx, login); err != nil {
		t.Fatalf("re-enabled login: %v", err)
	}

	if _, err := svc.SetActive(ctx, owner, rid, owner.ID, false); !errors.Is(err, ErrValidation) {
		t.Fatalf("self deactivation: err = %v", err)
	}
}

func TestStaffPasswords(t *testing.T) {
	svc, auth, owner, rid := newStaff(t)
	ctx := context.Background()
	mailer := svc.Mailer.(*fakeMailer)

	staff, err := svc.Create(ctx, owner, rid, model.CreateStaffInput{Name: "Sam", Email: "sam@example.com", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SetPassword(ctx, owner, rid, staff.ID, "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password: err = %v", err)
	}
	if err := svc.SetPassword(ctx, owner, rid, staff.ID, "resetbymanager"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.notices) != 1 || mailer.notices[0].to != "sam@example.com" {
		t.Fatalf("notices = %+v", mailer.notices)
	}
	if _, err := auth.Login(ctx, model.LoginInput{Email: "sam@example.com", Password: "resetbymanager"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	wrong := model.ChangePasswordInput{CurrentPassword: "password123", NewPassword: "chosenbysam"}
	if err := auth.ChangePassword(ctx, staff.ID, wrong); !errors.Is(err, ErrValidation) {
		t.Fatalf("stale current password: err = %v", err)
	}
	right := model.ChangePasswordInput{CurrentPassword: "resetbymanager", NewPassword: "chosenbysam"}
	if err := auth.ChangePassword(ctx, staff.ID, right); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Login(ctx, model.LoginInput{Email: "sam@example.com", Password: "chosenbysam"}); err != nil {
		t.Fatalf("login after change: %v", err)
	}

	if err := svc.Delete(ctx, owner, rid, staff.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Login(ctx, model.LoginInput{Email: "sam@example.com", Password: "chosenbysam"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("deleted login: err = %v", err)
	}
	if err := svc.Delete(ctx, owner, rid, staff.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
