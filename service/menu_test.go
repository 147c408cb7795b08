package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"table_order/media"
	"table_order/model"
	"table_order/utils"

	"github.com/shopspring/decimal"
)

type fakeImages struct {
	mu        sync.Mutex
	uploaded  []string
	destroyed chan string
}

func (f *fakeImages) Upload(_ context.Context, _ any, folder, publicID string) (media.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, publicID)
	return media.Image{URL: "https://img.test/" + folder + "/" + publicID, PublicID: folder + "/" + publicID}, nil
}

func (f *fakeImages) Destroy(_ context.Context, publicID string) error {
	f.destroyed <- publicID
	return nil
}

func TestMenuCreateDefaultsAndValidation(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewMenuService(db, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, f.restaurant.ID, model.CreateMenuItemInput{
		Name:     " Pasta ",
		Price:    decimal.RequireFromString("12.345"),
		Category: model.CategoryMainCourse,
		Stock:    3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Name != "Pasta" || !item.Available || !item.Price.Equal(decimal.RequireFromString("12.35")) || item.Stock != 3 {
		t.Fatalf("unexpected item %+v", item)
	}

	hidden, err := svc.Create(ctx, f.restaurant.ID, model.CreateMenuItemInput{
		Name: "Secret", Price: decimal.NewFromInt(1), Category: model.CategorySide, Available: utils.Ptr(false),
	})
	if err != nil || hidden.Available {
		t.Fatalf("explicit available=false was ignored: %+v %v", hidden, err)
	}

	bad := []model.CreateMenuItemInput{
		{Name: "Neg", Price: decimal.NewFromInt(-1), Category: model.CategorySide},
		{Name: "Cat", Price: decimal.NewFromInt(1), Category: "SNACK"},
		{Name: "", Price: decimal.NewFromInt(1), Category: model.CategorySide},
	}
	for _, in := range bad {
		if _, err := svc.Create(ctx, f.restaurant.ID, in); !errors.Is(err, ErrValidation) {
			t.Errorf("Create(%+v) err = %v, want ErrValidation", in, err)
		}
	}

	available, _ := svc.List(ctx, f.restaurant.ID, true)
	all, _ := svc.List(ctx, f.restaurant.ID, false)
	if len(all)-len(available) != 1 {
		t.Fatalf("available filter: all=%d available=%d", len(all), len(available))
	}
}

func TestMenuUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewMenuService(db, nil)
	ctx := context.Background()

	updated, err := svc.Update(ctx, f.restaurant.ID, f.burger.ID, model.UpdateMenuItemInput{
		Price:     utils.Ptr(decimal.RequireFromString("11.50")),
		Available: utils.Ptr(false),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Burger" || updated.Available || !updated.Price.Equal(decimal.RequireFromString("11.5")) {
		t.Fatalf("unexpected update %+v", updated)
	}

	if _, err := svc.Update(ctx, f.restaurant.ID, f.burger.ID, model.UpdateMenuItemInput{Price: utils.Ptr(decimal.NewFromInt(-5))}); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative price: err = %v", err)
	}
	other := model.Restaurant{Name: "Other", Slug: "other", Currency: "USD"}
	mustCreate(t, db, &other)
	if _, err := svc.Update(ctx, other.ID, f.burger.ID, model.UpdateMenuItemInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-restaurant update: err = %v", err)
	}
}

func TestMenuPriceChangeKeepsOrderSnapshot(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	orders := NewOrderService(db, nil)
	menu := NewMenuService(db, nil)
	ctx := context.Background()

	order, _ := orders.CreateOrder(ctx, orderInput(f, model.OrderLineInput{MenuItemID: f.burger.ID, Quantity: 2}))
	if _, err := menu.Update(ctx, f.restaurant.ID, f.burger.ID, model.UpdateMenuItemInput{Price: utils.Ptr(decimal.NewFromInt(20))}); err != nil {
		t.Fatal(err)
	}

	got, _ := orders.GetOrder(ctx, order.ID)
	if !got.Items[0].Price.Equal(decimal.RequireFromString("9.99")) || !got.TotalAmount.Equal(decimal.RequireFromString("19.98")) {
		t.Fatalf("snapshot changed: price %s total %s", got.Items[0].Price, got.TotalAmount)
	}
}

func TestMenuDeleteGuardAndSnapshot(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	orders := NewOrderService(db, nil)
	images := &fakeImages{destroyed: make(chan string, 1)}
	menu := NewMenuService(db, images)
	ctx := context.Background()

	db.Model(&f.burger).Update("image_public_id", "menu/burger")
	order, _ := orders.CreateOrder(ctx, orderInput(f, model.OrderLineInput{MenuItemID: f.burger.ID, Quantity: 2}))

	if err := menu.Delete(ctx, f.restaurant.ID, f.burger.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("delete with active order: err = %v, want ErrConflict", err)
	}

	if _, err := orders.UpdateOrderStatus(ctx, order.ID, model.OrderCompleted); err != nil {
		t.Fatal(err)
	}
	if err := menu.Delete(ctx, f.restaurant.ID, f.burger.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := menu.Get(ctx, f.restaurant.ID, f.burger.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("item still readable: %v", err)
	}
	if got := <-images.destroyed; got != "menu/burger" {
		t.Errorf("destroyed %q", got)
	}

	got, _ := orders.GetOrder(ctx, order.ID)
	line := got.Items[0]
	if line.MenuItemID != nil {
		t.Errorf("menu item link should be cleared, got %d", *line.MenuItemID)
	}
	if line.Name != "Burger" || line.Quantity != 2 || !line.Price.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("snapshot changed after delete: %+v", line)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("19.98")) {
		t.Fatalf("total changed after delete: %s", got.TotalAmount)
	}
}

func TestMenuUploadImage(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	ctx := context.Background()

	if _, err := NewMenuService(db, nil).UploadImage(ctx, f.restaurant.ID, f.burger.ID, io.NopCloser(nil)); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("without image store: err = %v", err)
	}

	images := &fakeImages{destroyed: make(chan string, 1)}
	svc := NewMenuService(db, images)
	item, err := svc.UploadImage(ctx, f.restaurant.ID, f.burger.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if item.ImageUrl == "" || item.ImagePublicID == "" {
		t.Fatalf("image not stored: %+v", item)
	}
	stored, _ := svc.Get(ctx, f.restaurant.ID, f.burger.ID)
	if stored.ImageUrl != item.ImageUrl {
		t.Fatalf("image url not persisted: %q", stored.ImageUrl)
	}

	if _, err := svc.UploadImage(ctx, f.restaurant.ID, f.burger.ID, nil); err != nil {
		t.Fatal(err)
	}
	if got := <-images.destroyed; got != item.ImagePublicID {
		t.Errorf("previous image %q not destroyed, got %q", item.ImagePublicID, got)
	}
}

func TestPublicMenu(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewMenuService(db, nil)
	ctx := context.Background()

	starter := model.MenuItem{RestaurantID: f.restaurant.ID, Name: "Wings", Price: decimal.NewFromInt(6), Category: model.CategoryAppetizer, Available: true}
	mustCreate(t, db, &starter)
	hidden := model.MenuItem{RestaurantID: f.restaurant.ID, Name: "Cake", Price: decimal.NewFromInt(6), Category: model.CategoryDessert, Available: false}
	mustCreate(t, db, &hidden)

	menu, err := svc.PublicMenu(ctx, f.restaurant.ID, f.table.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if menu.Table == nil || menu.Table.ID != f.table.ID {
		t.Fatal("table missing from menu")
	}
	var order []model.MenuCategory
	for _, g := range menu.Categories {
		order = append(order, g.Category)
	}
	want := []model.MenuCategory{model.CategoryAppetizer, model.CategoryMainCourse, model.CategoryBeverage}
	if len(order) != len(want) {
		t.Fatalf("categories = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("categories = %v, want %v", order, want)
		}
	}

	bySlug, err := svc.PublicMenu(ctx, 0, 0, "testaurant")
	if err != nil || bySlug.Restaurant.ID != f.restaurant.ID || bySlug.Table != nil {
		t.Fatalf("slug lookup = %+v, %v", bySlug, err)
	}

	other := model.Restaurant{Name: "Other", Slug: "other", Currency: "USD"}
	mustCreate(t, db, &other)
	if _, err := svc.PublicMenu(ctx, other.ID, f.table.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign table: err = %v", err)
	}
	if _, err := svc.PublicMenu(ctx, 0, 0, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("no selector: err = %v", err)
	}
}
