package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"table_order/model"
	"table_order/utils"
)

func TestTableCRUD(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewTableService(db, "https://order.test")
	ctx := context.Background()

	created, err := svc.Create(ctx, f.restaurant.ID, model.CreateTableInput{Number: 2, Capacity: 6})
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != model.TableAvailable {
		t.Errorf("default status = %s", created.Status)
	}
	if _, err := svc.Create(ctx, f.restaurant.ID, model.CreateTableInput{Number: 2, Capacity: 2}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate number: err = %v", err)
	}

	updated, err := svc.Update(ctx, f.restaurant.ID, created.ID, model.UpdateTableInput{
		Capacity: utils.Ptr(8),
		Status:   utils.Ptr(model.TableReserved),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Number != 2 || updated.Capacity != 8 || updated.Status != model.TableReserved {
		t.Fatalf("unexpected update %+v", updated)
	}
	if _, err := svc.Update(ctx, f.restaurant.ID, created.ID, model.UpdateTableInput{Number: utils.Ptr(f.table.Number)}); !errors.Is(err, ErrConflict) {
		t.Fatalf("renumber onto existing: err = %v", err)
	}

	tables, _ := svc.List(ctx, f.restaurant.ID)
	if len(tables) != 2 || tables[0].Number != 1 {
		t.Fatalf("list = %+v", tables)
	}

	if err := svc.Delete(ctx, f.restaurant.ID, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, f.restaurant.ID, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted table still readable: %v", err)
	}
}

func TestTableDeleteRefusedWithOrders(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	orders := NewOrderService(db, nil)
	svc := NewTableService(db, "https://order.test")
	ctx := context.Background()

	order, _ := orders.CreateOrder(ctx, orderInput(f, model.OrderLineInput{MenuItemID: f.burger.ID, Quantity: 1}))
	if err := svc.Delete(ctx, f.restaurant.ID, f.table.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("active orders: err = %v", err)
	}
	orders.UpdateOrderStatus(ctx, order.ID, model.OrderCompleted)
	if err := svc.Delete(ctx, f.restaurant.ID, f.table.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("order history: err = %v", err)
	}
}

func TestTableQRCode(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewTableService(db, "https://order.test")

	png, err := svc.QRCode(context.Background(), f.restaurant.ID, f.table.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("not a PNG")
	}
	if _, err := svc.QRCode(context.Background(), f.restaurant.ID+1, f.table.ID, 128); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign restaurant: err = %v", err)
	}
}

func TestTableExportQRCodes(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewTableService(db, "https://order.test")
	ctx := context.Background()
	if _, err := svc.Create(ctx, f.restaurant.ID, model.CreateTableInput{Number: 7, Capacity: 2}); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	paths, err := svc.ExportQRCodes(ctx, f.restaurant.ID, dir, 128, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "table-1.png"), filepath.Join(dir, "table-7.png")}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("%s is not a PNG", p)
		}
	}

	if _, err := svc.ExportQRCodes(ctx, f.restaurant.ID+1, dir, 128, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("restaurant without tables: err = %v", err)
	}
}
