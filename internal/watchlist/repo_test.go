package watchlist

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"cardwatch/pkg/database"
	"cardwatch/pkg/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a :memory: db exists per connection; keep the pool at one
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testItem(url string) models.TrackedItem {
	price := 49.99
	img := "https://cdn.example.com/etb.jpg"
	now := time.Now().UTC().Truncate(time.Second)
	return models.TrackedItem{
		ID:          uuid.NewString(),
		URL:         url,
		Name:        "Pokemon ETB",
		Price:       &price,
		InStock:     true,
		PrevInStock: true,
		ImageURL:    &img,
		Source:      "target",
		LastChecked: &now,
		AddedAt:     now,
	}
}

func TestRepoInsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openTestDB(t))

	item := testItem("https://www.target.com/p/etb/-/A-1")
	stored, created, err := repo.Insert(ctx, item)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !created {
		t.Error("created = false on fresh insert")
	}
	if stored.ID != item.ID || stored.URL != item.URL {
		t.Errorf("stored = %+v", stored)
	}

	got, err := repo.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.Name != "Pokemon ETB" || got.Price == nil || *got.Price != 49.99 {
		t.Errorf("got = %+v", got)
	}
	if got.ImageURL == nil || *got.ImageURL != "https://cdn.example.com/etb.jpg" {
		t.Errorf("image = %v", got.ImageURL)
	}
	if !got.InStock || !got.PrevInStock {
		t.Errorf("stock = in:%v prev:%v", got.InStock, got.PrevInStock)
	}

	missing, err := repo.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Get(nope) = %v, %v", missing, err)
	}
}

func TestRepoInsertURLDedup(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openTestDB(t))

	url := "https://www.target.com/p/etb/-/A-1"
	first, created, err := repo.Insert(ctx, testItem(url))
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	second, created, err := repo.Insert(ctx, testItem(url))
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Error("created = true on duplicate url")
	}
	if second.ID != first.ID {
		t.Errorf("ids differ: %q vs %q", second.ID, first.ID)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("List len = %d, want 1", len(items))
	}
}

func TestRepoPartialUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openTestDB(t))

	item := testItem("https://www.target.com/p/etb/-/A-1")
	if _, _, err := repo.Insert(ctx, item); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	inStock := false
	got, err := repo.Update(ctx, item.ID, models.TrackedUpdate{InStock: &inStock})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got == nil {
		t.Fatal("Update returned nil for known id")
	}
	if got.InStock {
		t.Error("in_stock not updated")
	}
	// untouched fields survive a partial update
	if got.Name != item.Name || got.Price == nil || *got.Price != *item.Price || !got.PrevInStock {
		t.Errorf("got = %+v", got)
	}

	missing, err := repo.Update(ctx, "nope", models.TrackedUpdate{InStock: &inStock})
	if err != nil {
		t.Fatalf("Update(nope): %v", err)
	}
	if missing != nil {
		t.Errorf("Update(nope) = %+v, want nil", missing)
	}
}

func TestRepoDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openTestDB(t))

	item := testItem("https://www.target.com/p/etb/-/A-1")
	if _, _, err := repo.Insert(ctx, item); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ok, err := repo.Delete(ctx, item.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	ok, err = repo.Delete(ctx, item.ID)
	if err != nil || ok {
		t.Fatalf("second Delete = %v, %v; want false", ok, err)
	}

	got, err := repo.Get(ctx, item.ID)
	if err != nil || got != nil {
		t.Errorf("Get after delete = %v, %v", got, err)
	}
}

func TestRepoListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openTestDB(t))

	older := testItem("https://www.target.com/p/a/-/A-1")
	older.AddedAt = time.Now().UTC().Add(-time.Hour)
	newer := testItem("https://www.target.com/p/b/-/A-2")
	newer.AddedAt = time.Now().UTC()

	for _, it := range []models.TrackedItem{older, newer} {
		if _, _, err := repo.Insert(ctx, it); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d", len(items))
	}
	if items[0].ID != newer.ID {
		t.Error("newest item not first")
	}
}
