package watchlist

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cardwatch/pkg/models"
)

// Repo is the sqlite-backed tracked-item store. Records are whole rows with
// last-write-wins semantics per record; sqlite serializes the writers.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const trackedColumns = `id, url, name, price, in_stock, prev_in_stock, image_url, source, last_checked, added_at`

func (r *Repo) List(ctx context.Context) ([]models.TrackedItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+trackedColumns+`
		FROM tracked_items
		ORDER BY added_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tracked items: %w", err)
	}
	defer rows.Close()

	out := make([]models.TrackedItem, 0, 16)
	for rows.Next() {
		item, err := scanTracked(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*models.TrackedItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+trackedColumns+`
		FROM tracked_items
		WHERE id = ?
	`, id)

	item, err := scanTracked(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *Repo) GetByURL(ctx context.Context, url string) (*models.TrackedItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+trackedColumns+`
		FROM tracked_items
		WHERE url = ?
	`, url)

	item, err := scanTracked(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Insert creates the item unless its url is already tracked, in which case
// the existing record is returned unchanged. The url uniqueness lives in the
// schema, so two concurrent inserts of one url still yield a single row.
func (r *Repo) Insert(ctx context.Context, item models.TrackedItem) (models.TrackedItem, bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO tracked_items (id, url, name, price, in_stock, prev_in_stock, image_url, source, last_checked, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`, item.ID, item.URL, item.Name, item.Price, item.InStock, item.PrevInStock,
		item.ImageURL, item.Source, item.LastChecked, item.AddedAt)
	if err != nil {
		return models.TrackedItem{}, false, fmt.Errorf("insert tracked item: %w", err)
	}

	n, _ := res.RowsAffected()

	stored, err := r.GetByURL(ctx, item.URL)
	if err != nil {
		return models.TrackedItem{}, false, err
	}
	if stored == nil {
		return models.TrackedItem{}, false, fmt.Errorf("insert tracked item: row vanished for url %s", item.URL)
	}
	return *stored, n > 0, nil
}

// Update applies the non-nil fields of upd to one record and returns the
// stored row. Returns nil when the id is unknown.
func (r *Repo) Update(ctx context.Context, id string, upd models.TrackedUpdate) (*models.TrackedItem, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *upd.Price)
	}
	if upd.InStock != nil {
		sets = append(sets, "in_stock = ?")
		args = append(args, *upd.InStock)
	}
	if upd.PrevInStock != nil {
		sets = append(sets, "prev_in_stock = ?")
		args = append(args, *upd.PrevInStock)
	}
	if upd.ImageURL != nil {
		sets = append(sets, "image_url = ?")
		args = append(args, *upd.ImageURL)
	}
	if upd.LastChecked != nil {
		sets = append(sets, "last_checked = ?")
		args = append(args, *upd.LastChecked)
	}

	if len(sets) > 0 {
		args = append(args, id)
		res, err := r.DB.ExecContext(ctx, `
			UPDATE tracked_items SET `+strings.Join(sets, ", ")+` WHERE id = ?
		`, args...)
		if err != nil {
			return nil, fmt.Errorf("update tracked item: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, nil
		}
	}

	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM tracked_items WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete tracked item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTracked(s scanner) (models.TrackedItem, error) {
	var (
		item        models.TrackedItem
		price       sql.NullFloat64
		imageURL    sql.NullString
		lastChecked sql.NullTime
		addedAt     time.Time
	)
	err := s.Scan(&item.ID, &item.URL, &item.Name, &price, &item.InStock,
		&item.PrevInStock, &imageURL, &item.Source, &lastChecked, &addedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return item, err
		}
		return item, fmt.Errorf("scan tracked item: %w", err)
	}

	if price.Valid {
		item.Price = &price.Float64
	}
	if imageURL.Valid {
		item.ImageURL = &imageURL.String
	}
	if lastChecked.Valid {
		item.LastChecked = &lastChecked.Time
	}
	item.AddedAt = addedAt
	return item, nil
}
