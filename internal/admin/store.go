package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veloparts/storefront/internal/store"
	"github.com/veloparts/storefront/pkg/models"
)

// ErrProductNotFound is returned when an update targets an unknown SKU.
var ErrProductNotFound = errors.New("product not found")

// ProductUpdate carries the editable product fields. Nil fields are left
// unchanged.
type ProductUpdate struct {
	Description       *string  `json:"description,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	StockType         *string  `json:"stockType,omitempty"`
	Categories        *string  `json:"categories,omitempty"`
	InStock           *bool    `json:"inStock,omitempty"`
	AvailableNow      *int     `json:"availableNow,omitempty"`
	Available1To3Days *int     `json:"available1to3Days,omitempty"`
	NLADate           *string  `json:"nlaDate,omitempty"`
}

// StockLine is one SKU's new stock levels.
type StockLine struct {
	Sku               string `json:"sku"`
	AvailableNow      int    `json:"availableNow"`
	Available1To3Days int    `json:"available1to3Days"`
	InStock           bool   `json:"inStock"`
}

// StockUpdateRequest is a bulk stock level update, typically exported from
// the warehouse system.
type StockUpdateRequest struct {
	Source string      `json:"source,omitempty"`
	Lines  []StockLine `json:"lines"`
}

// StockUpdateResult reports what a bulk update changed. Unknown SKUs are
// skipped, not errors.
type StockUpdateResult struct {
	AuditID string `json:"auditId"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}

// StockStore writes product and stock changes to the SQLite dataset tables
// and records an audit trail.
type StockStore struct {
	db *store.Store
}

// NewStockStore creates the store. Migrate must have been run with
// Migrations() before first use.
func NewStockStore(db *store.Store) *StockStore {
	return &StockStore{db: db}
}

// Migrations returns the admin audit schema.
func Migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create admin audit table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS admin_audit (
						id         TEXT PRIMARY KEY,
						action     TEXT NOT NULL,
						detail     TEXT NOT NULL DEFAULT '',
						created_at DATETIME NOT NULL
					)
				`)
				return err
			},
		},
	}
}

// UpdateProduct applies the non-nil fields of update to one product row.
func (s *StockStore) UpdateProduct(ctx context.Context, sku string, update ProductUpdate) error {
	sku = models.CanonicalSKU(sku)

	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Price != nil {
		add("price", *update.Price)
	}
	if update.StockType != nil {
		add("stock_type", *update.StockType)
	}
	if update.Categories != nil {
		add("categories", *update.Categories)
	}
	if update.InStock != nil {
		add("in_stock", boolToInt(*update.InStock))
	}
	if update.AvailableNow != nil {
		add("available_now", *update.AvailableNow)
	}
	if update.Available1To3Days != nil {
		add("available_1_3", *update.Available1To3Days)
	}
	if update.NLADate != nil {
		add("nla_date", *update.NLADate)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, sku)

	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE products SET "+strings.Join(sets, ", ")+" WHERE sku = ?", args...)
		if err != nil {
			return fmt.Errorf("update product %s: %w", sku, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return ErrProductNotFound
		}
		return s.audit(ctx, tx, "product-update", sku)
	})
}

// ApplyStockUpdate applies all stock lines in one transaction. Lines for
// unknown SKUs are counted as skipped.
func (s *StockStore) ApplyStockUpdate(ctx context.Context, req StockUpdateRequest) (StockUpdateResult, error) {
	result := StockUpdateResult{AuditID: uuid.New().String()}

	err := s.db.Tx(ctx, func(tx *sql.Tx) error {
		for _, line := range req.Lines {
			sku := models.CanonicalSKU(line.Sku)
			if sku == "" {
				result.Skipped++
				continue
			}
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET available_now = ?, available_1_3 = ?, in_stock = ?
				WHERE sku = ?`,
				line.AvailableNow, line.Available1To3Days, boolToInt(line.InStock), sku)
			if err != nil {
				return fmt.Errorf("update stock for %s: %w", sku, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			if n == 0 {
				result.Skipped++
			} else {
				result.Updated++
			}
		}

		detail := fmt.Sprintf("source=%s updated=%d skipped=%d", req.Source, result.Updated, result.Skipped)
		_, err := tx.ExecContext(ctx,
			"INSERT INTO admin_audit (id, action, detail, created_at) VALUES (?, ?, ?, ?)",
			result.AuditID, "stock-update", detail, time.Now().UTC())
		return err
	})
	if err != nil {
		return StockUpdateResult{}, err
	}
	return result, nil
}

func (s *StockStore) audit(ctx context.Context, tx *sql.Tx, action, detail string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO admin_audit (id, action, detail, created_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(), action, detail, time.Now().UTC())
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
