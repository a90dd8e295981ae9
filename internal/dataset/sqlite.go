package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/store"
	"github.com/veloparts/storefront/pkg/models"
)

// SQLiteSource reads the datasets from the SQLite database the import
// pipeline writes into. Each dataset degrades to an empty collection on
// query failure, matching DirSource behaviour.
type SQLiteSource struct {
	db     *store.Store
	logger *zap.Logger
}

// NewSQLiteSource creates a source over an opened store. Migrate must have
// been run with Migrations() before the first Load.
func NewSQLiteSource(db *store.Store, logger *zap.Logger) *SQLiteSource {
	return &SQLiteSource{db: db, logger: logger}
}

// Migrations returns the dataset table schema.
func Migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create dataset tables",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS products (
						sku             TEXT PRIMARY KEY,
						parent_sku      TEXT NOT NULL DEFAULT '',
						description     TEXT NOT NULL DEFAULT '',
						price           REAL NOT NULL DEFAULT 0,
						weight          REAL NOT NULL DEFAULT 0,
						categories      TEXT NOT NULL DEFAULT '',
						stock_type      TEXT NOT NULL DEFAULT '',
						in_stock        INTEGER NOT NULL DEFAULT 0,
						available_now   INTEGER NOT NULL DEFAULT 0,
						available_1_3   INTEGER NOT NULL DEFAULT 0,
						nla_date        TEXT NOT NULL DEFAULT '',
						position        INTEGER NOT NULL DEFAULT 0
					)`,
					`CREATE TABLE IF NOT EXISTS chassis_years (
						make          TEXT NOT NULL,
						model         TEXT NOT NULL,
						year          INTEGER NOT NULL,
						chassis_start INTEGER,
						chassis_end   INTEGER,
						PRIMARY KEY (make, model, year)
					)`,
					`CREATE TABLE IF NOT EXISTS fitment (
						parent_sku      TEXT NOT NULL,
						make            TEXT NOT NULL,
						model           TEXT NOT NULL,
						chassis_start   INTEGER,
						chassis_end     INTEGER,
						additional_info TEXT NOT NULL DEFAULT ''
					)`,
					`CREATE INDEX IF NOT EXISTS idx_fitment_parent ON fitment(parent_sku)`,
					`CREATE TABLE IF NOT EXISTS supersessions (
						source_sku TEXT NOT NULL,
						target_sku TEXT NOT NULL,
						seq        INTEGER NOT NULL DEFAULT 0,
						PRIMARY KEY (source_sku, target_sku)
					)`,
					`CREATE TABLE IF NOT EXISTS popularity (
						sku   TEXT PRIMARY KEY,
						score REAL NOT NULL DEFAULT 0
					)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// Load reads all dataset tables into collections.
func (s *SQLiteSource) Load(ctx context.Context) (Collections, error) {
	var c Collections

	products, err := s.loadProducts(ctx)
	if err != nil {
		s.logger.Warn("products table unavailable, using empty collection", zap.Error(err))
	} else {
		c.Products = products
	}

	chassis, err := s.loadChassisYears(ctx)
	if err != nil {
		s.logger.Warn("chassis_years table unavailable, using empty collection", zap.Error(err))
	} else {
		c.ChassisYears = chassis
	}

	fitment, err := s.loadFitment(ctx)
	if err != nil {
		s.logger.Warn("fitment table unavailable, using empty collection", zap.Error(err))
	} else {
		c.Fitment = fitment
	}

	supersessions, err := s.loadSupersessions(ctx)
	if err != nil {
		s.logger.Warn("supersessions table unavailable, using empty collection", zap.Error(err))
	} else {
		c.Supersessions = supersessions
	}

	popularity, err := s.loadPopularity(ctx)
	if err != nil {
		s.logger.Warn("popularity table unavailable, using empty collection", zap.Error(err))
	} else {
		c.Popularity = popularity
	}

	return c, nil
}

func (s *SQLiteSource) loadProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT sku, parent_sku, description, price, weight, categories,
		       stock_type, in_stock, available_now, available_1_3, nla_date
		FROM products ORDER BY position, sku`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		var inStock int
		var categories, stockType string
		if err := rows.Scan(&p.Sku, &p.ParentSku, &p.Description, &p.Price, &p.Weight,
			&categories, &stockType, &inStock, &p.AvailableNow, &p.Available1To3Days,
			&p.NLADate); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Categories = models.CategoryPath(categories)
		p.StockType = models.StockType(stockType)
		p.InStock = inStock != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) loadChassisYears(ctx context.Context) (models.ChassisYears, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT make, model, year, chassis_start, chassis_end
		FROM chassis_years ORDER BY make, model, year`)
	if err != nil {
		return nil, fmt.Errorf("query chassis_years: %w", err)
	}
	defer rows.Close()

	out := models.ChassisYears{}
	for rows.Next() {
		var mk, model string
		var year int
		var start, end sql.NullInt64
		if err := rows.Scan(&mk, &model, &year, &start, &end); err != nil {
			return nil, fmt.Errorf("scan chassis_years: %w", err)
		}
		if out[mk] == nil {
			out[mk] = make(map[string]models.ModelChassisYears)
		}
		entry, ok := out[mk][model]
		if !ok {
			entry = models.ModelChassisYears{
				YearStart:     year,
				YearEnd:       year,
				ChassisByYear: make(map[int]models.ChassisRange),
			}
		}
		if year < entry.YearStart {
			entry.YearStart = year
		}
		if year > entry.YearEnd {
			entry.YearEnd = year
		}
		entry.ChassisByYear[year] = models.ChassisRange{
			Start: nullableInt64(start),
			End:   nullableInt64(end),
		}
		out[mk][model] = entry
	}
	return out, rows.Err()
}

func (s *SQLiteSource) loadFitment(ctx context.Context) ([]models.FitmentRecord, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT parent_sku, make, model, chassis_start, chassis_end, additional_info
		FROM fitment ORDER BY parent_sku, make, model`)
	if err != nil {
		return nil, fmt.Errorf("query fitment: %w", err)
	}
	defer rows.Close()

	var out []models.FitmentRecord
	for rows.Next() {
		var f models.FitmentRecord
		var start, end sql.NullInt64
		if err := rows.Scan(&f.ParentSku, &f.Make, &f.Model, &start, &end, &f.AdditionalInfo); err != nil {
			return nil, fmt.Errorf("scan fitment: %w", err)
		}
		f.ChassisStart = nullableInt64(start)
		f.ChassisEnd = nullableInt64(end)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) loadSupersessions(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT source_sku, target_sku FROM supersessions ORDER BY source_sku, seq`)
	if err != nil {
		return nil, fmt.Errorf("query supersessions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var src, target string
		if err := rows.Scan(&src, &target); err != nil {
			return nil, fmt.Errorf("scan supersession: %w", err)
		}
		out[src] = append(out[src], target)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) loadPopularity(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.DB().QueryContext(ctx, `SELECT sku, score FROM popularity`)
	if err != nil {
		return nil, fmt.Errorf("query popularity: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var sku string
		var score float64
		if err := rows.Scan(&sku, &score); err != nil {
			return nil, fmt.Errorf("scan popularity: %w", err)
		}
		out[sku] = score
	}
	return out, rows.Err()
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
