package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/pkg/models"
)

// Dataset file names within a data directory.
const (
	productsFile      = "products.json"
	chassisYearsFile  = "chassis-years.json"
	fitmentFile       = "fitment.json"
	supersessionsFile = "supersessions.json"
	popularityFile    = "popularity.json"
)

// Source delivers the raw dataset collections. Implementations must tolerate
// individual datasets being missing or corrupt by returning that collection
// empty; only a total inability to load anything is an error.
type Source interface {
	Load(ctx context.Context) (Collections, error)
}

// DirSource reads the datasets from JSON files in a directory, as written by
// the export step of the import pipeline.
type DirSource struct {
	dir    string
	logger *zap.Logger
}

// NewDirSource creates a source reading from the given data directory.
func NewDirSource(dir string, logger *zap.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logger}
}

// Load reads all dataset files. A missing or unparseable file degrades to an
// empty collection with a warning rather than failing the whole snapshot.
func (d *DirSource) Load(_ context.Context) (Collections, error) {
	var c Collections

	var products []models.Product
	if d.readFile(productsFile, &products) {
		c.Products = products
	}

	var chassis models.ChassisYears
	if d.readFile(chassisYearsFile, &chassis) {
		c.ChassisYears = chassis
	}

	var fitment []models.FitmentRecord
	if d.readFile(fitmentFile, &fitment) {
		c.Fitment = fitment
	}

	var supersessions map[string]skuList
	if d.readFile(supersessionsFile, &supersessions) {
		c.Supersessions = make(map[string][]string, len(supersessions))
		for src, targets := range supersessions {
			c.Supersessions[src] = targets
		}
	}

	var popularity map[string]float64
	if d.readFile(popularityFile, &popularity) {
		c.Popularity = popularity
	}

	return c, nil
}

// readFile unmarshals one dataset file into v. Returns false (and logs) when
// the file is absent or corrupt.
func (d *DirSource) readFile(name string, v any) bool {
	path := filepath.Join(d.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d.logger.Warn("dataset file missing, using empty collection", zap.String("file", name))
		} else {
			d.logger.Warn("dataset file unreadable, using empty collection",
				zap.String("file", name), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		d.logger.Warn("dataset file corrupt, using empty collection",
			zap.String("file", name), zap.Error(err))
		return false
	}
	return true
}

// skuList accepts either a single SKU string or an array of SKUs, since the
// supersession lookup export has used both shapes over time.
type skuList []string

func (l *skuList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = skuList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("supersession target must be a string or string array: %w", err)
	}
	*l = skuList(many)
	return nil
}
