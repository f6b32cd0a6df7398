// Package catalog loads the static card catalog. The catalog is read once at
// startup from an external JSON data source and is immutable afterwards; the
// engine and every match share the same definitions.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"carduel/models"
)

// carEntry is the raw shape of one car in the data source.
type carEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Speed  float64 `json:"speed"`
	HP     float64 `json:"hp"`
	Accel  float64 `json:"accel"`
	Weight float64 `json:"weight"`
	Year   float64 `json:"year"`
}

type sourceFile struct {
	Cars []carEntry `json:"cars"`
}

var (
	loadOnce sync.Once
	loaded   []*models.CardDefinition
	loadErr  error
)

// Load reads the catalog from path exactly once per process. Subsequent calls
// return the first result regardless of path.
func Load(path string) ([]*models.CardDefinition, error) {
	loadOnce.Do(func() {
		loaded, loadErr = LoadFile(path)
	})
	return loaded, loadErr
}

// LoadFile parses a catalog data source without the single-shot guard.
// Exposed for tests.
func LoadFile(path string) ([]*models.CardDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var src sourceFile
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	defs := make([]*models.CardDefinition, 0, len(src.Cars)+len(actionDefinitions))
	for _, c := range src.Cars {
		if !validCar(c) {
			continue
		}
		metrics := models.MetricVector{
			Speed:  c.Speed,
			HP:     c.HP,
			Accel:  c.Accel,
			Weight: c.Weight,
			Year:   c.Year,
		}
		defs = append(defs, &models.CardDefinition{
			ID:      c.ID,
			Name:    c.Name,
			Kind:    models.KindCar,
			Metrics: &metrics,
		})
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("catalog at %s contains no valid cars", path)
	}

	assignRanks(defs)

	defs = append(defs, actionDefinitions...)
	return defs, nil
}

// validCar rejects entries with a missing or zero metric.
func validCar(c carEntry) bool {
	return c.ID != "" &&
		c.Speed > 0 && c.HP > 0 && c.Accel > 0 && c.Weight > 0 && c.Year > 0
}
