package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pageza/foodgram/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImportResult reports how many rows were created and how many matched an
// existing row.
type ImportResult struct {
	Created  int
	Existing int
}

// importSpec describes one importable model.
type importSpec struct {
	fields []string
	limits []int
	// getOrCreate returns true when a row was inserted.
	getOrCreate func(tx *gorm.DB, values []string) (bool, error)
}

var importSpecs = map[string]importSpec{
	"ingredient": {
		fields: []string{"name", "measurement_unit"},
		limits: []int{128, 64},
		getOrCreate: func(tx *gorm.DB, v []string) (bool, error) {
			row := models.Ingredient{Name: v[0], MeasurementUnit: v[1]}
			res := tx.Where(models.Ingredient{Name: v[0], MeasurementUnit: v[1]}).FirstOrCreate(&row)
			return res.RowsAffected > 0, res.Error
		},
	},
	"tag": {
		fields: []string{"name", "slug"},
		limits: []int{32, 32},
		getOrCreate: func(tx *gorm.DB, v []string) (bool, error) {
			row := models.Tag{Name: v[0], Slug: v[1]}
			res := tx.Where(models.Tag{Name: v[0], Slug: v[1]}).FirstOrCreate(&row)
			return res.RowsAffected > 0, res.Error
		},
	},
}

// ImportModels lists the model names accepted by CSVImporter.Import.
func ImportModels() []string {
	return []string{"ingredient", "tag"}
}

// CSVImporter bulk-loads reference data with get-or-create semantics, so
// running the same file twice is harmless.
type CSVImporter struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCSVImporter(db *gorm.DB, logger *zap.Logger) *CSVImporter {
	return &CSVImporter{db: db, logger: logger.Named("import")}
}

// Import reads rows for model from r in one transaction. A first row equal
// to the field names is treated as a header.
func (i *CSVImporter) Import(ctx context.Context, model string, r io.Reader) (ImportResult, error) {
	var result ImportResult
	spec, ok := importSpecs[strings.ToLower(model)]
	if !ok {
		return result, fmt.Errorf("unknown model %q, expected one of %s", model, strings.Join(ImportModels(), ", "))
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for line := 1; ; line++ {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			if line == 1 && isHeader(record, spec.fields) {
				continue
			}
			if len(record) != len(spec.fields) {
				return fmt.Errorf("line %d: expected %d fields, got %d", line, len(spec.fields), len(record))
			}
			for idx := range record {
				record[idx] = strings.TrimSpace(record[idx])
				if record[idx] == "" {
					return fmt.Errorf("line %d: %s is empty", line, spec.fields[idx])
				}
				if utf8.RuneCountInString(record[idx]) > spec.limits[idx] {
					return fmt.Errorf("line %d: %s is longer than %d characters", line, spec.fields[idx], spec.limits[idx])
				}
			}

			created, err := spec.getOrCreate(tx, record)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			if created {
				result.Created++
			} else {
				result.Existing++
			}
		}
	})
	if err != nil {
		return ImportResult{}, err
	}

	i.logger.Info("import finished",
		zap.String("model", model),
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing))
	return result, nil
}

func isHeader(record, fields []string) bool {
	if len(record) != len(fields) {
		return false
	}
	for idx, f := range fields {
		if !strings.EqualFold(strings.TrimSpace(record[idx]), f) {
			return false
		}
	}
	return true
}
