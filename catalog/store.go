package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// schemaRow is the persisted form of a Definition header.
type schemaRow struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:128"`
	Narrative string
	Extends   string
}

func (schemaRow) TableName() string { return "catalog_schemas" }

// fieldRow is the persisted form of one FieldRow. Position keeps declaration
// order; defaults are stored JSON-encoded.
type fieldRow struct {
	ID          uint `gorm:"primaryKey"`
	SchemaID    uint `gorm:"index"`
	Position    int
	Name        string `gorm:"size:128"`
	TypeToken   string `gorm:"size:256"`
	Description string
	Required    bool
	DefaultJSON string
}

func (fieldRow) TableName() string { return "catalog_fields" }

// Store persists schema definitions in a relational catalog, the metadata
// source behind dynamically built schemas. It implements Source.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open opens (or creates) a sqlite-backed store at the given DSN, e.g. a
// file path or ":memory:".
func Open(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open catalog store %s: %w", dsn, err)
	}
	return NewStore(db, logger)
}

// NewStore wraps an existing gorm handle and migrates the catalog tables.
// A nil logger defaults to zap.NewNop().
func NewStore(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&schemaRow{}, &fieldRow{}); err != nil {
		return nil, fmt.Errorf("migrate catalog tables: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Save upserts a definition and its field rows in one transaction.
func (st *Store) Save(ctx context.Context, def *Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("definition must be non-nil and named")
	}
	return st.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing schemaRow
		err := tx.Where("name = ?", def.Name).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("schema_id = ?", existing.ID).Delete(&fieldRow{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id = ?", existing.ID).Delete(&schemaRow{}).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		row := schemaRow{Name: def.Name, Narrative: def.Narrative, Extends: def.Extends}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for i, f := range def.Fields {
			defJSON := ""
			if f.Default != nil {
				data, err := json.Marshal(f.Default)
				if err != nil {
					return fmt.Errorf("encode default for field %q: %w", f.Name, err)
				}
				defJSON = string(data)
			}
			fr := fieldRow{
				SchemaID:    row.ID,
				Position:    i,
				Name:        f.Name,
				TypeToken:   f.Type,
				Description: f.Description,
				Required:    f.Required,
				DefaultJSON: defJSON,
			}
			if err := tx.Create(&fr).Error; err != nil {
				return err
			}
		}
		st.logger.Debug("saved catalog schema",
			zap.String("name", def.Name), zap.Int("fields", len(def.Fields)))
		return nil
	})
}

// Definition loads the named definition. It implements Source.
func (st *Store) Definition(ctx context.Context, name string) (*Definition, error) {
	var row schemaRow
	if err := st.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("catalog schema %q not found", name)
		}
		return nil, err
	}
	var fields []fieldRow
	if err := st.db.WithContext(ctx).
		Where("schema_id = ?", row.ID).
		Order("position asc").
		Find(&fields).Error; err != nil {
		return nil, err
	}

	def := &Definition{
		Name:      row.Name,
		Narrative: row.Narrative,
		Extends:   row.Extends,
		Fields:    make([]FieldRow, len(fields)),
	}
	for i, f := range fields {
		var defVal any
		if f.DefaultJSON != "" {
			if err := json.Unmarshal([]byte(f.DefaultJSON), &defVal); err != nil {
				return nil, fmt.Errorf("decode default for field %q: %w", f.Name, err)
			}
		}
		def.Fields[i] = FieldRow{
			Name:        f.Name,
			Type:        f.TypeToken,
			Description: f.Description,
			Required:    f.Required,
			Default:     defVal,
		}
	}
	return def, nil
}

// Names lists all stored schema names.
func (st *Store) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := st.db.WithContext(ctx).
		Model(&schemaRow{}).
		Order("name asc").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// LoadAll loads several definitions concurrently.
func (st *Store) LoadAll(ctx context.Context, names []string) (map[string]*Definition, error) {
	out := make(map[string]*Definition, len(names))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			def, err := st.Definition(gctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = def
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
