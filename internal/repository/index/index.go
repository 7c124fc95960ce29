package index

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/crmfilter/internal/db"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

// DefaultKeyPrefix namespaces record keys and index names.
const DefaultKeyPrefix = "crm:"

// Name returns the FT index name of an entity.
func Name(prefix string, e schema.Entity) string {
	return prefix + string(e) + ":idx"
}

// KeyPrefix returns the key prefix of an entity's record hashes.
func KeyPrefix(prefix string, e schema.Entity) string {
	return prefix + string(e) + ":"
}

// Definition derives the FT index of an entity from its schema.
// The tenant field is always indexed; dates are stored as sortable epoch seconds.
// The mine-only field holds usernames and is matched case-sensitively.
func Definition(prefix string, s schema.Schema) (*db.IndexDefinition, error) {
	b := db.NewIndex(Name(prefix, s.Entity())).
		OnHash().
		Prefix(KeyPrefix(prefix, s.Entity())).
		Numeric(field.Tenant.Name())

	for _, id := range s.ParamFields() {
		switch id.FieldType() {
		case field.Tag:
			if id == s.MineOnlyField() {
				b.TagWithOpts(id.Name(), ",", true)
			} else {
				b.Tag(id.Name())
			}
		case field.Numeric:
			b.Numeric(id.Name())
		case field.Text:
			b.Text(id.Name())
		case field.Date:
			b.SortableNumeric(id.Name())
		default:
			return nil, fmt.Errorf("field %s: unknown type %q", id, id.FieldType())
		}
	}
	return b.Build()
}

// store is the consumer interface for index lifecycle (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Manager creates missing entity indexes.
type Manager struct {
	store  store
	prefix string
	logger *zap.Logger
}

// NewManager creates an index manager. An empty prefix uses DefaultKeyPrefix.
func NewManager(s store, prefix string, logger *zap.Logger) *Manager {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: s, prefix: prefix, logger: logger}
}

// Ensure creates the index of every schema that does not have one yet.
func (m *Manager) Ensure(ctx context.Context, schemas ...schema.Schema) error {
	for _, s := range schemas {
		def, err := Definition(m.prefix, s)
		if err != nil {
			return fmt.Errorf("index definition %s: %w", s.Entity(), err)
		}

		exists, err := m.store.IndexExists(ctx, def.Name)
		if err != nil {
			return fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if exists {
			m.logger.Debug("Index exists", zap.String("index", def.Name))
			continue
		}

		if err := m.store.CreateIndex(ctx, def); err != nil {
			if errors.Is(err, db.ErrIndexExists) {
				continue
			}
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
		m.logger.Info("Index created",
			zap.String("index", def.Name),
			zap.Int("fields", len(def.Fields)),
		)
	}
	return nil
}

// Rebuild drops and recreates the index of every schema so that schema changes
// take effect. Record hashes are kept and reindexed by the server.
func (m *Manager) Rebuild(ctx context.Context, schemas ...schema.Schema) error {
	for _, s := range schemas {
		name := Name(m.prefix, s.Entity())
		err := m.store.DropIndex(ctx, name)
		switch {
		case err == nil:
			m.logger.Info("Index dropped", zap.String("index", name))
		case errors.Is(err, db.ErrIndexNotFound):
		default:
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}
	return m.Ensure(ctx, schemas...)
}
