package oracle

import (
	"context"
	"strings"
	"sync"

	"github.com/fennelq/oraclescan/physical"
)

// SchemaEntry is the cached view of one Oracle schema. Table entries load
// lazily: the first lookup reads the column dictionary, later lookups hit
// the cache.
type SchemaEntry struct {
	catalog *Catalog
	name    string

	mu     sync.Mutex
	tables map[string]*TableEntry
}

func newSchemaEntry(catalog *Catalog, name string) *SchemaEntry {
	return &SchemaEntry{
		catalog: catalog,
		name:    name,
		tables:  map[string]*TableEntry{},
	}
}

func (s *SchemaEntry) Name() string {
	return s.name
}

// GetEntry returns the table entry for name, loading column metadata on the
// first lookup. An unknown table yields (nil, nil), not an error.
func (s *SchemaEntry) GetEntry(ctx context.Context, name string) (*TableEntry, error) {
	upper := strings.ToUpper(name)

	s.mu.Lock()
	if entry, ok := s.tables[upper]; ok {
		s.mu.Unlock()
		return entry, nil
	}
	s.mu.Unlock()

	conn, err := s.catalog.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	columns, err := conn.GetColumns(ctx, s.name, upper)
	s.catalog.pool.Release(conn)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, nil
	}

	entry := newTableEntry(s, TableInfo{Schema: s.name, Name: upper}, columns)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another lookup may have raced the metadata read; keep the first entry.
	if existing, ok := s.tables[upper]; ok {
		return existing, nil
	}
	s.tables[upper] = entry
	return entry, nil
}

// Scan lists the schema's tables and views and invokes callback for each,
// loading entries through the same cache GetEntry uses.
func (s *SchemaEntry) Scan(ctx context.Context, callback func(*TableEntry)) error {
	conn, err := s.catalog.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	tables, err := conn.GetTables(ctx, s.name)
	s.catalog.pool.Release(conn)
	if err != nil {
		return err
	}

	for _, tbl := range tables {
		entry, err := s.GetEntry(ctx, tbl.Name)
		if err != nil {
			return err
		}
		if entry != nil {
			entry.info.IsView = tbl.IsView
			callback(entry)
		}
	}
	return nil
}

// CreateTableInfo describes a table to create on the Oracle side.
type CreateTableInfo struct {
	Table   string
	Columns []physical.SchemaField
}

// CreateTable emits the CREATE TABLE DDL and loads the fresh entry.
func (s *SchemaEntry) CreateTable(ctx context.Context, info CreateTableInfo) (*TableEntry, error) {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(QuoteQualified(s.name, strings.ToUpper(info.Table)))
	sb.WriteString(" (")
	for i, col := range info.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(QuoteIdentifier(col.Name))
		sb.WriteString(" ")
		sb.WriteString(ToOracleDDL(col.Type))
	}
	sb.WriteString(")")

	conn, err := s.catalog.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	err = conn.ExecuteDML(ctx, sb.String())
	s.catalog.pool.Release(conn)
	if err != nil {
		return nil, err
	}

	return s.GetEntry(ctx, info.Table)
}

// DropEntry drops the table on the Oracle side and evicts it from the cache.
func (s *SchemaEntry) DropEntry(ctx context.Context, name string, purge bool) error {
	upper := strings.ToUpper(name)
	sqlText := "DROP TABLE " + QuoteQualified(s.name, upper)
	if purge {
		sqlText += " PURGE"
	}

	conn, err := s.catalog.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	err = conn.ExecuteDML(ctx, sqlText)
	s.catalog.pool.Release(conn)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.tables, upper)
	s.mu.Unlock()
	return nil
}

// CreateIndex is not supported on attached Oracle catalogs.
func (s *SchemaEntry) CreateIndex(ctx context.Context, table, index string) error {
	return errorf(NotImplemented, "SchemaEntry::CreateIndex", "CREATE INDEX is not supported for Oracle catalogs")
}
