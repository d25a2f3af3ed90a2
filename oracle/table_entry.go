package oracle

import (
	"context"
	"database/sql"

	"github.com/fennelq/oraclescan/engine"
	"github.com/fennelq/oraclescan/execution"
	"github.com/fennelq/oraclescan/physical"
)

// TableEntry is the cached description of one Oracle table or view: its
// column dictionary and the mapped engine types.
type TableEntry struct {
	schema  *SchemaEntry
	info    TableInfo
	columns []ColumnInfo
	types   []engine.Type
}

func newTableEntry(schema *SchemaEntry, info TableInfo, columns []ColumnInfo) *TableEntry {
	types := make([]engine.Type, len(columns))
	for i := range columns {
		types[i] = ToEngineType(columns[i])
	}
	return &TableEntry{
		schema:  schema,
		info:    info,
		columns: columns,
		types:   types,
	}
}

func (t *TableEntry) Name() string {
	return t.info.Name
}

func (t *TableEntry) IsView() bool {
	return t.info.IsView
}

func (t *TableEntry) Columns() []ColumnInfo {
	return t.columns
}

func (t *TableEntry) Types() []engine.Type {
	return t.types
}

// Schema exposes the engine-facing column schema.
func (t *TableEntry) Schema() physical.Schema {
	fields := make([]physical.SchemaField, len(t.columns))
	for i := range t.columns {
		fields[i] = physical.SchemaField{Name: t.columns[i].Name, Type: t.types[i]}
	}
	return physical.NewSchema(fields)
}

// BindScan snapshots the table's columns, types and the server's major
// version into a fresh ScanBindData for the scan function.
func (t *TableEntry) BindScan(ctx context.Context) (*ScanBindData, error) {
	pool := t.schema.catalog.pool

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	major := conn.ServerMajorVersion(ctx)
	pool.Release(conn)

	bind := &ScanBindData{
		Pool:         pool,
		Schema:       t.info.Schema,
		Table:        t.info.Name,
		Columns:      append([]ColumnInfo(nil), t.columns...),
		Types:        append([]engine.Type(nil), t.types...),
		Limit:        LimitUnset,
		MajorVersion: major,
		FetchSize:    pool.Params().FetchSize,
	}
	if rows, err := t.Statistics(ctx); err == nil && rows > 0 {
		bind.EstimatedRows = rows
	}
	return bind, nil
}

// Statistics reads the dictionary row-count estimate (ALL_TABLES.NUM_ROWS),
// caching per table. Tables never analyzed report zero.
func (t *TableEntry) Statistics(ctx context.Context) (int64, error) {
	catalog := t.schema.catalog
	if n, ok := catalog.cachedNumRows(t.info.Schema, t.info.Name); ok {
		return n, nil
	}

	conn, err := catalog.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer catalog.pool.Release(conn)

	conn.mu.Lock()
	var numRows sql.NullInt64
	err = conn.db.QueryRowContext(ctx,
		"SELECT NUM_ROWS FROM ALL_TABLES WHERE OWNER = :1 AND TABLE_NAME = :2",
		t.info.Schema, t.info.Name).Scan(&numRows)
	conn.mu.Unlock()
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, newError(MetadataError, "Statistics::execute", err)
	}

	n := int64(0)
	if numRows.Valid {
		n = numRows.Int64
	}
	catalog.storeNumRows(t.info.Schema, t.info.Name, n)
	return n, nil
}

// BulkInsert appends a chunk of rows to this table.
func (t *TableEntry) BulkInsert(ctx context.Context, chunk *execution.Chunk) error {
	names := make([]string, len(t.columns))
	for i := range t.columns {
		names[i] = t.columns[i].Name
	}

	pool := t.schema.catalog.pool
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer pool.Release(conn)
	return conn.BulkInsert(ctx, t.info.Schema, t.info.Name, names, chunk)
}
