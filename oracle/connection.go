package oracle

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver"
	_ "github.com/sijms/go-ora/v2"

	"github.com/fennelq/oraclescan/engine"
	"github.com/fennelq/oraclescan/execution"
)

// Connection wraps a single Oracle session. The internal mutex serializes
// prepare/execute/fetch on the one session; real exclusion is provided by
// the pool's acquire/release discipline, and a connection must be borrowed
// for the whole duration of a scan.
type Connection struct {
	mu     sync.Mutex
	db     *sql.DB
	params Parameters

	versionOnce  sync.Once
	versionText  string
	versionMajor int
}

// Open establishes one Oracle session for params. The handle is pinned to a
// single underlying session so statement state stays on one connection.
func Open(ctx context.Context, params Parameters) (*Connection, error) {
	db, err := sql.Open("oracle", params.DSN())
	if err != nil {
		return nil, newError(ConnectError, "Connection::Open", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, newError(ConnectError, "Connection::Open", err)
	}
	return &Connection{db: db, params: params}, nil
}

func (c *Connection) Params() Parameters {
	return c.params
}

// Close releases the underlying session.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// ServerVersion reports the Oracle release banner, e.g. "19.3.0".
func (c *Connection) ServerVersion(ctx context.Context) string {
	c.loadVersion(ctx)
	return c.versionText
}

// ServerMajorVersion reports the server's major release, defaulting to 12
// when the banner cannot be read or parsed.
func (c *Connection) ServerMajorVersion(ctx context.Context) int {
	c.loadVersion(ctx)
	return c.versionMajor
}

func (c *Connection) loadVersion(ctx context.Context) {
	c.versionOnce.Do(func() {
		c.versionText = "unknown"
		c.versionMajor = 12

		c.mu.Lock()
		var banner string
		err := c.db.QueryRowContext(ctx,
			"SELECT BANNER FROM V$VERSION WHERE BANNER LIKE 'Oracle%' AND ROWNUM = 1").Scan(&banner)
		c.mu.Unlock()
		if err != nil {
			return
		}

		m := versionPattern.FindString(banner)
		if m == "" {
			c.versionText = banner
			return
		}
		c.versionText = m
		if v, err := semver.NewVersion(m); err == nil {
			c.versionMajor = int(v.Major())
		}
	})
}

// GetTables lists tables and views owned by schema, in name order. An empty
// result is an empty list, not an error.
func (c *Connection) GetTables(ctx context.Context, schema string) ([]TableInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner := strings.ToUpper(schema)
	rows, err := c.db.QueryContext(ctx,
		`SELECT OBJECT_NAME, OBJECT_TYPE FROM ALL_OBJECTS
		 WHERE OWNER = :1 AND OBJECT_TYPE IN ('TABLE', 'VIEW')
		 ORDER BY OBJECT_NAME`, owner)
	if err != nil {
		return nil, newError(MetadataError, "GetTables::execute", err)
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var name, objType string
		if err := rows.Scan(&name, &objType); err != nil {
			return nil, newError(MetadataError, "GetTables::fetch", err)
		}
		tables = append(tables, TableInfo{
			Schema: owner,
			Name:   name,
			IsView: objType == "VIEW",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, newError(MetadataError, "GetTables::fetch", err)
	}
	return tables, nil
}

// GetColumns reads the column dictionary for one table, in column order. An
// empty result means the table does not exist; callers treat that as a
// lookup miss.
func (c *Connection) GetColumns(ctx context.Context, schema, table string) ([]ColumnInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT COLUMN_NAME, DATA_TYPE, DATA_PRECISION, DATA_SCALE, CHAR_LENGTH, NULLABLE
		 FROM ALL_TAB_COLUMNS
		 WHERE OWNER = :1 AND TABLE_NAME = :2
		 ORDER BY COLUMN_ID`,
		strings.ToUpper(schema), strings.ToUpper(table))
	if err != nil {
		return nil, newError(MetadataError, "GetColumns::execute", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var (
			name, typeName   string
			precision, scale sql.NullInt64
			charLength       sql.NullInt64
			nullable         string
		)
		if err := rows.Scan(&name, &typeName, &precision, &scale, &charLength, &nullable); err != nil {
			return nil, newError(MetadataError, "GetColumns::fetch", err)
		}
		col := ColumnInfo{
			Name:     name,
			TypeName: typeName,
			Scale:    ScaleUnspecified,
			Nullable: nullable == "Y",
		}
		if precision.Valid {
			col.Precision = int32(precision.Int64)
		}
		if scale.Valid {
			col.Scale = int32(scale.Int64)
		}
		if charLength.Valid {
			col.CharLength = int32(charLength.Int64)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(MetadataError, "GetColumns::fetch", err)
	}
	return columns, nil
}

// ExecuteQuery runs sqlText and streams the result into chunks of the
// engine's standard vector size, delivering each through produce. The caller
// may pass a reusable chunk buffer matching types; nil allocates a fresh one.
// A false return from produce stops the fetch; nothing more is delivered.
func (c *Connection) ExecuteQuery(ctx context.Context, sqlText string, types []engine.Type, chunk *execution.Chunk, produce execution.ProduceFn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stmt, err := c.db.PrepareContext(ctx, sqlText)
	if err != nil {
		return newError(PrepareError, "ExecuteQuery::prepare", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return newError(ExecuteError, "ExecuteQuery::execute", err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return newError(ExecuteError, "ExecuteQuery::columns", err)
	}

	return streamChunks(rows, len(columnNames), types, chunk, produce)
}

// rowSource is the slice of *sql.Rows the fetch loop needs; factoring it out
// keeps the chunking logic independent of a live session.
type rowSource interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// streamChunks drives the fetch loop: one row at a time, converting cells
// for the first min(arity, len(types)) columns, packing rows from index 0
// and handing off every full chunk. Partial chunks are flushed at the end.
func streamChunks(rows rowSource, arity int, types []engine.Type, chunk *execution.Chunk, produce execution.ProduceFn) error {
	converters := make([]cellConverter, len(types))
	for i := range types {
		converters[i] = converterFor(types[i])
	}
	ncols := len(types)
	if arity < ncols {
		ncols = arity
	}

	raw := make([]interface{}, arity)
	ptrs := make([]interface{}, arity)
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	if chunk == nil {
		chunk = execution.NewChunk(types)
	}
	chunk.Reset()
	rowCount := 0

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return newError(FetchError, "ExecuteQuery::fetch", err)
		}
		for col := 0; col < ncols; col++ {
			if raw[col] == nil {
				chunk.SetValue(col, rowCount, engine.NewNull(types[col]))
			} else {
				chunk.SetValue(col, rowCount, converters[col](raw[col]))
			}
		}
		rowCount++

		if rowCount == execution.VectorSize {
			chunk.SetCardinality(rowCount)
			if !produce(chunk) {
				return nil
			}
			chunk.Reset()
			rowCount = 0
		}
	}
	if err := rows.Err(); err != nil {
		return newError(FetchError, "ExecuteQuery::fetch", err)
	}

	if rowCount > 0 {
		chunk.SetCardinality(rowCount)
		produce(chunk)
	}
	return nil
}

// ExecuteDML runs a single autocommitted statement (DDL or DML).
func (c *Connection) ExecuteDML(ctx context.Context, sqlText string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, sqlText); err != nil {
		return newError(ExecuteError, "ExecuteDML::execute", err)
	}
	return nil
}

// BulkInsert appends every row of chunk into the named table, binding each
// cell positionally and committing once at the end. Bound values are copied
// into the argument slice per row, so no bind ever aliases chunk storage.
func (c *Connection) BulkInsert(ctx context.Context, schema, table string, columnNames []string, chunk *execution.Chunk) error {
	if chunk.Size() == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(QuoteIdentifier(schema))
	sb.WriteString(".")
	sb.WriteString(QuoteIdentifier(table))
	sb.WriteString(" (")
	for i, name := range columnNames {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(QuoteIdentifier(name))
	}
	sb.WriteString(") VALUES (")
	for i := range columnNames {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(i + 1))
	}
	sb.WriteString(")")

	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return newError(ExecuteError, "BulkInsert::begin", err)
	}
	stmt, err := tx.PrepareContext(ctx, sb.String())
	if err != nil {
		tx.Rollback()
		return newError(PrepareError, "BulkInsert::prepare", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(columnNames))
	for row := 0; row < chunk.Size(); row++ {
		for col := 0; col < len(columnNames) && col < chunk.ColumnCount(); col++ {
			args[col] = bindValue(chunk.Value(col, row))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return newError(ExecuteError, "BulkInsert::execute", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return newError(ExecuteError, "BulkInsert::commit", err)
	}
	return nil
}

// bindValue lowers an engine value to a driver bind. Types the driver has no
// native binding for travel as text.
func bindValue(v engine.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Type.ID {
	case engine.TypeIDBoolean:
		if v.Boolean {
			return int64(1)
		}
		return int64(0)
	case engine.TypeIDTinyint, engine.TypeIDSmallint, engine.TypeIDInteger, engine.TypeIDBigint:
		return v.Int64
	case engine.TypeIDFloat, engine.TypeIDDouble:
		return v.Float64
	case engine.TypeIDVarchar:
		return v.Str
	case engine.TypeIDBlob:
		return v.Bytes
	case engine.TypeIDDate, engine.TypeIDTimestamp, engine.TypeIDTimestampTZ:
		return v.Time()
	}
	return v.String()
}
