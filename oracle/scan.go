package oracle

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/fennelq/oraclescan/engine"
	"github.com/fennelq/oraclescan/execution"
)

const (
	// ColumnIDRowID is the projection id denoting Oracle's ROWID
	// pseudo-column rather than a positional column.
	ColumnIDRowID = -1

	// LimitUnset marks an absent row limit.
	LimitUnset = -1

	// DefaultCardinality is the row-count estimate used when no dictionary
	// statistics are available.
	DefaultCardinality = 100000
)

// ScanBindData is the immutable-after-bind description of one table scan:
// everything the executor needs to build and run the Oracle SELECT. The pool
// handle is shared with the owning catalog, not owned.
type ScanBindData struct {
	Pool *Pool

	Schema  string
	Table   string
	Columns []ColumnInfo
	Types   []engine.Type

	// Filters holds pushed-down WHERE fragments, already parenthesized.
	Filters   []string
	ColumnIDs []int

	Limit  int64
	Offset int64

	MajorVersion  int
	FetchSize     int
	EstimatedRows int64
}

// Clone is a cheap copy: slices are duplicated, the pool handle is shared.
func (b *ScanBindData) Clone() *ScanBindData {
	copied := *b
	copied.Columns = append([]ColumnInfo(nil), b.Columns...)
	copied.Types = append([]engine.Type(nil), b.Types...)
	copied.Filters = append([]string(nil), b.Filters...)
	copied.ColumnIDs = append([]int(nil), b.ColumnIDs...)
	return &copied
}

// ProjectedTypes resolves the projection into the result column types, in
// projection order. The row-id sentinel projects as VARCHAR; out-of-range
// ids are skipped. An empty projection means all columns.
func (b *ScanBindData) ProjectedTypes() []engine.Type {
	if len(b.ColumnIDs) == 0 {
		return b.Types
	}
	types := make([]engine.Type, 0, len(b.ColumnIDs))
	for _, cid := range b.ColumnIDs {
		if cid == ColumnIDRowID {
			types = append(types, engine.Varchar)
		} else if cid >= 0 && cid < len(b.Types) {
			types = append(types, b.Types[cid])
		}
	}
	return types
}

// ProjectedNames resolves the projection into result column names.
func (b *ScanBindData) ProjectedNames() []string {
	if len(b.ColumnIDs) == 0 {
		names := make([]string, len(b.Columns))
		for i := range b.Columns {
			names[i] = b.Columns[i].Name
		}
		return names
	}
	names := make([]string, 0, len(b.ColumnIDs))
	for _, cid := range b.ColumnIDs {
		if cid == ColumnIDRowID {
			names = append(names, "ROWID")
		} else if cid >= 0 && cid < len(b.Columns) {
			names = append(names, b.Columns[cid].Name)
		}
	}
	return names
}

// Cardinality estimates the scan's row count for the host planner.
func (b *ScanBindData) Cardinality() int64 {
	if b.EstimatedRows > 0 {
		return b.EstimatedRows
	}
	return DefaultCardinality
}

// BuildSelectQuery composes the Oracle SELECT for this scan: projection,
// qualified table, pushed filters, and the version-appropriate limit form.
func (b *ScanBindData) BuildSelectQuery() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")

	if len(b.ColumnIDs) == 0 {
		sb.WriteString("*")
	} else {
		first := true
		for _, cid := range b.ColumnIDs {
			switch {
			case cid == ColumnIDRowID:
				if !first {
					sb.WriteString(", ")
				}
				sb.WriteString("ROWID")
				first = false
			case cid >= 0 && cid < len(b.Columns):
				if !first {
					sb.WriteString(", ")
				}
				sb.WriteString(QuoteIdentifier(b.Columns[cid].Name))
				first = false
			}
		}
		if first {
			sb.WriteString("*")
		}
	}

	sb.WriteString(" FROM ")
	sb.WriteString(QuoteQualified(b.Schema, b.Table))

	if len(b.Filters) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.Filters, " AND "))
	}

	if b.Limit == LimitUnset {
		return sb.String()
	}

	if b.MajorVersion >= 12 {
		if b.Offset > 0 {
			sb.WriteString(" OFFSET ")
			sb.WriteString(strconv.FormatInt(b.Offset, 10))
			sb.WriteString(" ROWS")
		}
		sb.WriteString(" FETCH FIRST ")
		sb.WriteString(strconv.FormatInt(b.Limit, 10))
		sb.WriteString(" ROWS ONLY")
		return sb.String()
	}

	// Pre-12c pagination via ROWNUM subqueries.
	inner := sb.String()
	var outer strings.Builder
	outer.WriteString("SELECT * FROM (SELECT ROWNUM rn__, t__.* FROM (")
	outer.WriteString(inner)
	outer.WriteString(") t__ WHERE ROWNUM <= ")
	outer.WriteString(strconv.FormatInt(b.Offset+b.Limit, 10))
	outer.WriteString(") WHERE rn__ > ")
	outer.WriteString(strconv.FormatInt(b.Offset, 10))
	return outer.String()
}

// ScanTask is one claimable unit of a scan: a rowid range, where an empty
// bound means open-ended. The initial implementation issues a single
// unbounded task.
type ScanTask struct {
	RowidLo string
	RowidHi string
}

// ScanGlobalState is shared across a scan's workers: the task list and the
// claim cursor.
type ScanGlobalState struct {
	mu     sync.Mutex
	tasks  []ScanTask
	cursor int

	// MaxThreads is the parallelism advertised to the host scheduler.
	MaxThreads int
}

func NewScanGlobalState(bind *ScanBindData) *ScanGlobalState {
	return &ScanGlobalState{
		tasks:      []ScanTask{{}},
		MaxThreads: 1,
	}
}

// NextTask claims the next unassigned task.
func (g *ScanGlobalState) NextTask() (ScanTask, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursor >= len(g.tasks) {
		return ScanTask{}, false
	}
	task := g.tasks[g.cursor]
	g.cursor++
	return task, true
}

// ScanLocalState is one worker's scan state: the borrowed connection, a
// reusable chunk buffer and the done flag.
type ScanLocalState struct {
	conn  *Connection
	chunk *execution.Chunk
	done  bool
}

// NewScanLocalState acquires the worker's connection from the scan's pool.
func NewScanLocalState(ctx context.Context, bind *ScanBindData) (*ScanLocalState, error) {
	conn, err := bind.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &ScanLocalState{conn: conn}, nil
}

// Close returns the worker's connection to the pool.
func (l *ScanLocalState) Close(bind *ScanBindData) {
	if l.conn != nil {
		bind.Pool.Release(l.conn)
		l.conn = nil
	}
}

// Scan drives one worker: claims a task, runs the SELECT on the local
// connection and streams chunks through produce. A false return from produce
// stops the fetch immediately; once the task list is drained the state is
// done and further calls deliver nothing.
func Scan(ctx context.Context, bind *ScanBindData, global *ScanGlobalState, local *ScanLocalState, produce execution.ProduceFn) error {
	if local.done {
		return nil
	}

	types := bind.ProjectedTypes()
	if local.chunk == nil {
		local.chunk = execution.NewChunk(types)
	}

	for {
		if _, ok := global.NextTask(); !ok {
			local.done = true
			return nil
		}

		sqlText := bind.BuildSelectQuery()
		if err := local.conn.ExecuteQuery(ctx, sqlText, types, local.chunk, produce); err != nil {
			return err
		}
	}
}
