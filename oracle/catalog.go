package oracle

import (
	"context"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"
)

// Catalog exposes one attached Oracle database: a connection pool, a cached
// schema map and a statistics cache. Schema entries are created lazily and
// involve no Oracle round-trip; table metadata inside them does.
type Catalog struct {
	params Parameters
	pool   *Pool

	mu      sync.Mutex
	schemas map[string]*SchemaEntry

	stats *ristretto.Cache
}

// Attach verifies connectivity with one throwaway connection, then builds a
// catalog with a fresh pool and the default schema preloaded.
func Attach(ctx context.Context, params Parameters) (*Catalog, error) {
	conn, err := Open(ctx, params)
	if err != nil {
		return nil, err
	}
	conn.Close()

	return newCatalog(params)
}

func newCatalog(params Parameters) (*Catalog, error) {
	stats, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 12,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create statistics cache")
	}
	c := &Catalog{
		params:  params,
		pool:    NewPool(params, DefaultPoolSize),
		schemas: map[string]*SchemaEntry{},
		stats:   stats,
	}
	c.preloadSchema(params.EffectiveSchema())
	return c, nil
}

func (c *Catalog) Params() Parameters {
	return c.params
}

func (c *Catalog) Pool() *Pool {
	return c.pool
}

func (c *Catalog) preloadSchema(name string) {
	entry := newSchemaEntry(c, strings.ToUpper(name))
	c.mu.Lock()
	c.schemas[entry.name] = entry
	c.mu.Unlock()
}

// GetSchema returns the cached entry for name, creating one on miss. No
// Oracle I/O happens here; whether the schema exists server-side only
// surfaces once its tables are read.
func (c *Catalog) GetSchema(name string) *SchemaEntry {
	upper := strings.ToUpper(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.schemas[upper]; ok {
		return entry
	}
	entry := newSchemaEntry(c, upper)
	c.schemas[upper] = entry
	return entry
}

// Schemas snapshots the currently cached schema entries.
func (c *Catalog) Schemas() []*SchemaEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]*SchemaEntry, 0, len(c.schemas))
	for _, entry := range c.schemas {
		entries = append(entries, entry)
	}
	return entries
}

// ClearCache drops the schema cache, the statistics cache and the pool's
// idle connections, then re-preloads the default schema entry.
func (c *Catalog) ClearCache() {
	c.mu.Lock()
	c.schemas = map[string]*SchemaEntry{}
	c.mu.Unlock()

	c.stats.Clear()
	c.pool.Clear()
	c.preloadSchema(c.params.EffectiveSchema())
}

// InfoRow is one key/value pair reported by Info.
type InfoRow struct {
	Key   string
	Value string
}

// Info reports catalog facts: at minimum the server version and the catalog
// type.
func (c *Catalog) Info(ctx context.Context) ([]InfoRow, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.pool.Release(conn)

	return []InfoRow{
		{Key: "server_version", Value: conn.ServerVersion(ctx)},
		{Key: "catalog_type", Value: "oracle"},
	}, nil
}

func (c *Catalog) cachedNumRows(schema, table string) (int64, bool) {
	v, ok := c.stats.Get(schema + "." + table)
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

func (c *Catalog) storeNumRows(schema, table string, n int64) {
	c.stats.Set(schema+"."+table, n, 1)
}
