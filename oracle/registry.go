package oracle

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// The process-wide registry of attached catalogs, keyed by database name.
// It backs the name-addressed functions the engine exposes (oracle_info,
// oracle_clear_cache).
var registry = struct {
	mu       sync.Mutex
	catalogs map[string]*Catalog
}{catalogs: map[string]*Catalog{}}

// AttachNamed attaches an Oracle database and registers the catalog under
// name, replacing any previous catalog registered under it.
func AttachNamed(ctx context.Context, name string, params Parameters) (*Catalog, error) {
	catalog, err := Attach(ctx, params)
	if err != nil {
		return nil, err
	}
	registry.mu.Lock()
	registry.catalogs[name] = catalog
	registry.mu.Unlock()
	return catalog, nil
}

// LookupCatalog resolves a registered catalog by name.
func LookupCatalog(name string) (*Catalog, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	catalog, ok := registry.catalogs[name]
	return catalog, ok
}

// Detach drops a catalog from the registry and closes its idle connections.
func Detach(name string) {
	registry.mu.Lock()
	catalog, ok := registry.catalogs[name]
	delete(registry.catalogs, name)
	registry.mu.Unlock()
	if ok {
		catalog.pool.Clear()
	}
}

// ClearCache implements the oracle_clear_cache scalar: 1 on success, 0 on
// any error, never propagating.
func ClearCache(name string) int {
	catalog, ok := LookupCatalog(name)
	if !ok {
		return 0
	}
	catalog.ClearCache()
	return 1
}

// Info implements the oracle_info table function for a registered catalog.
func Info(ctx context.Context, name string) ([]InfoRow, error) {
	catalog, ok := LookupCatalog(name)
	if !ok {
		return nil, errors.Errorf("database '%s' is not an attached Oracle database", name)
	}
	return catalog.Info(ctx)
}
