package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := newCatalog(Parameters{User: "scott", FetchSize: DefaultFetchSize})
	require.NoError(t, err)
	return catalog
}

func TestCatalogPreloadsDefaultSchema(t *testing.T) {
	catalog := testCatalog(t)

	schemas := catalog.Schemas()
	require.Len(t, schemas, 1)
	assert.Equal(t, "SCOTT", schemas[0].Name())
}

func TestGetSchemaCachesEntries(t *testing.T) {
	catalog := testCatalog(t)

	hr := catalog.GetSchema("hr")
	assert.Equal(t, "HR", hr.Name())
	assert.Same(t, hr, catalog.GetSchema("HR"))
	assert.Same(t, hr, catalog.GetSchema("Hr"))
	assert.Len(t, catalog.Schemas(), 2)
}

func TestClearCacheRebuildsDefaultSchema(t *testing.T) {
	catalog := testCatalog(t)

	before := catalog.GetSchema("SCOTT")
	catalog.GetSchema("HR")

	catalog.ClearCache()

	schemas := catalog.Schemas()
	require.Len(t, schemas, 1)
	assert.Equal(t, "SCOTT", schemas[0].Name())
	// The preloaded entry is freshly constructed, not the cached one.
	assert.NotSame(t, before, catalog.GetSchema("SCOTT"))
}

func TestEffectiveSchemaUpperCasingIsIdempotent(t *testing.T) {
	params := Parameters{User: "scott"}
	once := params.EffectiveSchema()
	params.Schema = once
	assert.Equal(t, once, params.EffectiveSchema())

	params = Parameters{User: "app", Schema: "Sales"}
	assert.Equal(t, "SALES", params.EffectiveSchema())
}

func TestRegistry(t *testing.T) {
	catalog := testCatalog(t)

	registry.mu.Lock()
	registry.catalogs["testdb"] = catalog
	registry.mu.Unlock()
	defer Detach("testdb")

	got, ok := LookupCatalog("testdb")
	require.True(t, ok)
	assert.Same(t, catalog, got)

	assert.Equal(t, 1, ClearCache("testdb"))
	assert.Equal(t, 0, ClearCache("missing"))

	_, err := Info(context.Background(), "missing")
	assert.Error(t, err)
}
