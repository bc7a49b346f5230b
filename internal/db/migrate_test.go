package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesSortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_cards.sql":    {Data: []byte("select 2")},
		"migrations/0001_init.sql":     {Data: []byte("select 1")},
		"migrations/README.md":         {Data: []byte("docs")},
		"migrations/archive/0000.sql":  {Data: []byte("select 0")},
		"migrations/0010_research.sql": {Data: []byte("select 10")},
	}

	names, err := migrationNames(fsys, "migrations")
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_cards.sql", "0010_research.sql"}, names)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := migrationNames(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_personnel.sql", names[0])
}
