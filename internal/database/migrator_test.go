package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-backend/migrations"
)

func TestPendingFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"002_create_indent.sql": {Data: []byte("SELECT 1")},
		"001_create_users.sql":  {Data: []byte("SELECT 1")},
		"900_reset_all.sql":     {Data: []byte("DROP TABLE indent")},
		"README.md":             {Data: []byte("notes")},
	}

	files, err := PendingFiles(fsys, map[string]bool{})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_users.sql", "002_create_indent.sql"}, files)

	files, err = PendingFiles(fsys, map[string]bool{"001_create_users.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_create_indent.sql"}, files)
}

func TestEmbeddedMigrationsArePending(t *testing.T) {
	files, err := PendingFiles(migrations.FS, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_users.sql", "002_create_indent.sql"}, files)
}
