package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNWithSearchPath(t *testing.T) {
	got, err := dsnWithSearchPath("postgres://u:p@localhost:5432/db?sslmode=disable", "t_x")
	require.NoError(t, err)
	assert.Contains(t, got, "search_path=t_x")
	assert.Contains(t, got, "sslmode=disable")

	got, err = dsnWithSearchPath("host=localhost search_path=public", "t_y")
	require.NoError(t, err)
	assert.Equal(t, "host=localhost search_path=t_y", got)

	got, err = dsnWithSearchPath("host=localhost", "t_z")
	require.NoError(t, err)
	assert.Equal(t, "host=localhost search_path=t_z", got)
}

func TestNewSchemaName(t *testing.T) {
	name := newSchemaName("Indent-Repo!")
	assert.True(t, strings.HasPrefix(name, "t_indent_repo_"), name)
	assert.LessOrEqual(t, len(name), 63)
	assert.NotEqual(t, name, newSchemaName("Indent-Repo!"))
}
