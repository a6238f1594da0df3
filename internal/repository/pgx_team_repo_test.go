package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamMembersQuery(t *testing.T) {
	sql, args, err := teamMembersQuery([]string{"team-1", "team-2"}).Build(context.Background())
	require.NoError(t, err)

	assert.Contains(t, sql, `"team_id" IN (`)
	assert.Contains(t, sql, "$2")
	assert.Equal(t, []any{"team-1", "team-2"}, args)
}
