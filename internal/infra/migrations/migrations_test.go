package migrations

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_EmbeddedMigrations(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()

	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "uq_reservations_active_slot")
	assert.Contains(t, string(body), "WHERE status IN ('pending', 'confirmed')")
	assert.Contains(t, string(body), "CHECK (opening_time < closing_time)")
	assert.Contains(t, string(body), "UNIQUE (restaurant_id, table_number)")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	down.Close()
}
