package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/slot"
)

var _ core.Slot = (*Slot)(nil)

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestSlot_EmptyThenRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cart.json")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	_, err = s.Load(ctx)
	require.ErrorIs(t, err, slot.ErrEmpty)

	require.NoError(t, s.Save(ctx, []byte(`[{"id":1,"amount":1}]`)))
	require.NoError(t, s.Save(ctx, []byte(`[{"id":1,"amount":2}]`)))

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"amount":2}]`, string(data))

	// a second handle on the same path sees the persisted value
	again, err := Open(path)
	require.NoError(t, err)
	data, err = again.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"amount":2}]`, string(data))
}

func TestSlot_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "cart.json"))
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cart.json", entries[0].Name())
}
