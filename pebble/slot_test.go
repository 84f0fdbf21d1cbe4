package pebble_test

import (
	"testing"

	"github.com/fwojciec/xanadium"
	xjson "github.com/fwojciec/xanadium/json"
	"github.com/fwojciec/xanadium/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSlot(t *testing.T, dir string, opts ...pebble.Option) *pebble.Slot {
	t.Helper()
	slot, err := pebble.Open(dir, opts...)
	require.NoError(t, err)
	return slot
}

func TestSlot_EmptyRead(t *testing.T) {
	t.Parallel()

	slot := openSlot(t, t.TempDir())
	defer slot.Close()

	_, err := slot.Read()
	assert.ErrorIs(t, err, xanadium.ErrSlotEmpty)
}

func TestSlot_WriteOverwrites(t *testing.T) {
	t.Parallel()

	slot := openSlot(t, t.TempDir())
	defer slot.Close()

	require.NoError(t, slot.Write([]byte(`[1]`)))
	require.NoError(t, slot.Write([]byte(`[2]`)))

	data, err := slot.Read()
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(data))
}

func TestSlot_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := openSlot(t, dir)
	require.NoError(t, a.Write([]byte("a")))
	require.NoError(t, a.Close())

	b := openSlot(t, dir, pebble.WithKey("other"))
	defer b.Close()
	_, err := b.Read()
	assert.ErrorIs(t, err, xanadium.ErrSlotEmpty)
}

func TestSlot_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := openSlot(t, dir)
	s := xanadium.Session{
		ID:        1700000000000,
		Title:     "hello...",
		Timestamp: "2024-01-01 00:00:00",
		Messages: []xanadium.Message{
			{Role: xanadium.RoleUser, Text: "hello"},
			{Role: xanadium.RoleAssistant, Text: "hi"},
		},
	}
	require.NoError(t, xjson.NewStore(first).Save(s))
	require.NoError(t, first.Close())

	second := openSlot(t, dir)
	defer second.Close()
	got, ok := xjson.NewStore(second).Load().Find(s.ID)
	require.True(t, ok)
	assert.Equal(t, s, got)
}
