package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlots_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	slots := NewMemorySlotsWithClock(time.Minute, func() time.Time { return now })

	slot := slots.Slot("sid")
	require.NoError(t, slot.Set(ctx, []byte("v")))

	got, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, slots.Len())

	now = now.Add(time.Minute)
	got, err = slot.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, slots.Len())
}

func TestMemorySlots_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlots(time.Hour).Slot("sid")
	require.NoError(t, slot.Set(ctx, []byte("abc")))

	got, _ := slot.Get(ctx)
	got[0] = 'x'

	again, _ := slot.Get(ctx)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemorySlots_ClearEmpty(t *testing.T) {
	assert.NoError(t, NewMemorySlots(time.Hour).Slot("missing").Clear(context.Background()))
}
