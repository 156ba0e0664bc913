package evtactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAttachDetachRoundTrip(t *testing.T) {
	before := global.len()

	th := NewThread(nil, WithName("registry-rt"))
	a := NewActor(nil)
	a.Attach(th)

	got, ok := global.lookup(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.True(t, th.HasChild(a.ID()))

	a.Detach()

	_, ok = global.lookup(a.ID())
	assert.False(t, ok)
	assert.False(t, th.HasChild(a.ID()))
	assert.Equal(t, before, global.len())
}

func TestRegistryIDsNeverReused(t *testing.T) {
	a := NewActor(nil)
	b := NewActor(nil)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Less(t, a.ID(), b.ID())
}

func TestActorReAttachPurgesOldQueue(t *testing.T) {
	t1 := NewThread(nil, WithName("t1"))
	t2 := NewThread(nil, WithName("t2"))
	a := NewActor(nil)
	a.Attach(t1)

	var ran bool
	require.NoError(t, a.Run(func() { ran = true }))

	a.Attach(t2) // re-attach before t1 ever drains

	assert.False(t, t1.HasChild(a.ID()))
	assert.True(t, t2.HasChild(a.ID()))
	t1.Drain()
	assert.False(t, ran, "closure queued under the old affinity must be purged, not run")
}
