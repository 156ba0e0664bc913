package evtactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookedActor struct {
	*Actor
	attached []*Thread
	detached int
}

func newHookedActor() *hookedActor {
	h := &hookedActor{}
	h.Actor = NewActor(h)
	return h
}

func (h *hookedActor) OnAttach(t *Thread) { h.attached = append(h.attached, t) }
func (h *hookedActor) OnDetach()          { h.detached++ }

func TestActorAttachDetachHooksFire(t *testing.T) {
	th := NewThread(nil, WithName("hooks"))
	h := newHookedActor()

	h.Attach(th)
	require.Len(t, h.attached, 1)
	assert.Same(t, th, h.attached[0])

	h.Detach()
	assert.Equal(t, 1, h.detached)
}

func TestActorCallMoveTransfersOwnershipOnce(t *testing.T) {
	th := NewThread(nil, WithName("move"))
	a := NewActor(nil)
	a.Attach(th)

	type payload struct{ n int }
	var received int
	require.NoError(t, CallMove(a, payload{n: 7}, func(p payload) {
		received = p.n
	}))

	n := th.Drain()
	require.Equal(t, 1, n)
	assert.Equal(t, 7, received)
}

func TestActorUnattachedRunFails(t *testing.T) {
	a := NewActor(nil)
	assert.ErrorIs(t, a.Run(func() {}), ErrDispatchWithoutAffinity)
	assert.ErrorIs(t, CallMove(a, 1, func(int) {}), ErrDispatchWithoutAffinity)
}

func TestActorDetachWithoutAttachIsNoop(t *testing.T) {
	a := NewActor(nil)
	assert.NotPanics(t, func() { a.Detach() })
	assert.Nil(t, a.CurrentThread())
}

func TestActorDestructWhileAttachedReportsAndCleansUp(t *testing.T) {
	th := NewThread(nil, WithName("destruct"))
	a := NewActor(nil)
	a.Attach(th)

	var derr *DestructedWhileAttachedError
	err := a.Destruct()
	require.Error(t, err)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, a.ID(), derr.ActorID)
	assert.Equal(t, th.Name(), derr.Thread)

	_, ok := global.lookup(a.ID())
	assert.False(t, ok, "Destruct must not leave a dangling registry entry")
	assert.False(t, th.HasChild(a.ID()))
}

func TestActorDestructWhileUnattachedIsNoop(t *testing.T) {
	a := NewActor(nil)
	assert.NoError(t, a.Destruct())
}
