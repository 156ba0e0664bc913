package evtactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedReferenceOkAndDispatch(t *testing.T) {
	th := NewThread(nil, WithName("ref"))
	a := NewActor(nil)
	a.Attach(th)

	ref := TypedRef[struct{}](a)
	assert.True(t, ref.Ok())

	var ran bool
	assert.True(t, ref.Run(func() { ran = true }))
	th.Drain()
	assert.True(t, ran)

	a.Detach()
	assert.False(t, ref.Ok())
	assert.False(t, ref.Run(func() { ran = false }), "TargetDetached: dispatch through a dead reference is a silent no-op")
}

func TestReferenceRemainsValidAcrossReattach(t *testing.T) {
	t1 := NewThread(nil, WithName("ref-t1"))
	t2 := NewThread(nil, WithName("ref-t2"))
	a := NewActor(nil)
	a.Attach(t1)

	ref := a.UntypedRef()
	require.True(t, ref.Ok())

	a.Attach(t2) // re-attach: references resolve by id, not by thread

	assert.True(t, ref.Ok(), "a reference for a re-attached actor remains valid")
	var ran bool
	assert.True(t, ref.Run(func() { ran = true }))
	t2.Drain()
	assert.True(t, ran)
}

func TestReferenceEmptyIsAlwaysDead(t *testing.T) {
	var zero Reference[int]
	assert.False(t, zero.Ok())
	assert.False(t, zero.Run(func() {}))

	var zeroUntyped UntypedReference
	assert.False(t, zeroUntyped.Ok())
}
