package rcdataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailang-project/corec/internal/tir"
)

func TestMergeTopDownEqualLatticeMerges(t *testing.T) {
	retain1 := &tir.Retain{}
	retain2 := &tir.Retain{}
	a := newTopDownRefCountState(retain1, false)
	b := newTopDownRefCountState(retain2, false)

	merged, clear := mergeTopDown(a, b)
	require.False(t, clear)
	assert.Equal(t, TDIncremented, merged.Lattice)
	assert.True(t, merged.Matched[retain1])
	assert.True(t, merged.Matched[retain2])
}

func TestMergeTopDownNoneClearsEntry(t *testing.T) {
	a := newTopDownRefCountState(&tir.Retain{}, false)
	a.Lattice = TDNone
	b := newTopDownRefCountState(&tir.Retain{}, false)

	_, clear := mergeTopDown(a, b)
	assert.True(t, clear)
}

func TestMergeTopDownArgumentOriginMismatchClearsEntry(t *testing.T) {
	a := newTopDownRefCountState(&tir.Retain{}, true)
	b := newTopDownRefCountState(&tir.Retain{}, false)

	_, clear := mergeTopDown(a, b)
	assert.True(t, clear)
}

func TestMergeTopDownKnownSafeIsAndMerged(t *testing.T) {
	a := newTopDownRefCountState(&tir.Retain{}, false)
	b := newTopDownRefCountState(&tir.Retain{}, false)
	b.KnownSafe = false

	merged, clear := mergeTopDown(a, b)
	require.False(t, clear)
	assert.False(t, merged.KnownSafe)
}

func TestMergeTopDownPartialSetWhenInsertionPointCardinalityDiffers(t *testing.T) {
	a := newTopDownRefCountState(&tir.Retain{}, false)
	a.InsertionPoints[&tir.Release{}] = true
	b := newTopDownRefCountState(&tir.Retain{}, false)

	merged, clear := mergeTopDown(a, b)
	require.False(t, clear)
	assert.True(t, merged.Partial)
}

func TestMergeBottomUpMirrorsMergeTopDown(t *testing.T) {
	release1 := &tir.Release{}
	release2 := &tir.Release{}
	a := newBottomUpRefCountState(release1)
	b := newBottomUpRefCountState(release2)

	merged, clear := mergeBottomUp(a, b)
	require.False(t, clear)
	assert.Equal(t, BUDecremented, merged.Lattice)
	assert.True(t, merged.Matched[release1])
	assert.True(t, merged.Matched[release2])
}

func TestMergeBottomUpNoneClearsEntry(t *testing.T) {
	a := newBottomUpRefCountState(&tir.Release{})
	a.Lattice = BUNone
	b := newBottomUpRefCountState(&tir.Release{})

	_, clear := mergeBottomUp(a, b)
	assert.True(t, clear)
}

func TestBBStateClearDropsBothDirections(t *testing.T) {
	bb := &tir.BasicBlock{}
	bb.AddInstruction(&tir.Return{})
	s := newBBState(bb)
	ptr := &tir.BlockArgument{}
	s.TopDown[ptr] = newTopDownRefCountState(&tir.Retain{}, false)
	s.BottomUp[ptr] = newBottomUpRefCountState(&tir.Release{})

	s.Clear()

	assert.Empty(t, s.TopDown)
	assert.Empty(t, s.BottomUp)
}
