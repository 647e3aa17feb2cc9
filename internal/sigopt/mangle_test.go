package sigopt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ailang-project/corec/internal/tir"
	"github.com/ailang-project/corec/internal/types"
)

func TestMangleTagsEachParameterAction(t *testing.T) {
	descs := []*ArgumentDescriptor{
		{Index: 0, Dead: true},
		{Index: 1, CalleeRelease: &tir.Release{}},
		{Index: 2, Leaves: nil},
	}
	name := Mangle("doWork", descs)
	assert.Equal(t, "_TTOS_do2gn_doWork", name)
}

func TestMangleCombinesCalleeReleaseAndExplode(t *testing.T) {
	descs := []*ArgumentDescriptor{
		{Index: 0, CalleeRelease: &tir.Release{}, Leaves: []types.Type{types.Int64, types.Int64}},
	}
	assert.Equal(t, "_TTOS_o2gs_pair", Mangle("pair", descs))
}

func TestIsOptimizedNameRecognizesPrefix(t *testing.T) {
	assert.True(t, IsOptimizedName("_TTOS_n_f"))
	assert.False(t, IsOptimizedName("f"))
}

func TestMangleIsDeterministicAndIdempotentAcrossRuns(t *testing.T) {
	descs := []*ArgumentDescriptor{{Index: 0, Dead: true}}
	assert.Equal(t, Mangle("f", descs), Mangle("f", descs))
}
