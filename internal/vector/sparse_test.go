package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromCountsSortsAndDropsZeros(t *testing.T) {
	v := FromCounts(map[int]float64{5: 2, 1: 1, 3: 0})
	require.Equal(t, []int{1, 5}, v.Indices)
	require.Equal(t, []float64{1, 2}, v.Values)
}

func TestDotOfNormalizedVectorsIsCosine(t *testing.T) {
	a := FromCounts(map[int]float64{0: 1, 2: 2})
	b := FromCounts(map[int]float64{2: 3, 4: 1})
	require.InDelta(t, 6.0, Dot(a, b), 1e-12)
	want := 6.0 / (math.Sqrt(5) * math.Sqrt(10))
	require.InDelta(t, want, Dot(a.Normalize(), b.Normalize()), 1e-12)
	require.InDelta(t, 1.0, Dot(a.Normalize(), a.Normalize()), 1e-12)
}

func TestNormalizeZeroVector(t *testing.T) {
	var z Sparse
	require.Empty(t, z.Normalize().Indices)
	require.Zero(t, Dot(z.Normalize(), FromCounts(map[int]float64{1: 1}).Normalize()))
}

func TestNormalizeUnitLength(t *testing.T) {
	v := FromCounts(map[int]float64{3: 3, 7: 4}).Normalize()
	require.InDelta(t, 1.0, v.Norm(), 1e-12)
	require.InDelta(t, 0.6, v.Values[0], 1e-12)
}
