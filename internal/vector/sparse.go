// Package vector holds the sparse vector math used by the retrieval index.
package vector

import (
	"math"
	"sort"
)

// Sparse is a sparse vector with strictly increasing Indices.
type Sparse struct {
	Indices []int
	Values  []float64
}

// FromCounts builds a Sparse vector from column -> weight.
func FromCounts(m map[int]float64) Sparse {
	idx := make([]int, 0, len(m))
	for i, v := range m {
		if v != 0 {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	vals := make([]float64, len(idx))
	for j, i := range idx {
		vals[j] = m[i]
	}
	return Sparse{Indices: idx, Values: vals}
}

func (s Sparse) Norm() float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of s. The zero vector is returned as is.
func (s Sparse) Normalize() Sparse {
	n := s.Norm()
	if n == 0 {
		return s
	}
	vals := make([]float64, len(s.Values))
	for i, v := range s.Values {
		vals[i] = v / n
	}
	return Sparse{Indices: s.Indices, Values: vals}
}

// Dot walks both index lists in step.
func Dot(a, b Sparse) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
