package risk

import "fmt"

// Tree is a fitted binary decision tree in scikit-learn's array layout.
// Leaves have ChildrenLeft[i] == -1. Value[i] holds per-class weights.
type Tree struct {
	ChildrenLeft  []int       `yaml:"children_left"`
	ChildrenRight []int       `yaml:"children_right"`
	Feature       []int       `yaml:"feature"`
	Threshold     []float64   `yaml:"threshold"`
	Value         [][]float64 `yaml:"value"`
}

func (t *Tree) validate(i int) error {
	n := len(t.ChildrenLeft)
	if n == 0 || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree %d: inconsistent node arrays", i)
	}
	for node := 0; node < n; node++ {
		l, r := t.ChildrenLeft[node], t.ChildrenRight[node]
		if l == -1 {
			if len(t.Value[node]) < 2 {
				return fmt.Errorf("tree %d: leaf %d needs two class weights", i, node)
			}
			continue
		}
		// children always come after their parent, so walks terminate
		if l <= node || r <= node || l >= n || r >= n {
			return fmt.Errorf("tree %d: node %d has bad children", i, node)
		}
	}
	return nil
}

func (t *Tree) leafProba(x []float64) (float64, error) {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		f := t.Feature[node]
		if f < 0 || f >= len(x) {
			return 0, fmt.Errorf("node %d splits on feature %d of %d", node, f, len(x))
		}
		if x[f] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	v := t.Value[node]
	total := v[0] + v[1]
	if total <= 0 {
		return 0, fmt.Errorf("leaf %d has no weight", node)
	}
	return v[1] / total, nil
}

// Forest averages the positive-class fraction of each tree's leaf.
type Forest struct {
	Trees []Tree
}

func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("random forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(i); err != nil {
			return err
		}
	}
	return nil
}

// accepts reports whether every split reads a feature inside an n-wide row.
func (f *Forest) accepts(n int) error {
	for i := range f.Trees {
		t := &f.Trees[i]
		for node, feat := range t.Feature {
			if t.ChildrenLeft[node] == -1 {
				continue
			}
			if feat < 0 || feat >= n {
				return fmt.Errorf("tree %d: node %d splits on feature %d, rows have %d", i, node, feat, n)
			}
		}
	}
	return nil
}

func (f *Forest) PredictProba(x []float64) (float64, error) {
	var sum float64
	for i := range f.Trees {
		p, err := f.Trees[i].leafProba(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += p
	}
	return sum / float64(len(f.Trees)), nil
}
