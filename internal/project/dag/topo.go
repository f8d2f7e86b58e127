package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"jsfront/internal/source"
)

// Topo is a load order: a module comes after everything it requires.
type Topo struct {
	Order   []source.FileID   // dependencies first
	Batches [][]source.FileID // waves of mutually independent modules
	Cyclic  bool
	Cycles  []source.FileID // modules left with unresolved dependencies
}

// ToposortKahn orders g so that required modules precede their
// requirers. Edges run requirer -> required, so the sort walks the
// reversed graph.
func ToposortKahn(g Graph) *Topo {
	n := len(g.Edges)
	// outstanding dependencies per module
	pending := make([]int, n)
	users := make([][]source.FileID, n)
	for from, tos := range g.Edges {
		pending[from] = len(tos)
		for _, to := range tos {
			users[to] = append(users[to], fileID(from))
		}
	}

	topo := &Topo{Order: make([]source.FileID, 0, n)}
	var current []source.FileID
	for i := range n {
		if pending[i] == 0 {
			current = append(current, fileID(i))
		}
	}

	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)
		var next []source.FileID
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, u := range users[id] {
				pending[u]--
				if pending[u] == 0 {
					next = append(next, u)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != n {
		topo.Cyclic = true
		for i := range n {
			if pending[i] > 0 {
				topo.Cycles = append(topo.Cycles, fileID(i))
			}
		}
	}
	return topo
}

func fileID(i int) source.FileID {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return source.FileID(v)
}
