// core/cluster/aib.go
package cluster

import (
	"math"

	log "github.com/sirupsen/logrus"

	"oligo/core/newick"
	"oligo/core/oligoerr"
)

// AIB is the agglomerative information bottleneck. The matrix, scaled to
// sum to one, is read as a joint distribution p(x,y) with rows as x and
// columns as y. Each step merges the pair of clusters whose union loses the
// least mutual information I(X;Y).
type AIB struct{}

var _ Agglomerator = AIB{}

// Merge runs n-1 merges over the n rows of m.
func (AIB) Merge(m Matrix) (MergeTrace, error) {
	rows := m.RowSlices()
	n := len(rows)
	if n == 0 {
		return MergeTrace{}, oligoerr.Parameter("information bottleneck needs at least one row")
	}
	var total float64
	for _, r := range rows {
		for _, v := range r {
			if v < 0 || math.IsNaN(v) {
				return MergeTrace{}, oligoerr.Parameter("matrix holds negative or NaN value %v", v)
			}
			total += v
		}
	}

	nodes := 2*n - 1
	joint := make([][]float64, nodes)
	mass := make([]float64, nodes)
	for i, r := range rows {
		joint[i] = make([]float64, len(r))
		for j, v := range r {
			if total > 0 {
				v /= total
			}
			joint[i][j] = v
			mass[i] += v
		}
	}

	tr := MergeTrace{Parents: make([]int, nodes), Costs: make([]float64, n)}
	tr.Costs[0] = mutualInformation(joint[:n], mass[:n])
	tr.Parents[nodes-1] = newick.RootSentinel

	active := make([]int, n)
	for i := range active {
		active[i] = i
	}
	best := make([]int, nodes)
	bestCost := make([]float64, nodes)
	refresh := func(i int) {
		best[i], bestCost[i] = -1, math.Inf(1)
		for _, j := range active {
			if j == i {
				continue
			}
			if c := mergeCost(joint[i], mass[i], joint[j], mass[j]); c < bestCost[i] {
				best[i], bestCost[i] = j, c
			}
		}
	}
	for _, i := range active {
		refresh(i)
	}

	for t := 0; t < n-1; t++ {
		a := -1
		for _, i := range active {
			if a < 0 || bestCost[i] < bestCost[a] {
				a = i
			}
		}
		b := best[a]
		loss := bestCost[a]
		node := n + t

		joint[node] = make([]float64, len(joint[a]))
		for j := range joint[node] {
			joint[node][j] = joint[a][j] + joint[b][j]
		}
		mass[node] = mass[a] + mass[b]
		joint[a], joint[b] = nil, nil
		tr.Parents[a], tr.Parents[b] = node, node
		tr.Costs[t+1] = tr.Costs[t] - loss
		log.Debugf("aib: merge %d: %d + %d -> %d, loss %g", t, a, b, node, loss)

		next := active[:0]
		for _, i := range active {
			if i != a && i != b {
				next = append(next, i)
			}
		}
		active = append(next, node)

		refresh(node)
		for _, i := range active[:len(active)-1] {
			if best[i] == a || best[i] == b {
				refresh(i)
				continue
			}
			if c := mergeCost(joint[i], mass[i], joint[node], mass[node]); c < bestCost[i] {
				best[i], bestCost[i] = node, c
			}
		}
	}
	return tr, nil
}

// mergeCost is the drop in I(X;Y) when clusters with joint rows a and b
// (masses pa, pb) become one. The p(y) terms cancel, leaving
// sum_y a log(a/pa) + b log(b/pb) - (a+b) log((a+b)/(pa+pb)).
func mergeCost(a []float64, pa float64, b []float64, pb float64) float64 {
	pc := pa + pb
	if pc == 0 {
		return 0
	}
	var s float64
	for y := range a {
		if a[y] > 0 {
			s += a[y] * math.Log(a[y]/pa)
		}
		if b[y] > 0 {
			s += b[y] * math.Log(b[y]/pb)
		}
		if c := a[y] + b[y]; c > 0 {
			s -= c * math.Log(c/pc)
		}
	}
	if s < 0 {
		s = 0
	}
	return s
}

func mutualInformation(joint [][]float64, mass []float64) float64 {
	if len(joint) == 0 {
		return 0
	}
	py := make([]float64, len(joint[0]))
	for _, r := range joint {
		for y, v := range r {
			py[y] += v
		}
	}
	var s float64
	for x, r := range joint {
		for y, v := range r {
			if v > 0 {
				s += v * math.Log(v/(mass[x]*py[y]))
			}
		}
	}
	return s
}
