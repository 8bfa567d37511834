// core/cluster/kmeans.go
package cluster

import (
	"math"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"oligo/core/oligoerr"
)

const DefaultMaxIterations = 100

// KMeans is Lloyd's algorithm with k-means++ seeding under squared L2.
type KMeans struct {
	MaxIterations int  // <=0 means DefaultMaxIterations
	Rand          Rand // nil = seeded from the clock
}

var _ Partitioner = KMeans{}

// Partition assigns every row of m to one of k centers. k larger than the
// row count is clamped to it. Ties go to the lower center index.
func (km KMeans) Partition(m Matrix, k int) (Assignment, error) {
	rows := m.RowSlices()
	n := len(rows)
	if n == 0 {
		return Assignment{}, oligoerr.Parameter("k-means needs at least one row")
	}
	if k < 1 {
		return Assignment{}, oligoerr.Parameter("cluster count %d must be positive", k)
	}
	if k > n {
		log.Debugf("k-means: %d clusters requested for %d rows; using %d", k, n, n)
		k = n
	}
	iters := km.MaxIterations
	if iters <= 0 {
		iters = DefaultMaxIterations
	}
	rnd := km.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	centers := seedPlusPlus(rows, k, rnd)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	dims := len(rows[0])
	counts := make([]int, k)

	for it := 0; it < iters; it++ {
		changed := 0
		for i, r := range rows {
			c, _ := nearest(r, centers)
			if c != labels[i] {
				labels[i] = c
				changed++
			}
		}
		log.Debugf("k-means: iteration %d, %d reassigned", it+1, changed)
		if changed == 0 {
			break
		}
		// Recompute; an emptied cluster keeps its previous center.
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dims)
			counts[c] = 0
		}
		for i, r := range rows {
			c := labels[i]
			counts[c]++
			for j, v := range r {
				next[c][j] += v
			}
		}
		for c := range next {
			if counts[c] == 0 {
				next[c] = centers[c]
				continue
			}
			inv := 1 / float64(counts[c])
			for j := range next[c] {
				next[c][j] *= inv
			}
		}
		centers = next
	}

	dist := make([]float64, n)
	for i, r := range rows {
		labels[i], dist[i] = nearest(r, centers)
	}
	return Assignment{Labels: labels, Distances: dist, Centers: centers}, nil
}

// seedPlusPlus picks the first center uniformly and each next one with
// probability proportional to its squared distance from the closest center
// already chosen.
func seedPlusPlus(rows [][]float64, k int, rnd Rand) [][]float64 {
	n := len(rows)
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(rows[rnd.Intn(n)]))
	d := make([]float64, n)
	for i, r := range rows {
		d[i] = sqDist(r, centers[0])
	}
	for len(centers) < k {
		var total float64
		for _, v := range d {
			total += v
		}
		pick := -1
		if total == 0 {
			pick = rnd.Intn(n)
		} else {
			u := rnd.Float64() * total
			for i, v := range d {
				if v == 0 {
					continue
				}
				pick = i
				if u -= v; u < 0 {
					break
				}
			}
		}
		c := clone(rows[pick])
		centers = append(centers, c)
		for i, r := range rows {
			if v := sqDist(r, c); v < d[i] {
				d[i] = v
			}
		}
	}
	return centers
}

func nearest(r []float64, centers [][]float64) (int, float64) {
	best, bestD := 0, math.Inf(1)
	for c, ctr := range centers {
		if v := sqDist(r, ctr); v < bestD {
			best, bestD = c, v
		}
	}
	return best, bestD
}

func clone(r []float64) []float64 { return append([]float64(nil), r...) }
