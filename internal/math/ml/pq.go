package ml

import (
	"container/heap"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cdipaolo/goml/cluster"
	"github.com/drakos74/free-knn/internal/model"
	"github.com/rs/zerolog/log"
)

// pqIterations is the k-means iteration cap per subspace.
const pqIterations = 30

// quantizer compresses the training rows with product quantization.
// Every row is split into equally sized subvectors, zero padded at the end,
// and every subvector is replaced by the id of its closest k-means centroid.
type quantizer struct {
	dim        int
	subvectors int
	size       int
	clusters   int
	// centroids is indexed by subspace, centroid id and subvector position
	centroids [][][]float64
	// codes is indexed by training row and subspace
	codes  [][]int
	labels []int
}

func newQuantizer(dim, subvectors, bits int) *quantizer {
	if subvectors > dim {
		log.Warn().
			Int("subvectors", subvectors).
			Int("features", dim).
			Msg("subvectors exceed features, capping")
		subvectors = dim
	}
	return &quantizer{
		dim:        dim,
		subvectors: subvectors,
		size:       (dim + subvectors - 1) / subvectors,
		clusters:   1 << bits,
	}
}

// split returns the m-th subvector of the given features.
func (q *quantizer) split(features []int, m int) []float64 {
	sub := make([]float64, q.size)
	for j := range sub {
		if i := m*q.size + j; i < len(features) {
			sub[j] = float64(features[i])
		}
	}
	return sub
}

func (q *quantizer) fit(train model.Dataset) error {
	q.centroids = make([][][]float64, q.subvectors)
	q.codes = make([][]int, train.Len())
	for i := range q.codes {
		q.codes[i] = make([]int, q.subvectors)
	}
	q.labels = train.Labels()

	for m := 0; m < q.subvectors; m++ {
		data := make([][]float64, train.Len())
		for i, r := range train.Records {
			data[i] = q.split(r.Features, m)
		}
		guesses, k, err := q.cluster(data)
		if err != nil {
			return fmt.Errorf("could not cluster subspace %d: %w", m, err)
		}
		for i, g := range guesses {
			q.codes[i][m] = g
		}
		q.centroids[m] = q.means(data, guesses, k)
		log.Debug().
			Int("subspace", m).
			Int("clusters", k).
			Msg("compressed subspace")
	}
	return nil
}

// cluster assigns every subvector to a centroid id.
// The cluster count is capped to the distinct subvectors of the subspace.
func (q *quantizer) cluster(data [][]float64) ([]int, int, error) {
	k := distinct(data, q.clusters)
	if k <= 1 {
		return make([]int, len(data)), 1, nil
	}
	km := cluster.NewKMeans(k, pqIterations, data)
	err := muted(func() error {
		return km.Learn()
	})
	if err != nil {
		return nil, 0, err
	}
	guesses := km.Guesses()
	if len(guesses) != len(data) {
		return nil, 0, fmt.Errorf("could not align guesses with data [ %d | %d ]", len(guesses), len(data))
	}
	return guesses, k, nil
}

// means computes the centroid of every cluster from its members.
func (q *quantizer) means(data [][]float64, guesses []int, k int) [][]float64 {
	centroids := make([][]float64, k)
	counts := make([]int, k)
	for c := range centroids {
		centroids[c] = make([]float64, q.size)
	}
	for i, g := range guesses {
		counts[g]++
		for j, v := range data[i] {
			centroids[g][j] += v
		}
	}
	for c, n := range counts {
		if n == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] /= float64(n)
		}
	}
	return centroids
}

// distinct counts the distinct rows of data, stopping at limit.
func distinct(data [][]float64, limit int) int {
	seen := make(map[string]struct{})
	var b strings.Builder
	for _, row := range data {
		b.Reset()
		for _, v := range row {
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			b.WriteByte(',')
		}
		seen[b.String()] = struct{}{}
		if len(seen) >= limit {
			break
		}
	}
	return len(seen)
}

// table holds the squared distance of every query subvector to every centroid.
func (q *quantizer) table(features []int) [][]float64 {
	t := make([][]float64, q.subvectors)
	for m := range t {
		sub := q.split(features, m)
		t[m] = make([]float64, len(q.centroids[m]))
		for c, centroid := range q.centroids[m] {
			d := 0.0
			for j, v := range sub {
				d += (v - centroid[j]) * (v - centroid[j])
			}
			t[m][c] = d
		}
	}
	return t
}

// nearest returns the k closest training rows by asymmetric distance, closest first.
func (q *quantizer) nearest(features []int, k int) []neighbour {
	t := q.table(features)
	h := make(neighbours, 0, k+1)
	for i, codes := range q.codes {
		d := 0.0
		for m, c := range codes {
			d += t[m][c]
		}
		if len(h) < k {
			heap.Push(&h, neighbour{row: i, distance: d})
		} else if d < h[0].distance {
			h[0] = neighbour{row: i, distance: d}
			heap.Fix(&h, 0)
		}
	}
	out := make([]neighbour, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(neighbour)
	}
	return out
}

// vote picks the label of the given neighbours.
// Distance weights are the inverse euclidean distance. Neighbours at distance 0
// outvote everything else and share the vote equally. Ties go to the lowest label.
func (q *quantizer) vote(nn []neighbour, weights string) int {
	votes := make(map[int]float64)
	exact := false
	for _, n := range nn {
		if n.distance == 0 {
			exact = true
		}
	}
	for _, n := range nn {
		label := q.labels[n.row]
		switch {
		case exact:
			if n.distance == 0 {
				votes[label]++
			}
		case weights == Distance:
			votes[label] += 1 / math.Sqrt(n.distance)
		default:
			votes[label]++
		}
	}
	best, max := 0, -1.0
	for label, v := range votes {
		if v > max || (v == max && label < best) {
			best, max = label, v
		}
	}
	return best
}

func (q *quantizer) predict(set model.Dataset, k int, weights string) []int {
	predictions := make([]int, set.Len())
	for i, r := range set.Records {
		predictions[i] = q.vote(q.nearest(r.Features, k), weights)
	}
	return predictions
}

type neighbour struct {
	row      int
	distance float64
}

// neighbours is a max-heap on the distance.
type neighbours []neighbour

func (h neighbours) Len() int            { return len(h) }
func (h neighbours) Less(i, j int) bool  { return h[i].distance > h[j].distance }
func (h neighbours) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighbours) Push(x interface{}) { *h = append(*h, x.(neighbour)) }
func (h *neighbours) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
