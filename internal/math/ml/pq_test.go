package ml

import (
	"io/ioutil"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-knn/internal/model"
)

func newPQ(t *testing.T, neighbours, subvectors, bits int) *KNN {
	cfg := DefaultConfig()
	cfg.Algorithm = PQ
	cfg.Neighbours = neighbours
	cfg.Subvectors = subvectors
	cfg.Bits = bits
	k, err := NewKNN(cfg)
	require.NoError(t, err)
	return k
}

func newRandomSet(n, dim int) model.Dataset {
	rnd := rand.New(rand.NewSource(42))
	records := make([]model.Record, n)
	for i := range records {
		features := make([]int, dim)
		for j := range features {
			features[j] = rnd.Intn(256)
		}
		records[i] = model.Record{Label: i % 3, Features: features}
	}
	return model.NewDataset(model.Train, records)
}

// captureStdout returns everything written to os.Stdout while fn runs.
func captureStdout(t *testing.T, fn func()) string {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = stdout
	})

	out := make(chan string)
	go func() {
		b, _ := ioutil.ReadAll(r)
		out <- string(b)
	}()

	fn()
	os.Stdout = stdout
	require.NoError(t, w.Close())
	return <-out
}

func TestPQ_Codes(t *testing.T) {
	k := newPQ(t, 5, 3, 2)
	require.NoError(t, k.Fit(newRandomSet(50, 6)))

	require.NotNil(t, k.pq)
	assert.Equal(t, 3, k.pq.subvectors)
	assert.Equal(t, 2, k.pq.size)
	assert.Equal(t, 50, len(k.pq.codes))
	for _, codes := range k.pq.codes {
		assert.Equal(t, 3, len(codes))
		for _, c := range codes {
			assert.True(t, c >= 0 && c < 4, "code %d out of range", c)
		}
	}
	for _, centroids := range k.pq.centroids {
		assert.True(t, len(centroids) <= 4)
	}

	meta := k.Metadata()
	assert.Equal(t, PQ, meta.Algorithm)
	assert.Equal(t, 3, meta.Subvectors)
	assert.Equal(t, 4, meta.Clusters)
}

func TestPQ_Split(t *testing.T) {
	q := newQuantizer(5, 2, 1)
	assert.Equal(t, 3, q.size)
	assert.Equal(t, []float64{1, 2, 3}, q.split([]int{1, 2, 3, 4, 5}, 0))
	// the last subvector is zero padded
	assert.Equal(t, []float64{4, 5, 0}, q.split([]int{1, 2, 3, 4, 5}, 1))
}

func TestPQ_CapSubvectors(t *testing.T) {
	q := newQuantizer(2, 30, 8)
	assert.Equal(t, 2, q.subvectors)
	assert.Equal(t, 1, q.size)
	assert.Equal(t, 256, q.clusters)
}

func TestPQ_NearestNeighbour(t *testing.T) {
	for _, bits := range []int{1, 8} {
		k := newPQ(t, 1, 2, bits)
		require.NoError(t, k.Fit(newTrainSet()))

		predictions, err := k.Predict(model.NewDataset(model.Validation, []model.Record{
			{Label: 1, Features: []int{1, 0}},
			{Label: 2, Features: []int{9, 10}},
		}))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, predictions, "bits %d", bits)
	}
}

func TestPQ_CapNeighbours(t *testing.T) {
	k := newPQ(t, 100, 2, 8)
	require.NoError(t, k.Fit(newTrainSet()))
	assert.Equal(t, 4, k.Metadata().Neighbours)

	predictions, err := k.Predict(model.NewDataset(model.Validation, []model.Record{
		{Label: 1, Features: []int{1, 0}},
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, predictions)
}

func TestPQ_SingleValueSubspace(t *testing.T) {
	// the first feature is constant, as the border pixels of mnist are
	train := model.NewDataset(model.Train, []model.Record{
		{Label: 1, Features: []int{0, 0}},
		{Label: 1, Features: []int{0, 1}},
		{Label: 2, Features: []int{0, 10}},
		{Label: 2, Features: []int{0, 11}},
	})
	k := newPQ(t, 1, 2, 8)
	require.NoError(t, k.Fit(train))
	assert.Equal(t, 1, len(k.pq.centroids[0]))

	predictions, err := k.Predict(model.NewDataset(model.Validation, []model.Record{
		{Label: 2, Features: []int{0, 12}},
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, predictions)
}

func TestPQ_Vote(t *testing.T) {
	q := &quantizer{labels: []int{2, 1, 2, 1}}

	// exact matches outvote the rest, ties go to the lowest label
	nn := []neighbour{{row: 0, distance: 0}, {row: 1, distance: 0}, {row: 2, distance: 25}}
	for i := 0; i < 20; i++ {
		assert.Equal(t, 1, q.vote(nn, Distance))
	}

	nn = []neighbour{{row: 0, distance: 1}, {row: 1, distance: 4}, {row: 3, distance: 9}}
	assert.Equal(t, 2, q.vote(nn, Distance))
	assert.Equal(t, 1, q.vote(nn, Uniform))
}

func TestPQ_Nearest(t *testing.T) {
	q := &quantizer{
		dim:        2,
		subvectors: 1,
		size:       2,
		centroids:  [][][]float64{{{0, 0}, {10, 10}}},
		codes:      [][]int{{1}, {0}, {1}, {0}},
		labels:     []int{2, 1, 2, 1},
	}
	nn := q.nearest([]int{9, 9}, 3)
	require.Equal(t, 3, len(nn))
	assert.Equal(t, 2.0, nn[0].distance)
	assert.Equal(t, 2.0, nn[1].distance)
	assert.Equal(t, 162.0, nn[2].distance)
}

func TestPQ_PredictDimension(t *testing.T) {
	k := newPQ(t, 1, 2, 1)
	require.NoError(t, k.Fit(newTrainSet()))

	_, err := k.Predict(model.NewDataset(model.Validation, []model.Record{
		{Label: 1, Features: []int{1, 0, 3}},
	}))
	assert.ErrorIs(t, err, ErrDimension)
}

func TestPQ_FitRagged(t *testing.T) {
	train := newTrainSet()
	train.Records = append(train.Records, model.Record{Label: 1, Features: []int{1}})

	k := newPQ(t, 1, 2, 1)
	assert.ErrorIs(t, k.Fit(train), ErrDimension)
}

func TestPQ_Config(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Algorithm = PQ
	assert.NoError(t, cfg.Validate())

	cfg.Bits = 17
	assert.Error(t, cfg.Validate())

	cfg.Bits = 8
	cfg.Subvectors = 0
	assert.Error(t, cfg.Validate())

	cfg.Subvectors = 30
	cfg.Distance = Cosine
	assert.Error(t, cfg.Validate())
}

func TestPQ_Quiet(t *testing.T) {
	out := captureStdout(t, func() {
		k := newPQ(t, 3, 3, 2)
		require.NoError(t, k.Fit(newRandomSet(30, 6)))
		_, err := k.Predict(newRandomSet(5, 6))
		require.NoError(t, err)
	})
	assert.Empty(t, out)
}

func TestKNN_Quiet(t *testing.T) {
	out := captureStdout(t, func() {
		k := newKNN(t, 3, Linear)
		require.NoError(t, k.Fit(newTrainSet()))
		_, err := k.Predict(model.NewDataset(model.Validation, []model.Record{
			{Label: 1, Features: []int{1, 0}},
			{Label: 1, Features: []int{0, 2}},
			{Label: 2, Features: []int{9, 10}},
		}))
		require.NoError(t, err)
	})
	assert.Empty(t, out)
}
