package ml

import "fmt"

const (
	// Uniform gives every neighbour the same vote.
	Uniform = "uniform"
	// Distance weights every neighbour vote by the inverse of its distance.
	Distance = "distance"

	// Auto picks the search algorithm based on the training data shape.
	Auto   = "auto"
	Linear = "linear"
	KDTree = "kdtree"
	// PQ searches product quantized training rows.
	PQ = "pq"

	Euclidean = "euclidean"
	Manhattan = "manhattan"
	Cosine    = "cosine"
)

// kdTreeMaxDim is the feature length above which tree search stops paying off.
const kdTreeMaxDim = 15

// Config defines the knn classifier parameters.
type Config struct {
	Neighbours int    `json:"neighbours"`
	Weights    string `json:"weights"`
	Algorithm  string `json:"algorithm"`
	Distance   string `json:"distance"`
	// Subvectors is the number of subspaces of the pq algorithm.
	Subvectors int `json:"subvectors"`
	// Bits sets the centroids per subspace of the pq algorithm to 2^bits.
	Bits int `json:"bits"`
}

// DefaultConfig returns the 100 neighbour, distance weighted config.
func DefaultConfig() Config {
	return Config{
		Neighbours: 100,
		Weights:    Distance,
		Algorithm:  Auto,
		Distance:   Euclidean,
		Subvectors: 30,
		Bits:       8,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.Neighbours <= 0 {
		return fmt.Errorf("neighbours must be > 0 (got %d)", c.Neighbours)
	}
	switch c.Weights {
	case Uniform, Distance:
	default:
		return fmt.Errorf("unknown weights '%s'", c.Weights)
	}
	switch c.Algorithm {
	case Auto, Linear, KDTree:
	case PQ:
		if c.Subvectors <= 0 {
			return fmt.Errorf("subvectors must be > 0 (got %d)", c.Subvectors)
		}
		if c.Bits <= 0 || c.Bits > 16 {
			return fmt.Errorf("bits must be in [1,16] (got %d)", c.Bits)
		}
		if c.Distance != Euclidean {
			return fmt.Errorf("pq only supports %s distance (got '%s')", Euclidean, c.Distance)
		}
	default:
		return fmt.Errorf("unknown algorithm '%s'", c.Algorithm)
	}
	switch c.Distance {
	case Euclidean, Manhattan, Cosine:
	default:
		return fmt.Errorf("unknown distance '%s'", c.Distance)
	}
	return nil
}

// resolve returns the neighbour count and search algorithm for a training set
// of the given size and feature length.
func (c Config) resolve(samples, dim int) (int, string) {
	k := c.Neighbours
	if k > samples {
		k = samples
	}
	algorithm := c.Algorithm
	if algorithm == Auto {
		algorithm = Linear
		if dim <= kdTreeMaxDim && k < samples/2 && c.Distance != Cosine {
			algorithm = KDTree
		}
	}
	return k, algorithm
}
