package ml

import (
	"errors"
	"fmt"

	"github.com/drakos74/free-knn/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/knn"
)

var (
	ErrNotFitted = errors.New("model not fitted")
	ErrDimension = errors.New("feature dimension mismatch")
	ErrEmpty     = errors.New("empty dataset")
)

// KNN applies a golearn knn classifier, or a product quantized search, to our datasets.
type KNN struct {
	cfg      Config
	schema   *schema
	cls      *knn.KNNClassifier
	pq       *quantizer
	metadata Metadata
}

// NewKNN creates a new knn classifier for the given config.
func NewKNN(cfg Config) (*KNN, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid knn config: %w", err)
	}
	return &KNN{
		cfg: cfg,
		metadata: Metadata{
			Neighbours: cfg.Neighbours,
			Algorithm:  cfg.Algorithm,
			Weights:    cfg.Weights,
			Distance:   cfg.Distance,
		},
	}, nil
}

// Fit trains the classifier on the given dataset.
// The neighbour count is capped to the number of training samples.
func (k *KNN) Fit(train model.Dataset) error {
	if train.Len() == 0 || train.Dim() == 0 {
		return fmt.Errorf("could not fit on '%s': %w", train.Name, ErrEmpty)
	}

	neighbours, algorithm := k.cfg.resolve(train.Len(), train.Dim())
	if neighbours < k.cfg.Neighbours {
		log.Warn().
			Int("neighbours", k.cfg.Neighbours).
			Int("samples", train.Len()).
			Msg("neighbours exceed training samples, capping")
	}

	k.metadata = Metadata{
		Samples:    train.Len(),
		Features:   train.Dim(),
		Neighbours: neighbours,
		Algorithm:  algorithm,
		Weights:    k.cfg.Weights,
		Distance:   k.cfg.Distance,
	}

	var err error
	if algorithm == PQ {
		err = k.fitQuantizer(train)
	} else {
		err = k.fitClassifier(train, neighbours, algorithm)
	}
	if err != nil {
		return err
	}

	log.Debug().
		Int("samples", train.Len()).
		Int("features", train.Dim()).
		Int("neighbours", neighbours).
		Str("algorithm", algorithm).
		Msg("fitted knn model")
	return nil
}

func (k *KNN) fitClassifier(train model.Dataset, neighbours int, algorithm string) error {
	s := newSchema(train.Dim())
	data, err := s.instances(train)
	if err != nil {
		return fmt.Errorf("could not convert '%s': %w", train.Name, err)
	}

	cls := knn.NewKnnClassifier(k.cfg.Distance, algorithm, neighbours)
	if k.cfg.Weights == Distance {
		cls.Weighted = true
		// the optimised euclidean path ignores the weights
		cls.AllowOptimisations = false
	}
	if err := cls.Fit(data); err != nil {
		log.Error().Err(err).Msg("could not train knn model")
		return err
	}

	k.schema = s
	k.cls = cls
	k.pq = nil
	return nil
}

func (k *KNN) fitQuantizer(train model.Dataset) error {
	if i := train.Ragged(); i >= 0 {
		return fmt.Errorf("could not compress '%s': %w: record %d has %d features, expected %d",
			train.Name, ErrDimension, i, train.Records[i].Dim(), train.Dim())
	}

	q := newQuantizer(train.Dim(), k.cfg.Subvectors, k.cfg.Bits)
	if err := q.fit(train); err != nil {
		log.Error().Err(err).Msg("could not compress training set")
		return err
	}

	k.pq = q
	k.cls = nil
	k.schema = nil
	k.metadata.Subvectors = q.subvectors
	k.metadata.Clusters = q.clusters
	return nil
}

// Predict returns the predicted label for every record of the given dataset, in order.
func (k *KNN) Predict(set model.Dataset) ([]int, error) {
	if k.cls == nil && k.pq == nil {
		return nil, ErrNotFitted
	}
	if set.Len() == 0 {
		return make([]int, 0), nil
	}

	if k.pq != nil {
		if set.Dim() != k.pq.dim || set.Ragged() >= 0 {
			return nil, fmt.Errorf("could not search '%s': %w: expected %d features", set.Name, ErrDimension, k.pq.dim)
		}
		return k.pq.predict(set, k.metadata.Neighbours, k.cfg.Weights), nil
	}

	data, err := k.schema.instances(set)
	if err != nil {
		return nil, fmt.Errorf("could not convert '%s': %w", set.Name, err)
	}

	var predictions base.FixedDataGrid
	err = muted(func() error {
		var err error
		predictions, err = k.cls.Predict(data)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("could not predict on knn model")
		return nil, err
	}
	return labels(predictions)
}

// Metadata returns the effective parameters of the classifier.
func (k *KNN) Metadata() Metadata {
	return k.metadata
}
