package benchmark

import (
	"fmt"
	"io"
	"time"

	"github.com/drakos74/free-knn/internal/math/ml"
	"github.com/drakos74/free-knn/internal/metrics"
	"github.com/drakos74/free-knn/internal/model"
	"github.com/drakos74/free-knn/internal/storage"
	"github.com/drakos74/free-knn/internal/storage/file/csv"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Benchmark loads the datasets, fits the classifier and reports its accuracy.
type Benchmark struct {
	cfg     Config
	out     io.Writer
	shard   storage.Shard
	metrics *metrics.Metrics
}

// New creates a new benchmark writing its figures to the given writer.
func New(cfg Config, out io.Writer) *Benchmark {
	return &Benchmark{
		cfg:     cfg,
		out:     out,
		shard:   storage.VoidShard(storage.RunsDir),
		metrics: metrics.New(),
	}
}

// WithStorage persists the run report into the given shard.
func (b *Benchmark) WithStorage(shard storage.Shard) *Benchmark {
	b.shard = shard
	return b
}

// Metrics returns the metrics of the run.
func (b *Benchmark) Metrics() *metrics.Metrics {
	return b.metrics
}

// Run executes the benchmark. Any failure aborts the run.
func (b *Benchmark) Run() (Report, error) {
	if err := b.cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid config: %w", err)
	}
	store, err := b.shard(ConfigKey)
	if err != nil {
		return Report{}, fmt.Errorf("could not create report storage: %w", err)
	}

	report := Report{
		ID:    uuid.New().String(),
		Start: time.Now(),
	}

	train, err := b.load(b.cfg.Train, model.Train, b.cfg.TrainLimit)
	if err != nil {
		return report, err
	}
	validation, err := b.load(b.cfg.Validation, model.Validation, b.cfg.ValidationLimit)
	if err != nil {
		return report, err
	}
	report.Train = train.Stats()
	report.Validation = validation.Stats()
	for _, stats := range []model.Stats{report.Train, report.Validation} {
		log.Debug().
			Int("samples", stats.Samples).
			Str("classes", fmt.Sprintf("%+v", stats.Classes)).
			Float64("mean", stats.Mean).
			Float64("std", stats.StdDev).
			Msg("dataset stats")
	}

	classifier, err := ml.NewKNN(b.cfg.Model)
	if err != nil {
		return report, err
	}

	start := time.Now()
	if err := classifier.Fit(train); err != nil {
		return report, fmt.Errorf("could not fit classifier: %w", err)
	}
	report.Fit = time.Since(start)

	predictions, err := classifier.Predict(validation)
	if err != nil {
		return report, fmt.Errorf("could not predict: %w", err)
	}
	report.Elapsed = time.Since(start)
	report.Predict = report.Elapsed - report.Fit
	report.Model = classifier.Metadata()

	report.Evaluation, err = ml.Evaluate(validation.Labels(), predictions)
	if err != nil {
		return report, fmt.Errorf("could not evaluate predictions: %w", err)
	}

	log.Info().
		Str("id", report.ID).
		Dur("fit", report.Fit).
		Dur("predict", report.Predict).
		Int("neighbours", report.Model.Neighbours).
		Str("algorithm", report.Model.Algorithm).
		Float64("accuracy", report.Accuracy()).
		Msg("benchmark finished")

	b.observe(report)

	if err := report.Print(b.out); err != nil {
		return report, fmt.Errorf("could not print report: %w", err)
	}
	if b.cfg.Report {
		if err := report.PrintSummary(b.out); err != nil {
			return report, fmt.Errorf("could not print summary: %w", err)
		}
	}

	if err := store.Store(storage.Key{Run: report.ID, Label: reportLabel}, report); err != nil {
		return report, fmt.Errorf("could not store report: %w", err)
	}
	if b.cfg.Metrics != "" {
		if err := b.metrics.WriteTo(b.cfg.Metrics); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (b *Benchmark) load(path, name string, limit int) (model.Dataset, error) {
	start := time.Now()
	ds, err := csv.Load(path, name, limit)
	if err != nil {
		return ds, err
	}
	b.metrics.Samples(name, ds.Len())
	log.Info().
		Str("dataset", name).
		Str("path", path).
		Int("samples", ds.Len()).
		Int("features", ds.Dim()).
		Dur("duration", time.Since(start)).
		Msg("loaded dataset")
	return ds, nil
}

func (b *Benchmark) observe(report Report) {
	b.metrics.Duration(metrics.Fit, report.Fit)
	b.metrics.Duration(metrics.Predict, report.Predict)
	b.metrics.Duration(metrics.Total, report.Elapsed)
	b.metrics.Outcome(report.Evaluation.Correct, report.Evaluation.Samples)
}
