package benchmark

import (
	"fmt"
	"io"
	"time"

	"github.com/drakos74/free-knn/internal/math/ml"
	"github.com/drakos74/free-knn/internal/model"
)

const reportLabel = "report"

// Report is the outcome of a benchmark run.
// Elapsed is the wall clock time around fit and predict, excluding the file loading.
type Report struct {
	ID         string        `json:"id"`
	Start      time.Time     `json:"start"`
	Train      model.Stats   `json:"train"`
	Validation model.Stats   `json:"validation"`
	Model      ml.Metadata   `json:"model"`
	Fit        time.Duration `json:"fit"`
	Predict    time.Duration `json:"predict"`
	Elapsed    time.Duration `json:"elapsed"`
	Evaluation ml.Evaluation `json:"evaluation"`
}

// Accuracy returns the accuracy as a percentage.
func (r Report) Accuracy() float64 {
	return r.Evaluation.Percent()
}

// Print writes the elapsed time and accuracy lines.
func (r Report) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Elapsed Time %.2f seconds\nAccuracy: %.2f%%\n", r.Elapsed.Seconds(), r.Accuracy())
	return err
}

// PrintSummary writes the per class precision and recall figures.
func (r Report) PrintSummary(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Evaluation.Summary())
	return err
}
