package ml

import (
	"fmt"
	"strconv"

	"github.com/sjwhitworth/golearn/evaluation"
)

// Evaluation holds the comparison of the predicted labels against the actual ones.
type Evaluation struct {
	Samples   int                        `json:"samples"`
	Correct   int                        `json:"correct"`
	Accuracy  float64                    `json:"accuracy"`
	Confusion evaluation.ConfusionMatrix `json:"confusion"`
}

// Evaluate builds the confusion matrix for the given labels.
// Accuracy is the fraction of matching labels, in [0,1].
func Evaluate(actual, predicted []int) (Evaluation, error) {
	if len(actual) != len(predicted) {
		return Evaluation{}, fmt.Errorf("label count mismatch: %d actual vs %d predicted", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return Evaluation{}, fmt.Errorf("could not evaluate: %w", ErrEmpty)
	}

	confusion := make(evaluation.ConfusionMatrix)
	correct := 0
	for i, a := range actual {
		ref := strconv.Itoa(a)
		gen := strconv.Itoa(predicted[i])
		if _, ok := confusion[ref]; !ok {
			confusion[ref] = make(map[string]int)
		}
		confusion[ref][gen]++
		if a == predicted[i] {
			correct++
		}
	}

	return Evaluation{
		Samples:   len(actual),
		Correct:   correct,
		Accuracy:  evaluation.GetAccuracy(confusion),
		Confusion: confusion,
	}, nil
}

// Percent returns the accuracy as a percentage.
func (e Evaluation) Percent() float64 {
	return e.Accuracy * 100
}

// Summary renders the per class precision, recall and f1 scores.
func (e Evaluation) Summary() string {
	return evaluation.GetSummary(e.Confusion)
}
