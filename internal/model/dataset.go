package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// Train is the name of the dataset the classifier is fitted on.
	Train = "train"
	// Validation is the name of the held-out dataset.
	Validation = "validation"
)

// Dataset is an ordered set of records loaded from a single source.
type Dataset struct {
	Name    string
	Records []Record
}

// NewDataset creates a new dataset with the given name.
func NewDataset(name string, records []Record) Dataset {
	if records == nil {
		records = make([]Record, 0)
	}
	return Dataset{
		Name:    name,
		Records: records,
	}
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Dim returns the feature length of the first record, 0 for an empty dataset.
func (d Dataset) Dim() int {
	if len(d.Records) == 0 {
		return 0
	}
	return d.Records[0].Dim()
}

// Ragged returns the index of the first record whose feature length
// differs from the first one, or -1 if all records agree.
func (d Dataset) Ragged() int {
	dim := d.Dim()
	for i, r := range d.Records {
		if r.Dim() != dim {
			return i
		}
	}
	return -1
}

// Labels returns the labels in record order.
func (d Dataset) Labels() []int {
	labels := make([]int, len(d.Records))
	for i, r := range d.Records {
		labels[i] = r.Label
	}
	return labels
}

// Matrix returns the features as a rows x dim matrix.
// It returns nil for an empty or ragged dataset.
func (d Dataset) Matrix() *mat.Dense {
	rows, cols := d.Len(), d.Dim()
	if rows == 0 || cols == 0 || d.Ragged() >= 0 {
		return nil
	}
	data := make([]float64, 0, rows*cols)
	for _, r := range d.Records {
		for _, f := range r.Features {
			data = append(data, float64(f))
		}
	}
	return mat.NewDense(rows, cols, data)
}

// Stats summarises the dataset contents.
type Stats struct {
	Samples  int         `json:"samples"`
	Features int         `json:"features"`
	Classes  map[int]int `json:"classes"`
	Mean     float64     `json:"mean"`
	StdDev   float64     `json:"std_dev"`
}

// Stats computes the class distribution and the pixel intensity moments.
// The moments are merged row by row, so the dataset is never copied into a matrix.
func (d Dataset) Stats() Stats {
	s := Stats{
		Samples:  d.Len(),
		Features: d.Dim(),
		Classes:  make(map[int]int),
	}
	for _, r := range d.Records {
		s.Classes[r.Label]++
	}
	if s.Samples == 0 || s.Features == 0 || d.Ragged() >= 0 {
		return s
	}

	var n, mean, m2 float64
	row := make([]float64, s.Features)
	for _, r := range d.Records {
		for j, v := range r.Features {
			row[j] = float64(v)
		}
		rowMean, rowVariance := stat.MeanVariance(row, nil)
		rowM2 := 0.0
		if len(row) > 1 {
			rowM2 = rowVariance * float64(len(row)-1)
		}
		rowN := float64(len(row))
		delta := rowMean - mean
		total := n + rowN
		mean += delta * rowN / total
		m2 += rowM2 + delta*delta*n*rowN/total
		n = total
	}
	s.Mean = mean
	if n > 1 {
		s.StdDev = math.Sqrt(m2 / (n - 1))
	}
	return s
}
