package model

// Record is a single labelled sample.
type Record struct {
	Label    int   `json:"label"`
	Features []int `json:"features"`
}

// Dim returns the length of the feature vector.
func (r Record) Dim() int {
	return len(r.Features)
}
