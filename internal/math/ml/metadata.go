package ml

// Metadata describes a fitted model.
type Metadata struct {
	Samples    int    `json:"samples"`
	Features   int    `json:"features"`
	Neighbours int    `json:"neighbours"`
	Algorithm  string `json:"algorithm"`
	Weights    string `json:"weights"`
	Distance   string `json:"distance"`
	Subvectors int    `json:"subvectors,omitempty"`
	Clusters   int    `json:"clusters,omitempty"`
}
