package models

// RejectedRecord describes a single candidate record that failed validation
// at the import boundary. Rejects never reach the aggregator.
type RejectedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
	Raw    string `json:"raw,omitempty"`
}

// ImportResult is the outcome of an import parse: the records that passed
// schema validation plus per-record rejection reasons for the rest.
type ImportResult struct {
	Transactions []Transaction    `json:"transactions"`
	Rejected     []RejectedRecord `json:"rejected,omitempty"`
	Source       string           `json:"source"` // "text" or "document"
}
