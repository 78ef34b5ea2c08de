package model

import "encoding/json"

type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusSuccess    RunStatus = "success"
	RunStatusError      RunStatus = "error"
)

// RunResult is the outcome of one pipeline run over a single document.
// On error only Status and Message are set. A successful result always
// carries unmatched_items on the wire, as [] when every item matched.
type RunResult struct {
	Status         RunStatus       `json:"status"`
	ExtractedData  *ExtractedData  `json:"extracted_data,omitempty"`
	Quotation      *Quotation      `json:"quotation,omitempty"`
	UnmatchedItems []RequestedItem `json:"unmatched_items,omitempty"`
	Message        string          `json:"message,omitempty"`
}

func (r RunResult) Succeeded() bool {
	return r.Status == RunStatusSuccess
}

func (r RunResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		Status         RunStatus        `json:"status"`
		ExtractedData  *ExtractedData   `json:"extracted_data,omitempty"`
		Quotation      *Quotation       `json:"quotation,omitempty"`
		UnmatchedItems *[]RequestedItem `json:"unmatched_items,omitempty"`
		Message        string           `json:"message,omitempty"`
	}
	out := wire{
		Status:        r.Status,
		ExtractedData: r.ExtractedData,
		Quotation:     r.Quotation,
		Message:       r.Message,
	}
	if r.Succeeded() {
		unmatched := r.UnmatchedItems
		if unmatched == nil {
			unmatched = []RequestedItem{}
		}
		out.UnmatchedItems = &unmatched
	}
	return json.Marshal(out)
}
