package model

type MatchCandidate struct {
	Product            CatalogProduct `json:"product"`
	MatchScore         int            `json:"match_score"`
	Reasoning          string         `json:"reasoning"`
	CompatibilityNotes []string       `json:"compatibility_notes"`
}

// MatchedItem is a requested item paired with its best catalog candidate.
type MatchedItem struct {
	RequestedItem
	MatchedProduct *CatalogProduct `json:"matched_product"`
	MatchScore     int             `json:"match_score"`
	Reasoning      string          `json:"reasoning"`
}
