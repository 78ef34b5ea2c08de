package model

type Unit string

const (
	UnitMeter Unit = "meter"
	UnitUnit  Unit = "unit"
	UnitPiece Unit = "piece"
)

type CompanyInfo struct {
	Name    string `json:"name"`
	Project string `json:"project"`
	Contact string `json:"contact"`
}

type RequestedItem struct {
	ItemName             string `json:"item_name"`
	Quantity             int    `json:"quantity"`
	Unit                 Unit   `json:"unit"`
	Specifications       string `json:"specifications"`
	DeliveryRequirements string `json:"delivery_requirements"`
}

type ProjectDetails struct {
	DeliveryTimeline     string `json:"delivery_timeline"`
	PaymentTerms         string `json:"payment_terms"`
	WarrantyRequirements string `json:"warranty_requirements"`
}

// ExtractedData is the structured view of one RFP document.
type ExtractedData struct {
	CompanyInfo    CompanyInfo     `json:"company_info"`
	Items          []RequestedItem `json:"items"`
	ProjectDetails ProjectDetails  `json:"project_details"`
}
