package model

// PesticideStore is a nearby agricultural supply shop built from a map
// query. It is never persisted.
type PesticideStore struct {
	Name       string   `json:"name"`
	Address    *string  `json:"address"`
	Phone      *string  `json:"phone"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	DistanceKM *float64 `json:"distance_km"`
}

// SuggestedTreatmentsResponse is returned by GET /api/suggested-treatments.
type SuggestedTreatmentsResponse struct {
	Disease  string           `json:"disease"`
	Language string           `json:"language"`
	Remedies []string         `json:"remedies"`
	Stores   []PesticideStore `json:"stores"`
}

// ScanTreatmentResponse is returned by POST /api/scan-treatment.
type ScanTreatmentResponse struct {
	Disease   string  `json:"disease"`
	Language  string  `json:"language"`
	ItemLabel *string `json:"item_label"`
	WillCure  bool    `json:"will_cure"`
	Feedback  string  `json:"feedback"`
}
