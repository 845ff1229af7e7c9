package model

// Alert copy sent to nearby devices.
const (
	AlertTitle        = "Nearby crop health advisory"
	AlertBodyTemplate = "A nearby report mentioned %s. Please monitor your crop and follow recommended practices."
)

// DetectionAlert is the input to nearby-device fan-out.
type DetectionAlert struct {
	DetectionID int64
	Disease     string
	Latitude    *float64
	Longitude   *float64
}

// AlertStats counts fan-out outcomes for one detection.
type AlertStats struct {
	Candidates int `json:"candidates"`
	Sent       int `json:"sent"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}
