package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types carried on the alert stream.
const (
	EventDetectionAlert = "detection_alert"
)

const (
	StreamAlerts        = "stream:alerts"
	ConsumerGroupAlerts = "alert_workers"
)

// AlertEvent announces a confident detection that nearby devices should hear about.
type AlertEvent struct {
	Type        string  `json:"type"`
	Timestamp   int64   `json:"timestamp"`
	DetectionID int64   `json:"detection_id,omitempty"`
	Disease     string  `json:"disease"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// NewDetectionAlertEvent builds the event published after a detection is saved.
func NewDetectionAlertEvent(detectionID int64, disease string, lat, lng float64) AlertEvent {
	return AlertEvent{
		Type:        EventDetectionAlert,
		Timestamp:   time.Now().Unix(),
		DetectionID: detectionID,
		Disease:     disease,
		Latitude:    lat,
		Longitude:   lng,
	}
}

// ToMap converts the event to XADD field-value pairs. The payload travels as
// JSON in the "data" field.
func (e AlertEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseAlertEvent parses an AlertEvent from Redis stream message values.
func ParseAlertEvent(values map[string]interface{}) (AlertEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return AlertEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event AlertEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return AlertEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
