package amqp

import (
	"encoding/json"
	"time"
)

// StoreSavedMessage announces that the expense store was persisted.
// It carries a summary only; consumers read the data file for details.
type StoreSavedMessage struct {
	Count     int       `json:"count"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStoreSavedMessage creates a message stamped with the current time
func NewStoreSavedMessage(count int, total float64) *StoreSavedMessage {
	return &StoreSavedMessage{
		Count:     count,
		Total:     total,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *StoreSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StoreSavedMessageFromJSON creates a message from JSON bytes
func StoreSavedMessageFromJSON(data []byte) (*StoreSavedMessage, error) {
	var msg StoreSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
