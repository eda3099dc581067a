package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by payment event messages.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionPaid    = "paid"
	ActionDeleted = "deleted"
	ActionSpawned = "spawned"
)

// PaymentEventMessage is a lightweight notification about a payment mutation.
// Consumers fetch the full record from the store by id; deleted events only
// carry the id of a record that no longer exists.
type PaymentEventMessage struct {
	PaymentID string    `json:"paymentId"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPaymentEventMessage(action, paymentID, userID string) *PaymentEventMessage {
	return &PaymentEventMessage{
		PaymentID: paymentID,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *PaymentEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentEventMessageFromJSON(data []byte) (*PaymentEventMessage, error) {
	var msg PaymentEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
