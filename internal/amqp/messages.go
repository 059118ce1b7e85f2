package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the ledger queue. The worker fetches the full row
// from the database; the message only identifies it.
const (
	EventIncomeRecorded  = "income.recorded"
	EventExpenseRecorded = "expense.recorded"
)

// LedgerEventMessage points the export worker at one history row.
type LedgerEventMessage struct {
	Kind      string    `json:"kind"`
	AccountID string    `json:"account_id"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(kind, accountID, entityID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:      kind,
		AccountID: accountID,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
