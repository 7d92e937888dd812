package amqp

import (
	"encoding/json"
	"time"
)

// BudgetAlertMessage notifies downstream consumers that an owner's monthly
// spend crossed an alert threshold. Amounts are in cents so consumers never
// deal with decimals.
type BudgetAlertMessage struct {
	Owner          string    `json:"owner"`
	Tier           string    `json:"tier"`
	SpentCents     int64     `json:"spent_cents"`
	BudgetCents    int64     `json:"budget_cents"`
	RemainingCents int64     `json:"remaining_cents"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewBudgetAlertMessage(owner, tier string, spent, budget, remaining int64) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Owner:          owner,
		Tier:           tier,
		SpentCents:     spent,
		BudgetCents:    budget,
		RemainingCents: remaining,
		Timestamp:      time.Now(),
	}
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
