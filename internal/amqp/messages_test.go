package amqp

import (
	"testing"
	"time"
)

func TestNewBudgetAlertMessage(t *testing.T) {
	msg := NewBudgetAlertMessage("an", "DANGER", 85_000_000, 100_000_000, 15_000_000)

	if msg.Owner != "an" || msg.Tier != "DANGER" {
		t.Fatalf("message = %+v", msg)
	}
	if msg.SpentCents != 85_000_000 || msg.BudgetCents != 100_000_000 || msg.RemainingCents != 15_000_000 {
		t.Fatalf("amounts = %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp should be set")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Fatal("timestamp should be recent")
	}
}

func TestBudgetAlertMessageJSON(t *testing.T) {
	msg := &BudgetAlertMessage{
		Owner:          "an",
		Tier:           "WARNING",
		SpentCents:     60_000_000,
		BudgetCents:    100_000_000,
		RemainingCents: 40_000_000,
		Timestamp:      time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := BudgetAlertMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if *parsed != *msg {
		t.Fatalf("round trip = %+v, want %+v", parsed, msg)
	}
}

func TestBudgetAlertMessageInvalidJSON(t *testing.T) {
	if _, err := BudgetAlertMessageFromJSON([]byte(`{"spent_cents": "lots"}`)); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
