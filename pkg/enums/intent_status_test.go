package enums

import "testing"

func TestParseIntentStatus(t *testing.T) {
	got, err := ParseIntentStatus("pending_confirmation")
	if err != nil {
		t.Fatalf("ParseIntentStatus: %v", err)
	}
	if got != IntentStatusPendingConfirmation {
		t.Fatalf("unexpected status %s", got)
	}

	if _, err := ParseIntentStatus("Pending"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestIntentStatusIsTerminal(t *testing.T) {
	terminal := []IntentStatus{IntentStatusCaptured, IntentStatusReversed, IntentStatusExpired}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []IntentStatus{IntentStatusCreated, IntentStatusPendingConfirmation} {
		if s.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}
