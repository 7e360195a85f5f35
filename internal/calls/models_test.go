package calls

import "testing"

func TestStatusOpen(t *testing.T) {
	open := []Status{StatusCalling, StatusQueued, StatusRinging, StatusInProgress}
	for _, s := range open {
		if !s.Open() {
			t.Fatalf("expected %q to be open", s)
		}
	}
	closed := []Status{StatusPending, StatusCompleted, StatusFailed, StatusBusy, StatusNoAnswer, Status("canceled")}
	for _, s := range closed {
		if s.Open() {
			t.Fatalf("expected %q to be closed", s)
		}
	}
}
