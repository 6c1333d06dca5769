package bot

import "testing"

func TestScheduler(t *testing.T) {
	var s Scheduler
	if s.Pending() {
		t.Fatal("new scheduler has a pending turn")
	}

	s.Schedule(2, 7, 10, 3)
	if _, _, ok := s.Due(12); ok {
		t.Fatal("turn due before its delay")
	}
	// Rescheduling the same turn keeps the original due tick.
	s.Schedule(2, 7, 12, 3)
	seat, turn, ok := s.Due(13)
	if !ok || seat != 2 || turn != 7 {
		t.Fatalf("Due = %d, %d, %v, want seat 2 turn 7", seat, turn, ok)
	}
	if s.Pending() {
		t.Fatal("due turn still pending")
	}

	s.Schedule(0, 8, 20, 1)
	s.Cancel()
	if _, _, ok := s.Due(100); ok {
		t.Fatal("cancelled turn fired")
	}
}

func TestGetBotIdentityFallback(t *testing.T) {
	identity := GetBotIdentity(3)
	if identity.UserID == "" || !IsBot(identity.UserID) {
		t.Fatalf("identity %+v not registered as a bot", identity)
	}
	if GetBotDisplayName(identity.UserID) == "" {
		t.Fatal("missing display name")
	}
	if IsBot("human-1") {
		t.Fatal("human reported as bot")
	}
}
