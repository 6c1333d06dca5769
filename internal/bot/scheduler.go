package bot

// Scheduler defers a bot turn by a number of ticks, so a bot appears to think before it
// acts. At most one turn is pending at a time since only one seat is ever active.
type Scheduler struct {
	pending bool
	seat    int
	turn    int
	dueTick int64
}

// Schedule arranges for seat to act on turn turnNumber once delay ticks have passed.
// A turn already pending for the same seat and turn is left alone.
func (s *Scheduler) Schedule(seat, turnNumber int, now, delay int64) {
	if s.pending && s.seat == seat && s.turn == turnNumber {
		return
	}
	s.pending = true
	s.seat = seat
	s.turn = turnNumber
	s.dueTick = now + delay
}

// Due reports the seat and turn whose wait ended at tick now, clearing them.
func (s *Scheduler) Due(now int64) (seat, turnNumber int, ok bool) {
	if !s.pending || now < s.dueTick {
		return 0, 0, false
	}
	s.pending = false
	return s.seat, s.turn, true
}

// Pending reports whether a bot turn is waiting.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Cancel drops the pending turn.
func (s *Scheduler) Cancel() {
	s.pending = false
}
