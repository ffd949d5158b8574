package ai

import "time"

type scheduledEvent struct {
	abilityID int32
	remaining time.Duration
}

// CooldownScheduler tracks when each owned ability is ready again.
//
// Invariant: at most one pending entry per ability id.
// Ready entries are taken in the order their ids were first scheduled.
// Not safe for concurrent use; owned by a single controller.
type CooldownScheduler struct {
	events []scheduledEvent
}

// Schedule sets abilityID to become ready after d, replacing any pending
// entry for it. Negative d is treated as zero.
func (s *CooldownScheduler) Schedule(abilityID int32, d time.Duration) {
	if abilityID <= 0 {
		return
	}
	d = max(d, 0)

	for i := range s.events {
		if s.events[i].abilityID == abilityID {
			s.events[i].remaining = d
			return
		}
	}
	s.events = append(s.events, scheduledEvent{abilityID: abilityID, remaining: d})
}

// Reschedule pushes abilityID's next availability to d. Used when a cast
// is interrupted.
func (s *CooldownScheduler) Reschedule(abilityID int32, d time.Duration) {
	s.Schedule(abilityID, d)
}

// Advance decrements every pending entry by elapsed, clamped at zero.
func (s *CooldownScheduler) Advance(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	for i := range s.events {
		s.events[i].remaining = max(s.events[i].remaining-elapsed, 0)
	}
}

// TakeReady removes and returns one ability whose timer reached zero.
func (s *CooldownScheduler) TakeReady() (int32, bool) {
	for i := range s.events {
		if s.events[i].remaining == 0 {
			id := s.events[i].abilityID
			s.events = append(s.events[:i], s.events[i+1:]...)
			return id, true
		}
	}
	return 0, false
}

// Remaining returns the time left for abilityID, if it is pending.
func (s *CooldownScheduler) Remaining(abilityID int32) (time.Duration, bool) {
	for i := range s.events {
		if s.events[i].abilityID == abilityID {
			return s.events[i].remaining, true
		}
	}
	return 0, false
}

// Len returns the number of pending entries.
func (s *CooldownScheduler) Len() int {
	return len(s.events)
}

// Reset drops every pending entry.
func (s *CooldownScheduler) Reset() {
	s.events = s.events[:0]
}
