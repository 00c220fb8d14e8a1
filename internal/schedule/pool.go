package schedule

import (
	"sort"
	"strings"
	"time"

	"confscheduler/internal/domain"
)

// Pool is the set of sessions considered for scheduling.
type Pool struct {
	sessions []*domain.Session
}

// NewPool wraps the event's session list.
func NewPool(sessions []*domain.Session) *Pool {
	return &Pool{sessions: sessions}
}

// Sessions returns the full underlying list.
func (p *Pool) Sessions() []*domain.Session { return p.sessions }

// Eligible returns the unscheduled-but-schedulable set: approved or scheduled
// status with no slot assigned. A scheduled session with no slot only occurs
// transiently while a replace is in flight. The result is ordered by vote
// count descending, ties broken by session id for determinism.
func (p *Pool) Eligible() []*domain.Session {
	var out []*domain.Session
	for _, s := range p.sessions {
		if s.TimeSlotID != nil {
			continue
		}
		if s.Status == domain.StatusApproved || s.Status == domain.StatusScheduled {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalVotes != out[j].TotalVotes {
			return out[i].TotalVotes > out[j].TotalVotes
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// EligibleForDay filters Eligible down to sessions whose time preferences
// match the day. Sessions with no declared preference match every day.
func (p *Pool) EligibleForDay(day time.Time) []*domain.Session {
	var out []*domain.Session
	for _, s := range p.Eligible() {
		if MatchesDay(s, day) {
			out = append(out, s)
		}
	}
	return out
}

// DayTags derives the coarse preference tags for a calendar day from its
// weekday, e.g. Saturday yields saturday_am and saturday_pm.
func DayTags(day time.Time) []string {
	wd := strings.ToLower(day.UTC().Weekday().String())
	return []string{wd + "_am", wd + "_pm"}
}

// MatchesDay reports whether the session's declared time preferences
// intersect the day's tags. No declared preference is neutral and matches.
func MatchesDay(s *domain.Session, day time.Time) bool {
	if len(s.TimePreferences) == 0 {
		return true
	}
	tags := DayTags(day)
	for _, pref := range s.TimePreferences {
		for _, tag := range tags {
			if pref == tag {
				return true
			}
		}
	}
	return false
}
