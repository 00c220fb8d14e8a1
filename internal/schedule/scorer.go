package schedule

import (
	"fmt"

	"confscheduler/internal/domain"
)

// Score shaping. Directions are fixed: mismatches always lower the score and
// preference matches always raise it. Soft constraints never exclude a slot.
const (
	baseScore          = 50
	capacityPenalty    = 20
	preferenceBonus    = 15
	trackAffinityBonus = 5
)

// Score rates how well a session fits a slot in a venue and collects the
// advisory warnings a reviewer should see. It is a pure function of its
// inputs plus the grid's current occupancy (for track affinity). Hard
// validity is the caller's concern; see Grid.HardValid.
func Score(sess *domain.Session, slot *domain.TimeSlot, venue *domain.Venue, grid *Grid) (int, []string) {
	score := baseScore
	var warnings []string

	slotDuration := slot.DurationMinutes()
	if diff := absInt(sess.DurationMinutes - slotDuration); diff != 0 {
		score -= diff
		warnings = append(warnings, fmt.Sprintf("Session is %dmin", sess.DurationMinutes))
	}

	if venue != nil && venue.Capacity != nil && sess.TotalVotes > *venue.Capacity {
		score -= capacityPenalty
		warnings = append(warnings, fmt.Sprintf("%d votes > %d cap", sess.TotalVotes, *venue.Capacity))
	}

	if len(sess.TimePreferences) > 0 && MatchesDay(sess, slot.Day()) {
		score += preferenceBonus
	}

	if venue != nil && hasTrackNeighbor(sess, venue, grid) {
		score += trackAffinityBonus
	}

	return score, warnings
}

// hasTrackNeighbor reports whether another session of the same track is
// already scheduled in the venue. Keeping a track's sessions in one venue is
// a mild preference only.
func hasTrackNeighbor(sess *domain.Session, venue *domain.Venue, grid *Grid) bool {
	if grid == nil || sess.TrackID == nil {
		return false
	}
	for slotID, occID := range grid.occupancy {
		if occID == sess.ID {
			continue
		}
		occ := grid.Session(occID)
		if occ == nil || occ.TrackID == nil || *occ.TrackID != *sess.TrackID {
			continue
		}
		if slot := grid.Slot(slotID); slot != nil && slot.VenueID != nil && *slot.VenueID == venue.ID {
			return true
		}
	}
	return false
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
