package schedule

import "confscheduler/internal/domain"

// ReasonNoSlot is the reason attached to sessions the assigner cannot place.
const ReasonNoSlot = "No compatible slot remaining"

// Propose computes a best-effort one-to-one assignment of the pool's eligible
// sessions onto hard-valid empty slots. It is greedy and deterministic:
// sessions are taken in vote-count order (ties by id) and each takes the
// highest-scoring remaining slot, ties resolved by the grid's fixed slot
// order (earliest start, then lowest venue id, then slot id). Propose never
// mutates the pool, the grid, or any session.
func Propose(pool *Pool, grid *Grid) *domain.ScheduleProposal {
	proposal := &domain.ScheduleProposal{
		Assignments: []domain.Assignment{},
		Unassigned:  []domain.UnassignedSession{},
	}

	eligible := pool.Eligible()
	claimed := make(map[string]struct{})
	totalScore := 0

	for _, sess := range eligible {
		bestSlot := ""
		bestScore := 0
		var bestWarnings []string
		var bestVenue string

		for _, slotID := range grid.SlotIDs() {
			if _, taken := claimed[slotID]; taken {
				continue
			}
			slot := grid.Slot(slotID)
			if !grid.HardValid(slot, sess.ID) {
				continue
			}
			venue := grid.Venue(*slot.VenueID)
			score, warnings := Score(sess, slot, venue, grid)
			// Strict improvement keeps the earliest candidate on ties.
			if bestSlot == "" || score > bestScore {
				bestSlot = slotID
				bestScore = score
				bestWarnings = warnings
				bestVenue = venue.ID
			}
		}

		if bestSlot == "" {
			proposal.Unassigned = append(proposal.Unassigned, domain.UnassignedSession{
				SessionID: sess.ID,
				Reason:    ReasonNoSlot,
			})
			continue
		}

		claimed[bestSlot] = struct{}{}
		totalScore += bestScore
		if bestWarnings == nil {
			bestWarnings = []string{}
		}
		proposal.Assignments = append(proposal.Assignments, domain.Assignment{
			SessionID: sess.ID,
			SlotID:    bestSlot,
			VenueID:   bestVenue,
			Score:     bestScore,
			Warnings:  bestWarnings,
		})
	}

	proposal.Stats = domain.ProposalStats{
		Considered: len(eligible),
		Assigned:   len(proposal.Assignments),
		Unassigned: len(proposal.Unassigned),
	}
	if n := len(proposal.Assignments); n > 0 {
		proposal.Stats.AverageScore = float64(totalScore) / float64(n)
	}
	return proposal
}
