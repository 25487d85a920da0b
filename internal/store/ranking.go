package store

import (
	"sort"

	"github.com/pmuigai-sys/hosq/internal/models"
)

// RankWaiting orders a stage's waiting set and assigns 1-based
// positions: flagged entries first, then earliest check-in, with the
// entry ID as a deterministic tie-break. The input slice is not
// modified.
func RankWaiting(entries []models.QueueEntry) []models.QueueEntry {
	ranked := make([]models.QueueEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.HasEmergencyFlag != b.HasEmergencyFlag {
			return a.HasEmergencyFlag
		}
		if !a.CheckedInAt.Equal(b.CheckedInAt) {
			return a.CheckedInAt.Before(b.CheckedInAt)
		}
		return a.EntryID < b.EntryID
	})

	for i := range ranked {
		position := i + 1
		ranked[i].PositionInQueue = &position
	}
	return ranked
}
