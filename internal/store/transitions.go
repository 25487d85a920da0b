package store

import "github.com/pmuigai-sys/hosq/internal/models"

var transitionMap = map[string][]string{
	"call":     {models.StatusWaiting},
	"complete": {models.StatusInService},
	"flag":     {models.StatusWaiting},
}

// ValidTransition reports whether an action may be applied to an entry
// in the given status. The postgres store consults this table after
// taking the row lock, so the map is the single definition of the
// state machine.
func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
