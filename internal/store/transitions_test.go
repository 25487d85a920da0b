package store

import (
	"testing"

	"github.com/pmuigai-sys/hosq/internal/models"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		name   string
		action string
		from   string
		want   bool
	}{
		{"call waiting", "call", models.StatusWaiting, true},
		{"call in_service", "call", models.StatusInService, false},
		{"call completed", "call", models.StatusCompleted, false},
		{"complete in_service", "complete", models.StatusInService, true},
		{"complete waiting", "complete", models.StatusWaiting, false},
		{"complete completed", "complete", models.StatusCompleted, false},
		{"flag waiting", "flag", models.StatusWaiting, true},
		{"flag in_service", "flag", models.StatusInService, false},
		{"unknown action", "cancel", models.StatusWaiting, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidTransition(tc.action, tc.from); got != tc.want {
				t.Fatalf("ValidTransition(%q, %q) = %v, want %v", tc.action, tc.from, got, tc.want)
			}
		})
	}
}
