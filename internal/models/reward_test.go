package models

import "testing"

func TestCanResolve(t *testing.T) {
	cases := []struct {
		name   string
		status string
		want   bool
	}{
		{"pending is resolvable", RedemptionPending, true},
		{"approved is terminal", RedemptionApproved, false},
		{"rejected is terminal", RedemptionRejected, false},
		{"unknown status is not resolvable", "completed", false},
		{"empty status is not resolvable", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanResolve(tc.status); got != tc.want {
				t.Errorf("CanResolve(%q) = %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}

// Once a redemption has been approved or rejected, no later resolution
// attempt may go through, in either direction.
func TestResolvedRedemptionStaysTerminal(t *testing.T) {
	for _, terminal := range []string{RedemptionApproved, RedemptionRejected} {
		if CanResolve(terminal) {
			t.Errorf("status %q must not be resolvable again", terminal)
		}
	}
}
