package tasks

import "testing"

func TestDerive(t *testing.T) {
	cases := []struct {
		name      string
		completed bool
		approved  bool
		want      Status
	}{
		{"fresh task", false, false, StatusPending},
		{"completed awaiting approval", true, false, StatusCompleted},
		{"completed and approved", true, true, StatusApproved},
		{"approved without completion", false, true, StatusApproved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Derive(tc.completed, tc.approved); got != tc.want {
				t.Errorf("Derive(%v, %v) = %s, want %s", tc.completed, tc.approved, got, tc.want)
			}
		})
	}
}

func TestCanComplete(t *testing.T) {
	if !CanComplete(false, false) {
		t.Error("pending task should be completable")
	}
	if CanComplete(true, false) {
		t.Error("completed task should not be completable again")
	}
	if CanComplete(true, true) {
		t.Error("approved task should not be completable")
	}
	if CanComplete(false, true) {
		t.Error("approved-without-completion task should not be completable")
	}
}

func TestCanApprove(t *testing.T) {
	if CanApprove(false, false) {
		t.Error("pending task should not be approvable")
	}
	if !CanApprove(true, false) {
		t.Error("completed task should be approvable")
	}
	if CanApprove(true, true) {
		t.Error("already-approved task should not be approvable again")
	}
}

func TestCountsTowardBalance(t *testing.T) {
	if CountsTowardBalance(true, false) {
		t.Error("completed-but-unapproved task must not count")
	}
	if !CountsTowardBalance(true, true) {
		t.Error("approved task must count")
	}
	if !CountsTowardBalance(false, true) {
		t.Error("approved flag alone decides counting")
	}
}
