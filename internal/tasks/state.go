package tasks

// Status is the derived lifecycle state of a task. Storage keeps two
// independent booleans; this package maps the 2x2 space onto the three
// states the product exposes.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusApproved  Status = "approved"
)

// Derive maps the completed/approved flags to a Status. approved=true with
// completed=false is reachable through direct writes; it is treated as
// approved so the points always count once approval is set.
func Derive(completed, approved bool) Status {
	if approved {
		return StatusApproved
	}
	if completed {
		return StatusCompleted
	}
	return StatusPending
}

// CanComplete reports whether the assignee may mark the task completed.
func CanComplete(completed, approved bool) bool {
	return !completed && !approved
}

// CanApprove reports whether a parent may approve the task.
func CanApprove(completed, approved bool) bool {
	return completed && !approved
}

// CountsTowardBalance reports whether the task's points contribute to the
// assignee's balance. Only approval matters; a completed-but-unapproved
// task contributes nothing.
func CountsTowardBalance(completed, approved bool) bool {
	return approved
}
