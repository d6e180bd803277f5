package models

import "testing"

func TestSupportTicketStatusValid(t *testing.T) {
	for _, s := range []SupportTicketStatus{TicketOpen, TicketInProgress, TicketResolved, TicketClosed} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []SupportTicketStatus{"", "done", "OPEN", "pending"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}

func TestSupportTicketPriorityValid(t *testing.T) {
	for _, p := range []SupportTicketPriority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent} {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
	for _, p := range []SupportTicketPriority{"", "critical", "High"} {
		if p.Valid() {
			t.Errorf("%q should not be valid", p)
		}
	}
}
