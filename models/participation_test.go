package models

import "testing"

func TestParticipationStatusValid(t *testing.T) {
	for _, status := range []ParticipationStatus{
		ParticipationPending, ParticipationConfirmed,
		ParticipationCancelled, ParticipationRejected,
	} {
		if !status.Valid() {
			t.Errorf("%q reported invalid", status)
		}
	}
	if ParticipationStatus("waitlisted").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestParticipationStatusTransitions(t *testing.T) {
	allowed := map[ParticipationStatus][]ParticipationStatus{
		ParticipationPending:   {ParticipationConfirmed, ParticipationRejected},
		ParticipationConfirmed: {ParticipationCancelled},
		ParticipationCancelled: {},
		ParticipationRejected:  {},
	}
	all := []ParticipationStatus{
		ParticipationPending, ParticipationConfirmed,
		ParticipationCancelled, ParticipationRejected,
	}

	for from, targets := range allowed {
		ok := make(map[ParticipationStatus]bool)
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != ok[to] {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, ok[to])
			}
		}
	}
}
