package therapy

import (
	"testing"

	"github.com/clinicore/clinicore/internal/domain/patient"
)

func TestToggleCompleted(t *testing.T) {
	cases := []struct{ in, want string }{
		{patient.SessionPending, patient.SessionCompleted},
		{patient.SessionCompleted, patient.SessionPending},
		{patient.SessionMissed, patient.SessionCompleted},
	}
	for _, tc := range cases {
		if got := ToggleCompleted(tc.in); got != tc.want {
			t.Errorf("ToggleCompleted(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestToggleMissed(t *testing.T) {
	cases := []struct{ in, want string }{
		{patient.SessionPending, patient.SessionMissed},
		{patient.SessionMissed, patient.SessionPending},
		{patient.SessionCompleted, patient.SessionMissed},
	}
	for _, tc := range cases {
		if got := ToggleMissed(tc.in); got != tc.want {
			t.Errorf("ToggleMissed(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestToggleCompleted_DoubleToggleRestores(t *testing.T) {
	for _, start := range []string{patient.SessionPending, patient.SessionCompleted} {
		if got := ToggleCompleted(ToggleCompleted(start)); got != start {
			t.Errorf("double toggle from %s gave %s", start, got)
		}
	}
	// From missed: first toggle lands on completed, second returns to pending,
	// not back to missed.
	if got := ToggleCompleted(ToggleCompleted(patient.SessionMissed)); got != patient.SessionPending {
		t.Errorf("double toggle from missed gave %s, want pending", got)
	}
}
