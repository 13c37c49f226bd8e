package therapy

import "github.com/clinicore/clinicore/internal/domain/patient"

// ToggleCompleted flips a session status between completed and pending. A
// missed session goes straight to completed, not back through pending: each
// toggle only swaps between its own target state and pending.
func ToggleCompleted(status string) string {
	if status == patient.SessionCompleted {
		return patient.SessionPending
	}
	return patient.SessionCompleted
}

// ToggleMissed flips a session status between missed and pending, with the
// same direct transition from completed to missed.
func ToggleMissed(status string) string {
	if status == patient.SessionMissed {
		return patient.SessionPending
	}
	return patient.SessionMissed
}
