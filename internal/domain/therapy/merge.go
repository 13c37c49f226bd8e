package therapy

import (
	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/platform/suggest"
)

// CloneSessions copies sessions with fresh identifiers and pending status,
// used by copy-previous-day so the new day starts unrecorded.
func CloneSessions(sessions []*patient.TherapySession, idgen patient.IDGenerator) []*patient.TherapySession {
	clones := make([]*patient.TherapySession, 0, len(sessions))
	for _, s := range sessions {
		clones = append(clones, &patient.TherapySession{
			ID:              idgen.NewID(),
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Notes:           s.Notes,
			Status:          patient.SessionPending,
		})
	}
	return clones
}

// MergeSuggestions reconciles weekday-keyed suggestions with the existing
// plans across the calendar. A date with no plan gets a new one holding the
// suggested sessions; a date whose plan already contains any suggested
// therapy name is skipped entirely; otherwise the suggestions are appended.
// Returns the plans that changed (to be persisted) and the number of
// sessions added.
func MergeSuggestions(patientID uuid.UUID, calendar []string, plansByDate map[string]*patient.DailyPlan,
	suggestions []suggest.WeekdayPlan, idgen patient.IDGenerator) ([]*patient.DailyPlan, int) {

	byWeekday := make(map[string][]suggest.SessionSuggestion, len(suggestions))
	for _, wp := range suggestions {
		byWeekday[wp.Weekday] = append(byWeekday[wp.Weekday], wp.Sessions...)
	}

	var changed []*patient.DailyPlan
	added := 0
	for _, date := range calendar {
		proposed, ok := byWeekday[patient.WeekdayOf(date)]
		if !ok || len(proposed) == 0 {
			continue
		}

		plan := plansByDate[date]
		if plan != nil && anyNamePresent(plan, proposed) {
			continue
		}
		if plan == nil {
			plan = &patient.DailyPlan{
				ID:        idgen.NewID(),
				PatientID: patientID,
				Date:      date,
				Sessions:  []*patient.TherapySession{},
			}
		}
		for _, sug := range proposed {
			plan.Sessions = append(plan.Sessions, &patient.TherapySession{
				ID:              idgen.NewID(),
				Name:            sug.Name,
				DurationMinutes: sug.DurationMinutes,
				Notes:           sug.Notes,
				Status:          patient.SessionPending,
			})
			added++
		}
		changed = append(changed, plan)
	}
	return changed, added
}

func anyNamePresent(plan *patient.DailyPlan, proposed []suggest.SessionSuggestion) bool {
	for _, sug := range proposed {
		if plan.HasTherapyName(sug.Name) {
			return true
		}
	}
	return false
}
