package therapy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/platform/suggest"
)

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() uuid.UUID {
	g.n++
	return uuid.NewMD5(uuid.NameSpaceOID, []byte{byte(g.n)})
}

func TestCloneSessions_FreshIDsPendingStatus(t *testing.T) {
	orig := []*patient.TherapySession{
		{ID: uuid.New(), Name: "Laser Therapy", DurationMinutes: 10, Notes: "low power", Status: patient.SessionCompleted},
		{ID: uuid.New(), Name: "Traction", DurationMinutes: 20, Status: patient.SessionMissed},
	}
	clones := CloneSessions(orig, &seqIDGen{})
	if len(clones) != 2 {
		t.Fatalf("got %d clones, want 2", len(clones))
	}
	for i, c := range clones {
		if c.ID == orig[i].ID {
			t.Errorf("clone %d kept the original id", i)
		}
		if c.Status != patient.SessionPending {
			t.Errorf("clone %d status = %s, want pending", i, c.Status)
		}
		if c.Name != orig[i].Name || c.DurationMinutes != orig[i].DurationMinutes || c.Notes != orig[i].Notes {
			t.Errorf("clone %d lost content fields", i)
		}
	}
}

func TestMergeSuggestions_CreatesPlanWhenAbsent(t *testing.T) {
	pid := uuid.New()
	cal := []string{"2024-01-01", "2024-01-02"} // Monday, Tuesday
	suggestions := []suggest.WeekdayPlan{
		{Weekday: "Monday", Sessions: []suggest.SessionSuggestion{
			{Name: "IFT Therapy", DurationMinutes: 15},
		}},
	}

	changed, added := MergeSuggestions(pid, cal, map[string]*patient.DailyPlan{}, suggestions, &seqIDGen{})
	if added != 1 || len(changed) != 1 {
		t.Fatalf("added=%d changed=%d, want 1/1", added, len(changed))
	}
	plan := changed[0]
	if plan.Date != "2024-01-01" || plan.PatientID != pid {
		t.Errorf("unexpected plan %+v", plan)
	}
	if len(plan.Sessions) != 1 || plan.Sessions[0].Status != patient.SessionPending {
		t.Errorf("unexpected sessions %+v", plan.Sessions)
	}
}

func TestMergeSuggestions_SkipsDateWithDuplicateName(t *testing.T) {
	pid := uuid.New()
	cal := []string{"2024-01-01"}
	existing := planWith("2024-01-01")
	existing.Sessions = append(existing.Sessions, &patient.TherapySession{
		ID: uuid.New(), Name: "Laser Therapy", DurationMinutes: 10, Status: patient.SessionPending,
	})

	// One suggested name already present: the whole date is skipped, even
	// though "IFT Therapy" is new.
	suggestions := []suggest.WeekdayPlan{
		{Weekday: "Monday", Sessions: []suggest.SessionSuggestion{
			{Name: "Laser Therapy", DurationMinutes: 10},
			{Name: "IFT Therapy", DurationMinutes: 15},
		}},
	}
	changed, added := MergeSuggestions(pid, cal, map[string]*patient.DailyPlan{"2024-01-01": existing}, suggestions, &seqIDGen{})
	if added != 0 || len(changed) != 0 {
		t.Errorf("added=%d changed=%d, want 0/0", added, len(changed))
	}
	if len(existing.Sessions) != 1 {
		t.Errorf("existing plan mutated: %d sessions", len(existing.Sessions))
	}
}

func TestMergeSuggestions_AppendsWhenNamesAllNew(t *testing.T) {
	pid := uuid.New()
	cal := []string{"2024-01-01"}
	existing := planWith("2024-01-01")
	existing.Sessions = append(existing.Sessions, &patient.TherapySession{
		ID: uuid.New(), Name: "Laser Therapy", DurationMinutes: 10, Status: patient.SessionCompleted,
	})

	suggestions := []suggest.WeekdayPlan{
		{Weekday: "Monday", Sessions: []suggest.SessionSuggestion{
			{Name: "IFT Therapy", DurationMinutes: 15},
		}},
	}
	changed, added := MergeSuggestions(pid, cal, map[string]*patient.DailyPlan{"2024-01-01": existing}, suggestions, &seqIDGen{})
	if added != 1 || len(changed) != 1 {
		t.Fatalf("added=%d changed=%d, want 1/1", added, len(changed))
	}
	if len(existing.Sessions) != 2 {
		t.Errorf("expected append to existing plan, got %d sessions", len(existing.Sessions))
	}
	if existing.Sessions[0].Status != patient.SessionCompleted {
		t.Error("append must not touch existing session state")
	}
}

func TestMergeSuggestions_DedupByNameAcrossReruns(t *testing.T) {
	pid := uuid.New()
	cal := []string{"2024-01-01"}
	plans := map[string]*patient.DailyPlan{}
	suggestions := []suggest.WeekdayPlan{
		{Weekday: "Monday", Sessions: []suggest.SessionSuggestion{
			{Name: "Shockwave Therapy", DurationMinutes: 15},
		}},
	}

	changed, added := MergeSuggestions(pid, cal, plans, suggestions, &seqIDGen{})
	if added != 1 {
		t.Fatalf("first run added %d, want 1", added)
	}
	plans[changed[0].Date] = changed[0]

	// Second run: same name already present, nothing added.
	_, added = MergeSuggestions(pid, cal, plans, suggestions, &seqIDGen{})
	if added != 0 {
		t.Errorf("second run added %d, want 0", added)
	}
}

func TestMergeSuggestions_EmptySuggestionsNoMutation(t *testing.T) {
	pid := uuid.New()
	cal := []string{"2024-01-01"}
	changed, added := MergeSuggestions(pid, cal, map[string]*patient.DailyPlan{}, nil, &seqIDGen{})
	if added != 0 || len(changed) != 0 {
		t.Errorf("added=%d changed=%d, want 0/0", added, len(changed))
	}
}

func TestMergeSuggestions_WeekdayMatchSpansWeeks(t *testing.T) {
	pid := uuid.New()
	// Two Mondays in range.
	cal := ExpandRange("2024-01-01", "2024-01-14", 0)
	suggestions := []suggest.WeekdayPlan{
		{Weekday: "Monday", Sessions: []suggest.SessionSuggestion{
			{Name: "Ultrasound Therapy", DurationMinutes: 10},
		}},
	}
	changed, added := MergeSuggestions(pid, cal, map[string]*patient.DailyPlan{}, suggestions, &seqIDGen{})
	if added != 2 || len(changed) != 2 {
		t.Fatalf("added=%d changed=%d, want 2/2", added, len(changed))
	}
	if changed[0].Date != "2024-01-01" || changed[1].Date != "2024-01-08" {
		t.Errorf("unexpected dates %s, %s", changed[0].Date, changed[1].Date)
	}
}
