package therapy

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/platform/db"
	"github.com/clinicore/clinicore/internal/platform/suggest"
)

// PatientRepository loads the patient aggregate with its plans and order.
type PatientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type PlanRepository interface {
	FindPlan(ctx context.Context, patientID uuid.UUID, date string) (*patient.DailyPlan, error)
	ListPlans(ctx context.Context, patientID uuid.UUID) ([]*patient.DailyPlan, error)
	SavePlan(ctx context.Context, plan *patient.DailyPlan) error
}

// Suggester produces weekday-keyed session proposals for a clinical
// condition. An empty result is a normal outcome, not an error.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) ([]suggest.WeekdayPlan, error)
}

// SessionInput carries the caller-settable fields for a new session.
type SessionInput struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

// SessionUpdate is a partial update; nil fields are left untouched.
type SessionUpdate struct {
	Name            *string `json:"name"`
	DurationMinutes *int    `json:"duration_minutes"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
}

type Service struct {
	patients        PatientRepository
	plans           PlanRepository
	suggester       Suggester
	idgen           patient.IDGenerator
	tx              db.TxRunner
	maxCalendarDays int
}

func NewService(patients PatientRepository, plans PlanRepository, suggester Suggester,
	idgen patient.IDGenerator, tx db.TxRunner, maxCalendarDays int) *Service {
	if maxCalendarDays <= 0 {
		maxCalendarDays = DefaultMaxCalendarDays
	}
	return &Service{
		patients:        patients,
		plans:           plans,
		suggester:       suggester,
		idgen:           idgen,
		tx:              tx,
		maxCalendarDays: maxCalendarDays,
	}
}

// Calendar expands the patient's treatment range into its day keys.
func (s *Service) Calendar(ctx context.Context, patientID uuid.UUID) ([]string, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return ExpandRange(p.StartDate, p.EndDate, s.maxCalendarDays), nil
}

func (s *Service) ListPlans(ctx context.Context, patientID uuid.UUID) ([]*patient.DailyPlan, error) {
	return s.plans.ListPlans(ctx, patientID)
}

// FindPlan returns the plan for a date, or nil when none exists.
func (s *Service) FindPlan(ctx context.Context, patientID uuid.UUID, date string) (*patient.DailyPlan, error) {
	if !patient.ValidDateKey(date) {
		return nil, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return s.plans.FindPlan(ctx, patientID, date)
}

// UpsertSessions appends the given sessions to the date's plan, creating the
// plan when absent. Existing sessions are never removed.
func (s *Service) UpsertSessions(ctx context.Context, patientID uuid.UUID, date string, inputs []SessionInput) (*patient.DailyPlan, error) {
	if err := validateInputs(date, inputs); err != nil {
		return nil, err
	}
	plan, err := s.plans.FindPlan(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		plan = s.newPlan(patientID, date)
	}
	plan.Sessions = append(plan.Sessions, s.buildSessions(inputs)...)
	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ReplaceSessions overwrites the full session list for the date's plan,
// creating the plan when absent.
func (s *Service) ReplaceSessions(ctx context.Context, patientID uuid.UUID, date string, inputs []SessionInput) (*patient.DailyPlan, error) {
	if err := validateInputs(date, inputs); err != nil {
		return nil, err
	}
	plan, err := s.plans.FindPlan(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		plan = s.newPlan(patientID, date)
	}
	plan.Sessions = s.buildSessions(inputs)
	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdateSession applies a partial update to one session. A missing plan or
// session is a benign no-op returning nil: the caller may be racing a
// deletion and absence is not exceptional.
func (s *Service) UpdateSession(ctx context.Context, patientID uuid.UUID, date string, sessionID uuid.UUID, upd SessionUpdate) (*patient.DailyPlan, error) {
	if !patient.ValidDateKey(date) {
		return nil, fmt.Errorf("date must be YYYY-MM-DD")
	}
	if upd.DurationMinutes != nil && *upd.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration_minutes must be positive")
	}
	if upd.Status != nil && !patient.ValidSessionStatus(*upd.Status) {
		return nil, fmt.Errorf("invalid session status: %s", *upd.Status)
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	plan, err := s.plans.FindPlan(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	session := plan.FindSession(sessionID)
	if session == nil {
		return nil, nil
	}

	if upd.Name != nil {
		session.Name = *upd.Name
	}
	if upd.DurationMinutes != nil {
		session.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Notes != nil {
		session.Notes = *upd.Notes
	}
	if upd.Status != nil {
		session.Status = *upd.Status
	}
	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeleteSession removes a session from the date's plan. The plan persists
// even when it becomes empty. Missing plan or session is a benign no-op.
func (s *Service) DeleteSession(ctx context.Context, patientID uuid.UUID, date string, sessionID uuid.UUID) (*patient.DailyPlan, error) {
	if !patient.ValidDateKey(date) {
		return nil, fmt.Errorf("date must be YYYY-MM-DD")
	}
	plan, err := s.plans.FindPlan(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.FindSession(sessionID) == nil {
		return plan, nil
	}

	kept := plan.Sessions[:0]
	for _, sess := range plan.Sessions {
		if sess.ID != sessionID {
			kept = append(kept, sess)
		}
	}
	plan.Sessions = kept
	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ToggleCompleted flips a session between completed and pending. Missing
// plan or session is a benign no-op.
func (s *Service) ToggleCompleted(ctx context.Context, patientID uuid.UUID, date string, sessionID uuid.UUID) (*patient.TherapySession, error) {
	return s.toggle(ctx, patientID, date, sessionID, ToggleCompleted)
}

// ToggleMissed flips a session between missed and pending.
func (s *Service) ToggleMissed(ctx context.Context, patientID uuid.UUID, date string, sessionID uuid.UUID) (*patient.TherapySession, error) {
	return s.toggle(ctx, patientID, date, sessionID, ToggleMissed)
}

func (s *Service) toggle(ctx context.Context, patientID uuid.UUID, date string, sessionID uuid.UUID, flip func(string) string) (*patient.TherapySession, error) {
	if !patient.ValidDateKey(date) {
		return nil, fmt.Errorf("date must be YYYY-MM-DD")
	}
	plan, err := s.plans.FindPlan(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	session := plan.FindSession(sessionID)
	if session == nil {
		return nil, nil
	}
	session.Status = flip(session.Status)
	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return session, nil
}

// CopyPreviousDay clones the previous calendar day's sessions onto the given
// date, replacing whatever plan the date already holds. Clones get fresh ids
// and pending status. The first date of the range, a date outside the
// calendar, or a previous day without a plan all make this a no-op.
func (s *Service) CopyPreviousDay(ctx context.Context, patientID uuid.UUID, date string) (*patient.DailyPlan, error) {
	if !patient.ValidDateKey(date) {
		return nil, fmt.Errorf("date must be YYYY-MM-DD")
	}
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	calendar := ExpandRange(p.StartDate, p.EndDate, s.maxCalendarDays)
	prevDate := PreviousDate(calendar, date)
	if prevDate == "" {
		return nil, nil
	}

	prevPlan, err := s.plans.FindPlan(ctx, patientID, prevDate)
	if err != nil {
		return nil, err
	}
	if prevPlan == nil {
		return nil, nil
	}

	plan, err := s.plans.FindPlan(ctx, patientID, date)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		plan = s.newPlan(patientID, date)
	}
	plan.Sessions = CloneSessions(prevPlan.Sessions, s.idgen)
	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ApplySuggestions asks the suggestion service for weekday plans and merges
// them into the calendar. Returns how many sessions were added; zero with no
// error when the service had nothing to offer.
func (s *Service) ApplySuggestions(ctx context.Context, patientID uuid.UUID, weeks int) (int, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return 0, err
	}
	calendar := ExpandRange(p.StartDate, p.EndDate, s.maxCalendarDays)
	if len(calendar) == 0 {
		return 0, nil
	}
	if weeks <= 0 {
		weeks = (len(calendar) + 6) / 7
	}

	suggestions, err := s.suggester.Suggest(ctx, suggest.Request{
		Condition: p.ConditionText,
		Weeks:     weeks,
		Weekdays:  p.ScheduledWeekdays,
	})
	if err != nil {
		return 0, fmt.Errorf("requesting suggestions: %w", err)
	}
	if len(suggestions) == 0 {
		return 0, nil
	}

	plansByDate := make(map[string]*patient.DailyPlan, len(p.DailyPlans))
	for _, plan := range p.DailyPlans {
		plansByDate[plan.Date] = plan
	}

	changed, added := MergeSuggestions(patientID, calendar, plansByDate, suggestions, s.idgen)
	if len(changed) == 0 {
		return 0, nil
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		for _, plan := range changed {
			if err := s.plans.SavePlan(ctx, plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// Progress computes the patient's adherence percentage.
func (s *Service) Progress(ctx context.Context, patientID uuid.UUID) (int, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return 0, err
	}
	return Progress(p), nil
}

func (s *Service) newPlan(patientID uuid.UUID, date string) *patient.DailyPlan {
	return &patient.DailyPlan{
		ID:        s.idgen.NewID(),
		PatientID: patientID,
		Date:      date,
		Sessions:  []*patient.TherapySession{},
	}
}

func (s *Service) buildSessions(inputs []SessionInput) []*patient.TherapySession {
	sessions := make([]*patient.TherapySession, 0, len(inputs))
	for _, in := range inputs {
		sessions = append(sessions, &patient.TherapySession{
			ID:              s.idgen.NewID(),
			Name:            in.Name,
			DurationMinutes: in.DurationMinutes,
			Notes:           in.Notes,
			Status:          patient.SessionPending,
		})
	}
	return sessions
}

func (s *Service) savePlan(ctx context.Context, plan *patient.DailyPlan) error {
	return s.tx(ctx, func(ctx context.Context) error {
		return s.plans.SavePlan(ctx, plan)
	})
}

func validateInputs(date string, inputs []SessionInput) error {
	if !patient.ValidDateKey(date) {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	for _, in := range inputs {
		if in.Name == "" {
			return fmt.Errorf("session name is required")
		}
		if in.DurationMinutes <= 0 {
			return fmt.Errorf("duration_minutes must be positive")
		}
	}
	return nil
}
