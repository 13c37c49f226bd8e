package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, name, phone, age, gender, condition_text, service_type, status,
	start_date, end_date, registration_date, scheduled_weekdays, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.Age, &p.Gender, &p.ConditionText,
		&p.ServiceType, &p.Status, &p.StartDate, &p.EndDate, &p.RegistrationDate,
		&p.ScheduledWeekdays, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, name, phone, age, gender, condition_text, service_type,
			status, start_date, end_date, registration_date, scheduled_weekdays)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.Name, p.Phone, p.Age, p.Gender, p.ConditionText, p.ServiceType,
		p.Status, p.StartDate, p.EndDate, p.RegistrationDate, p.ScheduledWeekdays)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadPlans(ctx, p); err != nil {
		return nil, fmt.Errorf("loading plans for patient %s: %w", id, err)
	}
	if err := r.loadOrder(ctx, p); err != nil {
		return nil, fmt.Errorf("loading order for patient %s: %w", id, err)
	}
	return p, nil
}

func (r *repoPG) loadPlans(ctx context.Context, p *Patient) error {
	plans, err := listPlans(ctx, r.conn(ctx), p.ID)
	if err != nil {
		return err
	}
	p.DailyPlans = plans
	return nil
}

func (r *repoPG) loadOrder(ctx context.Context, p *Patient) error {
	o, err := getOrderByPatient(ctx, r.conn(ctx), p.ID)
	if err != nil {
		return err
	}
	p.XrayOrder = o
	return nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET name=$2, phone=$3, age=$4, gender=$5, condition_text=$6,
			service_type=$7, status=$8, start_date=$9, end_date=$10,
			scheduled_weekdays=$11, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Phone, p.Age, p.Gender, p.ConditionText,
		p.ServiceType, p.Status, p.StartDate, p.EndDate, p.ScheduledWeekdays)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	countSQL := `SELECT COUNT(*) FROM patient`
	listWhere := ``
	countArgs := []interface{}{}
	listArgs := []interface{}{limit, offset}
	if status != "" {
		countSQL += ` WHERE status = $1`
		listWhere = ` WHERE status = $3`
		countArgs = append(countArgs, status)
		listArgs = append(listArgs, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patient`+listWhere+`
		ORDER BY registration_date DESC, name LIMIT $1 OFFSET $2`, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

// =========== Plan Repository ===========

type planRepoPG struct{ pool *pgxpool.Pool }

func NewPlanRepoPG(pool *pgxpool.Pool) PlanRepository { return &planRepoPG{pool: pool} }

func (r *planRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *planRepoPG) FindPlan(ctx context.Context, patientID uuid.UUID, date string) (*DailyPlan, error) {
	var plan DailyPlan
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, date, created_at, updated_at
		FROM daily_plan WHERE patient_id = $1 AND date = $2`, patientID, date).
		Scan(&plan.ID, &plan.PatientID, &plan.Date, &plan.CreatedAt, &plan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sessions, err := listSessions(ctx, r.conn(ctx), []uuid.UUID{plan.ID})
	if err != nil {
		return nil, err
	}
	plan.Sessions = sessions[plan.ID]
	if plan.Sessions == nil {
		plan.Sessions = []*TherapySession{}
	}
	return &plan, nil
}

func (r *planRepoPG) ListPlans(ctx context.Context, patientID uuid.UUID) ([]*DailyPlan, error) {
	return listPlans(ctx, r.conn(ctx), patientID)
}

// SavePlan upserts the plan row and replaces its session set. Callers wrap it
// in a transaction via db.TxRunner so the row and its sessions land together.
func (r *planRepoPG) SavePlan(ctx context.Context, plan *DailyPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	conn := r.conn(ctx)
	_, err := conn.Exec(ctx, `
		INSERT INTO daily_plan (id, patient_id, date)
		VALUES ($1, $2, $3)
		ON CONFLICT (patient_id, date) DO UPDATE SET updated_at = NOW()`,
		plan.ID, plan.PatientID, plan.Date)
	if err != nil {
		return fmt.Errorf("upserting plan: %w", err)
	}

	// The upsert keeps the existing row id on conflict; re-read it so the
	// sessions attach to the right plan.
	if err := conn.QueryRow(ctx, `
		SELECT id FROM daily_plan WHERE patient_id = $1 AND date = $2`,
		plan.PatientID, plan.Date).Scan(&plan.ID); err != nil {
		return fmt.Errorf("resolving plan id: %w", err)
	}

	if _, err := conn.Exec(ctx, `DELETE FROM therapy_session WHERE plan_id = $1`, plan.ID); err != nil {
		return fmt.Errorf("clearing sessions: %w", err)
	}
	for _, s := range plan.Sessions {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.PlanID = plan.ID
		if _, err := conn.Exec(ctx, `
			INSERT INTO therapy_session (id, plan_id, name, duration_minutes, notes, status)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			s.ID, s.PlanID, s.Name, s.DurationMinutes, s.Notes, s.Status); err != nil {
			return fmt.Errorf("inserting session %s: %w", s.ID, err)
		}
	}
	return nil
}

func listPlans(ctx context.Context, conn db.Queryable, patientID uuid.UUID) ([]*DailyPlan, error) {
	rows, err := conn.Query(ctx, `
		SELECT id, patient_id, date, created_at, updated_at
		FROM daily_plan WHERE patient_id = $1 ORDER BY date`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*DailyPlan
	var planIDs []uuid.UUID
	for rows.Next() {
		var plan DailyPlan
		if err := rows.Scan(&plan.ID, &plan.PatientID, &plan.Date, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, err
		}
		plan.Sessions = []*TherapySession{}
		plans = append(plans, &plan)
		planIDs = append(planIDs, plan.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return plans, nil
	}

	sessions, err := listSessions(ctx, conn, planIDs)
	if err != nil {
		return nil, err
	}
	for _, plan := range plans {
		if s, ok := sessions[plan.ID]; ok {
			plan.Sessions = s
		}
	}
	return plans, nil
}

func listSessions(ctx context.Context, conn db.Queryable, planIDs []uuid.UUID) (map[uuid.UUID][]*TherapySession, error) {
	rows, err := conn.Query(ctx, `
		SELECT id, plan_id, name, duration_minutes, notes, status, created_at, updated_at
		FROM therapy_session WHERE plan_id = ANY($1) ORDER BY created_at, id`, planIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]*TherapySession)
	for rows.Next() {
		var s TherapySession
		if err := rows.Scan(&s.ID, &s.PlanID, &s.Name, &s.DurationMinutes, &s.Notes,
			&s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out[s.PlanID] = append(out[s.PlanID], &s)
	}
	return out, rows.Err()
}

// =========== Order Repository ===========

type orderRepoPG struct{ pool *pgxpool.Pool }

func NewOrderRepoPG(pool *pgxpool.Pool) OrderRepository { return &orderRepoPG{pool: pool} }

func (r *orderRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *orderRepoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*XrayOrder, error) {
	return getOrderByPatient(ctx, r.conn(ctx), patientID)
}

func (r *orderRepoPG) Save(ctx context.Context, o *XrayOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO xray_order (id, patient_id, issue_text, body_parts, status, order_date,
			image_reference, report_text, films_used, film_consumed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (patient_id) DO UPDATE SET
			issue_text = EXCLUDED.issue_text,
			body_parts = EXCLUDED.body_parts,
			status = EXCLUDED.status,
			image_reference = EXCLUDED.image_reference,
			report_text = EXCLUDED.report_text,
			films_used = EXCLUDED.films_used,
			film_consumed = EXCLUDED.film_consumed,
			updated_at = NOW()`,
		o.ID, o.PatientID, o.IssueText, o.BodyParts, o.Status, o.OrderDate,
		o.ImageReference, o.ReportText, o.FilmsUsed, o.FilmConsumed)
	return err
}

func getOrderByPatient(ctx context.Context, conn db.Queryable, patientID uuid.UUID) (*XrayOrder, error) {
	var o XrayOrder
	err := conn.QueryRow(ctx, `
		SELECT id, patient_id, issue_text, body_parts, status, order_date,
			image_reference, report_text, films_used, film_consumed, created_at, updated_at
		FROM xray_order WHERE patient_id = $1`, patientID).
		Scan(&o.ID, &o.PatientID, &o.IssueText, &o.BodyParts, &o.Status, &o.OrderDate,
			&o.ImageReference, &o.ReportText, &o.FilmsUsed, &o.FilmConsumed, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
