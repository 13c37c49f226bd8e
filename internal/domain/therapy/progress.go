package therapy

import (
	"math"

	"github.com/clinicore/clinicore/internal/domain/patient"
)

// Progress computes a 0-100 adherence figure for the patient.
//
// X-ray patients get a staged milestone value from their order status.
// Physiotherapy patients get the rounded share of completed sessions across
// the plans falling on scheduled weekdays; an empty weekday set means every
// day counts. Zero relevant sessions yields 0.
func Progress(p *patient.Patient) int {
	if p.ServiceType == patient.ServiceXray {
		return orderProgress(p.XrayOrder)
	}

	scheduled := make(map[string]bool, len(p.ScheduledWeekdays))
	for _, d := range p.ScheduledWeekdays {
		scheduled[d] = true
	}

	total, completed := 0, 0
	for _, plan := range p.DailyPlans {
		if len(scheduled) > 0 && !scheduled[patient.WeekdayOf(plan.Date)] {
			continue
		}
		for _, s := range plan.Sessions {
			total++
			if s.Status == patient.SessionCompleted {
				completed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

func orderProgress(o *patient.XrayOrder) int {
	if o == nil {
		return 0
	}
	switch o.Status {
	case patient.OrderOrdered:
		return 10
	case patient.OrderCaptured:
		return 50
	case patient.OrderReported:
		return 100
	default:
		return 0
	}
}
