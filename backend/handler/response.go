package handler

import (
	"strings"
	"time"

	"github.com/ozcotech/denklem/backend/model"
)

const dateLayout = "2006-01-02"

// CalculationResponse is the JSON form of a calculation result. Only IsValid
// is set for invalid results.
type CalculationResponse struct {
	IsValid          bool   `json:"is_valid"`
	Category         string `json:"category,omitempty"`
	TableKey         string `json:"table_key,omitempty"`
	DefaultApplied   bool   `json:"default_applied,omitempty"`
	WeekCount        int    `json:"week_count,omitempty"`
	Deadline         string `json:"deadline,omitempty"`
	ExtendedWeeks    int    `json:"extended_weeks,omitempty"`
	ExtendedDeadline string `json:"extended_deadline,omitempty"`
}

func newCalculationResponse(r model.CalculationResult) CalculationResponse {
	if !r.IsValid {
		return CalculationResponse{}
	}
	return CalculationResponse{
		IsValid:          true,
		Category:         string(r.Category),
		TableKey:         r.TableKey,
		DefaultApplied:   r.DefaultApplied,
		WeekCount:        r.WeekCount,
		Deadline:         r.Deadline.Format(dateLayout),
		ExtendedWeeks:    r.ExtendedWeeks,
		ExtendedDeadline: r.ExtendedDeadline.Format(dateLayout),
	}
}

// parseDate reads a YYYY-MM-DD date at midnight in loc. Unparseable input
// gives the zero time, which calculations report as invalid.
func parseDate(s string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
