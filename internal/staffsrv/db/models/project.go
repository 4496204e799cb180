package models

import (
	"time"

	"github.com/jackc/pgtype"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
)

/*
 Tenant database tables "project" and "project_employee".

 project_employee holds at most one row per (project_id, employee_id). The
 pair is kept unique by the application, not by a constraint.
*/

type Project struct {
	ID          string      `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Timeline    string      `db:"timeline" json:"timeline"`
	Description string      `db:"description" json:"description"`
	Status      string      `db:"status" json:"status"`
	StartDate   pgtype.Date `db:"start_date" json:"start_date"`
	EndDate     pgtype.Date `db:"end_date" json:"end_date"`
	Duration    string      `db:"duration" json:"duration"`
	File        string      `db:"file" json:"file"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

func (p *Project) Validate() error {
	if p.Title == "" {
		return dberror.ErrInvalidInput.Msg("title is required")
	}
	NormalizeDate(&p.StartDate)
	NormalizeDate(&p.EndDate)
	return nil
}

// NormalizeDate turns an unset date into SQL NULL. An undefined pgtype.Date
// can be neither encoded nor marshaled.
func NormalizeDate(d *pgtype.Date) {
	if d.Status == pgtype.Undefined {
		*d = pgtype.Date{Status: pgtype.Null}
	}
}

// DateAfter reports whether a is strictly later than b. Missing dates never
// compare as later.
func DateAfter(a, b pgtype.Date) bool {
	if a.Status != pgtype.Present || b.Status != pgtype.Present {
		return false
	}
	if a.InfinityModifier != b.InfinityModifier {
		return a.InfinityModifier > b.InfinityModifier
	}
	return a.Time.After(b.Time)
}

type ProjectEmployee struct {
	ID                 string    `db:"id" json:"id"`
	ProjectID          string    `db:"project_id" json:"project_id"`
	EmployeeID         string    `db:"employee_id" json:"employee_id"`
	Role               string    `db:"role" json:"role"`
	Billable           bool      `db:"billable" json:"billable"`
	BillablePercentage float64   `db:"billable_percentage" json:"billable_percentage"`
	Status             string    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

func (pe *ProjectEmployee) Validate() error {
	if pe.ProjectID == "" {
		return dberror.ErrInvalidInput.Msg("project_id is required")
	}
	if pe.EmployeeID == "" {
		return dberror.ErrInvalidInput.Msg("employee_id is required")
	}
	return nil
}
