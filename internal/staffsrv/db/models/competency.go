package models

import "github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"

// Competency is a studio. CompetencyHead holds the first name of the head
// employee, not an id.
type Competency struct {
	ID                   string `db:"id" json:"id"`
	CompetencyName       string `db:"competency_name" json:"competency_name"`
	CompetencyCode       string `db:"competency_code" json:"competency_code"`
	CompetencyAdminEmail string `db:"competency_admin_email" json:"competency_admin_email"`
	Status               string `db:"status" json:"status"`
	TotalProject         int    `db:"total_project" json:"total_project"`
	TotalEmployee        int    `db:"total_employee" json:"total_employee"`
	CompetencyHead       string `db:"competency_head" json:"competency_head"`
	Description          string `db:"description" json:"description"`
	Image                string `db:"image" json:"image"`
}

func (c *Competency) Validate() error {
	if c.CompetencyName == "" {
		return dberror.ErrInvalidInput.Msg("competency_name is required")
	}
	return nil
}
