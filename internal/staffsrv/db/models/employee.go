package models

import (
	"time"

	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
)

/*
 Tenant database table "employee". Every column except id, password and the
 timestamps is nullable. Reads coalesce nulls to the zero value and never
 select the password column.
*/

type Employee struct {
	ID               string    `db:"id" json:"id"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	Designation      string    `db:"designation" json:"designation"`
	Role             string    `db:"role" json:"role"`
	Gender           string    `db:"gender" json:"gender"`
	Email            string    `db:"email" json:"email"`
	StudioName       string    `db:"studio_name" json:"studio_name"`
	ReportingManager string    `db:"reporting_manager" json:"reporting_manager"`
	CompetencyHead   bool      `db:"competency_head" json:"competency_head"`
	Status           string    `db:"status" json:"status"`
	TenantID         string    `db:"tenant_id" json:"tenant_id"`
	Image            string    `db:"image" json:"image"`
	Location         string    `db:"location" json:"location"`
	MaritalStatus    string    `db:"marital_status" json:"marital_status"`
	BloodGroup       string    `db:"blood_group" json:"blood_group"`
	PhyDisable       string    `db:"phy_disable" json:"phy_disable"`
	PanCard          string    `db:"pan_card" json:"pan_card"`
	AadhaarCard      string    `db:"aadhaar_card" json:"aadhaar_card"`
	UAN              string    `db:"uan" json:"uan"`
	PersonalEmail    string    `db:"personal_email" json:"personal_email"`
	Phone            string    `db:"phone" json:"phone"`
	Whatsapp         string    `db:"whatsapp" json:"whatsapp"`
	Wordpress        string    `db:"wordpress" json:"wordpress"`
	Github           string    `db:"github" json:"github"`
	Bitbuket         string    `db:"bitbuket" json:"bitbuket"`
	WorkPhone        string    `db:"work_phone" json:"work_phone"`
	Address          string    `db:"address" json:"address"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
)

func (e *Employee) Validate() error {
	if e.Email == "" {
		return dberror.ErrInvalidInput.Msg("email is required")
	}
	return nil
}
