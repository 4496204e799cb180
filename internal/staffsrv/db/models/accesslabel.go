package models

// AccessLabel is the per employee permission record. The flags are stored
// and returned as is.
type AccessLabel struct {
	ID                 string `db:"id" json:"id"`
	EmployeeID         string `db:"employee_id" json:"employee_id"`
	IsEmployeeCreate   bool   `db:"isemployeecreate" json:"isemployeecreate"`
	IsEmployeeUpdate   bool   `db:"isemployeeupdate" json:"isemployeeupdate"`
	IsEmployeeRead     bool   `db:"isemployeeread" json:"isemployeeread"`
	IsEmployeeDelete   bool   `db:"isemployeedelete" json:"isemployeedelete"`
	IsProjectCreate    bool   `db:"isprojectcreate" json:"isprojectcreate"`
	IsProjectUpdate    bool   `db:"isprojectupdate" json:"isprojectupdate"`
	IsProjectRead      bool   `db:"isprojectread" json:"isprojectread"`
	IsProjectDelete    bool   `db:"isprojectdelete" json:"isprojectdelete"`
	IsCompetencyCreate bool   `db:"iscompetencycreate" json:"iscompetencycreate"`
	IsCompetencyRead   bool   `db:"iscompetencyread" json:"iscompetencyread"`
	IsCompetencyUpdate bool   `db:"iscompetencyupdate" json:"iscompetencyupdate"`
	IsCompetencyDelete bool   `db:"iscompetencydelete" json:"iscompetencydelete"`
	IsPracticeCreate   bool   `db:"ispracticecreate" json:"ispracticecreate"`
	IsPracticeRead     bool   `db:"ispracticeread" json:"ispracticeread"`
	IsPracticeUpdate   bool   `db:"ispracticeupdate" json:"ispracticeupdate"`
	IsPracticeDelete   bool   `db:"ispracticedelete" json:"ispracticedelete"`
	IsCsvUpload        bool   `db:"iscsvupload" json:"iscsvupload"`
	IsProfileUpdate    bool   `db:"isprofileupdate" json:"isprofileupdate"`
}

// DefaultAccessLabel is the policy given to a new employee: read only on
// every entity plus profile updates.
func DefaultAccessLabel(employeeID string) *AccessLabel {
	return &AccessLabel{
		EmployeeID:       employeeID,
		IsEmployeeRead:   true,
		IsProjectRead:    true,
		IsCompetencyRead: true,
		IsPracticeRead:   true,
		IsProfileUpdate:  true,
	}
}
