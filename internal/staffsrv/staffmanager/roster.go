package staffmanager

import (
	"strings"

	"github.com/tidwall/gjson"
)

// TeamEntry is one roster line of a project payload.
type TeamEntry struct {
	EmployeeID         string  `json:"employee_id" validate:"required"`
	Role               string  `json:"role"`
	Billable           bool    `json:"billable"`
	BillablePercentage float64 `json:"billable_percentage"`
	Status             string  `json:"status"`
}

// ProjectTeam is the project roster. Clients send it either as a JSON list
// or as a string holding that list (multipart forms), so both are accepted.
// Scalars inside an entry are read loosely: ids may be numbers and flags may
// be strings.
type ProjectTeam []TeamEntry

func (t *ProjectTeam) UnmarshalJSON(b []byte) error {
	team, err := ParseProjectTeam(string(b))
	if err != nil {
		return err
	}
	*t = team
	return nil
}

// ParseProjectTeam parses a roster given as a JSON list or a JSON string
// that contains the list. null and "" yield an empty roster.
func ParseProjectTeam(raw string) (ProjectTeam, error) {
	if !gjson.Valid(raw) {
		return nil, ErrInvalidProjectTeam.Msg("project_team is not valid JSON")
	}
	r := gjson.Parse(raw)
	if r.Type == gjson.String {
		inner := strings.TrimSpace(r.Str)
		if inner == "" {
			return nil, nil
		}
		if !gjson.Valid(inner) {
			return nil, ErrInvalidProjectTeam.Msg("project_team is not valid JSON")
		}
		r = gjson.Parse(inner)
	}
	if r.Type == gjson.Null {
		return nil, nil
	}
	if !r.IsArray() {
		return nil, ErrInvalidProjectTeam.Msg("project_team must be a list")
	}
	var team ProjectTeam
	for _, item := range r.Array() {
		if !item.IsObject() {
			return nil, ErrInvalidProjectTeam.Msg("project_team entries must be objects")
		}
		team = append(team, TeamEntry{
			EmployeeID:         item.Get("employee_id").String(),
			Role:               item.Get("role").String(),
			Billable:           item.Get("billable").Bool(),
			BillablePercentage: item.Get("billable_percentage").Float(),
			Status:             item.Get("status").String(),
		})
	}
	return team, nil
}

// employeeIDs returns the distinct employee ids of the roster in order.
func (t ProjectTeam) employeeIDs() []string {
	seen := make(map[string]bool, len(t))
	var ids []string
	for _, entry := range t {
		if !seen[entry.EmployeeID] {
			seen[entry.EmployeeID] = true
			ids = append(ids, entry.EmployeeID)
		}
	}
	return ids
}
