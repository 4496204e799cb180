package postgresql

import (
	"context"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

var accessLabelFlags = []string{
	"isemployeecreate", "isemployeeupdate", "isemployeeread", "isemployeedelete",
	"isprojectcreate", "isprojectupdate", "isprojectread", "isprojectdelete",
	"iscompetencycreate", "iscompetencyread", "iscompetencyupdate", "iscompetencydelete",
	"ispracticecreate", "ispracticeread", "ispracticeupdate", "ispracticedelete",
	"iscsvupload", "isprofileupdate",
}

var accessLabelColumns = selectList([]string{"id", "employee_id"}, accessLabelFlags, nil, nil, nil)

func accessLabelValues(a *models.AccessLabel) []any {
	return []any{
		a.IsEmployeeCreate, a.IsEmployeeUpdate, a.IsEmployeeRead, a.IsEmployeeDelete,
		a.IsProjectCreate, a.IsProjectUpdate, a.IsProjectRead, a.IsProjectDelete,
		a.IsCompetencyCreate, a.IsCompetencyRead, a.IsCompetencyUpdate, a.IsCompetencyDelete,
		a.IsPracticeCreate, a.IsPracticeRead, a.IsPracticeUpdate, a.IsPracticeDelete,
		a.IsCsvUpload, a.IsProfileUpdate,
	}
}

type accessLabelStore struct {
	q dbmanager.Querier
}

func (s *accessLabelStore) CreateAccessLabel(ctx context.Context, a *models.AccessLabel) apperrors.Error {
	if a.EmployeeID == "" {
		return dberror.ErrInvalidInput.Msg("employee_id is required")
	}
	query := `
		INSERT INTO access_label (employee_id, isemployeecreate, isemployeeupdate, isemployeeread, isemployeedelete,
			isprojectcreate, isprojectupdate, isprojectread, isprojectdelete,
			iscompetencycreate, iscompetencyread, iscompetencyupdate, iscompetencydelete,
			ispracticecreate, ispracticeread, ispracticeupdate, ispracticedelete,
			iscsvupload, isprofileupdate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + accessLabelColumns
	args := append([]any{a.EmployeeID}, accessLabelValues(a)...)
	return s.q.Get(ctx, a, query, args...)
}

func (s *accessLabelStore) GetAccessLabelByEmployee(ctx context.Context, employeeID string) (*models.AccessLabel, apperrors.Error) {
	query := `SELECT ` + accessLabelColumns + ` FROM access_label WHERE employee_id = $1`
	a := &models.AccessLabel{}
	if err := s.q.Get(ctx, a, query, employeeID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *accessLabelStore) UpdateAccessLabel(ctx context.Context, a *models.AccessLabel) apperrors.Error {
	query := `
		UPDATE access_label
		SET isemployeecreate = $1, isemployeeupdate = $2, isemployeeread = $3, isemployeedelete = $4,
			isprojectcreate = $5, isprojectupdate = $6, isprojectread = $7, isprojectdelete = $8,
			iscompetencycreate = $9, iscompetencyread = $10, iscompetencyupdate = $11, iscompetencydelete = $12,
			ispracticecreate = $13, ispracticeread = $14, ispracticeupdate = $15, ispracticedelete = $16,
			iscsvupload = $17, isprofileupdate = $18
		WHERE employee_id = $19
		RETURNING ` + accessLabelColumns
	args := append(accessLabelValues(a), a.EmployeeID)
	return s.q.Get(ctx, a, query, args...)
}
