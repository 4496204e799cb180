package postgresql

import (
	"context"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

var membershipColumns = selectList(
	[]string{"id", "project_id", "employee_id", "role", "status"},
	[]string{"billable"},
	nil,
	[]string{"created_at", "updated_at"},
	[]string{"COALESCE(billable_percentage, 0)::float8 AS billable_percentage"},
)

type membershipStore struct {
	q dbmanager.Querier
}

func (s *membershipStore) CreateMembership(ctx context.Context, m *models.ProjectEmployee) apperrors.Error {
	if err := m.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	query := `
		INSERT INTO project_employee (project_id, employee_id, role, billable, billable_percentage, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + membershipColumns
	return s.q.Get(ctx, m, query,
		m.ProjectID, m.EmployeeID, m.Role, m.Billable, m.BillablePercentage, nullIfEmpty(m.Status))
}

func (s *membershipStore) ListMembershipsByProject(ctx context.Context, projectID string) ([]models.ProjectEmployee, apperrors.Error) {
	query := `SELECT ` + membershipColumns + ` FROM project_employee WHERE project_id = $1 ORDER BY created_at, id`
	var members []models.ProjectEmployee
	if err := s.q.Select(ctx, &members, query, projectID); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *membershipStore) GetMembership(ctx context.Context, projectID, employeeID string) (*models.ProjectEmployee, apperrors.Error) {
	query := `SELECT ` + membershipColumns + ` FROM project_employee WHERE project_id = $1 AND employee_id = $2`
	m := &models.ProjectEmployee{}
	if err := s.q.Get(ctx, m, query, projectID, employeeID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *membershipStore) UpdateMembership(ctx context.Context, m *models.ProjectEmployee) apperrors.Error {
	if err := m.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	query := `
		UPDATE project_employee
		SET role = $1, billable = $2, billable_percentage = $3, status = $4, updated_at = NOW()
		WHERE project_id = $5 AND employee_id = $6`
	n, err := s.q.Exec(ctx, query,
		m.Role, m.Billable, m.BillablePercentage, nullIfEmpty(m.Status), m.ProjectID, m.EmployeeID)
	if err != nil {
		return err
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg("project membership not found")
	}
	return nil
}
