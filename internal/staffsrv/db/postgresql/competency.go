package postgresql

import (
	"context"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

var competencyColumns = selectList(
	[]string{"id", "competency_name", "competency_code", "competency_admin_email", "status",
		"competency_head", "description", "image"},
	nil,
	[]string{"total_project", "total_employee"},
	nil,
	nil,
)

type competencyStore struct {
	q dbmanager.Querier
}

func (s *competencyStore) ListCompetencies(ctx context.Context) ([]models.Competency, apperrors.Error) {
	query := `SELECT ` + competencyColumns + ` FROM competency ORDER BY competency_name`
	var competencies []models.Competency
	if err := s.q.Select(ctx, &competencies, query); err != nil {
		return nil, err
	}
	return competencies, nil
}

func (s *competencyStore) GetCompetency(ctx context.Context, id string) (*models.Competency, apperrors.Error) {
	query := `SELECT ` + competencyColumns + ` FROM competency WHERE id = $1`
	c := &models.Competency{}
	if err := s.q.Get(ctx, c, query, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *competencyStore) FindCompetenciesByName(ctx context.Context, name string) ([]models.Competency, apperrors.Error) {
	query := `SELECT ` + competencyColumns + ` FROM competency WHERE competency_name = $1`
	var competencies []models.Competency
	if err := s.q.Select(ctx, &competencies, query, name); err != nil {
		return nil, err
	}
	return competencies, nil
}

func (s *competencyStore) CreateCompetency(ctx context.Context, c *models.Competency) apperrors.Error {
	if err := c.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	query := `
		INSERT INTO competency (competency_name, competency_code, competency_admin_email, status, total_project,
			total_employee, competency_head, description, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + competencyColumns
	return s.q.Get(ctx, c, query,
		c.CompetencyName, c.CompetencyCode, c.CompetencyAdminEmail, c.Status, c.TotalProject,
		c.TotalEmployee, nullIfEmpty(c.CompetencyHead), c.Description, nullIfEmpty(c.Image))
}

func (s *competencyStore) UpdateCompetency(ctx context.Context, c *models.Competency) apperrors.Error {
	if err := c.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	query := `
		UPDATE competency
		SET
			competency_name = $1,
			competency_code = $2,
			competency_admin_email = $3,
			status = $4,
			total_project = $5,
			total_employee = $6,
			competency_head = $7,
			description = $8,
			image = $9
		WHERE id = $10
		RETURNING ` + competencyColumns
	return s.q.Get(ctx, c, query,
		c.CompetencyName, c.CompetencyCode, c.CompetencyAdminEmail, c.Status, c.TotalProject,
		c.TotalEmployee, nullIfEmpty(c.CompetencyHead), c.Description, nullIfEmpty(c.Image), c.ID)
}

func (s *competencyStore) UpdateCompetencyHeadByName(ctx context.Context, name, head string) apperrors.Error {
	query := `UPDATE competency SET competency_head = $1 WHERE competency_name = $2`
	n, err := s.q.Exec(ctx, query, head, name)
	if err != nil {
		return err
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg("competency not found")
	}
	return nil
}

func (s *competencyStore) DeleteCompetency(ctx context.Context, id string) apperrors.Error {
	query := `DELETE FROM competency WHERE id = $1`
	n, err := s.q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg("competency not found")
	}
	return nil
}
