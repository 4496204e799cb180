package postgresql

import (
	"context"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

var projectColumns = selectList(
	[]string{"id", "title", "timeline", "description", "status", "duration", "file"},
	nil,
	nil,
	[]string{"created_at", "updated_at"},
	[]string{"start_date", "end_date"},
)

type projectStore struct {
	q dbmanager.Querier
}

func (s *projectStore) ListProjects(ctx context.Context) ([]models.Project, apperrors.Error) {
	query := `SELECT ` + projectColumns + ` FROM project ORDER BY created_at`
	var projects []models.Project
	if err := s.q.Select(ctx, &projects, query); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *projectStore) GetProject(ctx context.Context, id string) (*models.Project, apperrors.Error) {
	query := `SELECT ` + projectColumns + ` FROM project WHERE id = $1`
	p := &models.Project{}
	if err := s.q.Get(ctx, p, query, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectStore) FindProjectsByTitle(ctx context.Context, title string) ([]models.Project, apperrors.Error) {
	query := `SELECT ` + projectColumns + ` FROM project WHERE title = $1`
	var projects []models.Project
	if err := s.q.Select(ctx, &projects, query, title); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *projectStore) CreateProject(ctx context.Context, p *models.Project) apperrors.Error {
	if err := p.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	query := `
		INSERT INTO project (title, timeline, description, status, start_date, end_date, duration, file, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`
	_, err := s.q.Exec(ctx, query,
		p.Title, p.Timeline, p.Description, p.Status, p.StartDate, p.EndDate, p.Duration, p.File)
	return err
}

func (s *projectStore) UpdateProject(ctx context.Context, p *models.Project) apperrors.Error {
	if err := p.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	query := `
		UPDATE project
		SET
			title = $1,
			timeline = $2,
			description = $3,
			status = $4,
			start_date = $5,
			end_date = $6,
			duration = $7,
			file = COALESCE(NULLIF($8, ''), file),
			updated_at = NOW()
		WHERE id = $9`
	n, err := s.q.Exec(ctx, query,
		p.Title, p.Timeline, p.Description, p.Status, p.StartDate, p.EndDate, p.Duration, p.File, p.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg("project not found")
	}
	return nil
}

func (s *projectStore) DeleteProject(ctx context.Context, id string) apperrors.Error {
	query := `DELETE FROM project WHERE id = $1`
	n, err := s.q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg("project not found")
	}
	return nil
}
