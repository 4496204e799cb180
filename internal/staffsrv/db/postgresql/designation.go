package postgresql

import (
	"context"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

var designationColumns = selectList([]string{"id", "title"}, nil, nil, []string{"created_at", "updated_at"}, nil)

type designationStore struct {
	q dbmanager.Querier
}

func (s *designationStore) ListDesignations(ctx context.Context) ([]models.Designation, apperrors.Error) {
	query := `SELECT ` + designationColumns + ` FROM designation ORDER BY id`
	var designations []models.Designation
	if err := s.q.Select(ctx, &designations, query); err != nil {
		return nil, err
	}
	return designations, nil
}

func (s *designationStore) CreateDesignation(ctx context.Context, title string) apperrors.Error {
	query := `INSERT INTO designation (title, created_at, updated_at) VALUES ($1, NOW(), NOW())`
	_, err := s.q.Exec(ctx, query, title)
	return err
}
