package postgresql

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

const tenantColumns = `id::text AS id, tenant_code, tenant_name`

type controlPlaneStore struct {
	q dbmanager.Querier
}

// NewControlPlaneStore returns the tenant lookup backed by the control plane pool.
func NewControlPlaneStore(conn *sqlx.DB, database string) db.ControlPlaneStore {
	return &controlPlaneStore{q: dbmanager.NewDBQuerier(conn, database)}
}

func (s *controlPlaneStore) LookupTenantByCode(ctx context.Context, tenantCode string) (*models.Tenant, apperrors.Error) {
	query := `SELECT ` + tenantColumns + ` FROM tenant WHERE tenant_code = $1`
	t := &models.Tenant{}
	if err := s.q.Get(ctx, t, query, tenantCode); err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			log.Ctx(ctx).Info().Str("tenant_code", tenantCode).Msg("tenant not found")
		}
		return nil, err
	}
	return t, nil
}

func (s *controlPlaneStore) GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, apperrors.Error) {
	query := `SELECT ` + tenantColumns + ` FROM tenant WHERE id = $1`
	t := &models.Tenant{}
	if err := s.q.Get(ctx, t, query, tenantID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *controlPlaneStore) UpdateTenantPassword(ctx context.Context, tenantID string, passwordHash string) apperrors.Error {
	query := `UPDATE tenant SET password = $1 WHERE id = $2`
	n, err := s.q.Exec(ctx, query, passwordHash, tenantID)
	if err != nil {
		return err
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg("tenant not found")
	}
	return nil
}
