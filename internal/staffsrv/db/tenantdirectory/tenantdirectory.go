// Package tenantdirectory resolves a tenant code to the database that holds
// the tenant's data.
package tenantdirectory

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
)

// Identity is a resolved tenant. Database is the tenant name, which doubles
// as the physical database name.
type Identity struct {
	TenantID   string
	TenantCode string
	TenantName string
	Database   string
	Conn       config.DBConnConfig
}

type Directory struct {
	lookup  db.ControlPlaneStore
	tenants map[string]config.DBConnConfig
}

var folder = cases.Fold()

// New builds a directory over the control plane and the configured tenant
// databases. Database names are matched case-insensitively.
func New(lookup db.ControlPlaneStore, tenants []config.DBConnConfig) *Directory {
	d := &Directory{
		lookup:  lookup,
		tenants: make(map[string]config.DBConnConfig, len(tenants)),
	}
	for _, t := range tenants {
		key := folder.String(t.Database)
		if _, ok := d.tenants[key]; !ok {
			d.tenants[key] = t
		}
	}
	return d
}

// Resolve reads the control plane on every call.
func (d *Directory) Resolve(ctx context.Context, tenantCode string) (*Identity, apperrors.Error) {
	if tenantCode == "" {
		return nil, dberror.ErrTenantNotFound
	}
	tenant, err := d.lookup.LookupTenantByCode(ctx, tenantCode)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			log.Ctx(ctx).Info().Str("tenant_code", tenantCode).Msg("tenant not found")
			return nil, dberror.ErrTenantNotFound
		}
		return nil, err
	}
	conn, ok := d.ConnFor(tenant.TenantName)
	if !ok {
		log.Ctx(ctx).Error().Str("tenant_code", tenantCode).Str("tenant_name", tenant.TenantName).
			Msg("no database configured for tenant")
		return nil, dberror.ErrTenantDatabaseConfigMissing
	}
	return &Identity{
		TenantID:   tenant.ID,
		TenantCode: tenant.TenantCode,
		TenantName: tenant.TenantName,
		Database:   conn.Database,
		Conn:       conn,
	}, nil
}

// ConnFor returns the configured connection for a tenant database name.
func (d *Directory) ConnFor(name string) (config.DBConnConfig, bool) {
	conn, ok := d.tenants[folder.String(name)]
	return conn, ok
}
