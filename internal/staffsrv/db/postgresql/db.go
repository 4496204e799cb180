// Package postgresql implements the workforce stores on PostgreSQL.
package postgresql

import (
	"context"
	"strings"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
)

type storeProvider struct {
	gw dbmanager.Gateway
}

// NewStoreProvider returns a provider that reaches tenant databases through gw.
func NewStoreProvider(gw dbmanager.Gateway) db.StoreProvider {
	return &storeProvider{gw: gw}
}

func (p *storeProvider) Open(conn config.DBConnConfig) db.TenantSession {
	return &tenantSession{tdb: p.gw.Tenant(conn)}
}

type tenantSession struct {
	tdb dbmanager.TenantDB
}

func (s *tenantSession) Database() string {
	return s.tdb.Database()
}

func (s *tenantSession) Stores() db.TenantStores {
	return newTenantStores(s.tdb)
}

func (s *tenantSession) RunInTx(ctx context.Context, fn func(ctx context.Context, s db.TenantStores) apperrors.Error) apperrors.Error {
	return s.tdb.RunInTx(ctx, func(ctx context.Context, q dbmanager.Querier) apperrors.Error {
		return fn(ctx, newTenantStores(q))
	})
}

func newTenantStores(q dbmanager.Querier) db.TenantStores {
	return db.TenantStores{
		Employees:    &employeeStore{q: q},
		Projects:     &projectStore{q: q},
		Memberships:  &membershipStore{q: q},
		Competencies: &competencyStore{q: q},
		AccessLabels: &accessLabelStore{q: q},
		Designations: &designationStore{q: q},
	}
}

// EscapeLikePrefix escapes the ILIKE wildcards in s so it matches literally
// when used as "col ILIKE $1 || '%'".
func EscapeLikePrefix(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// nullIfEmpty binds an empty string as SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// selectList renders a column list that coalesces NULLs to zero values.
// Text columns are cast so integer and uuid keys scan into strings.
func selectList(text, boolean, number, timestamp, raw []string) string {
	cols := make([]string, 0, len(text)+len(boolean)+len(number)+len(timestamp)+len(raw))
	for _, c := range text {
		cols = append(cols, "COALESCE("+c+"::text, '') AS "+c)
	}
	for _, c := range boolean {
		cols = append(cols, "COALESCE("+c+", false) AS "+c)
	}
	for _, c := range number {
		cols = append(cols, "COALESCE("+c+", 0) AS "+c)
	}
	for _, c := range timestamp {
		cols = append(cols, "COALESCE("+c+", to_timestamp(0)) AS "+c)
	}
	cols = append(cols, raw...)
	return strings.Join(cols, ", ")
}
