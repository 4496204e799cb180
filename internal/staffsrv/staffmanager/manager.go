// Package staffmanager implements the workforce operations. Each call
// resolves the tenant, opens a session on the tenant database and composes
// the response from the tenant stores.
package staffmanager

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/tenantdirectory"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

// Result is the envelope every operation returns.
type Result struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type TenantResolver interface {
	Resolve(ctx context.Context, tenantCode string) (*tenantdirectory.Identity, apperrors.Error)
}

type Config struct {
	Directory    TenantResolver
	Stores       db.StoreProvider
	ControlPlane db.ControlPlaneStore
	Hasher       staffcommon.PasswordHasher
	// EnrichConcurrency bounds the projects enriched in parallel.
	EnrichConcurrency int
}

type Manager struct {
	dir               TenantResolver
	stores            db.StoreProvider
	controlPlane      db.ControlPlaneStore
	hasher            staffcommon.PasswordHasher
	enrichConcurrency int
}

const defaultEnrichConcurrency = 4

func New(c Config) *Manager {
	m := &Manager{
		dir:               c.Directory,
		stores:            c.Stores,
		controlPlane:      c.ControlPlane,
		hasher:            c.Hasher,
		enrichConcurrency: c.EnrichConcurrency,
	}
	if m.hasher == nil {
		m.hasher = staffcommon.NewBcryptHasher(0)
	}
	if m.enrichConcurrency <= 0 {
		m.enrichConcurrency = defaultEnrichConcurrency
	}
	return m
}

// open resolves tenantCode and returns a session on its database.
func (m *Manager) open(ctx context.Context, tenantCode string) (*tenantdirectory.Identity, db.TenantSession, apperrors.Error) {
	identity, err := m.dir.Resolve(ctx, tenantCode)
	if err != nil {
		return nil, nil, err
	}
	return identity, m.stores.Open(identity.Conn), nil
}

func (m *Manager) hash(ctx context.Context, plaintext string) (string, apperrors.Error) {
	digest, err := m.hasher.Hash(plaintext)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to hash password")
		return "", ErrPasswordHash.Err(err)
	}
	return digest, nil
}

// notFound replaces a store miss with kind. Other errors pass through.
func notFound(err apperrors.Error, kind apperrors.Error) apperrors.Error {
	if errors.Is(err, dberror.ErrNotFound) {
		return kind
	}
	return err
}
