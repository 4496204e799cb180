package staffmanager

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

const (
	competencyCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	competencyCodeLength   = 8
)

func newCompetencyCode() (string, apperrors.Error) {
	code, err := gonanoid.Generate(competencyCodeAlphabet, competencyCodeLength)
	if err != nil {
		return "", ErrStaffError.Msg("unable to generate competency code").Err(err)
	}
	return code, nil
}

// CreateCompetency adds a studio. Names are unique per tenant and a code is
// generated when none is given.
func (m *Manager) CreateCompetency(ctx context.Context, tenantCode string, c *models.Competency) (*Result, apperrors.Error) {
	if err := c.Validate(); err != nil {
		return nil, ErrInvalidInput.Err(err)
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	stores := session.Stores()
	existing, err := stores.Competencies.FindCompetenciesByName(ctx, c.CompetencyName)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrDuplicateCompetencyName
	}
	if c.CompetencyCode == "" {
		if c.CompetencyCode, err = newCompetencyCode(); err != nil {
			return nil, err
		}
	}
	if err := stores.Competencies.CreateCompetency(ctx, c); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("competency", c.CompetencyName).Str("code", c.CompetencyCode).Msg("competency created")
	return &Result{Message: "Competency created successfully.", Data: c}, nil
}

func (m *Manager) ListCompetencies(ctx context.Context, tenantCode string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	competencies, err := session.Stores().Competencies.ListCompetencies(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "Retrieved all competencies successfully.", Data: nonNil(competencies)}, nil
}

func (m *Manager) GetCompetency(ctx context.Context, tenantCode, id string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	c, err := session.Stores().Competencies.GetCompetency(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCompetencyNotFound)
	}
	return &Result{Message: "Competency retrieved successfully.", Data: c}, nil
}

func (m *Manager) CheckCompetencyName(ctx context.Context, tenantCode, name string) (*Result, apperrors.Error) {
	if err := requireValue(name, "competency_name"); err != nil {
		return nil, err
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	found, err := session.Stores().Competencies.FindCompetenciesByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return &Result{Message: "Competency with this name already exist", Data: found[0]}, nil
	}
	return &Result{Message: "Competency can be created with this name"}, nil
}

func (m *Manager) UpdateCompetency(ctx context.Context, tenantCode, id string, c *models.Competency) (*Result, apperrors.Error) {
	if err := c.Validate(); err != nil {
		return nil, ErrInvalidInput.Err(err)
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	stores := session.Stores()
	existing, err := stores.Competencies.FindCompetenciesByName(ctx, c.CompetencyName)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.ID != id {
			return nil, ErrDuplicateCompetencyName
		}
	}
	c.ID = id
	if err := stores.Competencies.UpdateCompetency(ctx, c); err != nil {
		return nil, notFound(err, ErrCompetencyNotFound)
	}
	return &Result{Message: "Competency updated successfully.", Data: c}, nil
}

func (m *Manager) DeleteCompetency(ctx context.Context, tenantCode, id string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	if err := session.Stores().Competencies.DeleteCompetency(ctx, id); err != nil {
		return nil, notFound(err, ErrCompetencyNotFound)
	}
	return &Result{Message: "Competency deleted successfully."}, nil
}
