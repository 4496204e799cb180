package staffmanager

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

// competencyHeadYes marks a new employee as head of their studio.
const competencyHeadYes = "yes"

// NewEmployee is the payload of CreateEmployee. CompetencyHead shadows the
// stored flag and takes "yes" to promote the employee.
type NewEmployee struct {
	models.Employee
	Password       string `json:"password" validate:"required"`
	CompetencyHead string `json:"competency_head"`
}

// EmployeeView is a created employee together with its tenant.
type EmployeeView struct {
	models.Employee
	TenantCode string `json:"tenant_code"`
	TenantName string `json:"tenant_name"`
}

type ReportingUpdate struct {
	Email            string `json:"email"`
	StudioName       string `json:"studio_name"`
	ReportingManager string `json:"reporting_manager"`
}

type CompetencyHeadUpdate struct {
	CompetencyHead bool   `json:"competency_head"`
	StudioName     string `json:"studio_name"`
}

func (m *Manager) CreateEmployee(ctx context.Context, tenantCode string, in *NewEmployee) (*Result, apperrors.Error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := in.Employee.Validate(); err != nil {
		return nil, ErrInvalidInput.Err(err)
	}
	identity, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	stores := session.Stores()

	existing, err := stores.Employees.FindEmployeesByEmail(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &Result{Message: MsgDuplicateEmail}, nil
	}

	if in.StudioName != "" && in.CompetencyHead == competencyHeadYes {
		studios, err := stores.Competencies.FindCompetenciesByName(ctx, in.StudioName)
		if err != nil {
			return nil, err
		}
		if len(studios) > 0 {
			if err := stores.Competencies.UpdateCompetencyHeadByName(ctx, studios[0].CompetencyName, in.FirstName); err != nil {
				return nil, err
			}
		}
	}

	digest, err := m.hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}
	e := in.Employee
	e.TenantID = identity.TenantID
	if err := stores.Employees.CreateEmployee(ctx, &e, digest); err != nil {
		return nil, err
	}

	view := &EmployeeView{Employee: e, TenantCode: identity.TenantCode, TenantName: identity.TenantName}
	if err := stores.AccessLabels.CreateAccessLabel(ctx, models.DefaultAccessLabel(e.ID)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("employee_id", e.ID).Msg("failed to create access label")
		return &Result{Message: "User created successfully but access not given", Data: view}, nil
	}
	return &Result{Message: "User created successfully and data saved.", Data: view}, nil
}

func (m *Manager) ListEmployees(ctx context.Context, tenantCode string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	employees, err := session.Stores().Employees.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "Retrieved all employees successfully.", Data: nonNil(employees)}, nil
}

// GetEmployeeByID reports a missing employee in the message with nil data.
func (m *Manager) GetEmployeeByID(ctx context.Context, tenantCode, id string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	e, err := session.Stores().Employees.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return &Result{Message: "User not found."}, nil
		}
		return nil, err
	}
	return &Result{Message: "User retrieved successfully.", Data: e}, nil
}

func (m *Manager) FilterEmployeesByName(ctx context.Context, tenantCode, name string) (*Result, apperrors.Error) {
	if err := requireValue(name, "name"); err != nil {
		return nil, err
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	employees, err := session.Stores().Employees.FilterEmployeesByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "Users filtered successfully.", Data: nonNil(employees)}, nil
}

func (m *Manager) FilterEmployeesByLocation(ctx context.Context, tenantCode, location string) (*Result, apperrors.Error) {
	if err := requireValue(location, "location"); err != nil {
		return nil, err
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	employees, err := session.Stores().Employees.FilterEmployeesByLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "Users filtered successfully.", Data: nonNil(employees)}, nil
}

func (m *Manager) CheckEmployeeEmail(ctx context.Context, tenantCode, email string) (*Result, apperrors.Error) {
	if err := requireValue(email, "email"); err != nil {
		return nil, err
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	found, err := session.Stores().Employees.FindEmployeesByEmail(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return &Result{Message: "Employee with this email already exist", Data: found[0]}, nil
	}
	return &Result{Message: "Employee can be created with this email"}, nil
}

// UpdateEmployee replaces the profile of employee id. An email used by
// another employee leaves the record unchanged.
func (m *Manager) UpdateEmployee(ctx context.Context, tenantCode, id string, e *models.Employee) (*Result, apperrors.Error) {
	if err := e.Validate(); err != nil {
		return nil, ErrInvalidInput.Err(err)
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	stores := session.Stores()
	if dup, err := emailTaken(ctx, stores, e.Email, id); err != nil || dup {
		return duplicateEmail(err)
	}
	e.ID = id
	if err := stores.Employees.UpdateEmployee(ctx, e); err != nil {
		return nil, notFound(err, ErrEmployeeNotFound)
	}
	return &Result{Message: "User data updated successfully.", Data: e}, nil
}

func (m *Manager) UpdateCompetencyAndReporting(ctx context.Context, tenantCode, id string, in *ReportingUpdate) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	stores := session.Stores()
	if in.Email != "" {
		if dup, err := emailTaken(ctx, stores, in.Email, id); err != nil || dup {
			return duplicateEmail(err)
		}
	}
	e, err := stores.Employees.UpdateCompetencyAndReporting(ctx, id, in.StudioName, in.ReportingManager)
	if err != nil {
		return nil, notFound(err, ErrEmployeeNotFound)
	}
	return &Result{Message: "User data updated successfully.", Data: e}, nil
}

func (m *Manager) UpdateCompetencyHead(ctx context.Context, tenantCode, id string, in *CompetencyHeadUpdate) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	e, err := session.Stores().Employees.UpdateCompetencyHead(ctx, id, in.CompetencyHead, in.StudioName)
	if err != nil {
		return nil, notFound(err, ErrEmployeeNotFound)
	}
	return &Result{Message: "User data updated successfully with competency head.", Data: e}, nil
}

// DeleteEmployee marks the employee inactive. Rows are never removed.
func (m *Manager) DeleteEmployee(ctx context.Context, tenantCode, id string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	if err := session.Stores().Employees.SetEmployeeStatus(ctx, id, models.EmployeeStatusInactive); err != nil {
		return nil, notFound(err, ErrEmployeeNotFound)
	}
	return &Result{Message: "User deleted successfully."}, nil
}

// ListDesignations seeds the default designations when the table is empty.
func (m *Manager) ListDesignations(ctx context.Context, tenantCode string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	designations, err := session.Stores().Designations.ListDesignations(ctx)
	if err != nil {
		return nil, err
	}
	if len(designations) == 0 {
		err = session.RunInTx(ctx, func(ctx context.Context, s db.TenantStores) apperrors.Error {
			current, err := s.Designations.ListDesignations(ctx)
			if err != nil {
				return err
			}
			if len(current) > 0 {
				return nil
			}
			for _, title := range models.DefaultDesignations {
				if err := s.Designations.CreateDesignation(ctx, title); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		designations, err = session.Stores().Designations.ListDesignations(ctx)
		if err != nil {
			return nil, err
		}
	}
	return &Result{Message: "Retrieved all designation successfully.", Data: nonNil(designations)}, nil
}

// ResetPassword stores a new password digest for the caller. Admins are
// tenants and keep their password in the control plane.
func (m *Manager) ResetPassword(ctx context.Context, caller *staffcommon.Caller, password string) (*Result, apperrors.Error) {
	if caller == nil {
		return nil, ErrInvalidRole
	}
	if err := requireValue(password, "password"); err != nil {
		return nil, err
	}
	switch caller.Role {
	case staffcommon.RoleAdmin:
		tenant, err := m.controlPlane.GetTenantByID(ctx, caller.ID)
		if err != nil {
			return nil, notFound(err, dberror.ErrTenantNotFound)
		}
		digest, err := m.hash(ctx, password)
		if err != nil {
			return nil, err
		}
		if err := m.controlPlane.UpdateTenantPassword(ctx, tenant.ID, digest); err != nil {
			return nil, notFound(err, dberror.ErrTenantNotFound)
		}
	case staffcommon.RoleEmployee:
		_, session, err := m.open(ctx, caller.Code)
		if err != nil {
			return nil, err
		}
		employees := session.Stores().Employees
		if _, err := employees.GetEmployee(ctx, caller.ID); err != nil {
			return nil, notFound(err, ErrEmployeeNotFound.Msg("User not found. Unable to reset password"))
		}
		digest, err := m.hash(ctx, password)
		if err != nil {
			return nil, err
		}
		if err := employees.SetEmployeePassword(ctx, caller.ID, digest); err != nil {
			return nil, notFound(err, ErrEmployeeNotFound.Msg("User not found. Unable to reset password"))
		}
	default:
		return nil, ErrInvalidRole
	}
	log.Ctx(ctx).Info().Str("role", caller.Role).Str("id", caller.ID).Msg("password reset")
	return &Result{Message: "Password reset successfully."}, nil
}

func emailTaken(ctx context.Context, stores db.TenantStores, email, excludeID string) (bool, apperrors.Error) {
	found, err := stores.Employees.FindEmployeesByEmail(ctx, email, excludeID)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

func duplicateEmail(err apperrors.Error) (*Result, apperrors.Error) {
	if err != nil {
		return nil, err
	}
	return &Result{Message: MsgDuplicateEmail}, nil
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
