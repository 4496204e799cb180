// Package db defines the stores the workforce service uses. Every tenant
// store runs against exactly one tenant database; no statement spans two.
package db

import (
	"context"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

// ControlPlaneStore reads the shared tenant table.
type ControlPlaneStore interface {
	// LookupTenantByCode returns dberror.ErrNotFound when no tenant has the code.
	LookupTenantByCode(ctx context.Context, tenantCode string) (*models.Tenant, apperrors.Error)
	GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, apperrors.Error)
	UpdateTenantPassword(ctx context.Context, tenantID string, passwordHash string) apperrors.Error
}

type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]models.Employee, apperrors.Error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, apperrors.Error)
	// GetEmployeesByIDs fetches all ids in one statement. Unknown ids are skipped.
	GetEmployeesByIDs(ctx context.Context, ids []string) ([]models.Employee, apperrors.Error)
	// FindEmployeesByEmail returns employees with the email, other than excludeID.
	FindEmployeesByEmail(ctx context.Context, email string, excludeID string) ([]models.Employee, apperrors.Error)
	// FilterEmployeesByName matches first_name by case-insensitive prefix.
	FilterEmployeesByName(ctx context.Context, prefix string) ([]models.Employee, apperrors.Error)
	// FilterEmployeesByLocation matches location by case-insensitive prefix.
	FilterEmployeesByLocation(ctx context.Context, prefix string) ([]models.Employee, apperrors.Error)
	CreateEmployee(ctx context.Context, e *models.Employee, passwordHash string) apperrors.Error
	UpdateEmployee(ctx context.Context, e *models.Employee) apperrors.Error
	UpdateCompetencyAndReporting(ctx context.Context, id, studioName, reportingManager string) (*models.Employee, apperrors.Error)
	UpdateCompetencyHead(ctx context.Context, id string, head bool, studioName string) (*models.Employee, apperrors.Error)
	SetEmployeeStatus(ctx context.Context, id, status string) apperrors.Error
	SetEmployeePassword(ctx context.Context, id, passwordHash string) apperrors.Error
}

type ProjectStore interface {
	ListProjects(ctx context.Context) ([]models.Project, apperrors.Error)
	GetProject(ctx context.Context, id string) (*models.Project, apperrors.Error)
	// FindProjectsByTitle matches the title exactly.
	FindProjectsByTitle(ctx context.Context, title string) ([]models.Project, apperrors.Error)
	CreateProject(ctx context.Context, p *models.Project) apperrors.Error
	// UpdateProject keeps the stored file when p.File is empty.
	UpdateProject(ctx context.Context, p *models.Project) apperrors.Error
	DeleteProject(ctx context.Context, id string) apperrors.Error
}

// MembershipStore manages project_employee rows. Rows are addressed by the
// (project, employee) pair.
type MembershipStore interface {
	CreateMembership(ctx context.Context, m *models.ProjectEmployee) apperrors.Error
	ListMembershipsByProject(ctx context.Context, projectID string) ([]models.ProjectEmployee, apperrors.Error)
	GetMembership(ctx context.Context, projectID, employeeID string) (*models.ProjectEmployee, apperrors.Error)
	UpdateMembership(ctx context.Context, m *models.ProjectEmployee) apperrors.Error
}

type CompetencyStore interface {
	ListCompetencies(ctx context.Context) ([]models.Competency, apperrors.Error)
	GetCompetency(ctx context.Context, id string) (*models.Competency, apperrors.Error)
	FindCompetenciesByName(ctx context.Context, name string) ([]models.Competency, apperrors.Error)
	CreateCompetency(ctx context.Context, c *models.Competency) apperrors.Error
	UpdateCompetency(ctx context.Context, c *models.Competency) apperrors.Error
	// UpdateCompetencyHeadByName sets competency_head on the competency named name.
	UpdateCompetencyHeadByName(ctx context.Context, name, head string) apperrors.Error
	DeleteCompetency(ctx context.Context, id string) apperrors.Error
}

type AccessLabelStore interface {
	CreateAccessLabel(ctx context.Context, a *models.AccessLabel) apperrors.Error
	GetAccessLabelByEmployee(ctx context.Context, employeeID string) (*models.AccessLabel, apperrors.Error)
	UpdateAccessLabel(ctx context.Context, a *models.AccessLabel) apperrors.Error
}

type DesignationStore interface {
	ListDesignations(ctx context.Context) ([]models.Designation, apperrors.Error)
	CreateDesignation(ctx context.Context, title string) apperrors.Error
}

// TenantStores is the set of stores bound to one tenant database, either
// directly or to an open transaction on it.
type TenantStores struct {
	Employees    EmployeeStore
	Projects     ProjectStore
	Memberships  MembershipStore
	Competencies CompetencyStore
	AccessLabels AccessLabelStore
	Designations DesignationStore
}

// TenantSession is a handle on one tenant database.
type TenantSession interface {
	Database() string
	Stores() TenantStores
	// RunInTx runs fn with stores bound to a single transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, s TenantStores) apperrors.Error) apperrors.Error
}

// StoreProvider opens tenant sessions from resolved connection parameters.
type StoreProvider interface {
	Open(conn config.DBConnConfig) TenantSession
}
