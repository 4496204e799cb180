package staffmanager

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgtype"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

// ProjectInput is the payload of CreateProject and UpdateProject.
type ProjectInput struct {
	Title       string      `json:"title" validate:"required"`
	Timeline    string      `json:"timeline"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	StartDate   pgtype.Date `json:"start_date"`
	EndDate     pgtype.Date `json:"end_date"`
	Duration    string      `json:"duration"`
	File        string      `json:"file"`
	ProjectTeam ProjectTeam `json:"project_team" validate:"dive"`
}

func (in *ProjectInput) project() *models.Project {
	return &models.Project{
		Title:       in.Title,
		Timeline:    in.Timeline,
		Description: in.Description,
		Status:      in.Status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Duration:    in.Duration,
		File:        in.File,
	}
}

// TeamMember is a membership enriched with the employee's name, studio and
// designation.
type TeamMember struct {
	EmployeeID         string    `json:"employee_id"`
	Role               string    `json:"role"`
	Billable           bool      `json:"billable"`
	BillablePercentage float64   `json:"billable_percentage"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Studio             string    `json:"studio"`
	Designation        string    `json:"designation"`
}

// ProjectView is a project with its team.
type ProjectView struct {
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Timeline    string       `json:"timeline"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	StartDate   pgtype.Date  `json:"start_date"`
	EndDate     pgtype.Date  `json:"end_date"`
	Duration    string       `json:"duration"`
	File        string       `json:"file"`
	ProjectTeam []TeamMember `json:"project_team"`
}

func newProjectView(p *models.Project, team []TeamMember) *ProjectView {
	return &ProjectView{
		ProjectID:   p.ID,
		Title:       p.Title,
		Timeline:    p.Timeline,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Duration:    p.Duration,
		File:        p.File,
		ProjectTeam: team,
	}
}

// enrichTeam joins memberships with their employees using a single batched
// lookup. The result is never nil.
func enrichTeam(ctx context.Context, stores db.TenantStores, memberships []models.ProjectEmployee) ([]TeamMember, apperrors.Error) {
	team := make([]TeamMember, 0, len(memberships))
	if len(memberships) == 0 {
		return team, nil
	}
	ids := make([]string, 0, len(memberships))
	seen := make(map[string]bool, len(memberships))
	for _, pe := range memberships {
		if !seen[pe.EmployeeID] {
			seen[pe.EmployeeID] = true
			ids = append(ids, pe.EmployeeID)
		}
	}
	employees, err := stores.Employees.GetEmployeesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Employee, len(employees))
	for i := range employees {
		byID[employees[i].ID] = &employees[i]
	}
	for _, pe := range memberships {
		member := TeamMember{
			EmployeeID:         pe.EmployeeID,
			Role:               pe.Role,
			Billable:           pe.Billable,
			BillablePercentage: pe.BillablePercentage,
			Status:             pe.Status,
			CreatedAt:          pe.CreatedAt,
			UpdatedAt:          pe.UpdatedAt,
		}
		if e, ok := byID[pe.EmployeeID]; ok {
			member.FirstName = e.FirstName
			member.LastName = e.LastName
			member.Studio = e.StudioName
			member.Designation = e.Designation
		} else {
			log.Ctx(ctx).Warn().Str("employee_id", pe.EmployeeID).Str("project_id", pe.ProjectID).
				Msg("project member has no employee record")
		}
		team = append(team, member)
	}
	return team, nil
}

func projectTeam(ctx context.Context, stores db.TenantStores, projectID string) ([]TeamMember, apperrors.Error) {
	memberships, err := stores.Memberships.ListMembershipsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return enrichTeam(ctx, stores, memberships)
}

// checkEmployeesExist fails with the first roster id that has no employee.
func checkEmployeesExist(ctx context.Context, stores db.TenantStores, team ProjectTeam) apperrors.Error {
	ids := team.employeeIDs()
	if len(ids) == 0 {
		return nil
	}
	employees, err := stores.Employees.GetEmployeesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[string]bool, len(employees))
	for _, e := range employees {
		found[e.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return ErrEmployeeNotFound.Msg("Employee not found of id " + id)
		}
	}
	return nil
}

func membership(projectID string, entry TeamEntry) *models.ProjectEmployee {
	return &models.ProjectEmployee{
		ProjectID:          projectID,
		EmployeeID:         entry.EmployeeID,
		Role:               entry.Role,
		Billable:           entry.Billable,
		BillablePercentage: entry.BillablePercentage,
		Status:             entry.Status,
	}
}

// saveMembership inserts the membership or, when the employee is already on
// the project, updates the existing row in place.
func saveMembership(ctx context.Context, s db.TenantStores, pe *models.ProjectEmployee) apperrors.Error {
	existing, err := s.Memberships.GetMembership(ctx, pe.ProjectID, pe.EmployeeID)
	if err != nil && !errors.Is(err, dberror.ErrNotFound) {
		return err
	}
	if existing == nil {
		return s.Memberships.CreateMembership(ctx, pe)
	}
	return s.Memberships.UpdateMembership(ctx, pe)
}

// CreateProject inserts the project and its roster in one transaction. The
// team in the response is the one read after the last roster insert; an
// empty roster leaves it null.
func (m *Manager) CreateProject(ctx context.Context, tenantCode string, in *ProjectInput) (*Result, apperrors.Error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	var view *ProjectView
	err = session.RunInTx(ctx, func(ctx context.Context, s db.TenantStores) apperrors.Error {
		existing, err := s.Projects.FindProjectsByTitle(ctx, in.Title)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrDuplicateProjectName
		}
		if err := checkEmployeesExist(ctx, s, in.ProjectTeam); err != nil {
			return err
		}
		if err := s.Projects.CreateProject(ctx, in.project()); err != nil {
			return err
		}
		created, err := s.Projects.FindProjectsByTitle(ctx, in.Title)
		if err != nil {
			return err
		}
		if len(created) == 0 {
			return ErrProjectNotCreated
		}
		project := &created[0]

		var team []TeamMember
		for _, entry := range in.ProjectTeam {
			if err := saveMembership(ctx, s, membership(project.ID, entry)); err != nil {
				return err
			}
			if team, err = projectTeam(ctx, s, project.ID); err != nil {
				return err
			}
		}
		view = newProjectView(project, team)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("project_id", view.ProjectID).Int("team_size", len(view.ProjectTeam)).Msg("project created")
	return &Result{Message: "Project created successfully and data saved.", Data: view}, nil
}

// UpdateProject rewrites the project and merges the roster into its
// memberships: unknown members are added, existing ones updated in place.
func (m *Manager) UpdateProject(ctx context.Context, tenantCode, id string, in *ProjectInput) (*Result, apperrors.Error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	var view *ProjectView
	err = session.RunInTx(ctx, func(ctx context.Context, s db.TenantStores) apperrors.Error {
		current, err := s.Projects.GetProject(ctx, id)
		if err != nil {
			return notFound(err, ErrProjectNotFound)
		}
		if models.DateAfter(in.StartDate, in.EndDate) {
			return ErrInvalidDateRange
		}
		if err := checkEmployeesExist(ctx, s, in.ProjectTeam); err != nil {
			return err
		}
		p := in.project()
		p.ID = current.ID
		if err := s.Projects.UpdateProject(ctx, p); err != nil {
			return notFound(err, ErrProjectNotFound)
		}
		for _, entry := range in.ProjectTeam {
			if err := saveMembership(ctx, s, membership(current.ID, entry)); err != nil {
				return err
			}
		}
		updated, err := s.Projects.GetProject(ctx, current.ID)
		if err != nil {
			return notFound(err, ErrProjectNotFound)
		}
		team, err := projectTeam(ctx, s, current.ID)
		if err != nil {
			return err
		}
		view = newProjectView(updated, team)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Message: "project updated successfully.", Data: view}, nil
}

// GetAllProjects enriches projects concurrently, bounded by the configured
// limit. Order follows the project listing.
func (m *Manager) GetAllProjects(ctx context.Context, tenantCode string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	stores := session.Stores()
	projects, err := stores.Projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*ProjectView, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.enrichConcurrency)
	for i := range projects {
		i := i
		g.Go(func() error {
			team, err := projectTeam(gctx, stores, projects[i].ID)
			if err != nil {
				return err
			}
			views[i] = newProjectView(&projects[i], team)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var appErr apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, ErrStaffError.Err(err)
	}
	return &Result{Message: "Project retreived successfully", Data: views}, nil
}

// GetProjectByID reports a missing project in the message with empty data.
func (m *Manager) GetProjectByID(ctx context.Context, tenantCode, id string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	stores := session.Stores()
	p, err := stores.Projects.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return &Result{Message: "No project exist.", Data: []any{}}, nil
		}
		return nil, err
	}
	team, err := projectTeam(ctx, stores, p.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "Project retreived successfully", Data: newProjectView(p, team)}, nil
}

// DeleteProject removes the project row. Memberships are kept.
func (m *Manager) DeleteProject(ctx context.Context, tenantCode, id string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	projects := session.Stores().Projects
	errProjectMissing := ErrProjectNotFound.Msg("project not found.")
	if _, err := projects.GetProject(ctx, id); err != nil {
		return nil, notFound(err, errProjectMissing)
	}
	if err := projects.DeleteProject(ctx, id); err != nil {
		return nil, notFound(err, errProjectMissing)
	}
	return &Result{Message: "Project deleted successfully."}, nil
}
