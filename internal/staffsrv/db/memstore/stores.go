package memstore

import (
	"context"
	"strings"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

func hasFoldedPrefix(s, prefix string) bool {
	return strings.HasPrefix(folder.String(s), folder.String(prefix))
}

// dbRef names the database a store works on. Stores handed out by RunInTx
// already hold the database gate.
type dbRef struct {
	s    *Store
	db   string
	inTx bool
}

func (r dbRef) with(op string, fn func(d *database) apperrors.Error) apperrors.Error {
	if !r.inTx {
		g := r.s.gate(r.db)
		g.Lock()
		defer g.Unlock()
	}
	return r.s.withDB(r.db, op, fn)
}

type employeeStore struct {
	dbRef
}

func (es *employeeStore) filter(op string, match func(e *employeeRecord) bool) ([]models.Employee, apperrors.Error) {
	var out []models.Employee
	err := es.with(op, func(d *database) apperrors.Error {
		for _, e := range d.employees {
			if match(e) {
				out = append(out, e.Employee)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (es *employeeStore) ListEmployees(ctx context.Context) ([]models.Employee, apperrors.Error) {
	return es.filter("ListEmployees", func(e *employeeRecord) bool { return true })
}

func (es *employeeStore) GetEmployee(ctx context.Context, id string) (*models.Employee, apperrors.Error) {
	found, err := es.filter("GetEmployee", func(e *employeeRecord) bool { return e.ID == id })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, dberror.ErrNotFound
	}
	return &found[0], nil
}

func (es *employeeStore) GetEmployeesByIDs(ctx context.Context, ids []string) ([]models.Employee, apperrors.Error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return es.filter("GetEmployeesByIDs", func(e *employeeRecord) bool { return want[e.ID] })
}

func (es *employeeStore) FindEmployeesByEmail(ctx context.Context, email string, excludeID string) ([]models.Employee, apperrors.Error) {
	return es.filter("FindEmployeesByEmail", func(e *employeeRecord) bool {
		return e.Email == email && (excludeID == "" || e.ID != excludeID)
	})
}

func (es *employeeStore) FilterEmployeesByName(ctx context.Context, prefix string) ([]models.Employee, apperrors.Error) {
	return es.filter("FilterEmployeesByName", func(e *employeeRecord) bool { return hasFoldedPrefix(e.FirstName, prefix) })
}

func (es *employeeStore) FilterEmployeesByLocation(ctx context.Context, prefix string) ([]models.Employee, apperrors.Error) {
	return es.filter("FilterEmployeesByLocation", func(e *employeeRecord) bool { return hasFoldedPrefix(e.Location, prefix) })
}

func (es *employeeStore) CreateEmployee(ctx context.Context, e *models.Employee, passwordHash string) apperrors.Error {
	if err := e.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	return es.with("CreateEmployee", func(d *database) apperrors.Error {
		e.ID = es.s.nextID()
		e.CreatedAt = es.s.now()
		e.UpdatedAt = e.CreatedAt
		d.employees = append(d.employees, &employeeRecord{Employee: *e, passwordHash: passwordHash})
		return nil
	})
}

func (es *employeeStore) update(op, id string, fn func(e *employeeRecord)) (*models.Employee, apperrors.Error) {
	var out *models.Employee
	err := es.with(op, func(d *database) apperrors.Error {
		for _, e := range d.employees {
			if e.ID == id {
				fn(e)
				e.UpdatedAt = es.s.now()
				cp := e.Employee
				out = &cp
				return nil
			}
		}
		return dberror.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (es *employeeStore) UpdateEmployee(ctx context.Context, e *models.Employee) apperrors.Error {
	updated, err := es.update("UpdateEmployee", e.ID, func(r *employeeRecord) {
		r.FirstName, r.LastName, r.Designation, r.Role, r.Gender, r.Email = e.FirstName, e.LastName, e.Designation, e.Role, e.Gender, e.Email
		r.Image, r.Location, r.MaritalStatus, r.BloodGroup, r.PhyDisable = e.Image, e.Location, e.MaritalStatus, e.BloodGroup, e.PhyDisable
		r.PanCard, r.AadhaarCard, r.UAN, r.PersonalEmail, r.Phone = e.PanCard, e.AadhaarCard, e.UAN, e.PersonalEmail, e.Phone
		r.Whatsapp, r.Wordpress, r.Github, r.Bitbuket, r.WorkPhone = e.Whatsapp, e.Wordpress, e.Github, e.Bitbuket, e.WorkPhone
		r.Address, r.StudioName = e.Address, e.StudioName
	})
	if err != nil {
		return err
	}
	*e = *updated
	return nil
}

func (es *employeeStore) UpdateCompetencyAndReporting(ctx context.Context, id, studioName, reportingManager string) (*models.Employee, apperrors.Error) {
	return es.update("UpdateCompetencyAndReporting", id, func(r *employeeRecord) {
		r.StudioName = studioName
		r.ReportingManager = reportingManager
	})
}

func (es *employeeStore) UpdateCompetencyHead(ctx context.Context, id string, head bool, studioName string) (*models.Employee, apperrors.Error) {
	return es.update("UpdateCompetencyHead", id, func(r *employeeRecord) {
		r.CompetencyHead = head
		r.StudioName = studioName
	})
}

func (es *employeeStore) SetEmployeeStatus(ctx context.Context, id, status string) apperrors.Error {
	_, err := es.update("SetEmployeeStatus", id, func(r *employeeRecord) { r.Status = status })
	return err
}

func (es *employeeStore) SetEmployeePassword(ctx context.Context, id, passwordHash string) apperrors.Error {
	_, err := es.update("SetEmployeePassword", id, func(r *employeeRecord) { r.passwordHash = passwordHash })
	return err
}

type projectStore struct {
	dbRef
}

func (ps *projectStore) find(op string, match func(p *models.Project) bool) ([]models.Project, apperrors.Error) {
	var out []models.Project
	err := ps.with(op, func(d *database) apperrors.Error {
		for i := range d.projects {
			if match(&d.projects[i]) {
				out = append(out, d.projects[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *projectStore) ListProjects(ctx context.Context) ([]models.Project, apperrors.Error) {
	return ps.find("ListProjects", func(p *models.Project) bool { return true })
}

func (ps *projectStore) GetProject(ctx context.Context, id string) (*models.Project, apperrors.Error) {
	found, err := ps.find("GetProject", func(p *models.Project) bool { return p.ID == id })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, dberror.ErrNotFound
	}
	return &found[0], nil
}

func (ps *projectStore) FindProjectsByTitle(ctx context.Context, title string) ([]models.Project, apperrors.Error) {
	return ps.find("FindProjectsByTitle", func(p *models.Project) bool { return p.Title == title })
}

func (ps *projectStore) CreateProject(ctx context.Context, p *models.Project) apperrors.Error {
	if err := p.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	return ps.with("CreateProject", func(d *database) apperrors.Error {
		p.ID = ps.s.nextID()
		p.CreatedAt = ps.s.now()
		p.UpdatedAt = p.CreatedAt
		d.projects = append(d.projects, *p)
		return nil
	})
}

func (ps *projectStore) UpdateProject(ctx context.Context, p *models.Project) apperrors.Error {
	if err := p.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	return ps.with("UpdateProject", func(d *database) apperrors.Error {
		for i := range d.projects {
			r := &d.projects[i]
			if r.ID != p.ID {
				continue
			}
			r.Title, r.Timeline, r.Description, r.Status = p.Title, p.Timeline, p.Description, p.Status
			r.StartDate, r.EndDate, r.Duration = p.StartDate, p.EndDate, p.Duration
			if p.File != "" {
				r.File = p.File
			}
			r.UpdatedAt = ps.s.now()
			return nil
		}
		return dberror.ErrNotFound.Msg("project not found")
	})
}

func (ps *projectStore) DeleteProject(ctx context.Context, id string) apperrors.Error {
	return ps.with("DeleteProject", func(d *database) apperrors.Error {
		for i := range d.projects {
			if d.projects[i].ID == id {
				d.projects = append(d.projects[:i], d.projects[i+1:]...)
				return nil
			}
		}
		return dberror.ErrNotFound.Msg("project not found")
	})
}

type membershipStore struct {
	dbRef
}

func (ms *membershipStore) CreateMembership(ctx context.Context, m *models.ProjectEmployee) apperrors.Error {
	if err := m.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	return ms.with("CreateMembership", func(d *database) apperrors.Error {
		m.ID = ms.s.nextID()
		m.CreatedAt = ms.s.now()
		m.UpdatedAt = m.CreatedAt
		d.memberships = append(d.memberships, *m)
		return nil
	})
}

func (ms *membershipStore) ListMembershipsByProject(ctx context.Context, projectID string) ([]models.ProjectEmployee, apperrors.Error) {
	var out []models.ProjectEmployee
	err := ms.with("ListMembershipsByProject", func(d *database) apperrors.Error {
		for _, m := range d.memberships {
			if m.ProjectID == projectID {
				out = append(out, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ms *membershipStore) GetMembership(ctx context.Context, projectID, employeeID string) (*models.ProjectEmployee, apperrors.Error) {
	var out *models.ProjectEmployee
	err := ms.with("GetMembership", func(d *database) apperrors.Error {
		for _, m := range d.memberships {
			if m.ProjectID == projectID && m.EmployeeID == employeeID {
				cp := m
				out = &cp
				return nil
			}
		}
		return dberror.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ms *membershipStore) UpdateMembership(ctx context.Context, m *models.ProjectEmployee) apperrors.Error {
	if err := m.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	return ms.with("UpdateMembership", func(d *database) apperrors.Error {
		for i := range d.memberships {
			r := &d.memberships[i]
			if r.ProjectID == m.ProjectID && r.EmployeeID == m.EmployeeID {
				r.Role, r.Billable, r.BillablePercentage, r.Status = m.Role, m.Billable, m.BillablePercentage, m.Status
				r.UpdatedAt = ms.s.now()
				return nil
			}
		}
		return dberror.ErrNotFound.Msg("project membership not found")
	})
}

type competencyStore struct {
	dbRef
}

func (cs *competencyStore) find(op string, match func(c *models.Competency) bool) ([]models.Competency, apperrors.Error) {
	var out []models.Competency
	err := cs.with(op, func(d *database) apperrors.Error {
		for i := range d.competencies {
			if match(&d.competencies[i]) {
				out = append(out, d.competencies[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *competencyStore) ListCompetencies(ctx context.Context) ([]models.Competency, apperrors.Error) {
	return cs.find("ListCompetencies", func(c *models.Competency) bool { return true })
}

func (cs *competencyStore) GetCompetency(ctx context.Context, id string) (*models.Competency, apperrors.Error) {
	found, err := cs.find("GetCompetency", func(c *models.Competency) bool { return c.ID == id })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, dberror.ErrNotFound
	}
	return &found[0], nil
}

func (cs *competencyStore) FindCompetenciesByName(ctx context.Context, name string) ([]models.Competency, apperrors.Error) {
	return cs.find("FindCompetenciesByName", func(c *models.Competency) bool { return c.CompetencyName == name })
}

func (cs *competencyStore) CreateCompetency(ctx context.Context, c *models.Competency) apperrors.Error {
	if err := c.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	return cs.with("CreateCompetency", func(d *database) apperrors.Error {
		c.ID = cs.s.nextID()
		d.competencies = append(d.competencies, *c)
		return nil
	})
}

func (cs *competencyStore) UpdateCompetency(ctx context.Context, c *models.Competency) apperrors.Error {
	if err := c.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	return cs.with("UpdateCompetency", func(d *database) apperrors.Error {
		for i := range d.competencies {
			if d.competencies[i].ID == c.ID {
				d.competencies[i] = *c
				return nil
			}
		}
		return dberror.ErrNotFound
	})
}

func (cs *competencyStore) UpdateCompetencyHeadByName(ctx context.Context, name, head string) apperrors.Error {
	return cs.with("UpdateCompetencyHeadByName", func(d *database) apperrors.Error {
		n := 0
		for i := range d.competencies {
			if d.competencies[i].CompetencyName == name {
				d.competencies[i].CompetencyHead = head
				n++
			}
		}
		if n == 0 {
			return dberror.ErrNotFound.Msg("competency not found")
		}
		return nil
	})
}

func (cs *competencyStore) DeleteCompetency(ctx context.Context, id string) apperrors.Error {
	return cs.with("DeleteCompetency", func(d *database) apperrors.Error {
		for i := range d.competencies {
			if d.competencies[i].ID == id {
				d.competencies = append(d.competencies[:i], d.competencies[i+1:]...)
				return nil
			}
		}
		return dberror.ErrNotFound.Msg("competency not found")
	})
}

type accessLabelStore struct {
	dbRef
}

func (as *accessLabelStore) CreateAccessLabel(ctx context.Context, a *models.AccessLabel) apperrors.Error {
	if a.EmployeeID == "" {
		return dberror.ErrInvalidInput.Msg("employee_id is required")
	}
	return as.with("CreateAccessLabel", func(d *database) apperrors.Error {
		a.ID = as.s.nextID()
		d.accessLabels = append(d.accessLabels, *a)
		return nil
	})
}

func (as *accessLabelStore) GetAccessLabelByEmployee(ctx context.Context, employeeID string) (*models.AccessLabel, apperrors.Error) {
	var out *models.AccessLabel
	err := as.with("GetAccessLabelByEmployee", func(d *database) apperrors.Error {
		for _, a := range d.accessLabels {
			if a.EmployeeID == employeeID {
				cp := a
				out = &cp
				return nil
			}
		}
		return dberror.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (as *accessLabelStore) UpdateAccessLabel(ctx context.Context, a *models.AccessLabel) apperrors.Error {
	return as.with("UpdateAccessLabel", func(d *database) apperrors.Error {
		for i := range d.accessLabels {
			if d.accessLabels[i].EmployeeID == a.EmployeeID {
				a.ID = d.accessLabels[i].ID
				d.accessLabels[i] = *a
				return nil
			}
		}
		return dberror.ErrNotFound
	})
}

type designationStore struct {
	dbRef
}

func (ds *designationStore) ListDesignations(ctx context.Context) ([]models.Designation, apperrors.Error) {
	var out []models.Designation
	err := ds.with("ListDesignations", func(d *database) apperrors.Error {
		out = append(out, d.designations...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ds *designationStore) CreateDesignation(ctx context.Context, title string) apperrors.Error {
	return ds.with("CreateDesignation", func(d *database) apperrors.Error {
		now := ds.s.now()
		d.designations = append(d.designations, models.Designation{ID: ds.s.nextID(), Title: title, CreatedAt: now, UpdatedAt: now})
		return nil
	})
}
