// Package memstore is an in-memory implementation of the workforce stores.
// It backs the "memory" storage mode and the service tests. Each tenant
// database is a separate namespace keyed by its case-folded name.
package memstore

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/cases"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

// Fault lets tests fail a named store operation. Returning nil lets the
// operation proceed.
type Fault func(op string) apperrors.Error

type tenantRecord struct {
	models.Tenant
	passwordHash string
}

type employeeRecord struct {
	models.Employee
	passwordHash string
}

// Data is a copy of one tenant database.
type Data struct {
	Employees    []models.Employee
	Projects     []models.Project
	Memberships  []models.ProjectEmployee
	Competencies []models.Competency
	AccessLabels []models.AccessLabel
	Designations []models.Designation
}

type database struct {
	employees    []*employeeRecord
	projects     []models.Project
	memberships  []models.ProjectEmployee
	competencies []models.Competency
	accessLabels []models.AccessLabel
	designations []models.Designation
	fault        Fault
}

func (d *database) clone() *database {
	c := &database{
		projects:     append([]models.Project(nil), d.projects...),
		memberships:  append([]models.ProjectEmployee(nil), d.memberships...),
		competencies: append([]models.Competency(nil), d.competencies...),
		accessLabels: append([]models.AccessLabel(nil), d.accessLabels...),
		designations: append([]models.Designation(nil), d.designations...),
		fault:        d.fault,
	}
	for _, e := range d.employees {
		cp := *e
		c.employees = append(c.employees, &cp)
	}
	return c
}

// Store holds the control plane and every tenant database.
type Store struct {
	mu      sync.Mutex
	tenants []*tenantRecord
	dbs     map[string]*database
	gates   map[string]*sync.Mutex
	seq     atomic.Int64
	opens   atomic.Int64
	now     func() time.Time
}

var folder = cases.Fold()

func New() *Store {
	return &Store{
		dbs:   make(map[string]*database),
		gates: make(map[string]*sync.Mutex),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) nextID() string {
	return strconv.FormatInt(s.seq.Add(1), 10)
}

// db returns the tenant database, creating it on first use. Callers hold mu.
func (s *Store) db(name string) *database {
	key := folder.String(name)
	d, ok := s.dbs[key]
	if !ok {
		d = &database{}
		s.dbs[key] = d
	}
	return d
}

// gate returns the per-database lock a transaction holds until it commits
// or rolls back. Stores outside the transaction take it for every call.
func (s *Store) gate(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := folder.String(name)
	g, ok := s.gates[key]
	if !ok {
		g = &sync.Mutex{}
		s.gates[key] = g
	}
	return g
}

// AddTenant registers a tenant in the control plane.
func (s *Store) AddTenant(code, name string) *models.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &tenantRecord{Tenant: models.Tenant{ID: s.nextID(), TenantCode: code, TenantName: name}}
	s.tenants = append(s.tenants, t)
	cp := t.Tenant
	return &cp
}

// TenantPasswordHash returns the stored digest of the tenant password.
func (s *Store) TenantPasswordHash(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.ID == id {
			return t.passwordHash
		}
	}
	return ""
}

// EmployeePasswordHash returns the stored digest of an employee password.
func (s *Store) EmployeePasswordHash(database, id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.db(database).employees {
		if e.ID == id {
			return e.passwordHash
		}
	}
	return ""
}

// SetFault installs f on the tenant database. A nil f clears it.
func (s *Store) SetFault(database string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db(database).fault = f
}

// Data returns a copy of the tenant database contents.
func (s *Store) Data(database string) Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.db(database)
	out := Data{
		Projects:     append([]models.Project(nil), d.projects...),
		Memberships:  append([]models.ProjectEmployee(nil), d.memberships...),
		Competencies: append([]models.Competency(nil), d.competencies...),
		AccessLabels: append([]models.AccessLabel(nil), d.accessLabels...),
		Designations: append([]models.Designation(nil), d.designations...),
	}
	for _, e := range d.employees {
		out.Employees = append(out.Employees, e.Employee)
	}
	return out
}

// OpenCount returns how many tenant sessions have been opened.
func (s *Store) OpenCount() int64 {
	return s.opens.Load()
}

// withDB runs fn on the named database under the store lock after
// consulting the fault hook.
func (s *Store) withDB(name, op string, fn func(d *database) apperrors.Error) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.db(name)
	if d.fault != nil {
		if err := d.fault(op); err != nil {
			return err
		}
	}
	return fn(d)
}

func (s *Store) LookupTenantByCode(ctx context.Context, tenantCode string) (*models.Tenant, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.TenantCode == tenantCode {
			cp := t.Tenant
			return &cp, nil
		}
	}
	return nil, dberror.ErrNotFound
}

func (s *Store) GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, apperrors.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.ID == tenantID {
			cp := t.Tenant
			return &cp, nil
		}
	}
	return nil, dberror.ErrNotFound
}

func (s *Store) UpdateTenantPassword(ctx context.Context, tenantID string, passwordHash string) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.ID == tenantID {
			t.passwordHash = passwordHash
			return nil
		}
	}
	return dberror.ErrNotFound.Msg("tenant not found")
}

// Open implements db.StoreProvider.
func (s *Store) Open(conn config.DBConnConfig) db.TenantSession {
	s.opens.Add(1)
	return &session{s: s, name: conn.Database}
}

type session struct {
	s    *Store
	name string
}

func (ss *session) Database() string {
	return ss.name
}

func (ss *session) Stores() db.TenantStores {
	return ss.stores(false)
}

func (ss *session) stores(inTx bool) db.TenantStores {
	ref := dbRef{s: ss.s, db: ss.name, inTx: inTx}
	return db.TenantStores{
		Employees:    &employeeStore{ref},
		Projects:     &projectStore{ref},
		Memberships:  &membershipStore{ref},
		Competencies: &competencyStore{ref},
		AccessLabels: &accessLabelStore{ref},
		Designations: &designationStore{ref},
	}
}

// RunInTx holds the database gate until fn returns, so no other session
// reads or writes in between. The contents are restored when fn fails or
// panics.
func (ss *session) RunInTx(ctx context.Context, fn func(ctx context.Context, s db.TenantStores) apperrors.Error) (err apperrors.Error) {
	g := ss.s.gate(ss.name)
	g.Lock()
	defer g.Unlock()

	key := folder.String(ss.name)
	ss.s.mu.Lock()
	snapshot := ss.s.db(ss.name).clone()
	ss.s.mu.Unlock()

	committed := false
	defer func() {
		if !committed {
			ss.s.mu.Lock()
			ss.s.dbs[key] = snapshot
			ss.s.mu.Unlock()
		}
	}()
	if err = fn(ctx, ss.stores(true)); err != nil {
		return err
	}
	committed = true
	return nil
}
