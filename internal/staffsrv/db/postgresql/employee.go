package postgresql

import (
	"context"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dberror"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/dbmanager"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

var employeeColumns = selectList(
	[]string{"id", "first_name", "last_name", "designation", "role", "gender", "email", "studio_name",
		"reporting_manager", "status", "tenant_id", "image", "location", "marital_status", "blood_group",
		"phy_disable", "pan_card", "aadhaar_card", "uan", "personal_email", "phone", "whatsapp", "wordpress",
		"github", "bitbuket", "work_phone", "address"},
	[]string{"competency_head"},
	nil,
	[]string{"created_at", "updated_at"},
	nil,
)

type employeeStore struct {
	q dbmanager.Querier
}

func (s *employeeStore) ListEmployees(ctx context.Context) ([]models.Employee, apperrors.Error) {
	query := `SELECT ` + employeeColumns + ` FROM employee ORDER BY created_at`
	var employees []models.Employee
	if err := s.q.Select(ctx, &employees, query); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *employeeStore) GetEmployee(ctx context.Context, id string) (*models.Employee, apperrors.Error) {
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE id = $1`
	e := &models.Employee{}
	if err := s.q.Get(ctx, e, query, id); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *employeeStore) GetEmployeesByIDs(ctx context.Context, ids []string) ([]models.Employee, apperrors.Error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE id = ANY($1)`
	var employees []models.Employee
	if err := s.q.Select(ctx, &employees, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *employeeStore) FindEmployeesByEmail(ctx context.Context, email string, excludeID string) ([]models.Employee, apperrors.Error) {
	var (
		employees []models.Employee
		err       apperrors.Error
	)
	if excludeID == "" {
		query := `SELECT ` + employeeColumns + ` FROM employee WHERE email = $1`
		err = s.q.Select(ctx, &employees, query, email)
	} else {
		query := `SELECT ` + employeeColumns + ` FROM employee WHERE email = $1 AND id <> $2`
		err = s.q.Select(ctx, &employees, query, email, excludeID)
	}
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *employeeStore) FilterEmployeesByName(ctx context.Context, prefix string) ([]models.Employee, apperrors.Error) {
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE first_name ILIKE $1 || '%' ORDER BY first_name`
	var employees []models.Employee
	if err := s.q.Select(ctx, &employees, query, EscapeLikePrefix(prefix)); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *employeeStore) FilterEmployeesByLocation(ctx context.Context, prefix string) ([]models.Employee, apperrors.Error) {
	query := `SELECT ` + employeeColumns + ` FROM employee WHERE location ILIKE $1 || '%' ORDER BY first_name`
	var employees []models.Employee
	if err := s.q.Select(ctx, &employees, query, EscapeLikePrefix(prefix)); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *employeeStore) CreateEmployee(ctx context.Context, e *models.Employee, passwordHash string) apperrors.Error {
	if err := e.Validate(); err != nil {
		return dberror.ErrInvalidInput.Err(err)
	}
	query := `
		INSERT INTO employee (first_name, last_name, designation, role, gender, email, password, studio_name,
			reporting_manager, tenant_id, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING ` + employeeColumns
	err := s.q.Get(ctx, e, query,
		e.FirstName, nullIfEmpty(e.LastName), e.Designation, e.Role, e.Gender, e.Email, passwordHash,
		nullIfEmpty(e.StudioName), nullIfEmpty(e.ReportingManager), nullIfEmpty(e.TenantID), nullIfEmpty(e.Location))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to create employee")
		return err
	}
	return nil
}

func (s *employeeStore) UpdateEmployee(ctx context.Context, e *models.Employee) apperrors.Error {
	query := `
		UPDATE employee
		SET
			first_name = $1,
			last_name = $2,
			designation = $3,
			role = $4,
			gender = $5,
			email = $6,
			image = $7,
			location = $8,
			marital_status = $9,
			blood_group = $10,
			phy_disable = $11,
			pan_card = $12,
			aadhaar_card = $13,
			uan = $14,
			personal_email = $15,
			phone = $16,
			whatsapp = $17,
			wordpress = $18,
			github = $19,
			bitbuket = $20,
			work_phone = $21,
			address = $22,
			studio_name = $23,
			updated_at = NOW()
		WHERE id = $24
		RETURNING ` + employeeColumns
	err := s.q.Get(ctx, e, query,
		e.FirstName, e.LastName, e.Designation, e.Role, e.Gender, e.Email, e.Image, e.Location,
		e.MaritalStatus, e.BloodGroup, e.PhyDisable, e.PanCard, e.AadhaarCard, e.UAN, e.PersonalEmail,
		e.Phone, e.Whatsapp, e.Wordpress, e.Github, e.Bitbuket, e.WorkPhone, e.Address, e.StudioName, e.ID)
	if err != nil {
		return err
	}
	return nil
}

func (s *employeeStore) UpdateCompetencyAndReporting(ctx context.Context, id, studioName, reportingManager string) (*models.Employee, apperrors.Error) {
	query := `
		UPDATE employee
		SET studio_name = $1, reporting_manager = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + employeeColumns
	e := &models.Employee{}
	if err := s.q.Get(ctx, e, query, studioName, reportingManager, id); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *employeeStore) UpdateCompetencyHead(ctx context.Context, id string, head bool, studioName string) (*models.Employee, apperrors.Error) {
	query := `
		UPDATE employee
		SET competency_head = $1, studio_name = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + employeeColumns
	e := &models.Employee{}
	if err := s.q.Get(ctx, e, query, head, studioName, id); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *employeeStore) SetEmployeeStatus(ctx context.Context, id, status string) apperrors.Error {
	query := `UPDATE employee SET status = $1, updated_at = NOW() WHERE id = $2`
	n, err := s.q.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg("employee not found")
	}
	return nil
}

func (s *employeeStore) SetEmployeePassword(ctx context.Context, id, passwordHash string) apperrors.Error {
	query := `UPDATE employee SET password = $1, updated_at = NOW() WHERE id = $2`
	n, err := s.q.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return dberror.ErrNotFound.Msg("employee not found")
	}
	return nil
}
