package staffmanager

import (
	"context"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
)

func (m *Manager) GetAccessLabel(ctx context.Context, tenantCode, employeeID string) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	label, err := session.Stores().AccessLabels.GetAccessLabelByEmployee(ctx, employeeID)
	if err != nil {
		return nil, notFound(err, ErrAccessLabelNotFound)
	}
	return &Result{Message: "Access label retrieved successfully.", Data: label}, nil
}

// UpdateAccessLabel replaces every flag of the employee's access label.
func (m *Manager) UpdateAccessLabel(ctx context.Context, tenantCode, employeeID string, label *models.AccessLabel) (*Result, apperrors.Error) {
	_, session, err := m.open(ctx, tenantCode)
	if err != nil {
		return nil, err
	}
	label.EmployeeID = employeeID
	if err := session.Stores().AccessLabels.UpdateAccessLabel(ctx, label); err != nil {
		return nil, notFound(err, ErrAccessLabelNotFound)
	}
	return &Result{Message: "Access label updated successfully.", Data: label}, nil
}
