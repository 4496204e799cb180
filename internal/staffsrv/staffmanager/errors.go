package staffmanager

import (
	"net/http"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
)

var (
	ErrStaffError              apperrors.Error = apperrors.New("error in processing request").SetStatusCode(http.StatusInternalServerError)
	ErrInvalidInput            apperrors.Error = ErrStaffError.New("invalid input").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrInvalidProjectTeam      apperrors.Error = ErrInvalidInput.New("invalid project_team")
	ErrInvalidRole             apperrors.Error = ErrStaffError.New("User role not found").SetStatusCode(http.StatusBadRequest)
	ErrInvalidDateRange        apperrors.Error = ErrStaffError.New("Start date cannot be greater than end date ").SetStatusCode(http.StatusBadRequest)
	ErrDuplicateProjectName    apperrors.Error = ErrStaffError.New("Project with this name already exists. Please use another name.").SetStatusCode(http.StatusBadRequest)
	ErrDuplicateCompetencyName apperrors.Error = ErrStaffError.New("Competency with this name already exists. Please use another name.").SetStatusCode(http.StatusBadRequest)
	ErrProjectNotCreated       apperrors.Error = ErrStaffError.New("Project not created").SetStatusCode(http.StatusBadRequest)
	ErrPasswordHash            apperrors.Error = ErrStaffError.New("unable to hash password")

	ErrEntityNotFound      apperrors.Error = ErrStaffError.New("entity not found").SetStatusCode(http.StatusNotFound)
	ErrEmployeeNotFound    apperrors.Error = ErrEntityNotFound.New("User not found.")
	ErrProjectNotFound     apperrors.Error = ErrEntityNotFound.New("Project not found.")
	ErrCompetencyNotFound  apperrors.Error = ErrEntityNotFound.New("Competency not found.")
	ErrAccessLabelNotFound apperrors.Error = ErrEntityNotFound.New("Access label not found.")
)

// A duplicate email is reported in the result message and is not an error.
const MsgDuplicateEmail = "User with this email already exists. Please use another email."
