package dberror

import (
	"net/http"

	"github.com/tansive/tansive-workforce/internal/common/apperrors"
)

var (
	ErrDatabase             apperrors.Error = apperrors.New("db error").SetStatusCode(http.StatusInternalServerError)
	ErrNotFound             apperrors.Error = ErrDatabase.New("not found").SetStatusCode(http.StatusNotFound)
	ErrInvalidInput         apperrors.Error = ErrDatabase.New("invalid input").SetStatusCode(http.StatusBadRequest)
	ErrQueryExecutionFailed apperrors.Error = ErrDatabase.New("Failed to execute query").SetExpandError(true)
	ErrConnectionFailed     apperrors.Error = ErrDatabase.New("unable to connect to tenant database").SetExpandError(true)

	// ErrMalformedKey is a key the column type cannot parse. No row can match it.
	ErrMalformedKey apperrors.Error = ErrNotFound.New("no row matches the given key")

	ErrTenantNotFound              apperrors.Error = ErrNotFound.New("Tenant not found")
	ErrTenantDatabaseConfigMissing apperrors.Error = ErrDatabase.New("Tenant database configuration not found.")
)
