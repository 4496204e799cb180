package config

import (
	"fmt"
	"strings"

	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
)

// Dsn builds a libpq keyword/value connection string for c.
func Dsn(c config.DBConnConfig) string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quote(c.Host), port, quote(c.User), quote(c.Password), quote(c.Database), quote(c.TLSMode()))
}

// ControlPlaneDsn returns the connection string of the control plane database.
func ControlPlaneDsn() string {
	return Dsn(config.Config().ControlPlane)
}

// quote escapes a value for the keyword/value format. Empty values and
// values with spaces or quotes are single quoted.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
