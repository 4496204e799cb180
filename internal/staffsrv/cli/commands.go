package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tansive/tansive-workforce/internal/staffsrv/app"
	"github.com/tansive/tansive-workforce/internal/staffsrv/db/models"
	"github.com/tansive/tansive-workforce/internal/staffsrv/server"
	"github.com/tansive/tansive-workforce/internal/staffsrv/staffcommon"
)

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the workforce server and API version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rsp := server.GetVersionRsp{ServerVersion: server.ServerVersion, ApiVersion: server.ApiVersion}
			return opts.print(cmd, rsp, func(w io.Writer) {
				fmt.Fprintf(w, "%s (api %s)\n", rsp.ServerVersion, rsp.ApiVersion)
			})
		},
	}
}

type resolveOutput struct {
	TenantID   string `json:"tenantId"`
	TenantCode string `json:"tenantCode"`
	TenantName string `json:"tenantName"`
	Database   string `json:"database"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve TENANT_CODE",
		Short: "Resolve a tenant code to its database",
		Long: `Resolve a tenant code through the control plane and print the tenant
database it maps to.

Examples:
  staffctl resolve ACME
  staffctl resolve ACME -j`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				id, err := a.Directory.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				out := resolveOutput{
					TenantID:   id.TenantID,
					TenantCode: id.TenantCode,
					TenantName: id.TenantName,
					Database:   id.Database,
					Host:       id.Conn.Host,
					Port:       id.Conn.Port,
				}
				return opts.print(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "Tenant: %s (%s)\n", out.TenantName, out.TenantCode)
					fmt.Fprintf(w, "Tenant ID: %s\n", out.TenantID)
					fmt.Fprintf(w, "Database: %s on %s:%d\n", out.Database, out.Host, out.Port)
				})
			})
		},
	}
}

func newDesignationsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "designations TENANT_CODE",
		Short: "List tenant designations, seeding the defaults when none exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Manager.ListDesignations(ctx, args[0])
				if err != nil {
					return err
				}
				designations, _ := res.Data.([]models.Designation)
				return opts.print(cmd, res, func(w io.Writer) {
					for _, d := range designations {
						fmt.Fprintln(w, d.Title)
					}
				})
			})
		},
	}
}

func newResetPasswordCmd(opts *rootOptions) *cobra.Command {
	var employeeID, password string
	cmd := &cobra.Command{
		Use:   "reset-password TENANT_CODE",
		Short: "Reset the tenant admin password or an employee password",
		Long: `Reset a password. Without --employee the tenant admin password in the
control plane is reset.

Examples:
  staffctl reset-password ACME --password s3cret
  staffctl reset-password ACME --employee 42 --password s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				caller := &staffcommon.Caller{Code: args[0], ID: employeeID, Role: staffcommon.RoleEmployee}
				if employeeID == "" {
					id, err := a.Directory.Resolve(ctx, args[0])
					if err != nil {
						return err
					}
					caller.ID = id.TenantID
					caller.Role = staffcommon.RoleAdmin
				}
				res, err := a.Manager.ResetPassword(ctx, caller, password)
				if err != nil {
					return err
				}
				return opts.print(cmd, res, func(w io.Writer) {
					fmt.Fprintln(w, res.Message)
				})
			})
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee id whose password is reset")
	cmd.Flags().StringVar(&password, "password", "", "New password")
	cmd.MarkFlagRequired("password")
	return cmd
}

type tokenOutput struct {
	Token string `json:"token"`
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var employeeID string
	cmd := &cobra.Command{
		Use:   "token TENANT_CODE",
		Short: "Issue a bearer token for the reset-password endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				id, err := a.Directory.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				caller := &staffcommon.Caller{ID: id.TenantID, Code: id.TenantCode, Role: staffcommon.RoleAdmin}
				if employeeID != "" {
					caller.ID = employeeID
					caller.Role = staffcommon.RoleEmployee
				}
				token, err := a.Tokens.Issue(caller)
				if err != nil {
					return errors.Wrap(err, "unable to issue token")
				}
				return opts.print(cmd, tokenOutput{Token: token}, func(w io.Writer) {
					fmt.Fprintln(w, token)
				})
			})
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "Issue the token for this employee instead of the tenant admin")
	return cmd
}
