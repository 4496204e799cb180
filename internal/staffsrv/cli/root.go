// Package cli implements staffctl, the operator command line for the
// workforce service. Commands act directly on the configured storage.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tansive/tansive-workforce/internal/common/logtrace"
	"github.com/tansive/tansive-workforce/internal/staffsrv/app"
	"github.com/tansive/tansive-workforce/internal/staffsrv/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type rootOptions struct {
	configFile string
	jsonOutput bool
}

// NewRootCmd creates the staffctl root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "staffctl",
		Short: "staffctl is the operator command line for the workforce service",
		Long: `staffctl resolves tenants and runs maintenance operations against the
tenant databases named in the workforce server configuration.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig()
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to the workforce server config file")
	cmd.PersistentFlags().BoolVarP(&opts.jsonOutput, "json", "j", false, "Output in JSON format")

	cmd.AddCommand(
		newVersionCmd(opts),
		newResolveCmd(opts),
		newDesignationsCmd(opts),
		newResetPasswordCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() error {
	if err := config.LoadConfig(o.configFile); err != nil {
		return errors.Wrapf(err, "unable to load config file %q", o.configFile)
	}
	logtrace.InitLogger(config.Config().LogLevel)
	return nil
}

// withApp wires the components for a single command and releases them
// afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := log.Logger.WithContext(cmd.Context())
	a, err := app.New(ctx, config.Config())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// print writes v as indented JSON when --json is set and calls text otherwise.
func (o *rootOptions) print(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if !o.jsonOutput {
		text(w)
		return nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to format JSON output")
	}
	fmt.Fprintln(w, string(b))
	return nil
}
