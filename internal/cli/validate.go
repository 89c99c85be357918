package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"objectpath/internal/app"
)

const validationFailedMessage = "validation found errors"

type validateOptions struct {
	Projects  []string
	OutputDir string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate project object paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Projects, "project", nil, "Projects to validate (default all)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Directory for the validation report")
	_ = viper.BindPFlag("validate.projects", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("validate.output", cmd.Flags().Lookup("output"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Validate(ctx, app.ValidateRequest{
		Projects:  resolveStrings(cmd, opts.Projects, "validate.projects", "project"),
		OutputDir: resolveString(cmd, opts.OutputDir, "validate.output", "output"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, report := range result.Report.Projects {
		fmt.Fprintf(out, "%s: %d errors, %d warnings\n", report.Project, report.Errors, report.Warnings)
		for _, diag := range report.Diagnostics {
			fmt.Fprintf(out, "  %s\n", diag)
		}
	}
	if result.OutputDir != "" {
		fmt.Fprintf(out, "report written to %s\n", result.OutputDir)
	}
	if result.HasErrors {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(validationFailedMessage)
	}
	return nil
}

func newAppService() (app.Service, error) {
	return app.NewService(app.Config{
		Workspace:        viper.GetString("workspace"),
		ArchiveCacheSize: viper.GetInt("archive_cache_size"),
		Severity:         viper.GetStringMapString("severity"),
		ReservedWords:    viper.GetStringSlice("reserved_words"),
	})
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
