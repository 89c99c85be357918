package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"objectpath/internal/app"
)

type resolveOptions struct {
	Project   string
	Kinds     []string
	OutputDir string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "List the source files visible from a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil, "Object kinds to include (default all)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Directory for the resolution report")
	_ = viper.BindPFlag("resolve.project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("resolve.kinds", cmd.Flags().Lookup("kind"))
	_ = viper.BindPFlag("resolve.output", cmd.Flags().Lookup("output"))
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Resolve(ctx, app.ResolveRequest{
		Project:   resolveString(cmd, opts.Project, "resolve.project", "project"),
		Kinds:     resolveStrings(cmd, opts.Kinds, "resolve.kinds", "kind"),
		OutputDir: resolveString(cmd, opts.OutputDir, "resolve.output", "output"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, source := range result.Sources {
		fmt.Fprintf(out, "%s %s %s!%s\n", source.Kind, source.QualifiedName, source.Root, source.Path)
	}
	fmt.Fprintf(out, "resolved: %s (%d sources)\n", result.Project, len(result.Sources))
	return nil
}
