package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"objectpath/internal/app"
)

type refsOptions struct {
	Project    string
	Transitive bool
	Reverse    bool
	Leaves     bool
}

func newRefsCommand() *cobra.Command {
	opts := refsOptions{}
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "Show project references",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefs(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	cmd.Flags().BoolVar(&opts.Transitive, "transitive", false, "Follow re-exported references")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "List referencing projects")
	cmd.Flags().BoolVar(&opts.Leaves, "leaves", false, "List the outermost referencing projects")
	_ = viper.BindPFlag("refs.project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("refs.transitive", cmd.Flags().Lookup("transitive"))
	_ = viper.BindPFlag("refs.reverse", cmd.Flags().Lookup("reverse"))
	_ = viper.BindPFlag("refs.leaves", cmd.Flags().Lookup("leaves"))
	return cmd
}

func runRefs(ctx context.Context, cmd *cobra.Command, opts refsOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Refs(ctx, app.RefsRequest{
		Project:    resolveString(cmd, opts.Project, "refs.project", "project"),
		Transitive: resolveBool(cmd, opts.Transitive, "refs.transitive", "transitive"),
		Reverse:    resolveBool(cmd, opts.Reverse, "refs.reverse", "reverse"),
		Leaves:     resolveBool(cmd, opts.Leaves, "refs.leaves", "leaves"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range result.Projects {
		fmt.Fprintln(out, name)
	}
	if result.Cycle {
		fmt.Fprintf(out, "warning: references of %s form a cycle\n", result.Project)
	}
	return nil
}
