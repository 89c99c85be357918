package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"objectpath/internal/app"
)

type listOptions struct {
	Projects []string
}

func newListCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the object path of workspace projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Projects, "project", nil, "Projects to show (default all)")
	_ = viper.BindPFlag("list.projects", cmd.Flags().Lookup("project"))
	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, opts listOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.List(ctx, app.ListRequest{
		Projects: resolveStrings(cmd, opts.Projects, "list.projects", "project"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, summary := range result.Projects {
		switch {
		case !summary.Configured:
			fmt.Fprintf(out, "%s (not configured)\n", summary.Name)
			continue
		case summary.ManifestDriven:
			fmt.Fprintf(out, "%s (manifest)\n", summary.Name)
		default:
			fmt.Fprintf(out, "%s\n", summary.Name)
		}
		for _, entry := range summary.Entries {
			fmt.Fprintf(out, "- %s\n", entry)
		}
		if len(summary.OutputFolders) > 0 {
			fmt.Fprintf(out, "  outputs: %s\n", strings.Join(summary.OutputFolders, ", "))
		}
	}
	return nil
}
