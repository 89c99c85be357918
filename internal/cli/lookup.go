package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"objectpath/internal/app"
)

type lookupOptions struct {
	Project        string
	Kind           string
	Name           string
	Unqualified    bool
	RuntimeID      string
	TableStructure string
}

func newLookupCommand() *cobra.Command {
	opts := lookupOptions{}
	cmd := &cobra.Command{
		Use:   "lookup [name]",
		Short: "Find source files by name, runtime id or table structure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Name = args[0]
			}
			return runLookup(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project name")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Object kind of the name")
	cmd.Flags().BoolVar(&opts.Unqualified, "unqualified", false, "Match the simple name in any namespace")
	cmd.Flags().StringVar(&opts.RuntimeID, "runtime-id", "", "Runtime id of a product component")
	cmd.Flags().StringVar(&opts.TableStructure, "table-structure", "", "Qualified name of a table structure")
	_ = viper.BindPFlag("lookup.project", cmd.Flags().Lookup("project"))
	return cmd
}

func runLookup(ctx context.Context, cmd *cobra.Command, opts lookupOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Lookup(ctx, app.LookupRequest{
		Project:        resolveString(cmd, opts.Project, "lookup.project", "project"),
		Kind:           opts.Kind,
		Name:           opts.Name,
		Unqualified:    opts.Unqualified,
		RuntimeID:      opts.RuntimeID,
		TableStructure: opts.TableStructure,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(result.Sources) == 0 {
		fmt.Fprintln(out, "no match")
		return nil
	}
	for _, source := range result.Sources {
		fmt.Fprintf(out, "%s %s %s!%s\n", source.Kind, source.QualifiedName, source.Root, source.Path)
	}
	return nil
}
