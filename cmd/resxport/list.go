package main

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZebulonRouseFrantzich/resxport/internal/catalog"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	var (
		long   bool
		sorted bool
	)

	listCmd := &cobra.Command{
		Use:   "list ARTIFACT",
		Short: "List the resources embedded in an artifact",
		Long: `List prints the logical name of every embedded resource, one per line,
in the artifact's native order. With --long each row also carries the type
label and the payload size in bytes.`,
		Example: `  resxport list ./Library.dll
  resxport list --long --sort ./Library.dll
  resxport list self`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCatalog(cmd, args[0], func(cat *catalog.Catalog, log *zap.SugaredLogger) error {
				infos := slices.Collect(cat.ResourceInfos())
				log.Debugw("resources listed", "artifact", cat.ArtifactName(), "count", len(infos))

				if sorted {
					sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
				}
				if long {
					return writeLongListing(cmd.OutOrStdout(), infos)
				}
				for _, info := range infos {
					fmt.Fprintln(cmd.OutOrStdout(), info.Name)
				}
				return nil
			})
		},
	}

	listCmd.Flags().BoolVarP(&long, "long", "l", false, "include type label and size")
	listCmd.Flags().BoolVarP(&sorted, "sort", "s", false, "sort by name instead of native order")
	return listCmd
}

// writeLongListing prints NAME, TYPE and SIZE columns.
func writeLongListing(w io.Writer, infos []catalog.ResourceInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSIZE")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", info.Name, info.Type, info.Size)
	}
	return tw.Flush()
}
