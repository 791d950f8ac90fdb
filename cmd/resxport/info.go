package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZebulonRouseFrantzich/resxport/internal/catalog"
)

func newInfoCommand(opts *globalOptions) *cobra.Command {
	var digest bool

	infoCmd := &cobra.Command{
		Use:   "info ARTIFACT NAME",
		Short: "Show the type label and size of one resource",
		Example: `  resxport info ./Library.dll readme.txt
  resxport info --digest ./Library.dll hypertrm.dll`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[1]
			return opts.withCatalog(cmd, args[0], func(cat *catalog.Catalog, _ *zap.SugaredLogger) error {
				info, ok := cat.ResourceInfo(name)
				if !ok {
					return &catalog.ResourceNotFoundError{Name: name}
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:     %s\n", info.Name)
				fmt.Fprintf(out, "Type:     %s\n", info.Type)
				fmt.Fprintf(out, "Size:     %d\n", info.Size)
				fmt.Fprintf(out, "Artifact: %s\n", cat.ArtifactName())

				if digest {
					sum, err := cat.Digest(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "BLAKE3:   %s\n", sum)
				}
				return nil
			})
		},
	}

	infoCmd.Flags().BoolVar(&digest, "digest", false, "also print the BLAKE3 digest of the payload")
	return infoCmd
}
