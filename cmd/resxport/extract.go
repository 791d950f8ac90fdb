package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZebulonRouseFrantzich/resxport/internal/catalog"
)

type extractOptions struct {
	all     bool
	outDir  string
	outFile string
}

// validate checks flag combinations before the artifact is opened.
func (o *extractOptions) validate(names []string) error {
	switch {
	case o.all && len(names) > 0:
		return errors.New("--all cannot be combined with resource names")
	case !o.all && len(names) == 0:
		return errors.New("no resources named; pass NAME... or --all")
	case o.outFile != "" && len(names) != 1:
		return errors.New("--file requires exactly one resource name")
	}
	return nil
}

func newExtractCommand(opts *globalOptions) *cobra.Command {
	extractOpts := &extractOptions{}

	extractCmd := &cobra.Command{
		Use:   "extract ARTIFACT [NAME...]",
		Short: "Extract embedded resources to disk",
		Long: `Extract writes each named resource to the output directory under its
logical name, replacing existing files. --all extracts every embedded
resource. --file writes a single resource to an explicit path.`,
		Example: `  resxport extract ./Library.dll readme.txt -o ./out
  resxport extract ./Library.dll hypertrm.dll --file /tmp/hypertrm.dll
  resxport extract --all ./Library.dll -o ./out`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args[1:]
			if err := extractOpts.validate(names); err != nil {
				return err
			}

			return opts.withCatalog(cmd, args[0], func(cat *catalog.Catalog, log *zap.SugaredLogger) error {
				if extractOpts.outFile != "" {
					if err := cat.ExtractToFile(names[0], extractOpts.outFile); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), extractOpts.outFile)
					return nil
				}

				if err := os.MkdirAll(extractOpts.outDir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}

				if extractOpts.all {
					return extractAll(cmd, cat, extractOpts.outDir, log)
				}

				for _, name := range names {
					if err := cat.ExtractToDirectory(name, extractOpts.outDir); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(extractOpts.outDir, filepath.FromSlash(name)))
				}
				return nil
			})
		},
	}

	flags := extractCmd.Flags()
	flags.BoolVarP(&extractOpts.all, "all", "a", false, "extract every embedded resource")
	flags.StringVarP(&extractOpts.outDir, "output", "o", ".", "output directory (created if missing)")
	flags.StringVar(&extractOpts.outFile, "file", "", "write the single named resource to this path")
	return extractCmd
}

// extractAll extracts every embedded resource with a progress bar on stderr.
// A failed resource is logged and the rest are still extracted.
func extractAll(cmd *cobra.Command, cat *catalog.Catalog, outDir string, log *zap.SugaredLogger) error {
	names := cat.ResourceNames()
	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no embedded resources\n", cat.ArtifactName())
		return nil
	}

	bar := progressbar.NewOptions(len(names),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	var failed []string
	for _, name := range names {
		if err := cat.ExtractToDirectory(name, outDir); err != nil {
			log.Errorw("extraction failed", "name", name, "error", err)
			failed = append(failed, name)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Fprintf(cmd.OutOrStdout(), "extracted %d of %d resources to %s\n",
		len(names)-len(failed), len(names), outDir)

	if len(failed) > 0 {
		return fmt.Errorf("%d resources could not be extracted: %v", len(failed), failed)
	}
	return nil
}
