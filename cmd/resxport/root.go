package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ZebulonRouseFrantzich/resxport/internal/catalog"
	"github.com/ZebulonRouseFrantzich/resxport/internal/filetype"
)

// selfArtifact is the ARTIFACT argument that binds to resxport itself.
const selfArtifact = "self"

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	types     string
	verbose   bool
	signature string
	keyring   string
	checksums string
}

func (o *globalOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.types, "types", "",
		"type registry file (.lua, .yaml or .yml); overrides $RESXPORT_TYPES")
	flags.BoolVarP(&o.verbose, "verbose", "v", false,
		"log debug output to stderr")
	flags.StringVar(&o.signature, "signature", "",
		"detached OpenPGP signature the artifact must match (requires --keyring)")
	flags.StringVar(&o.keyring, "keyring", "",
		"OpenPGP keyring holding the release signing key")
	flags.StringVar(&o.checksums, "checksums", "",
		"sha256sum-format file the artifact must match")
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "resxport",
		Short: "List and extract resources embedded in compiled artifacts",
		Long: `resxport inspects the resource bundle carried by a compiled artifact
(ELF, PE or Mach-O binary with an appended bundle, or a bare bundle file).
It lists resources with their type labels and sizes and extracts them to disk.

Pass "self" as ARTIFACT to inspect the resxport executable itself.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newListCommand(opts),
		newInfoCommand(opts),
		newExtractCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

// withCatalog builds the logger, binds a catalog to target and hands both to
// fn. Both are released when fn returns.
func (o *globalOptions) withCatalog(cmd *cobra.Command, target string, fn func(*catalog.Catalog, *zap.SugaredLogger) error) error {
	logger, err := newLogger(cmd.ErrOrStderr(), o.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	cat, err := o.openCatalog(cmd.Context(), target, log)
	if err != nil {
		return err
	}
	defer cat.Close()

	return fn(cat, log)
}

func (o *globalOptions) openCatalog(ctx context.Context, target string, log *zap.SugaredLogger) (*catalog.Catalog, error) {
	classifier, err := o.classifier(ctx, log)
	if err != nil {
		return nil, err
	}

	catOpts := []catalog.Option{
		catalog.WithClassifier(classifier),
		catalog.WithLogger(newCatalogLogger(log)),
	}
	if o.signature != "" {
		if o.keyring == "" {
			return nil, errors.New("--signature requires --keyring")
		}
		catOpts = append(catOpts, catalog.WithSignature(o.signature, o.keyring))
	}
	if o.checksums != "" {
		catOpts = append(catOpts, catalog.WithChecksums(o.checksums))
	}

	if target == selfArtifact {
		return catalog.New(ctx, catOpts...)
	}
	return catalog.Open(target, catOpts...)
}

// classifier layers the configured registry file, if any, over the default
// registries.
func (o *globalOptions) classifier(ctx context.Context, log *zap.SugaredLogger) (*filetype.Classifier, error) {
	path := o.types
	if path == "" {
		path = os.Getenv("RESXPORT_TYPES")
	}
	if path == "" {
		return filetype.NewClassifier(filetype.Default()), nil
	}

	registry, err := filetype.LoadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load type registry %s: %w", path, err)
	}
	log.Debugw("type registry loaded", "path", path, "entries", len(registry))

	return filetype.NewClassifier(filetype.NewChain(registry, filetype.Default())), nil
}
