package catalog

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ZebulonRouseFrantzich/resxport/internal/artifact"
	"github.com/ZebulonRouseFrantzich/resxport/internal/filetype"
	"github.com/ZebulonRouseFrantzich/resxport/internal/verify"
)

// Catalog answers resource discovery and extraction queries against one
// artifact. It holds no mutable state, so concurrent queries are safe.
type Catalog struct {
	artifact   artifact.Handle
	classifier *filetype.Classifier
	logger     Logger
	closer     io.Closer
}

type options struct {
	classifier    *filetype.Classifier
	logger        Logger
	signaturePath string
	keyringPath   string
	checksumsPath string
}

// Option configures a Catalog.
type Option func(*options)

// WithClassifier sets the type-label classifier. The default consults
// filetype.Default().
func WithClassifier(classifier *filetype.Classifier) Option {
	return func(o *options) {
		o.classifier = classifier
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSignature requires the artifact file to carry a valid detached
// OpenPGP signature from a key in keyringPath. Only applies to New and Open.
func WithSignature(signaturePath, keyringPath string) Option {
	return func(o *options) {
		o.signaturePath = signaturePath
		o.keyringPath = keyringPath
	}
}

// WithChecksums requires the artifact file to match its entry in a
// sha256sum-format file. Only applies to New and Open.
func WithChecksums(checksumsPath string) Option {
	return func(o *options) {
		o.checksumsPath = checksumsPath
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: &noopLogger{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.classifier == nil {
		o.classifier = filetype.NewClassifier(filetype.Default())
	}
	return o
}

// verify runs the integrity checks requested through options.
func (o *options) verify(path string) error {
	if o.signaturePath != "" {
		if _, err := verify.Signature(path, o.signaturePath, o.keyringPath); err != nil {
			return fmt.Errorf("signature verification failed: %w", err)
		}
		o.logger.Debug("artifact signature verified", "path", path)
	}
	if o.checksumsPath != "" {
		if _, err := verify.Checksum(path, o.checksumsPath); err != nil {
			return fmt.Errorf("checksum verification failed: %w", err)
		}
		o.logger.Debug("artifact checksum verified", "path", path)
	}
	return nil
}

// New binds a catalog to the executable the current process was started from.
func New(ctx context.Context, opts ...Option) (*Catalog, error) {
	path, err := artifact.ExecutablePath(ctx)
	if err != nil {
		return nil, &ArtifactLoadError{Err: fmt.Errorf("resolve executable: %w", err)}
	}
	return Open(path, opts...)
}

// Open loads the artifact at path and binds a catalog to it. The catalog
// owns the artifact; release it with Close.
func Open(path string, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)

	if err := o.verify(path); err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}

	bundle, err := artifact.Load(path)
	if err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}

	o.logger.Debug("artifact loaded",
		"path", path,
		"name", bundle.Name(),
		"format", string(bundle.Format()),
		"entries", len(bundle.ResourceIDs()))

	c := fromOptions(bundle, o)
	c.closer = bundle
	return c, nil
}

// FromArtifact binds a catalog to an artifact the caller already loaded.
// The caller keeps ownership of handle.
func FromArtifact(handle artifact.Handle, opts ...Option) *Catalog {
	return fromOptions(handle, newOptions(opts))
}

func fromOptions(handle artifact.Handle, o *options) *Catalog {
	return &Catalog{
		artifact:   handle,
		classifier: o.classifier,
		logger:     o.logger,
	}
}

// Close releases the artifact when the catalog loaded it itself.
func (c *Catalog) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// ArtifactName returns the artifact's logical name, the namespace prefix of
// its resource identifiers.
func (c *Catalog) ArtifactName() string {
	return c.artifact.Name()
}

// ResourceNames returns the logical names of all embedded resources in the
// artifact's native order. The order is not sorted.
func (c *Catalog) ResourceNames() []string {
	var names []string
	for info := range c.ResourceInfos() {
		names = append(names, info.Name)
	}
	return names
}

// ResourceInfos returns a sequence over the embedded resources in native
// order. Every range over the sequence re-queries the artifact.
func (c *Catalog) ResourceInfos() iter.Seq[ResourceInfo] {
	return func(yield func(ResourceInfo) bool) {
		for _, id := range c.artifact.ResourceIDs() {
			info, ok := c.describe(id)
			if !ok {
				continue
			}
			if !yield(info) {
				return
			}
		}
	}
}

// ResourceInfo looks up a single resource by logical name. ok is false when
// no embedded resource has that name; linked and missing resources are not
// distinguished.
func (c *Catalog) ResourceInfo(name string) (info ResourceInfo, ok bool) {
	return c.describe(c.qualify(name))
}

// qualify returns the raw identifier for a logical name.
func (c *Catalog) qualify(name string) string {
	return c.artifact.Name() + "." + name
}

// logicalName checks that id is an embedded resource in the artifact's
// namespace and strips the prefix.
func (c *Catalog) logicalName(id string) (string, bool) {
	loc, ok := c.artifact.Location(id)
	if !ok {
		c.logger.Debug("skipping resource without location", "id", id)
		return "", false
	}
	if !loc.Embedded() {
		c.logger.Debug("skipping resource that is not embedded", "id", id, "location", loc.String())
		return "", false
	}

	prefix := c.artifact.Name() + "."
	if !strings.HasPrefix(id, prefix) || len(id) == len(prefix) {
		c.logger.Debug("skipping resource outside artifact namespace", "id", id, "prefix", prefix)
		return "", false
	}

	return id[len(prefix):], true
}

// describe builds the info for id. The type comes from the extension of the
// raw identifier, so a logical name without a dot ("LICENSE") is classified
// by the text after the namespace dot.
func (c *Catalog) describe(id string) (ResourceInfo, bool) {
	name, ok := c.logicalName(id)
	if !ok {
		return ResourceInfo{}, false
	}

	return ResourceInfo{
		Name: name,
		Type: c.classifier.ClassifyName(id),
		Size: c.sizeOf(id),
	}, true
}

// sizeOf opens the payload only to read its length.
func (c *Catalog) sizeOf(id string) int64 {
	stream, err := c.artifact.Open(id)
	if err != nil || stream == nil {
		c.logger.Debug("resource stream unavailable", "id", id, "error", err)
		return 0
	}
	defer stream.Close()

	return stream.Size()
}
