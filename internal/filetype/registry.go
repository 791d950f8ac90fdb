package filetype

import "strings"

// MapRegistry is a static registry. Extension keys (".txt") and class keys
// ("txtfile") share one namespace. Lookups fall back to the lower-cased key.
type MapRegistry map[string]string

// Lookup implements Registry.
func (m MapRegistry) Lookup(key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	v, ok := m[strings.ToLower(key)]
	return v, ok
}

// builtinTypes lists the common Windows file classes. PDF and EPUB are
// deliberately absent; they depend on which reader is installed.
var builtinTypes = MapRegistry{
	".txt":  "txtfile",
	".log":  "txtfile",
	".dll":  "dllfile",
	".exe":  "exefile",
	".sys":  "sysfile",
	".bat":  "batfile",
	".cmd":  "cmdfile",
	".ini":  "inifile",
	".inf":  "inffile",
	".reg":  "regfile",
	".htm":  "htmlfile",
	".html": "htmlfile",
	".xml":  "xmlfile",
	".zip":  "CompressedFolder",
	".jpg":  "jpegfile",
	".jpeg": "jpegfile",
	".png":  "pngfile",
	".bmp":  "Paint.Picture",
	".wav":  "soundrec",

	"txtfile":          "Text Document",
	"dllfile":          "Application Extension",
	"exefile":          "Application",
	"sysfile":          "System file",
	"batfile":          "Windows Batch File",
	"cmdfile":          "Windows Command Script",
	"inifile":          "Configuration Settings",
	"inffile":          "Setup Information",
	"regfile":          "Registration Entries",
	"htmlfile":         "HTML Document",
	"xmlfile":          "XML Document",
	"CompressedFolder": "Compressed (zipped) Folder",
	"jpegfile":         "JPEG image",
	"pngfile":          "PNG image",
	"Paint.Picture":    "Bitmap image",
	"soundrec":         "Wave Sound",
}

// Builtin returns a copy of the static registry shipped with resxport.
func Builtin() MapRegistry {
	out := make(MapRegistry, len(builtinTypes))
	for k, v := range builtinTypes {
		out[k] = v
	}
	return out
}

// Chain consults registries in order; the first hit wins. Nil members are
// skipped.
type Chain []Registry

// NewChain builds a chain, dropping nil registries.
func NewChain(registries ...Registry) Chain {
	chain := make(Chain, 0, len(registries))
	for _, r := range registries {
		if r != nil {
			chain = append(chain, r)
		}
	}
	return chain
}

// Lookup implements Registry.
func (c Chain) Lookup(key string) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if v, ok := safeLookup(r, key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Default returns the host registry (when the platform has one) backed by
// the builtin table.
func Default() Registry {
	return NewChain(System(), Builtin())
}
