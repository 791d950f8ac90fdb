package filetype

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

//go:embed registry.schema.json
var registrySchemaJSON string

var registrySchema = jsonschema.MustCompileString("registry.schema.json", registrySchemaJSON)

// ParseError represents a registry file error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// registryFile is the decoded shape shared by Lua and YAML registry files.
type registryFile struct {
	Extensions map[string]string `yaml:"extensions"`
	Classes    map[string]string `yaml:"classes"`
}

func (f *registryFile) registry() (MapRegistry, error) {
	out := MapRegistry{}
	for ext, class := range f.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return nil, &ParseError{
				Message: "invalid extension key",
				Detail:  fmt.Sprintf("%q must start with a dot", ext),
			}
		}
		if class == "" {
			return nil, &ParseError{
				Message: "invalid class",
				Detail:  fmt.Sprintf("extension %q maps to an empty class", ext),
			}
		}
		out[strings.ToLower(ext)] = class
	}
	for class, label := range f.Classes {
		if strings.HasPrefix(class, ".") {
			return nil, &ParseError{
				Message: "invalid class key",
				Detail:  fmt.Sprintf("%q looks like an extension", class),
			}
		}
		out[class] = label
	}
	return out, nil
}

// LoadFile reads a registry file. The format follows the extension: .lua
// scripts or .yaml/.yml documents.
func LoadFile(ctx context.Context, path string) (MapRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return ParseLua(ctx, string(data))
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, &ParseError{
			Message: "unsupported registry file",
			Detail:  fmt.Sprintf("%s: expected .lua, .yaml or .yml", path),
		}
	}
}

// ParseLua evaluates a registry script in a sandboxed VM. The script must
// assign a global "filetypes" table:
//
//	filetypes = {
//	    extensions = { [".md"] = "markdownfile" },
//	    classes = { markdownfile = "Markdown Document" },
//	}
//
// A read-only "host" table describes the machine so scripts can branch on
// it (host.is_linux, host.family, ...).
func ParseLua(ctx context.Context, code string) (MapRegistry, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	info, err := DetectHost(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect host: %w", err)
	}
	injectHostTable(L, info)

	if err := L.DoString(code); err != nil {
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	root := L.GetGlobal("filetypes")
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'filetypes' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}
	table := root.(*lua.LTable)

	file := &registryFile{}
	if file.Extensions, err = stringMap(table, "extensions"); err != nil {
		return nil, err
	}
	if file.Classes, err = stringMap(table, "classes"); err != nil {
		return nil, err
	}

	return file.registry()
}

// stringMap extracts a string-to-string table field. A missing field is an
// empty map.
func stringMap(table *lua.LTable, field string) (map[string]string, error) {
	out := map[string]string{}

	value := table.RawGetString(field)
	switch value.Type() {
	case lua.LTNil:
		return out, nil
	case lua.LTTable:
	default:
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s' field", field),
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}

	var bad string
	value.(*lua.LTable).ForEach(func(k, v lua.LValue) {
		// Skip nil values (from host conditionals like: host.is_linux and "x" or nil)
		if v.Type() == lua.LTNil {
			return
		}
		if k.Type() != lua.LTString || v.Type() != lua.LTString {
			if bad == "" {
				bad = fmt.Sprintf("%s = %s", k.String(), v.String())
			}
			return
		}
		out[k.String()] = v.String()
	})
	if bad != "" {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid entry in '%s'", field),
			Detail:  fmt.Sprintf("%s: keys and values must be strings", bad),
		}
	}

	return out, nil
}

// ParseYAML decodes a YAML registry document after validating it against
// the registry schema:
//
//	extensions:
//	  .md: markdownfile
//	classes:
//	  markdownfile: Markdown Document
func ParseYAML(data []byte) (MapRegistry, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Message: "YAML syntax error",
			Detail:  err.Error(),
		}
	}
	if doc == nil {
		return MapRegistry{}, nil
	}

	if err := registrySchema.Validate(doc); err != nil {
		return nil, &ParseError{
			Message: "registry validation failed",
			Detail:  err.Error(),
		}
	}

	file := &registryFile{}
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, &ParseError{
			Message: "YAML decode error",
			Detail:  err.Error(),
		}
	}

	return file.registry()
}
