//go:build windows

package filetype

import (
	"golang.org/x/sys/windows/registry"
)

// System returns the HKEY_CLASSES_ROOT registry of the host.
func System() Registry {
	return classesRoot{}
}

type classesRoot struct{}

// Lookup reads the default value of HKEY_CLASSES_ROOT\key.
func (classesRoot) Lookup(key string) (string, bool) {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, key, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer k.Close()

	value, _, err := k.GetStringValue("")
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
