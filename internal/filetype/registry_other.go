//go:build !windows

package filetype

// System returns nil: only Windows has a host class registry.
func System() Registry {
	return nil
}
