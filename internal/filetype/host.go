package filetype

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
	lua "github.com/yuin/gopher-lua"
)

// HostInfo describes the machine a registry script is evaluated on.
type HostInfo struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // GOARCH
	Platform string // distro ID on Linux, e.g. "ubuntu"
	Family   string // distro family on Linux, e.g. "debian"
	Version  string // distro version on Linux
}

// DetectHost reports the current host. Distribution details come from
// gopsutil and are left empty when detection fails.
func DetectHost(ctx context.Context) (*HostInfo, error) {
	info := &HostInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if runtime.GOOS != "linux" {
		return info, nil
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return info, nil
	}

	info.Platform = strings.ToLower(strings.TrimSpace(platform))
	info.Family = strings.ToLower(strings.TrimSpace(family))
	info.Version = strings.TrimSpace(version)
	return info, nil
}

// injectHostTable exposes info to scripts as a read-only global "host".
func injectHostTable(L *lua.LState, info *HostInfo) {
	t := L.NewTable()

	L.SetField(t, "os", lua.LString(info.OS))
	L.SetField(t, "arch", lua.LString(info.Arch))
	L.SetField(t, "platform", lua.LString(info.Platform))
	L.SetField(t, "family", lua.LString(info.Family))
	L.SetField(t, "version", lua.LString(info.Version))

	L.SetField(t, "is_linux", lua.LBool(info.OS == "linux"))
	L.SetField(t, "is_macos", lua.LBool(info.OS == "darwin"))
	L.SetField(t, "is_windows", lua.LBool(info.OS == "windows"))

	L.SetGlobal("host", makeReadOnly(L, t))
}

// makeReadOnly wraps table in a proxy whose metatable redirects reads and
// rejects writes.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("host table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
