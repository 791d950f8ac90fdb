package artifact

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// LoadSelf loads the executable the current process was started from.
func LoadSelf(ctx context.Context) (*Bundle, error) {
	path, err := ExecutablePath(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return Load(path)
}

// ExecutablePath returns the path of the running executable. It asks
// gopsutil first and falls back to os.Executable when the process table is
// unavailable (sandboxes, restricted /proc).
func ExecutablePath(ctx context.Context) (string, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err == nil {
		exe, err := proc.ExeWithContext(ctx)
		if err == nil && exe != "" {
			if _, statErr := os.Stat(exe); statErr == nil {
				return exe, nil
			}
		}
	}

	// Check if context was cancelled - this is a hard failure
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	return os.Executable()
}
