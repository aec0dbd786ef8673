// pkg/platform/detect.go
package platform

import (
	"fmt"
	"os"
	"runtime"
	"slices"
)

// Platform describes the tooling available to uvx on this system
type Platform struct {
	OS           string   // linux, darwin, windows
	Arch         string   // amd64, arm64, 386, arm
	Available    []string // Interpreters and tools found on PATH
	UV           string   // Resolved uv executable, empty if missing
	BinDir       string   // Directory script symlinks are written to
	BinDirOnPath bool     // Whether BinDir is listed in PATH
}

// pythonCandidates are probed in order
var pythonCandidates = []string{"python3", "python"}

// Detect probes for uv and Python and checks whether binDir is on PATH
func Detect(uvExe, binDir string) (*Platform, error) {
	p := &Platform{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Available: []string{},
		BinDir:    binDir,
	}

	switch p.OS {
	case "linux", "darwin", "freebsd":
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", p.OS)
	}

	if uv, err := ResolveUV(uvExe); err == nil {
		p.UV = uv
		p.Available = append(p.Available, "uv")
	}

	for _, py := range pythonCandidates {
		if commandExists(py) {
			p.Available = append(p.Available, py)
		}
	}

	p.BinDirOnPath = onPath(binDir, os.Getenv("PATH"))
	return p, nil
}

// HasPython reports whether any Python interpreter was found
func (p *Platform) HasPython() bool {
	for _, py := range pythonCandidates {
		if slices.Contains(p.Available, py) {
			return true
		}
	}
	return false
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (available: %v, uv: %s)",
		p.OS, p.Arch, p.Available, p.UV)
}
