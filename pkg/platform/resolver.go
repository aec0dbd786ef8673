// pkg/platform/resolver.go
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveUV finds the uv executable to use.
// Priority:
// 1. An explicit path (containing a separator) that exists
// 2. The configured name looked up on PATH
// 3. "uv" on PATH
func ResolveUV(configured string) (string, error) {
	if configured != "" && strings.ContainsRune(configured, os.PathSeparator) {
		if info, err := os.Stat(configured); err == nil && !info.IsDir() {
			return configured, nil
		}
		return "", fmt.Errorf("uv executable '%s' not found", configured)
	}

	names := []string{"uv"}
	if configured != "" && configured != "uv" {
		names = append([]string{configured}, names...)
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("uv is not installed or not on PATH")
}
