// pkg/platform/utils.go
package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// onPath checks if dir is one of the entries of a PATH-style list
func onPath(dir, path string) bool {
	if dir == "" {
		return false
	}
	want := filepath.Clean(dir)
	for _, entry := range strings.Split(path, string(os.PathListSeparator)) {
		if entry != "" && filepath.Clean(entry) == want {
			return true
		}
	}
	return false
}
