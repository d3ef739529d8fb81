package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeName is returned by SafeJoin for names that are not a single plain path element.
var ErrUnsafeName = fmt.Errorf("name is not a single path element")

// GetConfigDir returns the platform-specific configuration directory for the application.
// On Linux: ~/.config/modsync/
// On macOS: ~/Library/Application Support/modsync/
// On Windows: %AppData%\modsync\
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// SafeJoin joins dir and a remote-supplied file name, rejecting names that contain
// separators, are relative references, or are empty.
func SafeJoin(dir, name string) (string, error) {
	switch {
	case name == "", name == ".", name == "..":
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	case filepath.VolumeName(name) != "":
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return filepath.Join(dir, name), nil
}
