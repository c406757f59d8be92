package file

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/shared/params"
)

// ExpandPath replaces a leading tilde with the user home dir, expands
// environment variables and returns the cleaned absolute path.
// ~someuser/ prefixes are not expanded.
func ExpandPath(p string) (string, error) {
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := HomeDir(); home != "" {
			p = home + p[1:]
		}
	}

	return filepath.Abs(filepath.Clean(os.ExpandEnv(p)))
}

// HomeDir for a user.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}

	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}

	return ""
}

// HasDir checks if a directory exists at the given path.
func HasDir(dirPath string) (bool, error) {
	fullPath, err := ExpandPath(dirPath)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return info.IsDir(), nil
}

// EnsureDir creates dirPath with the data directory permissions when it
// doesn't exist. An existing directory is left untouched.
func EnsureDir(dirPath string) error {
	exists, err := HasDir(dirPath)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	expanded, err := ExpandPath(dirPath)
	if err != nil {
		return err
	}

	perm := params.IoParams().ReadWriteExecutePermissions
	if err := os.MkdirAll(expanded, perm); err != nil {
		return errors.Wrapf(err, "can't create directory %s", expanded)
	}

	return nil
}

// DefaultDataDir is the default place for the output database and the journal.
func DefaultDataDir() string {
	home := HomeDir()
	if home == "" {
		return ""
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Ledgerxfr")
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Ledgerxfr")
	default:
		return filepath.Join(home, ".ledgerxfr")
	}
}
