package statestore

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName    = ".complaintdesk" // default under $HOME
	dbFilename = "sessions.db"
)

// DataDir returns the directory where local state is stored. custom
// overrides the default ~/.complaintdesk. The directory is created with
// 0700 permissions since it holds credentials.
func DataDir(custom string) (string, error) {
	if custom != "" {
		if err := os.MkdirAll(custom, 0o700); err != nil {
			return "", err
		}
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// DBPath returns the absolute path to the SQLite database file.
func DBPath(custom string) (string, error) {
	dir, err := DataDir(custom)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFilename), nil
}
