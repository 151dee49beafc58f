package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/.cache/huggingface
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// HubCacheDir returns the Hugging Face hub cache directory, honouring
// HF_HUB_CACHE and HF_HOME like the official tooling. The result may still
// start with '~'.
func HubCacheDir() string {
	if v := strings.TrimSpace(os.Getenv("HF_HUB_CACHE")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("HF_HOME")); v != "" {
		return filepath.Join(v, "hub")
	}
	return "~/.cache/huggingface/hub"
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
