package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lxllama/internal/common/fsutil"
	"lxllama/pkg/types"
)

// repoDirPrefix prefixes model repositories in a hub cache, e.g. models--org--name.
const repoDirPrefix = "models--"

// ScanCache lists the *.gguf files already downloaded into a Hugging Face hub
// cache directory. A missing directory yields an empty list. Files present in
// several snapshots are reported once.
func ScanCache(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if !fsutil.DirExists(abs) {
		return nil, nil
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	seen := map[string]bool{}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), repoDirPrefix) {
			continue
		}
		repo := strings.ReplaceAll(strings.TrimPrefix(e.Name(), repoDirPrefix), "--", "/")
		snapshots := filepath.Join(abs, e.Name(), "snapshots")
		revs, err := os.ReadDir(snapshots)
		if err != nil {
			continue
		}
		for _, rev := range revs {
			root := filepath.Join(snapshots, rev.Name())
			err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				if !strings.HasSuffix(strings.ToLower(d.Name()), ".gguf") {
					return nil
				}
				rel, err := filepath.Rel(root, p)
				if err != nil {
					return err
				}
				file := filepath.ToSlash(rel)
				id := "hf:" + repo + ":" + file
				if seen[id] {
					return nil
				}
				seen[id] = true
				var size int64
				if fi, err := os.Stat(p); err == nil {
					size = fi.Size()
				}
				models = append(models, types.Model{ID: id, Repo: repo, File: file, Path: p, SizeBytes: size})
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", root, err)
			}
		}
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}
