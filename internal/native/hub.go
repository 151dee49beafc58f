package native

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"

	"github.com/gomlx/go-huggingface/hub"
)

// FileSource lists and fetches files of a hosted model repository.
type FileSource interface {
	ListFiles(ctx context.Context, repoID string) ([]string, error)
	// Download returns the local path of file, fetching it if not cached.
	Download(ctx context.Context, repoID, file string) (string, error)
}

// HubSource is a FileSource backed by the Hugging Face Hub.
type HubSource struct {
	CacheDir string
	Token    string
	Revision string
}

func (s HubSource) repo(repoID string) *hub.Repo {
	r := hub.New(repoID)
	if s.Token != "" {
		r = r.WithAuth(s.Token)
	}
	if s.CacheDir != "" {
		r = r.WithCacheDir(s.CacheDir)
	}
	if s.Revision != "" {
		r = r.WithRevision(s.Revision)
	}
	return r
}

func (s HubSource) ListFiles(ctx context.Context, repoID string) ([]string, error) {
	var files []string
	for name, err := range s.repo(repoID).IterFileNames() {
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", repoID, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		files = append(files, name)
	}
	return files, nil
}

func (s HubSource) Download(ctx context.Context, repoID, file string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := s.repo(repoID).DownloadFile(file)
	if err != nil {
		return "", fmt.Errorf("download %s/%s: %w", repoID, file, err)
	}
	return p, nil
}

// defaultFilePattern selects GGUF files when no filename is given.
const defaultFilePattern = "*.gguf"

// Shard names of split GGUF models, e.g. model-00001-of-00003.gguf.
var (
	splitPart  = regexp.MustCompile(`^(.*)-00001-of-(\d{5})\.gguf$`)
	splitShard = regexp.MustCompile(`^(.*)-\d{5}-of-(\d{5})\.gguf$`)
)

// MatchFile selects the one repository file matching pattern. The pattern is
// tried against the full repository path and against the base name.
func MatchFile(repoID, pattern string, files []string) (string, error) {
	if pattern == "" {
		pattern = defaultFilePattern
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return "", fmt.Errorf("filename pattern %q: %w", pattern, err)
	}
	var matches []string
	for _, f := range files {
		full, _ := path.Match(pattern, f)
		base, _ := path.Match(pattern, path.Base(f))
		if full || base {
			matches = append(matches, f)
		}
	}
	matches = collapseSplits(matches)
	if len(matches) != 1 {
		sort.Strings(matches)
		return "", fileMatchError{repo: repoID, pattern: pattern, matches: matches}
	}
	return matches[0], nil
}

// collapseSplits replaces every shard of a split model by its first shard
// and drops duplicates, so a glob that selects any part of a split model
// counts as one match on the file llama.cpp loads.
func collapseSplits(files []string) []string {
	out := make([]string, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if m := splitShard.FindStringSubmatch(f); m != nil {
			f = m[1] + "-00001-of-" + m[2] + ".gguf"
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// splitShards lists every shard file name for the first shard of a split model.
func splitShards(first string) []string {
	m := splitPart.FindStringSubmatch(first)
	if m == nil {
		return nil
	}
	total, _ := strconv.Atoi(m[2])
	shards := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		shards = append(shards, fmt.Sprintf("%s-%05d-of-%s.gguf", m[1], i, m[2]))
	}
	return shards
}

// ResolveFile picks the model file in repoID selected by pattern and makes
// sure it, and any sibling shards, are available locally. It returns the path
// llama.cpp should be pointed at.
func ResolveFile(ctx context.Context, src FileSource, repoID, pattern string) (string, error) {
	files, err := src.ListFiles(ctx, repoID)
	if err != nil {
		return "", err
	}
	name, err := MatchFile(repoID, pattern, files)
	if err != nil {
		return "", err
	}
	local, err := src.Download(ctx, repoID, name)
	if err != nil {
		return "", err
	}
	shards := splitShards(name)
	for _, s := range shards[min(1, len(shards)):] {
		if _, err := src.Download(ctx, repoID, s); err != nil {
			return "", err
		}
	}
	return local, nil
}
