package native

import (
	"context"
	"errors"
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory FileSource that records downloads.
type fakeSource struct {
	mu         sync.Mutex
	files      []string
	listErr    error
	dlErr      error
	downloaded []string
	listedRepo string
}

func (f *fakeSource) ListFiles(ctx context.Context, repoID string) ([]string, error) {
	f.listedRepo = repoID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeSource) Download(ctx context.Context, repoID, file string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dlErr != nil {
		return "", f.dlErr
	}
	f.downloaded = append(f.downloaded, file)
	return path.Join("/cache", repoID, file), nil
}

var tinyllamaFiles = []string{
	".gitattributes",
	"README.md",
	"config.json",
	"tinyllama-1.1b-chat-v1.0.Q2_K.gguf",
	"tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf",
	"tinyllama-1.1b-chat-v1.0.Q8_0.gguf",
}

func TestMatchFile(t *testing.T) {
	got, err := MatchFile("r", "tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf", tinyllamaFiles)
	require.NoError(t, err)
	assert.Equal(t, "tinyllama-1.1b-chat-v1.0.Q4_K_M.gguf", got)

	got, err = MatchFile("r", "*Q8_0.gguf", tinyllamaFiles)
	require.NoError(t, err)
	assert.Equal(t, "tinyllama-1.1b-chat-v1.0.Q8_0.gguf", got)
}

func TestMatchFile_BaseNameInSubdirectory(t *testing.T) {
	files := []string{"Q4_K_M/model-Q4_K_M.gguf", "Q8_0/model-Q8_0.gguf"}
	got, err := MatchFile("r", "*Q8_0.gguf", files)
	require.NoError(t, err)
	assert.Equal(t, "Q8_0/model-Q8_0.gguf", got)
}

func TestMatchFile_NoneOrMany(t *testing.T) {
	_, err := MatchFile("r", "*Q5_K_S.gguf", tinyllamaFiles)
	require.Error(t, err)
	assert.True(t, IsFileMatch(err))

	_, err = MatchFile("r", "", tinyllamaFiles)
	require.Error(t, err)
	assert.True(t, IsFileMatch(err))
	assert.Contains(t, err.Error(), "Q2_K")

	_, err = MatchFile("r", "[", tinyllamaFiles)
	assert.Error(t, err)
}

func TestMatchFile_EmptyPatternPicksOnlyGGUF(t *testing.T) {
	got, err := MatchFile("r", "", []string{"README.md", "model.Q4_K_M.gguf"})
	require.NoError(t, err)
	assert.Equal(t, "model.Q4_K_M.gguf", got)
}

func TestMatchFile_SplitModelCountsOnce(t *testing.T) {
	files := []string{
		"big-Q4_K_M-00001-of-00003.gguf",
		"big-Q4_K_M-00002-of-00003.gguf",
		"big-Q4_K_M-00003-of-00003.gguf",
	}
	got, err := MatchFile("r", "*Q4_K_M*.gguf", files)
	require.NoError(t, err)
	assert.Equal(t, "big-Q4_K_M-00001-of-00003.gguf", got)
}

func TestResolveFile_DownloadsShards(t *testing.T) {
	src := &fakeSource{files: []string{
		"big-Q4_K_M-00001-of-00002.gguf",
		"big-Q4_K_M-00002-of-00002.gguf",
	}}
	p, err := ResolveFile(context.Background(), src, "org/big", "*.gguf")
	require.NoError(t, err)
	assert.Equal(t, "/cache/org/big/big-Q4_K_M-00001-of-00002.gguf", p)
	assert.Equal(t, []string{"big-Q4_K_M-00001-of-00002.gguf", "big-Q4_K_M-00002-of-00002.gguf"}, src.downloaded)
}

func TestResolveFile_Errors(t *testing.T) {
	listErr := errors.New("401 unauthorized")
	_, err := ResolveFile(context.Background(), &fakeSource{listErr: listErr}, "org/private", "*.gguf")
	assert.ErrorIs(t, err, listErr)

	dlErr := errors.New("disk full")
	_, err = ResolveFile(context.Background(), &fakeSource{files: tinyllamaFiles, dlErr: dlErr}, "org/r", "*Q2_K.gguf")
	assert.ErrorIs(t, err, dlErr)
}

func TestResolveFile_LaterShardLoadsFromFirst(t *testing.T) {
	src := &fakeSource{files: []string{
		"README.md",
		"m-00001-of-00002.gguf",
		"m-00002-of-00002.gguf",
	}}
	p, err := ResolveFile(context.Background(), src, "org/m", "*-00002-of-00002.gguf")
	require.NoError(t, err)
	assert.Equal(t, "/cache/org/m/m-00001-of-00002.gguf", p)
	assert.Equal(t, []string{"m-00001-of-00002.gguf", "m-00002-of-00002.gguf"}, src.downloaded)
}

func TestMatchFile_SplitModelsInSubdirectory(t *testing.T) {
	files := []string{
		"Q8_0/big-Q8_0-00001-of-00002.gguf",
		"Q8_0/big-Q8_0-00002-of-00002.gguf",
		"Q4_K_M/big-Q4_K_M-00001-of-00002.gguf",
		"Q4_K_M/big-Q4_K_M-00002-of-00002.gguf",
	}
	got, err := MatchFile("r", "*Q8_0-00002*", files)
	require.NoError(t, err)
	assert.Equal(t, "Q8_0/big-Q8_0-00001-of-00002.gguf", got)

	_, err = MatchFile("r", "", files)
	require.Error(t, err)
	assert.True(t, IsFileMatch(err))
}
