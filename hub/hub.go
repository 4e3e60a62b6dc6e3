// Package hub fetches pretrained tokenizer assets (vocabularies, merges
// files, SentencePiece models) from a Hugging Face style model hub into a
// local cache. Files are downloaded once: concurrent processes coordinate
// through a file lock, and a finished download is moved into place
// atomically. The tokenization pipeline itself never touches the network;
// only constructors and the CLI resolve files through a Repo.
package hub

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultEndpoint is the hub all Repos resolve against unless
	// overridden with WithEndpoint.
	DefaultEndpoint = "https://huggingface.co"

	// DefaultRevision is the branch used when none is given.
	DefaultRevision = "main"

	// DefaultDirCreationPerm is used when creating cache directories.
	DefaultDirCreationPerm = os.FileMode(0o755)
)

// cacheSubdir is the directory under the user cache dir holding all
// downloaded files.
const cacheSubdir = "go-tokenizers"

// Repo addresses one model repository at one revision and caches its
// files under a local directory. The zero value is not usable; construct
// with New.
type Repo struct {
	id        string
	revision  string
	endpoint  string
	cacheDir  string
	authToken string
	client    *http.Client
}

// New returns a Repo for the given model ID (for example
// "bert-base-uncased" or "google/flan-t5-small") at the default revision,
// cached under DefaultCacheDir.
func New(id string) *Repo {
	return &Repo{
		id:       id,
		revision: DefaultRevision,
		endpoint: DefaultEndpoint,
		cacheDir: DefaultCacheDir(),
		client:   http.DefaultClient,
	}
}

// DefaultCacheDir is the per-user download cache, under the OS user cache
// directory, falling back to the system temp directory.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, cacheSubdir)
}

// WithRevision sets the repository revision (branch, tag or commit).
// It returns the Repo to allow chaining.
func (r *Repo) WithRevision(revision string) *Repo {
	r.revision = revision
	return r
}

// WithEndpoint sets the hub base URL. It returns the Repo to allow
// chaining.
func (r *Repo) WithEndpoint(endpoint string) *Repo {
	r.endpoint = strings.TrimSuffix(endpoint, "/")
	return r
}

// WithCacheDir sets the local cache directory. It returns the Repo to
// allow chaining.
func (r *Repo) WithCacheDir(dir string) *Repo {
	r.cacheDir = dir
	return r
}

// WithAuthToken sets the bearer token sent with every request, needed for
// gated or private repositories. It returns the Repo to allow chaining.
func (r *Repo) WithAuthToken(token string) *Repo {
	r.authToken = token
	return r
}

// WithClient sets the HTTP client used for all requests. It returns the
// Repo to allow chaining.
func (r *Repo) WithClient(client *http.Client) *Repo {
	r.client = client
	return r
}

// ID returns the repository ID.
func (r *Repo) ID() string { return r.id }

// FileURL returns the resolve URL of fileName at the Repo's revision.
func (r *Repo) FileURL(fileName string) string {
	return r.endpoint + "/" + r.id + "/resolve/" + r.revision + "/" + fileName
}

// CachePath returns the local path fileName is cached at. The file may
// not exist yet; DownloadFile creates it.
func (r *Repo) CachePath(fileName string) string {
	return filepath.Join(r.cacheDir, strings.ReplaceAll(r.id, "/", "--"), r.revision, fileName)
}

// HasFile reports whether fileName exists in the repository at the Repo's
// revision, without downloading it.
func (r *Repo) HasFile(ctx context.Context, fileName string) (bool, error) {
	url := r.FileURL(fileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, errors.Wrapf(err, "building request for %q", url)
	}
	r.authorize(req)
	resp, err := r.client.Do(req)
	if err != nil {
		return false, errors.Wrapf(err, "checking %q", url)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, errors.Errorf("checking %q: %s", url, resp.Status)
	}
}

// DownloadFile ensures fileName is present in the local cache and returns
// its path. A file already in the cache is not downloaded again; a missing
// remote file fails with a FileNotFoundError (api.IsFileNotFound).
func (r *Repo) DownloadFile(ctx context.Context, fileName string) (string, error) {
	filePath := r.CachePath(fileName)
	if err := r.lockedDownload(ctx, r.FileURL(fileName), filePath, false); err != nil {
		return "", err
	}
	return filePath, nil
}

// RefreshFile re-downloads fileName even when a cached copy exists and
// returns its path.
func (r *Repo) RefreshFile(ctx context.Context, fileName string) (string, error) {
	filePath := r.CachePath(fileName)
	if err := r.lockedDownload(ctx, r.FileURL(fileName), filePath, true); err != nil {
		return "", err
	}
	return filePath, nil
}

func (r *Repo) authorize(req *http.Request) {
	if r.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.authToken)
	}
}
