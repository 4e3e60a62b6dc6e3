package hub

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/go-tokenizers/api"
)

// lockedDownload fetches url to filePath.
//
// If filePath exists and force is false it is assumed to have been
// downloaded correctly before, and the function returns immediately.
//
// The file is downloaded under a unique temporary name next to filePath
// and then atomically moved into place, so a partially written file is
// never visible at filePath.
//
// A filePath+".lock" file coordinates multiple processes or goroutines
// downloading the same file at the same time: whoever acquires the lock
// first downloads, the rest find the finished file.
func (r *Repo) lockedDownload(ctx context.Context, url, filePath string, force bool) error {
	if fileExists(filePath) {
		if !force {
			klog.V(2).Infof("using cached %q for %q", filePath, url)
			return nil
		}
		if err := os.Remove(filePath); err != nil {
			return errors.Wrapf(err, "failed to remove %q while force-downloading %q", filePath, url)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for file %q", filePath)
	}

	lockPath := filePath + ".lock"
	var mainErr error
	errLock := execOnFileLock(ctx, lockPath, func() {
		if fileExists(filePath) {
			// Some concurrent process or goroutine already downloaded it.
			return
		}

		tmpPath := filePath + ".download-" + uuid.NewString()
		if mainErr = r.fetch(ctx, url, tmpPath); mainErr != nil {
			return
		}
		if err := os.Rename(tmpPath, filePath); err != nil {
			mainErr = errors.Wrapf(err, "failed to move downloaded file %q to %q", tmpPath, filePath)
			return
		}

		// The file exists now, so the lock file is no longer needed.
		if err := os.Remove(lockPath); err != nil {
			klog.V(1).Infof("removing lock file %q: %v", lockPath, err)
		}
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while locking %q to download %q", lockPath, url)
	}
	return nil
}

// fetch GETs url into tmpPath. On any failure the partial file is removed.
func (r *Repo) fetch(ctx context.Context, url, tmpPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %q", url)
	}
	r.authorize(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "fetching %q", url)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return api.ErrFileNotFound(url, errors.New(resp.Status))
	case resp.StatusCode != http.StatusOK:
		return errors.Errorf("fetching %q: %s", url, resp.Status)
	}

	f, err := os.Create(tmpPath)
	if err != nil {
		return errors.Wrapf(err, "creating temporary file for download in %q", tmpPath)
	}
	written, err := io.Copy(f, resp.Body)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "while downloading %q to %q", url, tmpPath)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to close temporary download file %q", tmpPath)
	}
	klog.V(1).Infof("downloaded %q (%d bytes)", url, written)
	return nil
}

// execOnFileLock opens lockPath (creating it if needed), locks it and runs
// fn. If lockPath is already locked it polls with a 1 to 2 second period,
// randomly, until the lock is acquired or ctx is cancelled.
//
// lockPath is not removed here. It is safe to remove it from fn, if one
// knows no new call with the same lockPath will be made.
func execOnFileLock(ctx context.Context, lockPath string, fn func()) (err error) {
	fileLock := flock.New(lockPath)
	for {
		locked, err := fileLock.TryLock()
		if err != nil {
			return errors.Wrapf(err, "while trying to lock %q", lockPath)
		}
		if locked {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond * time.Duration(1000+rand.Intn(1000))):
		}
	}

	// Unlock in a deferred function, so it happens even if fn panics.
	defer func() {
		if unlockErr := fileLock.Unlock(); unlockErr != nil {
			if err == nil {
				err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
			} else {
				klog.Errorf("error unlocking file %q: %v", lockPath, unlockErr)
			}
		}
	}()

	fn()
	return
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
