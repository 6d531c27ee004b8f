package session

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/gofrs/flock"

	"github.com/tsksoundkits/storefront/internal/domain/cart"
)

var _ cart.Storage = (*Dir)(nil)

const lockRetryDelay = 20 * time.Millisecond

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Dir stores each record as a file in a session directory. Writes go
// through a temp file and rename so readers never see a partial record, and
// are serialized across processes with a lock file.
type Dir struct {
	path string
	lock *flock.Flock
}

// OpenDir creates the session directory if needed.
func OpenDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, errors.Wrap(err, "create session dir")
	}
	return &Dir{
		path: path,
		lock: flock.New(filepath.Join(path, ".lock")),
	}, nil
}

// Path returns the session directory.
func (d *Dir) Path() string { return d.path }

func (d *Dir) file(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", errors.Errorf("invalid record key %q", key)
	}
	return filepath.Join(d.path, key+".json"), nil
}

func (d *Dir) Get(_ context.Context, key string) ([]byte, error) {
	name, err := d.file(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cart.ErrNoRecord
	}
	if err != nil {
		return nil, errors.Wrap(err, "read record")
	}
	return data, nil
}

func (d *Dir) Set(ctx context.Context, key string, value []byte) error {
	name, err := d.file(key)
	if err != nil {
		return err
	}
	return d.locked(ctx, func() error {
		tmp, err := os.CreateTemp(d.path, "."+key+".*.tmp")
		if err != nil {
			return errors.Wrap(err, "create temp record")
		}
		defer func() { _ = os.Remove(tmp.Name()) }()

		if _, err := tmp.Write(value); err != nil {
			_ = tmp.Close()
			return errors.Wrap(err, "write temp record")
		}
		if err := tmp.Close(); err != nil {
			return errors.Wrap(err, "close temp record")
		}
		if err := os.Rename(tmp.Name(), name); err != nil {
			return errors.Wrap(err, "replace record")
		}
		return nil
	})
}

func (d *Dir) Delete(ctx context.Context, key string) error {
	name, err := d.file(key)
	if err != nil {
		return err
	}
	return d.locked(ctx, func() error {
		if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(err, "remove record")
		}
		return nil
	})
}

func (d *Dir) locked(ctx context.Context, fn func() error) error {
	ok, err := d.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return errors.Wrap(err, "lock session dir")
	}
	if !ok {
		return errors.New("lock session dir: not acquired")
	}
	defer func() { _ = d.lock.Unlock() }()
	return fn()
}

// DirFor returns the directory of session id under root.
func DirFor(root, id string) string {
	return filepath.Join(root, "tsk-kart", id)
}

// DefaultRoot returns the per-user runtime directory, falling back to the
// temp dir when XDG_RUNTIME_DIR is unset.
func DefaultRoot() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// DefaultID identifies the session of the calling terminal: KART_SESSION
// when set, otherwise the parent process id, so every shell gets its own
// cart.
func DefaultID() string {
	if id := os.Getenv("KART_SESSION"); id != "" {
		return id
	}
	return "ppid-" + strconv.Itoa(os.Getppid())
}
