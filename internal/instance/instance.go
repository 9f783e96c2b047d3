package instance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"wallswitch/internal/fileutil"
)

const (
	defaultReplaceTimeout = 5 * time.Second
	defaultPollInterval   = 100 * time.Millisecond
)

var (
	// ErrAlreadyRunning reports that another instance holds the lock.
	ErrAlreadyRunning = errors.New("another wallswitch instance is already running")
	// ErrNotRunning reports that no instance holds the lock.
	ErrNotRunning = errors.New("no wallswitch instance is running")
)

// Options tunes how a held lock is replaced.
type Options struct {
	Replace        bool
	ReplaceTimeout time.Duration
	PollInterval   time.Duration
}

// Instance is the lock held by the running process.
type Instance struct {
	lock    *flock.Flock
	pidPath string
	pid     int
}

// Acquire takes the exclusive lock at lockPath and records the current pid
// at pidPath. With Replace set, a running instance is sent SIGTERM and the
// lock is retried until ReplaceTimeout elapses.
func Acquire(ctx context.Context, lockPath, pidPath string, opts Options) (*Instance, error) {
	if opts.ReplaceTimeout <= 0 {
		opts.ReplaceTimeout = defaultReplaceTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		if !opts.Replace {
			return nil, holderError(pidPath)
		}
		if _, err := Terminate(pidPath); err != nil && !errors.Is(err, ErrNotRunning) {
			return nil, fmt.Errorf("replace running instance: %w", err)
		}
		waitCtx, cancel := context.WithTimeout(ctx, opts.ReplaceTimeout)
		defer cancel()
		ok, err = lock.TryLockContext(waitCtx, opts.PollInterval)
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w after %s", holderError(pidPath), opts.ReplaceTimeout)
		}
	}

	pid := os.Getpid()
	if err := fileutil.WriteAtomic(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("write pid file: %w", err)
	}
	return &Instance{lock: lock, pidPath: pidPath, pid: pid}, nil
}

// PID returns the pid recorded for this instance.
func (i *Instance) PID() int {
	if i == nil {
		return 0
	}
	return i.pid
}

// Release removes the pid file when it still names this process and unlocks.
func (i *Instance) Release() error {
	if i == nil || i.lock == nil {
		return nil
	}
	if pid, err := ReadPID(i.pidPath); err == nil && pid == i.pid {
		if err := os.Remove(i.pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			_ = i.lock.Unlock()
			return fmt.Errorf("remove pid file: %w", err)
		}
	}
	if err := i.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// ReadPID parses the pid stored at pidPath.
func ReadPID(pidPath string) (int, error) {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return 0, fmt.Errorf("read pid file %q: %w", pidPath, err)
	}
	value := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(value)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q in %s", value, pidPath)
	}
	return pid, nil
}

// Terminate sends SIGTERM to the pid recorded at pidPath and returns it.
func Terminate(pidPath string) (int, error) {
	pid, err := ReadPID(pidPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNotRunning
		}
		return 0, err
	}
	if pid == os.Getpid() {
		return 0, fmt.Errorf("refusing to signal current process (pid %d)", pid)
	}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return pid, fmt.Errorf("%w (stale pid %d)", ErrNotRunning, pid)
		}
		return pid, fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return pid, nil
}

// Stop terminates the instance holding lockPath. It returns ErrNotRunning
// when the lock is free or its directory does not exist yet, even if a
// stale pid file remains.
func Stop(lockPath, pidPath string) (int, error) {
	held := flock.New(lockPath)
	ok, err := held.TryLock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, ErrNotRunning
		}
		return 0, fmt.Errorf("check lock: %w", err)
	}
	if ok {
		_ = held.Unlock()
		return 0, ErrNotRunning
	}
	return Terminate(pidPath)
}

func holderError(pidPath string) error {
	if pid, err := ReadPID(pidPath); err == nil {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	return ErrAlreadyRunning
}
