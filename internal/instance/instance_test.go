package instance_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"wallswitch/internal/instance"
)

func paths(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "wallswitch.lock"), filepath.Join(dir, "wallswitch.pid")
}

func TestAcquireWritesPIDAndReleaseRemovesIt(t *testing.T) {
	lockPath, pidPath := paths(t)

	inst, err := instance.Acquire(context.Background(), lockPath, pidPath, instance.Options{})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	pid, err := instance.ReadPID(pidPath)
	if err != nil {
		t.Fatalf("ReadPID: %v", err)
	}
	if pid != os.Getpid() || inst.PID() != pid {
		t.Fatalf("expected pid %d, got file=%d instance=%d", os.Getpid(), pid, inst.PID())
	}

	if err := inst.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(pidPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected pid file removed, stat err=%v", err)
	}

	again, err := instance.Acquire(context.Background(), lockPath, pidPath, instance.Options{})
	if err != nil {
		t.Fatalf("re-Acquire: %v", err)
	}
	_ = again.Release()
}

func TestAcquireFailsWhileHeld(t *testing.T) {
	lockPath, pidPath := paths(t)
	holder := flock.New(lockPath)
	if ok, err := holder.TryLock(); err != nil || !ok {
		t.Fatalf("holder lock: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()
	if err := os.WriteFile(pidPath, []byte("424242\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}

	_, err := instance.Acquire(context.Background(), lockPath, pidPath, instance.Options{})
	if !errors.Is(err, instance.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestAcquireReplaceTerminatesHolder(t *testing.T) {
	lockPath, pidPath := paths(t)

	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("sleep unavailable: %v", err)
	}
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}

	holder := flock.New(lockPath)
	if ok, err := holder.TryLock(); err != nil || !ok {
		t.Fatalf("holder lock: ok=%v err=%v", ok, err)
	}
	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		_ = holder.Unlock()
		close(exited)
	}()

	inst, err := instance.Acquire(context.Background(), lockPath, pidPath, instance.Options{
		Replace:        true,
		ReplaceTimeout: 5 * time.Second,
		PollInterval:   20 * time.Millisecond,
	})
	if err != nil {
		_ = cmd.Process.Kill()
		t.Fatalf("Acquire with replace: %v", err)
	}
	defer inst.Release()

	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("previous instance did not exit")
	}
	pid, err := instance.ReadPID(pidPath)
	if err != nil || pid != os.Getpid() {
		t.Fatalf("expected own pid recorded, got %d err=%v", pid, err)
	}
}

func TestStopWithoutInstance(t *testing.T) {
	lockPath, pidPath := paths(t)
	if err := os.WriteFile(pidPath, []byte("424242\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if _, err := instance.Stop(lockPath, pidPath); !errors.Is(err, instance.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestStopBeforeStateDirExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	lockPath := filepath.Join(dir, "wallswitch.lock")
	pidPath := filepath.Join(dir, "wallswitch.pid")
	if _, err := instance.Stop(lockPath, pidPath); !errors.Is(err, instance.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected state dir to stay absent, stat err=%v", err)
	}
}

func TestTerminateMissingPIDFile(t *testing.T) {
	_, pidPath := paths(t)
	if _, err := instance.Terminate(pidPath); !errors.Is(err, instance.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestTerminateRefusesSelf(t *testing.T) {
	_, pidPath := paths(t)
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if _, err := instance.Terminate(pidPath); err == nil {
		t.Fatal("expected refusal to signal current process")
	}
}

func TestReadPIDRejectsGarbage(t *testing.T) {
	_, pidPath := paths(t)
	if err := os.WriteFile(pidPath, []byte("not-a-pid"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if _, err := instance.ReadPID(pidPath); err == nil {
		t.Fatal("expected error for invalid pid")
	}
}
