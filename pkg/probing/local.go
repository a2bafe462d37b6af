package probing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"JVMProfiler/pkg/perfdata"
)

const (
	// LocalHostName is the only host discovery can scan.
	LocalHostName = "localhost"

	perfDataDirPrefix = "hsperfdata_"
)

// ErrRemoteHost is wrapped in the DiscoveryError returned for remote hosts.
var ErrRemoteHost = errors.New("remote hosts are not supported")

// NewHost returns the Host implementation for name. root is the directory
// holding the hsperfdata_<user> directories, usually os.TempDir().
func NewHost(name, root string, logger *zap.Logger) Host {
	switch strings.ToLower(name) {
	case "", LocalHostName, "127.0.0.1", "::1":
		return NewLocalHost(root, logger)
	default:
		return unreachableHost{name: name}
	}
}

// LocalHost discovers JVMs through the perfdata files they publish on the
// local filesystem.
type LocalHost struct {
	root   string
	self   int32
	logger *zap.Logger
	alive  func(ctx context.Context, pid int32) (bool, error)
}

// NewLocalHost creates a LocalHost scanning root. An empty root means
// os.TempDir().
func NewLocalHost(root string, logger *zap.Logger) *LocalHost {
	if root == "" {
		root = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	self, err := SelfPID()
	if err != nil {
		logger.Warn("self exclusion falls back to runtime pid", zap.Error(err))
	}
	return &LocalHost{
		root:   root,
		self:   self,
		logger: logger.Named("probing"),
		alive:  process.PidExistsWithContext,
	}
}

func (h *LocalHost) Name() string { return LocalHostName }

// Root returns the directory scanned for perfdata files.
func (h *LocalHost) Root() string { return h.root }

// ListTargets returns the JVMs publishing perfdata under the root, sorted
// by pid, excluding this process.
func (h *LocalHost) ListTargets(ctx context.Context) ([]Target, error) {
	if err := ctx.Err(); err != nil {
		return nil, &DiscoveryError{Host: h.Name(), Err: err}
	}
	if _, err := os.ReadDir(h.root); err != nil {
		return nil, &DiscoveryError{Host: h.Name(), Err: err}
	}
	dirs, err := filepath.Glob(filepath.Join(h.root, perfDataDirPrefix+"*"))
	if err != nil {
		return nil, &DiscoveryError{Host: h.Name(), Err: err}
	}

	var targets []Target
	for _, dir := range dirs {
		user := strings.TrimPrefix(filepath.Base(dir), perfDataDirPrefix)
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Other users' directories are routinely unreadable.
			h.logger.Debug("skipping perfdata directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			pid, err := strconv.ParseInt(e.Name(), 10, 32)
			if err != nil || pid <= 0 {
				continue
			}
			if int32(pid) == h.self {
				continue
			}
			targets = append(targets, Target{
				PID:  int32(pid),
				User: user,
				Path: filepath.Join(dir, e.Name()),
			})
		}
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].PID < targets[j].PID })
	h.logger.Debug("discovered targets", zap.Int("count", len(targets)), zap.String("root", h.root))
	return targets, nil
}

// Attach maps the target's perfdata file and decodes its counters.
func (h *LocalHost) Attach(ctx context.Context, t Target) (*VM, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TargetUnavailableError{PID: t.PID, Err: err}
	}
	if alive, err := h.alive(ctx, t.PID); err == nil && !alive {
		return nil, &TargetUnavailableError{PID: t.PID, Err: ErrExited}
	}

	data, err := mapFile(t.Path)
	if err != nil {
		return nil, &TargetUnavailableError{PID: t.PID, Err: err}
	}
	counters, err := perfdata.Parse(data)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, &TargetUnavailableError{PID: t.PID, Err: err}
	}

	vm := NewVM(t, counters)
	vm.mapping = data
	return vm, nil
}

// Detach releases the mapping. Detaching twice is a no-op.
func (h *LocalHost) Detach(vm *VM) error {
	if vm == nil || vm.mapping == nil {
		return nil
	}
	data := vm.mapping
	vm.mapping = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("unmap perfdata of %d: %w", vm.PID(), err)
	}
	return nil
}

func mapFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return data, nil
}

type unreachableHost struct {
	name string
}

func (h unreachableHost) Name() string { return h.name }

func (h unreachableHost) ListTargets(context.Context) ([]Target, error) {
	return nil, &DiscoveryError{Host: h.name, Err: ErrRemoteHost}
}

func (h unreachableHost) Attach(_ context.Context, t Target) (*VM, error) {
	return nil, &TargetUnavailableError{PID: t.PID, Err: ErrRemoteHost}
}

func (h unreachableHost) Detach(*VM) error { return nil }
