package probing

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"JVMProfiler/pkg/perfdata"
)

func writePerfData(t testing.TB, dir, name string, values ...perfdata.Value) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, perfdata.Encode(values, binary.LittleEndian), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestHost(root string, self int32) *LocalHost {
	return &LocalHost{
		root:   root,
		self:   self,
		logger: zap.NewNop(),
		alive:  func(context.Context, int32) (bool, error) { return true, nil },
	}
}

func TestListTargets(t *testing.T) {
	root := t.TempDir()
	writePerfData(t, filepath.Join(root, "hsperfdata_alice"), "300")
	writePerfData(t, filepath.Join(root, "hsperfdata_alice"), "12")
	writePerfData(t, filepath.Join(root, "hsperfdata_bob"), "77")
	writePerfData(t, filepath.Join(root, "hsperfdata_bob"), "not-a-pid")
	writePerfData(t, filepath.Join(root, "hsperfdata_bob"), "99") // self
	writePerfData(t, filepath.Join(root, "unrelated"), "55")
	if err := os.Mkdir(filepath.Join(root, "hsperfdata_bob", "123"), 0o755); err != nil {
		t.Fatal(err)
	}

	h := newTestHost(root, 99)
	targets, err := h.ListTargets(context.Background())
	if err != nil {
		t.Fatalf("ListTargets: %v", err)
	}

	var pids []int32
	for _, tg := range targets {
		pids = append(pids, tg.PID)
	}
	if want := []int32{12, 77, 300}; !reflect.DeepEqual(pids, want) {
		t.Errorf("pids = %v; want %v", pids, want)
	}
	if targets[1].User != "bob" || targets[1].String() != "77" {
		t.Errorf("target[1] = %+v", targets[1])
	}
}

func TestListTargets_MissingRoot(t *testing.T) {
	h := newTestHost(filepath.Join(t.TempDir(), "nope"), 1)

	_, err := h.ListTargets(context.Background())
	var de *DiscoveryError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v; want DiscoveryError", err)
	}
	if de.Host != LocalHostName {
		t.Errorf("Host = %q; want %q", de.Host, LocalHostName)
	}
}

func TestListTargets_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var de *DiscoveryError
	if _, err := newTestHost(t.TempDir(), 1).ListTargets(ctx); !errors.As(err, &de) {
		t.Errorf("err = %v; want DiscoveryError", err)
	}
}

func TestNewHost_Remote(t *testing.T) {
	h := NewHost("db01.example.com", t.TempDir(), zap.NewNop())
	_, err := h.ListTargets(context.Background())
	if !errors.Is(err, ErrRemoteHost) {
		t.Errorf("err = %v; want ErrRemoteHost", err)
	}
	var de *DiscoveryError
	if !errors.As(err, &de) {
		t.Errorf("err = %T; want *DiscoveryError", err)
	}

	if _, ok := NewHost("LOCALHOST", "", nil).(*LocalHost); !ok {
		t.Error("NewHost(LOCALHOST) is not a LocalHost")
	}
}

func TestAttachDetach(t *testing.T) {
	root := t.TempDir()
	pid := int32(os.Getpid())
	path := writePerfData(t, filepath.Join(root, "hsperfdata_me"), strconv.Itoa(int(pid)),
		perfdata.LongValue("sun.os.hrt.frequency", 1000),
		perfdata.StringValue("java.property.java.vm.vendor", "Eclipse Adoptium"),
	)

	h := NewLocalHost(root, zap.NewNop())
	vm, err := h.Attach(context.Background(), Target{PID: pid, Path: path})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if vm.PID() != pid {
		t.Errorf("PID() = %d; want %d", vm.PID(), pid)
	}
	if got := vm.Long("sun.os.hrt.frequency", -1); got != 1000 {
		t.Errorf("frequency = %d; want 1000", got)
	}
	if got := vm.String("java.property.java.vm.vendor"); got != "Eclipse Adoptium" {
		t.Errorf("vendor = %q", got)
	}
	if !vm.Has("sun.os.hrt.frequency") || vm.Has("sun.os.hrt.ticks") {
		t.Error("Has mismatch")
	}

	if err := h.Detach(vm); err != nil {
		t.Errorf("Detach: %v", err)
	}
	if err := h.Detach(vm); err != nil {
		t.Errorf("second Detach: %v", err)
	}
	// Counters stay readable after detach.
	if got := vm.Long("sun.os.hrt.frequency", -1); got != 1000 {
		t.Errorf("frequency after detach = %d; want 1000", got)
	}
}

func TestAttach_Unavailable(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "hsperfdata_me")
	corrupt := filepath.Join(dir, "41")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(corrupt, []byte("not perfdata at all, definitely not"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "42")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	h := newTestHost(root, 1)
	for _, tg := range []Target{
		{PID: 40, Path: filepath.Join(dir, "40")},
		{PID: 41, Path: corrupt},
		{PID: 42, Path: empty},
	} {
		_, err := h.Attach(context.Background(), tg)
		var tu *TargetUnavailableError
		if !errors.As(err, &tu) || tu.PID != tg.PID {
			t.Errorf("Attach(%d) err = %v; want TargetUnavailableError", tg.PID, err)
		}
	}

	h.alive = func(context.Context, int32) (bool, error) { return false, nil }
	path := writePerfData(t, dir, "43", perfdata.LongValue("x", 1))
	if _, err := h.Attach(context.Background(), Target{PID: 43, Path: path}); !errors.Is(err, ErrExited) {
		t.Errorf("Attach(exited) err = %v; want ErrExited", err)
	}
}

func TestSelfPID(t *testing.T) {
	own := int32(os.Getpid())

	if got, err := selfPID(""); err != nil || got != own {
		t.Errorf("selfPID(\"\") = %d, %v; want %d, nil", got, err, own)
	}
	if got, err := selfPID(" 4242 "); err != nil || got != 4242 {
		t.Errorf("selfPID(4242) = %d, %v; want 4242, nil", got, err)
	}
	if got, err := selfPID("abc"); err == nil || got != own {
		t.Errorf("selfPID(abc) = %d, %v; want %d with error", got, err, own)
	}

	t.Setenv(LauncherPIDEnv, "777")
	if got, err := SelfPID(); err != nil || got != 777 {
		t.Errorf("SelfPID() = %d, %v; want 777, nil", got, err)
	}
}

func BenchmarkListTargets(b *testing.B) {
	root := b.TempDir()
	for i := 1; i <= 64; i++ {
		writePerfData(b, filepath.Join(root, "hsperfdata_bench"), strconv.Itoa(i))
	}
	h := newTestHost(root, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := h.ListTargets(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
