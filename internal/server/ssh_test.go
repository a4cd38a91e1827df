package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/winshell/internal/channel"
	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/ui"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/adrg/xdg"
)

type pipeLauncher struct {
	launched *[]string
}

func (l pipeLauncher) Launch(_ context.Context, url string, loaded func()) (channel.Channel, error) {
	*l.launched = append(*l.launched, url)
	host, _ := channel.NewPipe()
	loaded()
	return host, nil
}

// runQueued runs the work queued on loop. The test goroutine acts as the
// manager goroutine.
func runQueued(t *testing.T, loop *wm.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	batch, err := loop.Wait(ctx)
	if err != nil {
		t.Fatalf("no work queued: %v", err)
	}
	for _, f := range batch {
		f()
	}
}

// =============================================================================
// Session Tests
// =============================================================================

func TestSessionsAreIndependent(t *testing.T) {
	var launched []string
	newLauncher := func(*config.Config, *ui.LogBuffer) wm.Launcher {
		return pipeLauncher{launched: &launched}
	}
	srv := New(config.DefaultConfig(), newLauncher, "app:launcher", "app:notes")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	first, firstLoop := srv.newSession(ctx, 100, 30)
	second, secondLoop := srv.newSession(ctx, 60, 20)
	runQueued(t, firstLoop)
	runQueued(t, secondLoop)

	if first.Manager() == second.Manager() {
		t.Fatal("sessions share a window manager")
	}
	for i, md := range []*ui.Model{first, second} {
		if got := len(md.Manager().Windows()); got != 2 {
			t.Errorf("session %d has %d windows, want 2", i, got)
		}
	}
	if len(launched) != 4 {
		t.Errorf("launched %v, want the start URLs once per session", launched)
	}

	// Closing a window in one session leaves the other alone.
	w := first.Manager().Windows()[0]
	first.Manager().RemoveWindow(w, true)
	if len(first.Manager().Windows()) != 1 || len(second.Manager().Windows()) != 2 {
		t.Error("removing a window leaked into the other session")
	}
}

func TestSessionUsesCurrentConfig(t *testing.T) {
	newLauncher := func(*config.Config, *ui.LogBuffer) wm.Launcher {
		return pipeLauncher{launched: new([]string)}
	}
	srv := New(config.DefaultConfig(), newLauncher, "app:notes")

	cfg := config.DefaultConfig()
	cfg.Limits.Windows = map[string]config.WindowLimits{"app:notes": {MaxW: 50}}
	srv.SetConfig(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	md, loop := srv.newSession(ctx, 100, 30)
	runQueued(t, loop)

	if md.Manager().Config() != cfg {
		t.Error("session did not pick up the swapped config")
	}
	ws := md.Manager().Windows()
	if len(ws) != 1 || ws[0].Limits.MaxW != 50 {
		t.Errorf("windows = %v, want app:notes limited to 50 columns", ws)
	}
	if srv.Sessions() != 0 {
		t.Errorf("Sessions() = %d without SSH clients", srv.Sessions())
	}
}

// =============================================================================
// Host Key Tests
// =============================================================================

func TestHostKeyPath(t *testing.T) {
	got, err := HostKeyPath("/etc/winshell/key")
	if err != nil || got != "/etc/winshell/key" {
		t.Errorf("HostKeyPath(configured) = %q, %v", got, err)
	}

	// Runs after Setenv restores the environment.
	t.Cleanup(xdg.Reload)
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	xdg.Reload()

	got, err = HostKeyPath("")
	if err != nil {
		t.Fatalf("HostKeyPath() error = %v", err)
	}
	if want := filepath.Join(dir, "winshell", "ssh_host_key"); got != want {
		t.Errorf("HostKeyPath() = %q, want %q", got, want)
	}
}
