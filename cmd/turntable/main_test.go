package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"turntable/internal/config"
	"turntable/internal/daemon"
	"turntable/internal/ipc"
	"turntable/internal/playback"
	"turntable/internal/store"
	"turntable/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	cancel     context.CancelFunc
}

func setupCLITestEnv(t *testing.T, snapshots map[int64]playback.ChatSnapshot) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	if len(snapshots) > 0 {
		st := store.New(cfg.SnapshotPath(), nil)
		if err := st.Save(snapshots); err != nil {
			t.Fatalf("seed snapshot: %v", err)
		}
	}

	d, err := daemon.New(cfg, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv, err := ipc.NewServer(ctx, cfg.SocketPath(), d, nil)
	if err != nil {
		cancel()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("unix sockets unavailable: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	time.Sleep(50 * time.Millisecond)

	env := &cliTestEnv{
		cfg:        cfg,
		daemon:     d,
		server:     srv,
		socketPath: cfg.SocketPath(),
		configPath: configPath,
		cancel:     cancel,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
	})

	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[telegram]\ntoken = %q\n\n[paths]\ndata_dir = %q\nlog_dir = %q\n",
		cfg.Telegram.Token,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if socket != "" {
		flags = append(flags, "--socket", socket)
	}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, text, want string) {
	t.Helper()
	if !strings.Contains(text, want) {
		t.Fatalf("expected output to contain %q, got %q", want, text)
	}
}

func seedSnapshots() map[int64]playback.ChatSnapshot {
	return map[int64]playback.ChatSnapshot{
		100: {
			Queue: []playback.Track{
				testsupport.Track("b", "https://example.com/b"),
				testsupport.Track("c", "https://example.com/c"),
			},
			Current: &playback.Track{ID: "a", Link: "https://example.com/a", Title: "First Song", AddedBy: "alice"},
			Playing: true,
		},
		-200: {
			Queue: []playback.Track{testsupport.Track("d", "https://example.com/d")},
		},
	}
}

func TestCLIStatus(t *testing.T) {
	env := setupCLITestEnv(t, seedSnapshots())

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon Status")
	requireContains(t, out, "Running:")
	requireContains(t, out, "no")
	requireContains(t, out, env.cfg.SnapshotPath())
}

func TestCLIChats(t *testing.T) {
	env := setupCLITestEnv(t, seedSnapshots())

	out, _, err := runCLI(t, []string{"chats"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("chats: %v", err)
	}
	requireContains(t, out, "100")
	requireContains(t, out, "-200")
	requireContains(t, out, "First Song")
}

func TestCLIChatsEmpty(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"chats"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("chats: %v", err)
	}
	requireContains(t, out, "No chats yet")
}

func TestCLIQueue(t *testing.T) {
	env := setupCLITestEnv(t, seedSnapshots())

	out, _, err := runCLI(t, []string{"queue", "100"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	requireContains(t, out, "Now playing: First Song (added by alice)")
	requireContains(t, out, "Title b")
	requireContains(t, out, "Title c")

	out, _, err = runCLI(t, []string{"queue", "999"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue unknown chat: %v", err)
	}
	requireContains(t, out, "Queue is empty")

	if _, _, err := runCLI(t, []string{"queue", "abc"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for non-numeric chat id")
	}
}

func TestCLIStopChat(t *testing.T) {
	env := setupCLITestEnv(t, seedSnapshots())

	out, _, err := runCLI(t, []string{"stop-chat", "100"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stop-chat: %v", err)
	}
	requireContains(t, out, "Cleared queue for chat 100")

	out, _, err = runCLI(t, []string{"queue", "100"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue after stop: %v", err)
	}
	requireContains(t, out, "Queue is empty")

	out, _, err = runCLI(t, []string{"stop-chat", "55"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stop-chat unknown: %v", err)
	}
	requireContains(t, out, "not known to the daemon")
}

func TestCLIDialErrorWithoutDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	_, _, err := runCLI(t, []string{"chats"}, cfg.SocketPath(), configPath)
	if err == nil {
		t.Fatal("expected dial failure with no daemon running")
	}
	if !strings.Contains(err.Error(), "connect to daemon") {
		t.Fatalf("unexpected error: %v", err)
	}
}
