package daemon_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"turntable/internal/config"
	"turntable/internal/daemon"
	"turntable/internal/logging"
	"turntable/internal/testsupport"
)

// fakeBotAPI answers just enough of the Bot API for the daemon lifecycle.
func fakeBotAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/bottest-token/getMe":
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"username":"turntable_bot"}}`))
		case r.URL.Path == "/bottest-token/getUpdates":
			w.Write([]byte(`{"ok":true,"result":[]}`))
		default:
			w.Write([]byte(`{"ok":true,"result":{}}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestStartStopLifecycle(t *testing.T) {
	srv := fakeBotAPI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBotAPI(srv.URL))
	d := newTestDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status()
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.BotUsername != "turntable_bot" {
		t.Fatalf("unexpected bot username: %q", status.BotUsername)
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected stopped status")
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	srv := fakeBotAPI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBotAPI(srv.URL))

	first := newTestDaemon(t, cfg)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}

	second := newTestDaemon(t, cfg)
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("expected second instance to be refused")
	}
}

func TestStartFailsOnBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithBotAPI(srv.URL))
	d := newTestDaemon(t, cfg)
	if err := d.Start(context.Background()); err == nil {
		t.Fatal("expected start failure on rejected token")
	}
	if d.Status().Running {
		t.Fatal("daemon must not report running after failed start")
	}
}

func TestStateSurvivesRestart(t *testing.T) {
	srv := fakeBotAPI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBotAPI(srv.URL))
	ctx := context.Background()

	first := newTestDaemon(t, cfg)
	state := first.Registry().GetOrCreate(42)
	if _, err := first.Engine().Add(ctx, state, "https://x.test/a", "alice"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	first.Engine().Play(ctx, state)

	second := newTestDaemon(t, cfg)
	view := second.QueueView(42)
	if view.Current == nil || view.Current.Link != "https://x.test/a" {
		t.Fatalf("expected current track restored, got %+v", view)
	}
	if !view.Playing {
		t.Fatal("expected playing flag restored")
	}
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	srv := fakeBotAPI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBotAPI(srv.URL))
	testsupport.WriteCorruptSnapshot(t, cfg)

	d := newTestDaemon(t, cfg)
	if got := d.Registry().Len(); got != 0 {
		t.Fatalf("expected empty registry from corrupt snapshot, got %d chats", got)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("startup must not fail on corrupt snapshot: %v", err)
	}
}

func TestChatsAndStopChat(t *testing.T) {
	srv := fakeBotAPI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBotAPI(srv.URL))
	ctx := context.Background()

	d := newTestDaemon(t, cfg)
	state := d.Registry().GetOrCreate(7)
	if _, err := d.Engine().Add(ctx, state, "https://x.test/a", "alice"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	chats := d.Chats()
	if len(chats) != 1 || chats[0].ChatID != 7 || chats[0].Queued != 1 {
		t.Fatalf("unexpected chat summaries: %+v", chats)
	}

	if !d.StopChat(ctx, 7) {
		t.Fatal("expected StopChat to find chat 7")
	}
	if d.StopChat(ctx, 8) {
		t.Fatal("expected StopChat to miss unknown chat")
	}
	if view := d.QueueView(7); view.Queued != 0 {
		t.Fatalf("expected cleared queue, got %+v", view)
	}
}
