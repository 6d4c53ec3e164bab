package telegram_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"turntable/internal/config"
	"turntable/internal/logging"
	"turntable/internal/telegram"
)

func newTestClient(t *testing.T, handler http.Handler) *telegram.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Telegram.Token = "test-token"
	cfg.Telegram.APIBaseURL = srv.URL
	return telegram.NewClient(&cfg)
}

func TestSendMessagePostsJSON(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"ok":true,"result":{"message_id":7,"chat":{"id":42},"text":"hi"}}`))
	}))

	msg, err := client.SendMessage(context.Background(), telegram.SendMessageParams{
		ChatID:    42,
		Text:      "hi",
		ParseMode: telegram.ParseModeHTML,
		ReplyMarkup: &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{
				{{Text: "Play now", Data: "play"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if msg.MessageID != 7 {
		t.Fatalf("unexpected message id: %d", msg.MessageID)
	}
	if gotPath != "/bottest-token/sendMessage" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody["parse_mode"] != "HTML" {
		t.Fatalf("expected HTML parse mode, got %v", gotBody["parse_mode"])
	}
	if _, ok := gotBody["reply_markup"]; !ok {
		t.Fatal("expected reply markup in request body")
	}
}

func TestCallSurfacesAPIErrors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))

	if _, err := client.GetMe(context.Background()); err == nil {
		t.Fatal("expected error from api failure")
	}
}

func TestGetUpdatesDecodesBatch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":10,"message":{"message_id":1,"chat":{"id":-100},"text":"/play","from":{"id":5,"username":"alice"}}},
			{"update_id":11,"callback_query":{"id":"cb1","from":{"id":5},"data":"play:tid"}}
		]}`))
	}))

	updates, err := client.GetUpdates(context.Background(), 0, 1)
	if err != nil {
		t.Fatalf("GetUpdates failed: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Message == nil || updates[0].Message.Chat.ID != -100 {
		t.Fatalf("unexpected first update: %+v", updates[0])
	}
	if updates[1].CallbackQuery == nil || updates[1].CallbackQuery.Data != "play:tid" {
		t.Fatalf("unexpected second update: %+v", updates[1])
	}
}

type recordingHandler struct {
	mu      sync.Mutex
	updates []telegram.Update
	done    chan struct{}
	want    int
}

func (h *recordingHandler) HandleUpdate(_ context.Context, update telegram.Update) {
	h.mu.Lock()
	h.updates = append(h.updates, update)
	if len(h.updates) == h.want {
		close(h.done)
	}
	h.mu.Unlock()
}

func TestPollerAdvancesOffsetAndDispatches(t *testing.T) {
	var mu sync.Mutex
	var offsets []int64

	srvHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Offset int64 `json:"offset"`
		}
		json.NewDecoder(r.Body).Decode(&params)

		mu.Lock()
		offsets = append(offsets, params.Offset)
		first := len(offsets) == 1
		mu.Unlock()

		if first {
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":5,"message":{"message_id":1,"chat":{"id":1},"text":"/queue"}},
				{"update_id":6,"message":{"message_id":2,"chat":{"id":1},"text":"/play"}}
			]}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":[]}`))
	})

	client := newTestClient(t, srvHandler)
	handler := &recordingHandler{done: make(chan struct{}), want: 2}
	poller := telegram.NewPoller(client, handler, 1, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Run(ctx)

	select {
	case <-handler.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for updates")
	}
	cancel()

	mu.Lock()
	defer mu.Unlock()
	if offsets[0] != 0 {
		t.Fatalf("expected first poll at offset 0, got %d", offsets[0])
	}
	if len(offsets) < 2 || offsets[1] != 7 {
		t.Fatalf("expected follow-up poll at offset 7, got %v", offsets)
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (telegram.User{Username: "alice", FirstName: "Alice"}).DisplayName(); got != "alice" {
		t.Fatalf("expected username preferred, got %q", got)
	}
	if got := (telegram.User{FirstName: "Alice"}).DisplayName(); got != "Alice" {
		t.Fatalf("expected first name fallback, got %q", got)
	}
}
