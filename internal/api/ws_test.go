package api

import (
	"bytes"
	"comment-archiver-go/internal/config"
	"comment-archiver-go/internal/logger"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"
)

func TestWebSocketLogsAndStatus(t *testing.T) {
	config.AppConfig = config.Config{LogLevel: "debug", LogFormat: "json", CacheBackend: "none"}
	logger.InitWithWriter(&bytes.Buffer{})

	srv := NewServerWithArchiver(NewTaskManagerWithRunner(noopRun), &fakeArchiver{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsBase := "ws" + strings.TrimPrefix(ts.URL, "http")

	{
		conn, err := websocket.Dial(wsBase+"/ws/logs", "", ts.URL)
		if err != nil {
			t.Fatalf("dial logs: %v", err)
		}
		defer conn.Close()

		_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
		want := "ws_test_log_123"
		// the subscription is registered by the handler; give it a moment
		time.Sleep(50 * time.Millisecond)
		logger.Info(want, "k", "v")

		var msg string
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			t.Fatalf("recv logs: %v", err)
		}
		if !strings.Contains(msg, want) {
			t.Fatalf("unexpected log msg=%q", msg)
		}
	}

	{
		conn, err := websocket.Dial(wsBase+"/ws/status?interval_ms=100", "", ts.URL)
		if err != nil {
			t.Fatalf("dial status: %v", err)
		}
		defer conn.Close()

		_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
		for i := 0; i < 2; i++ {
			var msg string
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				t.Fatalf("recv status: %v", err)
			}
			var st Status
			if err := json.Unmarshal([]byte(strings.TrimSpace(msg)), &st); err != nil {
				t.Fatalf("unmarshal status: %v msg=%q", err, msg)
			}
			if st.State != "idle" {
				t.Fatalf("state = %+v", st)
			}
		}
	}
}
