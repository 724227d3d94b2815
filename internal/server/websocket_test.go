package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/gorilla/websocket"

	"github.com/zeusync/quadworld/internal/config"
)

func dialTouch(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/touch" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("Could not connect: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func circleMessages(id int64, n int) []TouchMessage {
	msgs := make([]TouchMessage, n)
	for i := range msgs {
		angle := 2 * math32.Pi * float32(i) / float32(n)
		phase := "moved"
		switch i {
		case 0:
			phase = "pressed"
		case n - 1:
			phase = "released"
		}
		msgs[i] = TouchMessage{ID: id, X: 50 + 10*math32.Cos(angle), Y: 80 + 10*math32.Sin(angle), Phase: phase}
	}
	return msgs
}

func TestTouchFeedClassifiesCircle(t *testing.T) {
	s := New(config.ServerConfig{ReadLimit: 1024}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dialTouch(t, srv, "")
	msgs := circleMessages(2, 16)
	for _, m := range msgs {
		if err := conn.WriteJSON(m); err != nil {
			t.Fatalf("Could not send sample: %v", err)
		}
	}

	var got GestureMessage
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("Could not read gesture: %v", err)
	}
	if got.Gesture != "circle" || got.ID != 2 || got.Samples != 16 {
		t.Fatalf("unexpected gesture %+v", got)
	}
	if math32.Abs(got.Center[0]-50) > 1e-3 || math32.Abs(got.Center[1]-80) > 1e-3 {
		t.Fatalf("unexpected center %v", got.Center)
	}

	// The gesture is written after the last sample was read, and the sample is
	// queued right after that.
	deadline := time.Now().Add(time.Second)
	for s.GetStats().Pending < len(msgs) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	touches := s.Drain()
	if len(touches) != len(msgs) {
		t.Fatalf("expected %d queued touches, got %d", len(msgs), len(touches))
	}
	if touches[0].ID>>32 == 0 || touches[0].ID&0xffffffff != 2 {
		t.Fatalf("touch id %x is not namespaced by connection", touches[0].ID)
	}
	if len(s.Drain()) != 0 {
		t.Fatalf("Drain must clear the queue")
	}
}

func TestTouchFeedRejectsBadPhase(t *testing.T) {
	s := New(config.ServerConfig{}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dialTouch(t, srv, "")
	if err := conn.WriteJSON(TouchMessage{ID: 1, Phase: "hover"}); err != nil {
		t.Fatalf("Could not send sample: %v", err)
	}
	var reply ErrorMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("Could not read reply: %v", err)
	}
	if !strings.Contains(reply.Error, "hover") {
		t.Fatalf("unexpected reply %q", reply.Error)
	}
}

func TestTouchFeedToken(t *testing.T) {
	s := New(config.ServerConfig{Token: "supersecrettoken"}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/touch"
	if _, _, err := websocket.DefaultDialer.Dial(u, nil); err == nil {
		t.Fatalf("Expected error when connecting without token")
	}
	if _, _, err := websocket.DefaultDialer.Dial(u+"?token=invalid", nil); err == nil {
		t.Fatalf("Expected error when connecting with invalid token")
	}

	dialTouch(t, srv, "?token=supersecrettoken")

	header := http.Header{"Authorization": []string{"Bearer supersecrettoken"}}
	conn, _, err := websocket.DefaultDialer.Dial(u, header)
	if err != nil {
		t.Fatalf("Could not connect with bearer token: %v", err)
	}
	_ = conn.Close()
}

func TestRunStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	s := New(config.ServerConfig{ListenAddr: addr}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				t.Fatalf("healthz status %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !s.GetStats().Running {
		t.Fatalf("server should report running")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * shutdownTimeout):
		t.Fatalf("Run did not return after cancel")
	}
	if err := s.Run(context.Background()); err != ErrServerClosed {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}
}

func TestCloseDropsLiveFeeds(t *testing.T) {
	s := New(config.ServerConfig{}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dialTouch(t, srv, "")
	deadline := time.Now().Add(time.Second)
	for s.GetStats().ClientCount != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := s.GetStats().ClientCount; n != 1 {
		t.Fatalf("expected 1 client, got %d", n)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close returned %v", err)
	}
	if n := s.GetStats().ClientCount; n != 0 {
		t.Fatalf("handlers still running after Close: %d clients", n)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going away close, got %v", err)
	}

	late := dialTouch(t, srv, "")
	_ = late.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := late.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected late client to be turned away, got %v", err)
	}
}
