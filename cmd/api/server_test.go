package main

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestServerHasNoWriteDeadline(t *testing.T) {
	srv := newServer(":0", http.NewServeMux())
	if srv.WriteTimeout != 0 {
		t.Fatalf("WriteTimeout must stay unset for long batch responses, got %v", srv.WriteTimeout)
	}
	if srv.ReadHeaderTimeout == 0 {
		t.Fatalf("ReadHeaderTimeout must be set")
	}
}

// A paced batch writes its response only after the full loop completes;
// the server must still deliver it to the client.
func TestServerDeliversSlowBatchResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/batch", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"placed": 100})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := newServer(ln.Addr().String(), mux)
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post("http://"+ln.Addr().String()+"/batch", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("expected a delivered response, got %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]int
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["placed"] != 100 {
		t.Fatalf("unexpected payload: %s", body)
	}
}
