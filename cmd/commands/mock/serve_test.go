package mock

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"nathanbeddoewebdev/vitalmetrics/internal/api"
	"nathanbeddoewebdev/vitalmetrics/internal/config"
	"nathanbeddoewebdev/vitalmetrics/internal/mockapi"
	"nathanbeddoewebdev/vitalmetrics/internal/services/auth"

	"golang.org/x/crypto/bcrypt"
)

// syncBuffer is a bytes.Buffer safe for one writer and one poller.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var listenRe = regexp.MustCompile(`listening on (http://\S+/api)`)

func TestServe_LoginAndShutdown(t *testing.T) {
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)

	prev := mockapi.PasswordCost
	mockapi.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { mockapi.PasswordCost = prev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out, errOut syncBuffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--strict"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	var baseURL string
	deadline := time.Now().Add(5 * time.Second)
	for baseURL == "" {
		if m := listenRe.FindStringSubmatch(out.String()); m != nil {
			baseURL = m[1]
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start; stdout=%q stderr=%q", out.String(), errOut.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	store := auth.NewMockStore()
	client := api.New(store, api.WithBaseURL(baseURL), api.WithTimeout(2*time.Second))
	resp, err := client.Login(ctx, mockapi.DemoEmail, mockapi.DemoPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !strings.HasPrefix(resp.Token, mockapi.TokenPrefix) {
		t.Errorf("unexpected token %q", resp.Token)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not shut down")
	}
}

func TestServe_RejectsNegativeLatency(t *testing.T) {
	var out, errOut syncBuffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"serve", "--latency", "-1s"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for negative latency")
	}
	if !strings.Contains(errOut.String(), "must not be negative") {
		t.Errorf("unexpected stderr: %s", errOut.String())
	}
}
