package api

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_StartServeShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	srv := NewServer("127.0.0.1:0", mux)
	assert.Nil(t, srv.Addr())
	require.NoError(t, srv.Start())

	resp, err := http.Get(srv.BaseURL() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Wait(ctx))

	_, err = http.Get(srv.BaseURL() + "/ping")
	assert.Error(t, err)
}

func TestServer_PortInUse(t *testing.T) {
	first := NewServer("127.0.0.1:0", http.NewServeMux())
	require.NoError(t, first.Start())
	defer first.Shutdown(context.Background())

	second := NewServer(first.Addr().String(), http.NewServeMux())
	err := second.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestServer_ShutdownHonorsContext(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		<-release
	})

	srv := NewServer("127.0.0.1:0", mux)
	require.NoError(t, srv.Start())
	defer close(release)

	started := make(chan struct{})
	go func() {
		close(started)
		resp, err := http.Get(srv.BaseURL() + "/slow")
		if err == nil {
			resp.Body.Close()
		}
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := srv.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), shutdownTimeout)
}
