package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestNewGracefulServer_AppliesTimeouts(t *testing.T) {
	e := echo.New()
	gs := NewGracefulServer(e, models.ServerConfig{Port: 8080, ReadTimeout: 5, WriteTimeout: 7, ShutdownTimeout: 3})

	assert.Equal(t, ":8080", gs.addr)
	assert.Equal(t, 5*time.Second, e.Server.ReadTimeout)
	assert.Equal(t, 7*time.Second, e.Server.WriteTimeout)
	assert.Equal(t, 3*time.Second, gs.shutdownTimeout)
}

func TestRun_ServesAndShutsDownOnCancel(t *testing.T) {
	port := freePort(t)
	e := echo.New()
	e.HideBanner = true
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	gs := NewGracefulServer(e, models.ServerConfig{Host: "127.0.0.1", Port: port, ShutdownTimeout: 2})
	var closed []string
	gs.OnShutdown(func(ctx context.Context) error { closed = append(closed, "postgres"); return nil })
	gs.OnShutdown(func(ctx context.Context) error { closed = append(closed, "nats"); return errors.New("drain failed") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/ping"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, []string{"nats", "postgres"}, closed)
}

func TestRun_ListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	e := echo.New()
	e.HideBanner = true
	gs := NewGracefulServer(e, models.ServerConfig{Host: "127.0.0.1", Port: port})
	closedComponents := false
	gs.OnShutdown(func(ctx context.Context) error { closedComponents = true; return nil })

	err = gs.Run(context.Background())

	assert.Error(t, err)
	assert.True(t, closedComponents)
}
