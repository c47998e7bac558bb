// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*WebSocketHubService)(nil)
	_ suture.Service = (*NATSPublisherService)(nil)
	_ suture.Service = (*LoopService)(nil)
)

type mockHTTPServer struct {
	listenErr   error
	shutdownErr error
	started     chan struct{}
	stop        chan struct{}
	shutdowns   atomic.Int32
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.started <- struct{}{}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stop
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdowns.Add(1)
	close(m.stop)
	return m.shutdownErr
}

func serveAsync(svc suture.Service, ctx context.Context) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- svc.Serve(ctx) }()
	return ch
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
		return nil
	}
}

func TestHTTPServerService(t *testing.T) {
	t.Run("graceful shutdown on cancel", func(t *testing.T) {
		srv := newMockHTTPServer()
		svc := NewHTTPServerService(srv, time.Second)
		ctx, cancel := context.WithCancel(context.Background())

		errCh := serveAsync(svc, ctx)
		<-srv.started
		cancel()

		if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
		if srv.shutdowns.Load() != 1 {
			t.Errorf("Shutdown called %d times, want 1", srv.shutdowns.Load())
		}
	})

	t.Run("startup failure", func(t *testing.T) {
		bindErr := errors.New("bind: address already in use")
		srv := newMockHTTPServer()
		srv.listenErr = bindErr

		err := NewHTTPServerService(srv, time.Second).Serve(context.Background())
		if !errors.Is(err, bindErr) {
			t.Errorf("Serve() = %v, want %v", err, bindErr)
		}
	})

	t.Run("shutdown failure", func(t *testing.T) {
		shutdownErr := errors.New("context deadline exceeded")
		srv := newMockHTTPServer()
		srv.shutdownErr = shutdownErr
		ctx, cancel := context.WithCancel(context.Background())

		errCh := serveAsync(NewHTTPServerService(srv, time.Second), ctx)
		<-srv.started
		cancel()

		if err := waitErr(t, errCh); !errors.Is(err, shutdownErr) {
			t.Errorf("Serve() = %v, want %v", err, shutdownErr)
		}
	})

	t.Run("default timeout", func(t *testing.T) {
		if svc := NewHTTPServerService(newMockHTTPServer(), 0); svc.shutdownTimeout != 10*time.Second {
			t.Errorf("shutdownTimeout = %v", svc.shutdownTimeout)
		}
		if svc := NewHTTPServerService(newMockHTTPServer(), 0); svc.String() != "http-server" {
			t.Errorf("String() = %q", svc.String())
		}
	})
}

type mockHub struct {
	runs atomic.Int32
	err  error
}

func (m *mockHub) RunWithContext(ctx context.Context) error {
	m.runs.Add(1)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubService(t *testing.T) {
	hub := &mockHub{}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(NewWebSocketHubService(hub), ctx)
	cancel()

	if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
	if hub.runs.Load() != 1 {
		t.Errorf("runs = %d", hub.runs.Load())
	}

	crash := errors.New("hub crashed")
	if err := NewWebSocketHubService(&mockHub{err: crash}).Serve(context.Background()); !errors.Is(err, crash) {
		t.Errorf("Serve() = %v, want %v", err, crash)
	}
}

type mockPublisher struct {
	startErr  error
	starts    atomic.Int32
	shutdowns atomic.Int32
}

func (m *mockPublisher) Start(context.Context) error {
	m.starts.Add(1)
	return m.startErr
}

func (m *mockPublisher) Shutdown(context.Context) {
	m.shutdowns.Add(1)
}

func TestNATSPublisherService(t *testing.T) {
	t.Run("start then shutdown", func(t *testing.T) {
		pub := &mockPublisher{}
		ctx, cancel := context.WithCancel(context.Background())
		errCh := serveAsync(NewNATSPublisherService(pub, time.Second), ctx)

		time.Sleep(10 * time.Millisecond)
		cancel()
		if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v", err)
		}
		if pub.starts.Load() != 1 || pub.shutdowns.Load() != 1 {
			t.Errorf("starts=%d shutdowns=%d", pub.starts.Load(), pub.shutdowns.Load())
		}
	})

	t.Run("start failure is returned", func(t *testing.T) {
		connErr := errors.New("nats: no servers available")
		pub := &mockPublisher{startErr: connErr}
		err := NewNATSPublisherService(pub, 0).Serve(context.Background())
		if !errors.Is(err, connErr) {
			t.Errorf("Serve() = %v, want %v", err, connErr)
		}
		if pub.shutdowns.Load() != 0 {
			t.Error("Shutdown called after failed start")
		}
	})
}

func TestLoopService(t *testing.T) {
	var ran atomic.Bool
	svc := NewLoopService("spool-gc", func(ctx context.Context) {
		ran.Store(true)
		<-ctx.Done()
	})
	if svc.String() != "spool-gc" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(svc, ctx)
	cancel()
	if err := waitErr(t, errCh); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
	if !ran.Load() {
		t.Error("loop function never ran")
	}
}
