package monitoring

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubChecker struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubChecker) DatasetExists(ctx context.Context, dataset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline on probe")
	}
	return s.err
}

func (s *stubChecker) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func TestCheckWarehouse(t *testing.T) {
	stub := &stubChecker{}
	if !checkWarehouse(context.Background(), stub, "centiment", time.Second) {
		t.Error("expected healthy warehouse")
	}

	stub.setErr(errors.New("dataset not found"))
	if checkWarehouse(context.Background(), stub, "centiment", time.Second) {
		t.Error("expected unhealthy warehouse")
	}
}

func TestMonitorWarehouseHealth(t *testing.T) {
	stub := &stubChecker{err: errors.New("unreachable")}
	var healthy atomic.Bool
	healthy.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		MonitorWarehouseHealth(ctx, stub, "centiment", 5*time.Millisecond, time.Second, &healthy)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for healthy.Load() {
		select {
		case <-deadline:
			t.Fatal("monitor never marked the warehouse unhealthy")
		case <-time.After(5 * time.Millisecond):
		}
	}

	stub.setErr(nil)
	for !healthy.Load() {
		select {
		case <-deadline:
			t.Fatal("monitor never marked the warehouse healthy again")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop on cancel")
	}
}
