package test

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// LifecycleRecorder collects hooks so tests can drive them by hand.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// StartAll runs OnStart hooks in registration order and stops at the first error.
func (l *LifecycleRecorder) StartAll(ctx context.Context) error {
	for _, h := range l.Hooks {
		if h.OnStart == nil {
			continue
		}
		if err := h.OnStart(ctx); err != nil {
			return err
		}
	}
	return nil
}

// StopAll runs OnStop hooks in reverse order and returns the first error.
func (l *LifecycleRecorder) StopAll(ctx context.Context) error {
	var first error
	for i := len(l.Hooks) - 1; i >= 0; i-- {
		if l.Hooks[i].OnStop == nil {
			continue
		}
		if err := l.Hooks[i].OnStop(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ShutdownerStub records shutdown requests. Called, when set, receives one
// non-blocking notification per request.
type ShutdownerStub struct {
	Called chan struct{}

	mu    sync.Mutex
	calls int
}

func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}

// Calls reports how many times Shutdown was invoked.
func (s *ShutdownerStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
