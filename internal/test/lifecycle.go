package test

import "go.uber.org/fx"

// LifecycleRecorder collects hooks registered during wiring so tests can
// invoke them directly.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores the hook without running it.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub signals on Called whenever a shutdown is requested.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown performs a non-blocking notification and never fails.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called == nil {
		return nil
	}
	select {
	case s.Called <- struct{}{}:
	default:
	}
	return nil
}
