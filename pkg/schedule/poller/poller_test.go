package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"plantcare/entities"
	"plantcare/pkg/notify"
	"plantcare/pkg/schedule/service"
	"plantcare/pkg/schedule/types"
)

func TestMain(m *testing.M) { goleak.VerifyTestMain(m) }

type stubManager struct {
	mu    sync.Mutex
	calls int
	fire  []service.Fired
	err   error
}

func (s *stubManager) Schedule(context.Context, types.Trigger, string, string) (*entities.Reminder, error) {
	return nil, nil
}
func (s *stubManager) ListReminders(context.Context) ([]entities.Reminder, error) { return nil, nil }
func (s *stubManager) Cancel(context.Context, string) error                       { return nil }
func (s *stubManager) Snooze(context.Context, string, time.Duration) (*entities.Reminder, error) {
	return nil, nil
}

func (s *stubManager) DueReminders(_ context.Context, asOf time.Time) ([]service.Fired, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := s.fire
	s.fire = nil
	for i := range out {
		out[i].FiredAt = asOf
	}
	return out, s.err
}

func (s *stubManager) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type sink struct {
	mu  sync.Mutex
	got []service.Fired
}

func (k *sink) Notify(_ context.Context, ev service.Fired) error {
	k.mu.Lock()
	k.got = append(k.got, ev)
	k.mu.Unlock()
	return nil
}

func (k *sink) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.got)
}

var _ notify.Notifier = (*sink)(nil)

func TestStartStopDeliversFired(t *testing.T) {
	mgr := &stubManager{fire: []service.Fired{{ReminderID: "r1", Description: "water Fernie"}}}
	out := &sink{}
	p := New(mgr, out, Config{Interval: 5 * time.Millisecond}, nil)

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), ErrAlreadyRunning)

	require.Eventually(t, func() bool { return mgr.Calls() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, out.Len())
	assert.True(t, p.Status().Running)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Stop(ctx))
	assert.False(t, p.Status().Running)
	require.NoError(t, p.Stop(ctx))
}

func TestRunOnceRecordsErrors(t *testing.T) {
	mgr := &stubManager{err: errors.New("database is locked")}
	p := New(mgr, &sink{}, Config{Now: func() time.Time { return time.Unix(100, 0) }}, nil)

	assert.Zero(t, p.RunOnce(context.Background()))
	st := p.Status()
	assert.Equal(t, "database is locked", st.LastError)
	assert.Equal(t, time.Unix(100, 0).UTC(), st.LastRunAt)
}

func TestRunReturnsWhenContextEnds(t *testing.T) {
	p := New(&stubManager{}, &sink{}, Config{Interval: time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return p.Status().Running }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
