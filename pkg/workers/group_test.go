package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeWorker struct {
	name    string
	err     error
	stopped bool
}

func (f *fakeWorker) Name() string { return f.name }

func (f *fakeWorker) Start(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	f.stopped = true
	return nil
}

func TestGroupStopsOnCancel(t *testing.T) {
	a, b := &fakeWorker{name: "a"}, &fakeWorker{name: "b"}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Group{a, b}.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("group did not stop")
	}
	assert.True(t, a.stopped)
	assert.True(t, b.stopped)
}

func TestGroupFailureStopsOthers(t *testing.T) {
	boom := errors.New("boom")
	healthy := &fakeWorker{name: "healthy"}
	failing := &fakeWorker{name: "failing", err: boom}

	err := Group{healthy, failing}.Start(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing: boom")
	assert.True(t, healthy.stopped)
}
