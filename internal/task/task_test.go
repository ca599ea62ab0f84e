package task

import (
	"context"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"github.com/thenoizz/dotmenu/log2"
)

func TestTaskSuccess(t *testing.T) {
	t.Parallel()

	r := NewRegistry(log2.NewTest(t, log2.LDebug), nil)
	done := make(chan struct{})
	tk := r.Start(context.Background(), "ok", func(ctx context.Context) error {
		close(done)
		return nil
	})
	require.NotNil(t, tk)
	<-tk.Done()
	<-done
	assert.NoError(t, tk.Err())
	assert.Equal(t, 0, r.Running())
}

func TestTaskError(t *testing.T) {
	t.Parallel()

	r := NewRegistry(log2.NewTest(t, log2.LDebug), nil)
	tk := r.Start(context.Background(), "fail", func(ctx context.Context) error {
		return errors.Errorf("boom")
	})
	require.NotNil(t, tk)
	<-tk.Done()
	require.Error(t, tk.Err())
	assert.Contains(t, tk.Err().Error(), "task=fail")
	assert.Contains(t, tk.Err().Error(), "boom")
}

func TestTaskCancel(t *testing.T) {
	t.Parallel()

	r := NewRegistry(log2.NewTest(t, log2.LDebug), nil)
	tk := r.Start(context.Background(), "sleepy", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NotNil(t, tk)
	tk.Stop()
	select {
	case <-tk.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not react to Stop")
	}
	require.Error(t, tk.Err())
}

func TestRegistryStopWait(t *testing.T) {
	t.Parallel()

	parent := alive.NewAlive()
	r := NewRegistry(log2.NewTest(t, log2.LDebug), parent)
	started := make(chan struct{})
	tk := r.Start(context.Background(), "long", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})
	require.NotNil(t, tk)
	<-started

	parent.Stop()
	r.StopWait()
	assert.Equal(t, 0, r.Running())
	assert.Nil(t, r.Start(context.Background(), "late", func(ctx context.Context) error { return nil }))
}
