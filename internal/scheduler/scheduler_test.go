package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_IntervalJobStartsImmediately(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	rqIDs := make(chan string, 1)
	err = s.NewIntervalJob("test", func(ctx context.Context) error {
		select {
		case rqIDs <- utils.GetRequestIDFromCtx(ctx):
		default:
		}
		return nil
	}, time.Hour, true)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case rqID := <-rqIDs:
		assert.NotEmpty(t, rqID)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_InvalidCrontab(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Stop()

	err = s.NewCrontabJob("broken", func(context.Context) error { return nil }, "not a crontab", false)
	assert.Error(t, err)
}

func TestTaskWithRecover(t *testing.T) {
	s := &Scheduler{}

	assert.NotPanics(t, func() {
		s.taskWithRecover(func(context.Context) error { panic("boom") }, "panicky")(context.Background())
	})
	assert.NotPanics(t, func() {
		s.taskWithRecover(func(context.Context) error { return errors.New("failed") }, "failing")(context.Background())
	})
}
