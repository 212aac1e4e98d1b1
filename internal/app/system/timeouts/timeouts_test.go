package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer timeouts.Reset()

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	if got := timeouts.Short(); got != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", got)
	}
	if got := timeouts.Long(); got != timeouts.DefaultLong {
		t.Errorf("Long() = %v, want default %v", got, timeouts.DefaultLong)
	}
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Minute, Upload: time.Hour})
	timeouts.Reset()

	cur := timeouts.Current()
	if cur.Ping != timeouts.DefaultPing || cur.Upload != timeouts.DefaultUpload {
		t.Errorf("Reset left %+v", cur)
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	<-ctx.Done()
	cancel()

	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
}
