package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/remote"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
)

func TestServe_ReportsCheckResult(t *testing.T) {
	var failing atomic.Bool
	srv := NewHealthServer("", logging.NewNop(), func(ctx context.Context) error {
		if failing.Load() {
			return errors.New("db down")
		}
		return nil
	})

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	probe := remote.NewHealthProbe(lis.Addr().String())

	require.Eventually(t, func() bool {
		status, err := probe.Check(context.Background(), ServiceName)
		return err == nil && status == "SERVING"
	}, 2*time.Second, 20*time.Millisecond)

	failing.Store(true)
	srv.refresh(ctx)

	status, err := probe.Check(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "NOT_SERVING", status)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewHealthServer("127.0.0.1:99999", logging.NewNop(), nil)
	assert.Error(t, srv.Run(context.Background()))
}
