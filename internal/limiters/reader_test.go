package limiters_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wal-g/twrp2tar/internal/limiters"
	"golang.org/x/time/rate"
)

func TestReader_PassesDataThrough(t *testing.T) {
	data := bytes.Repeat([]byte("twrp"), 4096)
	reader := limiters.NewReader(context.Background(), bytes.NewReader(data), rate.NewLimiter(rate.Inf, 1024))

	read, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, data, read)
}

func TestReader_ReadsAtMostBurst(t *testing.T) {
	reader := limiters.NewReader(context.Background(), bytes.NewReader(make([]byte, 100)), rate.NewLimiter(rate.Inf, 10))

	n, err := reader.Read(make([]byte, 100))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestReader_Throttles(t *testing.T) {
	limiter := limiters.NewDiskLimiter(1000)
	reader := limiters.NewReader(context.Background(), bytes.NewReader(make([]byte, 1500)), limiter)

	start := time.Now()
	_, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reader := limiters.NewReader(ctx, bytes.NewReader(make([]byte, 100)), limiters.NewDiskLimiter(10))

	_, err := reader.Read(make([]byte, 100))
	assert.Error(t, err)
}
