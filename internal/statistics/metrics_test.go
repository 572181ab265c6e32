package statistics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wal-g/twrp2tar/internal/statistics"
)

func TestRecordConversion(t *testing.T) {
	entriesBefore := testutil.ToFloat64(statistics.Metrics.EntriesTotal)

	statistics.RecordConversion(statistics.Conversion{
		Kind:         "encrypted",
		Entries:      3,
		BytesRead:    4096,
		BytesWritten: 3072,
		Duration:     1500 * time.Millisecond,
	})

	assert.Equal(t, entriesBefore+3, testutil.ToFloat64(statistics.Metrics.EntriesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(statistics.Metrics.ConversionsTotal.WithLabelValues("encrypted", "success")))
	assert.Equal(t, 1.5, testutil.ToFloat64(statistics.Metrics.DurationSeconds))
}

func TestWriteMetricsFile(t *testing.T) {
	statistics.RecordConversion(statistics.Conversion{Kind: "plain", Failed: true})
	path := filepath.Join(t.TempDir(), "twrp2tar.prom")

	statistics.WriteMetricsFile(path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `twrp2tar_conversions_total{kind="plain",result="failure"} 1`)
	assert.Contains(t, string(content), "twrp2tar_entries_total")
}

func TestWriteMetricsFile_Disabled(t *testing.T) {
	statistics.WriteMetricsFile("")
}
