package statistics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wal-g/tracelog"
)

type metrics struct {
	EntriesTotal        prometheus.Counter
	SkippedEntriesTotal prometheus.Counter
	DroppedPAXRecords   prometheus.Counter
	ConversionsTotal    *prometheus.CounterVec
	BytesRead           prometheus.Counter
	BytesWritten        prometheus.Counter
	DurationSeconds     prometheus.Gauge
}

var (
	MetricsPrefix = "twrp2tar_"

	Registry = prometheus.NewRegistry()

	Metrics = metrics{
		EntriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "entries_total",
				Help: "Number of entries written to the output archive.",
			},
		),
		SkippedEntriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "skipped_entries_total",
				Help: "Number of input entries that are not carried over, such as PAX global headers.",
			},
		),
		DroppedPAXRecords: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "dropped_pax_records_total",
				Help: "Number of extended attributes and SELinux contexts that were dropped.",
			},
		),
		ConversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "conversions_total",
				Help: "Number of conversions by input kind and result.",
			},
			[]string{"kind", "result"},
		),
		BytesRead: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "input_bytes_read_total",
				Help: "Amount of raw backup bytes read.",
			},
		),
		BytesWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricsPrefix + "output_bytes_written_total",
				Help: "Amount of archive bytes written.",
			},
		),
		DurationSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricsPrefix + "last_conversion_duration_seconds",
				Help: "Wall time of the last conversion.",
			},
		),
	}
)

func init() {
	Registry.MustRegister(Metrics.EntriesTotal)
	Registry.MustRegister(Metrics.SkippedEntriesTotal)
	Registry.MustRegister(Metrics.DroppedPAXRecords)
	Registry.MustRegister(Metrics.ConversionsTotal)
	Registry.MustRegister(Metrics.BytesRead)
	Registry.MustRegister(Metrics.BytesWritten)
	Registry.MustRegister(Metrics.DurationSeconds)
}

// Conversion is what a finished conversion reports.
type Conversion struct {
	Kind           string
	Failed         bool
	Entries        int
	SkippedEntries int
	DroppedRecords int
	BytesRead      int64
	BytesWritten   int64
	Duration       time.Duration
}

func RecordConversion(conversion Conversion) {
	result := "success"
	if conversion.Failed {
		result = "failure"
	}
	Metrics.ConversionsTotal.WithLabelValues(conversion.Kind, result).Inc()
	Metrics.EntriesTotal.Add(float64(conversion.Entries))
	Metrics.SkippedEntriesTotal.Add(float64(conversion.SkippedEntries))
	Metrics.DroppedPAXRecords.Add(float64(conversion.DroppedRecords))
	Metrics.BytesRead.Add(float64(conversion.BytesRead))
	Metrics.BytesWritten.Add(float64(conversion.BytesWritten))
	Metrics.DurationSeconds.Set(conversion.Duration.Seconds())
}

// WriteMetricsFile stores the metrics in the node_exporter textfile format.
// An empty path disables it.
func WriteMetricsFile(path string) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		tracelog.WarningLogger.Printf("Failed to write metrics to '%s': %v\n", path, err)
		return
	}
	tracelog.DebugLogger.Printf("Metrics written to '%s'\n", path)
}
