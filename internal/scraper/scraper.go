// Package scraper reads the service's Prometheus endpoint and writes the
// samples to Google Cloud Monitoring as Managed Service for Prometheus time
// series. It runs as its own container, triggered periodically over HTTP, so
// metrics collection does not depend on the main service's lifecycle.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/genproto/googleapis/api/distribution"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// maxSeriesPerRequest is the Cloud Monitoring limit for one CreateTimeSeries call.
const maxSeriesPerRequest = 200

// Config describes where to scrape from and how to label the written series.
type Config struct {
	MetricsURL string
	ProjectID  string
	Location   string
	Namespace  string
	Job        string
	// Prefix, when set, keeps only metric families whose name starts with it.
	Prefix string
}

// Writer stores converted time series.
type Writer interface {
	Write(ctx context.Context, projectID string, series []*monitoringpb.TimeSeries) error
}

// Scraper fetches, converts and writes metrics.
type Scraper struct {
	cfg        Config
	httpClient *http.Client
	writer     Writer
	logger     *slog.Logger
	now        func() time.Time
}

func New(cfg Config, httpClient *http.Client, writer Writer, logger *slog.Logger) *Scraper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Scraper{
		cfg:        cfg,
		httpClient: httpClient,
		writer:     writer,
		logger:     logger,
		now:        time.Now,
	}
}

// Handler runs one scrape per request.
func (s *Scraper) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("scrape request received")
		n, err := s.ScrapeAndIngest(r.Context())
		if err != nil {
			s.logger.Error("error during scrape and ingest", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Info("successfully scraped and ingested metrics", "series", n)
		fmt.Fprintln(w, "Success")
	})
}

// ScrapeAndIngest performs one scrape and returns the number of series written.
func (s *Scraper) ScrapeAndIngest(ctx context.Context) (int, error) {
	families, err := s.fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch metrics: %w", err)
	}

	series := ConvertMetricFamilies(families, s.resource(), s.now(), s.cfg.Prefix, s.logger)
	if len(series) == 0 {
		s.logger.Info("no metric samples found to ingest")
		return 0, nil
	}

	for start := 0; start < len(series); start += maxSeriesPerRequest {
		end := min(start+maxSeriesPerRequest, len(series))
		if err := s.writer.Write(ctx, s.cfg.ProjectID, series[start:end]); err != nil {
			return start, fmt.Errorf("failed to ingest metrics: %w", err)
		}
	}
	return len(series), nil
}

func (s *Scraper) fetch(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.MetricsURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http request failed with status code %d", resp.StatusCode)
	}
	return ParseText(resp.Body)
}

func (s *Scraper) resource() *monitoredres.MonitoredResource {
	return &monitoredres.MonitoredResource{
		Type: "prometheus_target",
		Labels: map[string]string{
			"project_id": s.cfg.ProjectID,
			"location":   s.cfg.Location,
			"cluster":    "__gce__",
			"namespace":  s.cfg.Namespace,
			"job":        s.cfg.Job,
			"instance":   s.cfg.MetricsURL,
		},
	}
}

// ParseText parses the Prometheus text exposition format.
func ParseText(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prometheus metrics: %w", err)
	}
	return families, nil
}

// ConvertMetricFamilies turns metric families into time series stamped with
// now. Counters, gauges and untyped metrics become double points, histograms
// become distributions, and summaries are skipped. Series are ordered by
// metric name.
func ConvertMetricFamilies(families map[string]*dto.MetricFamily, resource *monitoredres.MonitoredResource, now time.Time, prefix string, logger *slog.Logger) []*monitoringpb.TimeSeries {
	names := make([]string, 0, len(families))
	for name := range families {
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	ts := timestamppb.New(now)
	var series []*monitoringpb.TimeSeries
	for _, name := range names {
		mf := families[name]
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}

			var point *monitoringpb.Point
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				point = doublePoint(ts, m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				point = doublePoint(ts, m.GetGauge().GetValue())
			case dto.MetricType_UNTYPED:
				point = doublePoint(ts, m.GetUntyped().GetValue())
			case dto.MetricType_HISTOGRAM:
				point = distributionPoint(ts, m.GetHistogram(), logger)
			case dto.MetricType_SUMMARY:
				logger.Debug("skipping metric with unhandled summary type", "metric", name)
				continue
			default:
				logger.Warn("skipping metric with unhandled type", "metric", name, "type", mf.GetType())
				continue
			}

			series = append(series, &monitoringpb.TimeSeries{
				Metric: &metric.Metric{
					Type:   "prometheus.googleapis.com/" + name,
					Labels: labels,
				},
				Resource: resource,
				Points:   []*monitoringpb.Point{point},
			})
		}
	}
	return series
}

func doublePoint(ts *timestamppb.Timestamp, value float64) *monitoringpb.Point {
	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{EndTime: ts},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: value},
		},
	}
}

// distributionPoint converts cumulative Prometheus buckets into per-bucket
// counts. The exposition always ends with the +Inf bucket, which becomes the
// overflow bucket and has no bound of its own.
func distributionPoint(ts *timestamppb.Timestamp, h *dto.Histogram, logger *slog.Logger) *monitoringpb.Point {
	buckets := h.GetBucket()
	bounds := make([]float64, 0, len(buckets))
	counts := make([]int64, 0, len(buckets)+1)
	var last uint64
	for i, b := range buckets {
		if !math.IsInf(b.GetUpperBound(), 1) {
			bounds = append(bounds, b.GetUpperBound())
		}
		inBucket := b.GetCumulativeCount() - last
		counts = append(counts, capInt64(inBucket, logger, "bucket", i))
		last = b.GetCumulativeCount()
	}
	if len(buckets) == 0 || !math.IsInf(buckets[len(buckets)-1].GetUpperBound(), 1) {
		counts = append(counts, capInt64(h.GetSampleCount()-min(last, h.GetSampleCount()), logger, "bucket", len(buckets)))
	}

	var mean float64
	if h.GetSampleCount() > 0 {
		mean = h.GetSampleSum() / float64(h.GetSampleCount())
	}

	dist := &distribution.Distribution{
		Count: capInt64(h.GetSampleCount(), logger, "field", "sample_count"),
		Mean:  mean,
		BucketOptions: &distribution.Distribution_BucketOptions{
			Options: &distribution.Distribution_BucketOptions_ExplicitBuckets{
				ExplicitBuckets: &distribution.Distribution_BucketOptions_Explicit{Bounds: bounds},
			},
		},
		BucketCounts: counts,
	}

	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{EndTime: ts},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DistributionValue{DistributionValue: dist},
		},
	}
}

func capInt64(v uint64, logger *slog.Logger, attrs ...any) int64 {
	if v > math.MaxInt64 {
		logger.Warn("histogram count exceeds MaxInt64, capping value", attrs...)
		return math.MaxInt64
	}
	return int64(v)
}

// CloudWriter writes time series with the Cloud Monitoring API. A client is
// created per call and relies on the library's connection pooling.
type CloudWriter struct{}

func (CloudWriter) Write(ctx context.Context, projectID string, series []*monitoringpb.TimeSeries) error {
	client, err := monitoring.NewMetricClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create monitoring client: %w", err)
	}
	defer client.Close()

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name:       "projects/" + projectID,
		TimeSeries: series,
	}
	if err := client.CreateTimeSeries(ctx, req); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}
	return nil
}
