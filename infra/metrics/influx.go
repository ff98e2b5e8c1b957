package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/railoptima/railoptima/core/logger"
	coremetrics "github.com/railoptima/railoptima/core/metrics"
	infralogger "github.com/railoptima/railoptima/infra/logger"
)

// InfluxSink writes schedule events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordScheduleRun writes the run summary as one point.
func (s *InfluxSink) RecordScheduleRun(ev coremetrics.ScheduleRunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_run").
		AddTag("run_id", ev.RunID).
		AddTag("algorithm", ev.Algorithm).
		AddField("trains", ev.Trains).
		AddField("conflicts", ev.Conflicts).
		AddField("avg_delay_min", ev.AvgDelayMin).
		AddField("max_delay_min", ev.MaxDelayMin).
		AddField("duration_ms", float64(ev.Duration.Microseconds())/1000).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTrainDelays writes one point per delayed train.
func (s *InfluxSink) RecordTrainDelays(delays []coremetrics.TrainDelay) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	now := time.Now()
	for _, d := range delays {
		p := write.NewPointWithMeasurement("train_delay").
			AddTag("train_id", d.TrainID).
			AddField("priority", d.Priority).
			AddField("delay_min", d.DelayMin).
			SetTime(now)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordValidation writes one point per check outcome.
func (s *InfluxSink) RecordValidation(events []coremetrics.ValidationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ev := range events {
		p := write.NewPointWithMeasurement("validation_check").
			AddTag("check", ev.Check).
			AddTag("status", ev.Status).
			AddField("count", 1).
			SetTime(ev.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordProbe writes the probe outcome.
func (s *InfluxSink) RecordProbe(ev coremetrics.ProbeEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("endpoint_probe").
		AddTag("url", ev.URL).
		AddField("status_code", ev.StatusCode).
		AddField("latency_ms", ev.LatencyMS).
		SetTime(ev.Time)
	if ev.Error != "" {
		p.AddField("error", ev.Error)
	}
	return s.writeAPI.WritePoint(ctx, p)
}
