// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package pipeline

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	foldCounter   metric.Int64Counter
	foldDropped   metric.Int64Counter
	foldLatencyMs metric.Float64Histogram
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/shoprunner/internal/pipeline")

	var err error

	foldCounter, err = meter.Int64Counter(
		"shoprunner.pipeline.folds",
		metric.WithDescription("Number of stage results folded into result slots"),
	)
	if err != nil {
		log.Fatalf("failed to create pipeline.folds counter: %v", err)
	}

	foldDropped, err = meter.Int64Counter(
		"shoprunner.pipeline.folds_dropped",
		metric.WithDescription("Number of stage results that failed to fold"),
	)
	if err != nil {
		log.Fatalf("failed to create pipeline.folds_dropped counter: %v", err)
	}

	foldLatencyMs, err = meter.Float64Histogram(
		"shoprunner.pipeline.fold_latency_ms",
		metric.WithDescription("End-to-end latency from ingest to result fold"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		log.Fatalf("failed to create pipeline.fold_latency_ms histogram: %v", err)
	}
}

func registerQueueDepthGauge(p *Pipeline) {
	meter := otel.Meter("github.com/cardinalhq/shoprunner/internal/pipeline")
	_, err := meter.Int64ObservableGauge(
		"shoprunner.pipeline.queue_depth",
		metric.WithDescription("Number of tables buffered in each pipeline queue"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			for _, nq := range p.queues {
				o.Observe(int64(nq.q.Len()),
					metric.WithAttributes(attribute.String("queue", nq.name)))
			}
			return nil
		}),
	)
	if err != nil {
		log.Fatalf("failed to create pipeline.queue_depth gauge: %v", err)
	}
}

func recordFold(analytic string, ingestMs int64) {
	attrs := metric.WithAttributes(attribute.String("analytic", analytic))
	foldCounter.Add(context.Background(), 1, attrs)
	foldLatencyMs.Record(context.Background(), float64(time.Now().UnixMilli()-ingestMs), attrs)
}

func recordFoldDropped(analytic string) {
	foldDropped.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("analytic", analytic)))
}
