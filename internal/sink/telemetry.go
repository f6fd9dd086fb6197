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

package sink

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var flushCounter metric.Int64Counter

func init() {
	meter := otel.Meter("github.com/cardinalhq/shoprunner/internal/sink")

	var err error
	flushCounter, err = meter.Int64Counter(
		"shoprunner.sink.flushes",
		metric.WithDescription("Number of analytic snapshots written to disk"),
	)
	if err != nil {
		log.Fatalf("failed to create sink.flushes counter: %v", err)
	}
}

func recordFlush(analytic string) {
	flushCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("analytic", analytic)))
}
