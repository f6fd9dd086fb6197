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

package handler

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tablesProcessed metric.Int64Counter
	batchesDropped  metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/shoprunner/internal/handler")

	var err error

	tablesProcessed, err = meter.Int64Counter(
		"shoprunner.handler.tables_processed",
		metric.WithDescription("Number of tables an operator processed and fanned out"),
	)
	if err != nil {
		log.Fatalf("failed to create handler.tables_processed counter: %v", err)
	}

	batchesDropped, err = meter.Int64Counter(
		"shoprunner.handler.batches_dropped",
		metric.WithDescription("Number of input tables dropped because an operator failed"),
	)
	if err != nil {
		log.Fatalf("failed to create handler.batches_dropped counter: %v", err)
	}
}

func recordTableProcessed(op string) {
	tablesProcessed.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("op", op)))
}

func recordBatchDropped(op string) {
	batchesDropped.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("op", op)))
}
