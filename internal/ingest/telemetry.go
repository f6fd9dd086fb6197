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

package ingest

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	filesIngested   metric.Int64Counter
	filesFailed     metric.Int64Counter
	batchesReceived metric.Int64Counter
	batchesRejected metric.Int64Counter
	rowsReceived    metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/shoprunner/internal/ingest")

	var err error

	filesIngested, err = meter.Int64Counter(
		"shoprunner.ingest.files_ingested",
		metric.WithDescription("Number of dropped files parsed and enqueued"),
	)
	if err != nil {
		log.Fatalf("failed to create ingest.files_ingested counter: %v", err)
	}

	filesFailed, err = meter.Int64Counter(
		"shoprunner.ingest.files_failed",
		metric.WithDescription("Number of dropped files that failed to parse"),
	)
	if err != nil {
		log.Fatalf("failed to create ingest.files_failed counter: %v", err)
	}

	batchesReceived, err = meter.Int64Counter(
		"shoprunner.ingest.rpc_batches_received",
		metric.WithDescription("Number of log batches accepted over gRPC"),
	)
	if err != nil {
		log.Fatalf("failed to create ingest.rpc_batches_received counter: %v", err)
	}

	batchesRejected, err = meter.Int64Counter(
		"shoprunner.ingest.rpc_batches_rejected",
		metric.WithDescription("Number of malformed log batches rejected over gRPC"),
	)
	if err != nil {
		log.Fatalf("failed to create ingest.rpc_batches_rejected counter: %v", err)
	}

	rowsReceived, err = meter.Int64Counter(
		"shoprunner.ingest.rows_received",
		metric.WithDescription("Number of event rows accepted over gRPC"),
	)
	if err != nil {
		log.Fatalf("failed to create ingest.rows_received counter: %v", err)
	}
}

func recordFileIngested() {
	filesIngested.Add(context.Background(), 1)
}

func recordFileFailed() {
	filesFailed.Add(context.Background(), 1)
}

func recordBatchReceived(rows int64) {
	batchesReceived.Add(context.Background(), 1)
	rowsReceived.Add(context.Background(), rows)
}

func recordBatchRejected() {
	batchesRejected.Add(context.Background(), 1)
}
