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
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/cardinalhq/shoprunner/frame"
	"github.com/cardinalhq/shoprunner/internal/queue"
	"github.com/cardinalhq/shoprunner/internal/source"
	"github.com/cardinalhq/shoprunner/logingestpb"
)

const DefaultGRPCPort = 50051

// ServiceConfig holds configuration for the log ingest gRPC service.
type ServiceConfig struct {
	GRPCPort  int
	Delimiter byte
	LogQ      *queue.Queue[*frame.Table]
}

// Service receives log batches from the simulation and enqueues them on
// the pipeline's log queue.
type Service struct {
	logingestpb.UnimplementedLogIngestServiceServer
	grpcPort    int
	delim       byte
	logQ        *queue.Queue[*frame.Table]
	grpcServer  *grpc.Server
	healthCheck *health.Server
}

// NewService creates the service; Run starts it.
func NewService(cfg ServiceConfig) *Service {
	port := cfg.GRPCPort
	if port == 0 {
		port = DefaultGRPCPort
	}
	delim := cfg.Delimiter
	if delim == 0 {
		delim = ';'
	}
	return &Service{
		grpcPort:    port,
		delim:       delim,
		logQ:        cfg.LogQ,
		healthCheck: health.NewServer(),
	}
}

// ReportCycle parses one batch of log lines into a table carrying the
// request's timestamp and enqueues it.
func (s *Service) ReportCycle(_ context.Context, req *logingestpb.LogdataanalyticsWithTime) (*logingestpb.Empty, error) {
	tbl, err := source.ExtractLines(req.GetLog(), s.delim)
	if err != nil {
		slog.Warn("Rejecting malformed log batch", slog.Any("error", err))
		recordBatchRejected()
		return nil, status.Errorf(codes.InvalidArgument, "parse log batch: %v", err)
	}
	tbl.SetTimestampMs(req.GetTimestamp())

	if err := s.logQ.Push(tbl); err != nil {
		return nil, status.Error(codes.Unavailable, "log queue is closed")
	}
	slog.Debug("Received log batch",
		slog.Int("rows", tbl.NumRows()),
		slog.Int64("timestamp", req.GetTimestamp()))
	recordBatchReceived(int64(tbl.NumRows()))
	return &logingestpb.Empty{}, nil
}

// Run serves gRPC until ctx is cancelled, then drains in-flight calls
// with a graceful stop.
func (s *Service) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.grpcPort))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.grpcPort, err)
	}

	s.grpcServer = grpc.NewServer()
	logingestpb.RegisterLogIngestServiceServer(s.grpcServer, s)
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.healthCheck)
	s.healthCheck.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Log ingest gRPC server listening", slog.Int("port", s.grpcPort))
		errCh <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.healthCheck.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		s.grpcServer.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
