package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/bitss-one/storefront-monorepo/pkg/logger"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
)

// Probe reports whether a dependency the service needs is reachable.
type Probe func(ctx context.Context) error

const probeInterval = 15 * time.Second

// Server serves the standard gRPC health service. The storefront service
// status follows the probe: SERVING while it passes, NOT_SERVING otherwise.
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	server   *grpc.Server
	health   *health.Server
	probe    Probe
	listener net.Listener
	stop     chan struct{}
}

// NewServer creates the gRPC server. probe may be nil.
func NewServer(cfg *config.Config, log *zap.Logger, probe Probe) *Server {
	s := &Server{
		config: cfg,
		logger: log,
		health: health.NewServer(),
		probe:  probe,
		stop:   make(chan struct{}),
	}

	s.server = grpc.NewServer(
		grpc.ChainUnaryInterceptor(logger.NewGrpcUnaryServerInterceptor(log)),
		grpc.ChainStreamInterceptor(logger.NewGrpcStreamServerInterceptor(log)),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.GRPC.Host, s.config.Server.GRPC.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener

	s.check(context.Background())
	go s.watch()

	s.logger.Info("Starting gRPC server", zap.String("address", listener.Addr().String()))
	return s.server.Serve(listener)
}

func (s *Server) watch() {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.check(context.Background())
		}
	}
}

func (s *Server) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.probe(ctx); err != nil {
			s.logger.Warn("Health probe failed", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus(s.config.Service.Name, status)
	s.health.SetServingStatus("", status)
}

func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}
