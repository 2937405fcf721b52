package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceName is the health service name reported alongside the overall "" entry.
const ServiceName = "pizzahunt.Storefront"

// Server is the operational gRPC endpoint: standard health checking plus
// reflection. It serves no business API.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	log        *logrus.Logger
}

func NewServer(logger *logrus.Logger) *Server {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(logger)))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	logger.Info("gRPC health and reflection services registered")

	s := &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		log:        logger,
	}
	s.SetServing(false)
	return s
}

func loggingInterceptor(logger *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.WithFields(logrus.Fields{
			"method":     info.FullMethod,
			"code":       status.Code(err).String(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Debug("gRPC Handler: Call completed")
		return resp, err
	}
}

// SetServing flips both the overall and the storefront service status.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
	s.log.Infof("gRPC Handler: Health status set to %s", st)
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Infof("gRPC server listening on %s", lis.Addr())
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	s.log.Info("gRPC server stopped serving.")
	return nil
}

// Stop marks the service as not serving and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
