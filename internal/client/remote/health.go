package remote

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthProbe checks the server through the standard gRPC health service.
type HealthProbe struct {
	addr string
}

func NewHealthProbe(addr string) *HealthProbe {
	return &HealthProbe{addr: addr}
}

// Check returns the serving status reported for service ("" is the server).
func (h *HealthProbe) Check(ctx context.Context, service string) (string, error) {
	if h.addr == "" {
		return "", fmt.Errorf("%w: health address not configured", ErrUnavailable)
	}

	conn, err := grpc.NewClient(h.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp.GetStatus().String(), nil
}
