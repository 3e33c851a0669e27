package consul

import (
	"context"
	"fmt"
	"mediatracker/pkg/discovery"
	"mediatracker/pkg/logging"
	"net"
	"strconv"

	consul "github.com/hashicorp/consul/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerID = "discovery-consul"

const (
	defaultCheckTTL        = "5s"
	defaultDeregisterAfter = "1m"
)

// Registry defines a Consul-based service registry.
type Registry struct {
	client *consul.Client
	logger *zap.Logger
}

var _ discovery.Registry = (*Registry)(nil)

// NewRegistry creates a new Consul-based service registry instance.
func NewRegistry(addr string, logger *zap.Logger) (*Registry, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "discovery"),
		zap.String(logging.FieldType, "consul"),
	)
	config := consul.DefaultConfig()
	config.Address = addr
	client, err := consul.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}
	return &Registry{client: client, logger: logger}, nil
}

// Register creates a TTL-checked service record in the registry.
// Instances that stop reporting are removed by Consul after a minute in critical state.
func (r *Registry) Register(ctx context.Context, instanceID string, serviceName string, hostPort string) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Register", trace.WithAttributes(
		attribute.String("service", serviceName),
		attribute.String("instance", instanceID),
	))
	defer span.End()
	host, rawPort, err := net.SplitHostPort(hostPort)
	if err != nil {
		return fmt.Errorf("hostPort must be in a form of <host>:<port>, example: localhost:8500: %w", err)
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return fmt.Errorf("parse port %q: %w", rawPort, err)
	}
	r.logger.Info("Registering service instance",
		zap.String("instance", instanceID),
		zap.String("service", serviceName),
		zap.String("address", hostPort),
	)
	return r.client.Agent().ServiceRegister(&consul.AgentServiceRegistration{
		Address: host,
		ID:      instanceID,
		Name:    serviceName,
		Port:    port,
		Check: &consul.AgentServiceCheck{
			CheckID:                        instanceID,
			TTL:                            defaultCheckTTL,
			DeregisterCriticalServiceAfter: defaultDeregisterAfter,
		},
	})
}

// Deregister removes a service record from the registry.
func (r *Registry) Deregister(ctx context.Context, instanceID string, _ string) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Deregister")
	defer span.End()
	r.logger.Info("Deregistering service instance", zap.String("instance", instanceID))
	return r.client.Agent().ServiceDeregister(instanceID)
}

// ServiceAddresses returns the list of addresses of passing instances of the given service.
func (r *Registry) ServiceAddresses(ctx context.Context, serviceName string) ([]string, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "ServiceAddresses", trace.WithAttributes(
		attribute.String("service", serviceName),
	))
	defer span.End()
	q := (&consul.QueryOptions{}).WithContext(ctx)
	entries, _, err := r.client.Health().Service(serviceName, "", true, q)
	if err != nil {
		return nil, fmt.Errorf("query consul health for %s: %w", serviceName, err)
	}
	if len(entries) == 0 {
		return nil, discovery.ErrNotFound
	}
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		res = append(res, net.JoinHostPort(e.Service.Address, strconv.Itoa(e.Service.Port)))
	}
	return res, nil
}

// ReportHealthyState passes the TTL check of the instance.
func (r *Registry) ReportHealthyState(instanceID string, _ string) error {
	return r.client.Agent().PassTTL(instanceID, "")
}
