package consul

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"slices"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// ErrNoInstances is returned when a service has no healthy instance
var ErrNoInstances = errors.New("no healthy instances")

// TagHTTPS marks an instance that serves HTTPS
const TagHTTPS = "https"

// ServiceInstance represents a discovered service instance
type ServiceInstance struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
}

// BaseURL returns the root URL of the instance
func (s *ServiceInstance) BaseURL() string {
	scheme := "http"
	if slices.Contains(s.Tags, TagHTTPS) {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(s.Address, strconv.Itoa(s.Port)))
}

// ServiceDiscovery resolves service instances
type ServiceDiscovery interface {
	Discover(ctx context.Context, serviceName string) ([]*ServiceInstance, error)
	DiscoverOne(ctx context.Context, serviceName string) (*ServiceInstance, error)
}

// Discover retrieves all healthy instances of a service
func (c *Client) Discover(ctx context.Context, serviceName string) ([]*ServiceInstance, error) {
	opts := (&consulapi.QueryOptions{}).WithContext(ctx)
	services, _, err := c.api.Health().Service(serviceName, "", true, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to discover service %s: %w", serviceName, err)
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("%w for service: %s", ErrNoInstances, serviceName)
	}

	instances := make([]*ServiceInstance, 0, len(services))
	for _, entry := range services {
		instance := &ServiceInstance{
			ID:      entry.Service.ID,
			Name:    entry.Service.Service,
			Address: entry.Service.Address,
			Port:    entry.Service.Port,
			Tags:    entry.Service.Tags,
		}

		// Use node address if service address is empty
		if instance.Address == "" && entry.Node != nil {
			instance.Address = entry.Node.Address
		}

		instances = append(instances, instance)
	}

	return instances, nil
}

// DiscoverOne retrieves a single healthy instance using random load balancing
func (c *Client) DiscoverOne(ctx context.Context, serviceName string) (*ServiceInstance, error) {
	instances, err := c.Discover(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	return instances[rand.Intn(len(instances))], nil
}

// ResolveBaseURL returns the root URL of one healthy instance of serviceName
func ResolveBaseURL(ctx context.Context, d ServiceDiscovery, serviceName string) (string, error) {
	instance, err := d.DiscoverOne(ctx, serviceName)
	if err != nil {
		return "", err
	}
	return instance.BaseURL(), nil
}
