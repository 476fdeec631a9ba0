package consul

import (
	"fmt"
	"net"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

const (
	checkInterval   = "10s"
	checkTimeout    = "2s"
	deregisterAfter = "1m"
)

// Registration announces one instance of a service to the local agent
type Registration struct {
	Name string
	Host string
	Port int
	Tags []string
	// HealthPath is polled over HTTP; no check is registered when empty
	HealthPath string
}

// ID identifies the instance; it is stable across restarts on the same host and port
func (r Registration) ID() string {
	return r.Name + "-" + r.Host + "-" + strconv.Itoa(r.Port)
}

// Register announces reg and returns a function that withdraws it
func (c *Client) Register(reg Registration) (func() error, error) {
	registration := &consulapi.AgentServiceRegistration{
		ID:      reg.ID(),
		Name:    reg.Name,
		Address: reg.Host,
		Port:    reg.Port,
		Tags:    reg.Tags,
	}

	if reg.HealthPath != "" {
		registration.Check = &consulapi.AgentServiceCheck{
			HTTP:                           "http://" + net.JoinHostPort(reg.Host, strconv.Itoa(reg.Port)) + reg.HealthPath,
			Interval:                       checkInterval,
			Timeout:                        checkTimeout,
			DeregisterCriticalServiceAfter: deregisterAfter,
		}
	}

	if err := c.api.Agent().ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("failed to register service %s: %w", reg.Name, err)
	}

	id := reg.ID()
	return func() error { return c.Deregister(id) }, nil
}

// Deregister removes a service instance from the agent
func (c *Client) Deregister(serviceID string) error {
	if err := c.api.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("failed to deregister service %s: %w", serviceID, err)
	}
	return nil
}
