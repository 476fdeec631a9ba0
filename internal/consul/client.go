// Package consul resolves the blog API through HashiCorp Consul and registers
// the development API with it.
package consul

import (
	"errors"
	"fmt"
	"strings"

	consulapi "github.com/hashicorp/consul/api"
)

// ErrNoAddress is returned when no agent address is configured
var ErrNoAddress = errors.New("consul agent address is empty")

// Client talks to one Consul agent
type Client struct {
	api *consulapi.Client
}

// NewClientWithToken creates a client for the agent at addr. addr may carry an
// http:// or https:// scheme; token is the optional ACL token.
func NewClientWithToken(addr, token string) (*Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, ErrNoAddress
	}

	cfg := consulapi.DefaultConfig()
	cfg.Address = addr
	cfg.Token = token

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client for %s: %w", addr, err)
	}
	return &Client{api: client}, nil
}
