package api

import (
	"context"
	"net/http"
)

// GetProfile returns the profile of the token's owner.
// It fails with ErrNoToken before touching the network when ctx carries no token.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	if TokenFrom(ctx) == "" {
		return nil, ErrNoToken
	}
	var out Profile
	if err := c.do(ctx, request{
		op:     "profile.get",
		method: http.MethodGet,
		path:   "/user/profile",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends the changed fields and returns the server's canonical profile
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*Profile, error) {
	if TokenFrom(ctx) == "" {
		return nil, ErrNoToken
	}
	var out Profile
	if err := c.do(ctx, request{
		op:     "profile.update",
		method: http.MethodPut,
		path:   "/user/profile",
		body:   in,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
