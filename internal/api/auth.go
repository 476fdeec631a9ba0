package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Login exchanges credentials for an access token.
// A body with status "error" is a failure even when the HTTP status is 2xx.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var env Envelope[AccessToken]
	status, err := c.envelope(ctx, request{
		op:     "auth.login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   req,
	}, &env, "Login failed")
	if err != nil {
		return nil, err
	}

	if env.Data == nil || env.Data.AccessToken == "" {
		return nil, &Error{Kind: KindGeneral, Status: status, Message: "No token received", Err: ErrNoTokenReceived}
	}

	return &LoginResult{Message: env.Message, AccessToken: env.Data.AccessToken}, nil
}

// Register creates a new account. Navigation after success is the caller's concern.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	var env Envelope[RegisteredUser]
	if _, err := c.envelope(ctx, request{
		op:     "auth.register",
		method: http.MethodPost,
		path:   "/auth/register",
		body:   req,
	}, &env, "Registration failed"); err != nil {
		return nil, err
	}

	return &RegisterResult{Message: env.Message, User: env.Data}, nil
}

// envelope performs an auth call whose body is a status/message envelope.
// fallback is the message used when a failed response carries none.
func (c *Client) envelope(ctx context.Context, r request, out any, fallback string) (int, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return 0, err
	}

	var body errorBody
	_ = json.Unmarshal(resp.body, &body)

	failed := resp.status >= http.StatusBadRequest || body.Status == StatusError || body.Error != ""
	if failed {
		if body.Message == "" && body.Error == "" {
			body.Message = fallback
		}
		apiErr := errorFromBody(resp.status, body)
		RequestErrors.WithLabelValues(r.op, apiErr.Kind.String()).Inc()
		return resp.status, apiErr
	}

	if err := json.Unmarshal(resp.body, out); err != nil {
		return resp.status, transportError("decode response", err)
	}
	return resp.status, nil
}
