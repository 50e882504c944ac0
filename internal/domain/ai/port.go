package ai

import "context"

// ReviewRequest is the code snippet handed to a model backend.
type ReviewRequest struct {
	Code     string
	Language string
}

// Client port: a model backend that reviews code and returns raw text.
type Client interface {
	Review(ctx context.Context, req ReviewRequest) (string, error)
	Name() string
}
