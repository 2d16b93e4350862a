package client

import (
	"context"
	"errors"
	"sync"

	"github.com/asistoya/shared-services/internal/logger"
)

var ErrNotInitialized = errors.New("client: not initialized, call Init first")

// Handle memoizes one Client. The zero value is ready to use.
type Handle struct {
	mu     sync.Mutex
	client *Client
}

// Init opens the client on the first call. Later calls return the same
// client and ignore cfg.
func (h *Handle) Init(ctx context.Context, cfg Config) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return h.client, nil
	}
	c, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	h.client = c
	return c, nil
}

func (h *Handle) Get() (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil, ErrNotInitialized
	}
	return h.client, nil
}

// Reset drops the memoized client and closes it.
func (h *Handle) Reset() {
	h.mu.Lock()
	c := h.client
	h.client = nil
	h.mu.Unlock()

	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logger.Warn("Client", "close on reset failed", "error", err)
	}
}
