package services

import (
	"adhan/internal/providers"
	"adhan/internal/structures"
	"context"
	"net/http"
	"time"
)

type ConnectivityInterface interface {
	Online(ctx context.Context) bool
}

// ConnectivityChecker treats any HTTP response from the probe URL as proof
// of connectivity, whatever its status.
type ConnectivityChecker struct {
	client   *http.Client
	probeURL string
	timeout  time.Duration
	logger   providers.Logger
}

func NewConnectivityChecker(conf *structures.Config, logger providers.Logger) ConnectivityInterface {
	return &ConnectivityChecker{
		client:   &http.Client{Timeout: conf.Connectivity.Timeout},
		probeURL: conf.Connectivity.ProbeURL,
		timeout:  conf.Connectivity.Timeout,
		logger:   logger,
	}
}

func (c *ConnectivityChecker) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.probeURL, nil)
	if err != nil {
		c.logger.Errorf(providers.TypeApp, "Invalid probe url %s: %s", c.probeURL, err)
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debugf(providers.TypeApp, "Connectivity probe failed: %s", err)
		return false
	}
	resp.Body.Close()
	return true
}
