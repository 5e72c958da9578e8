package net

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
	"go.uber.org/zap"
)

const (
	ServiceType     = "_localslides._tcp"
	DiscoverTimeout = 3 * time.Second
)

// Advertise publishes the presenter feed on port. Shut the returned server
// down to withdraw it.
func Advertise(port int, logger *zap.Logger) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, []string{"LocalSlides presenter"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}

	logger.Info("Advertising presenter feed", zap.String("service", ServiceType), zap.Int("port", port))
	return server, nil
}

// Discover returns host:port of the first presenter that answers
func Discover(ctx context.Context, logger *zap.Logger) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = DiscoverTimeout

	done := make(chan error, 1)
	go func() { done <- mdns.Query(params) }()

	for {
		select {
		case e := <-entries:
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addr := fmt.Sprintf("%s:%d", e.AddrV4, e.Port)
			logger.Info("Found presenter", zap.String("name", e.Name), zap.String("addr", addr))
			return addr, nil
		case err := <-done:
			if err != nil {
				return "", fmt.Errorf("mDNS query: %w", err)
			}
			return "", fmt.Errorf("no presenter found on the local network")
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
