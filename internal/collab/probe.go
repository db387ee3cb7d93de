package collab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ProbeTimeout keeps the reachability check fail-fast: an unreachable
// relay surfaces as "offline" within a few seconds instead of hanging.
const ProbeTimeout = 3 * time.Second

// Probe checks relay reachability via its health endpoint before a
// collaboration attempt. serverURL is the same ws:// or wss:// base URL
// passed to Connect.
func Probe(ctx context.Context, serverURL string) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("bad relay url: %w", err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}
	u.Path = "/health"
	u.RawQuery = ""

	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay health returned %s", resp.Status)
	}
	return nil
}
