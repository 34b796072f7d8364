// Package telemetry provides anonymous, opt-in usage counting:
// which verbs ran, never record content or file paths.
package telemetry

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/posthog/posthog-go"
	"github.com/spf13/cobra"
)

// APIKey is set at build time for production; the development placeholder
// never leaves a developer's machine since TelemetryEnabled defaults false.
var APIKey = "phc_development_key"

// Client records command executions, or does nothing.
type Client interface {
	TrackCommand(cmd *cobra.Command)
	Close()
}

type contextKey struct{}

// WithClient attaches client to ctx for downstream command handlers to read.
func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

// FromContext retrieves the telemetry client attached to ctx, or a no-op.
func FromContext(ctx context.Context) Client { //nolint:ireturn // NoOp/PostHog polymorphism
	if client, ok := ctx.Value(contextKey{}).(Client); ok {
		return client
	}
	return &NoOpClient{}
}

// NoOpClient is used whenever telemetry is disabled.
type NoOpClient struct{}

func (n *NoOpClient) TrackCommand(_ *cobra.Command) {}
func (n *NoOpClient) Close()                        {}

// PostHogClient sends one event per command invocation.
type PostHogClient struct {
	client    posthog.Client
	machineID string
	version   string
	mu        sync.RWMutex
}

// NewClient returns a PostHogClient when enabled is true and a machine id
// and PostHog handle can both be obtained, and a NoOpClient otherwise.
func NewClient(enabled bool, version string) Client { //nolint:ireturn // NoOp/PostHog polymorphism
	if !enabled {
		return &NoOpClient{}
	}
	id, err := machineid.ProtectedID("engram")
	if err != nil {
		return &NoOpClient{}
	}
	client, err := posthog.NewWithConfig(APIKey, posthog.Config{
		Endpoint:     "https://us.i.posthog.com",
		DisableGeoIP: posthog.Ptr(true),
		DefaultEventProperties: posthog.NewProperties().
			Set("engram_version", version).
			Set("os", runtime.GOOS).
			Set("arch", runtime.GOARCH),
	})
	if err != nil {
		return &NoOpClient{}
	}
	return &PostHogClient{client: client, machineID: id, version: version}
}

// TrackCommand records that cmd ran, carrying only its verb name.
func (p *PostHogClient) TrackCommand(cmd *cobra.Command) {
	if cmd == nil || cmd.Hidden {
		return
	}
	p.mu.RLock()
	id := p.machineID
	c := p.client
	p.mu.RUnlock()
	if c == nil {
		return
	}
	//nolint:errcheck // best-effort telemetry, failures must not affect the CLI
	_ = c.Enqueue(posthog.Capture{
		DistinctId: id,
		Event:      "command_executed",
		Properties: posthog.NewProperties().Set("command", verbName(cmd)),
	})
}

// verbName returns the invoked command's own name, not its full argv: file
// paths and ids passed as arguments are never sent.
func verbName(cmd *cobra.Command) string {
	return strings.Fields(cmd.CommandPath())[0] + " " + cmd.Name()
}

// Close flushes any pending events.
func (p *PostHogClient) Close() {
	p.mu.RLock()
	c := p.client
	p.mu.RUnlock()
	if c != nil {
		_ = c.Close() //nolint:errcheck
	}
}
