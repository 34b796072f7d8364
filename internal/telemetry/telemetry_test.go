package telemetry

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestNewClient_DisabledReturnsNoOp(t *testing.T) {
	client := NewClient(false, "1.0.0")
	_, ok := client.(*NoOpClient)
	assert.True(t, ok)
}

func TestFromContext_DefaultsToNoOp(t *testing.T) {
	client := FromContext(context.Background())
	_, ok := client.(*NoOpClient)
	assert.True(t, ok)
}

func TestWithClient_RoundTripsThroughContext(t *testing.T) {
	want := &NoOpClient{}
	ctx := WithClient(context.Background(), want)
	got := FromContext(ctx)
	assert.Same(t, want, got)
}

func TestNoOpClient_TrackCommandDoesNotPanic(t *testing.T) {
	client := &NoOpClient{}
	assert.NotPanics(t, func() {
		client.TrackCommand(&cobra.Command{Use: "search"})
		client.TrackCommand(nil)
		client.Close()
	})
}
