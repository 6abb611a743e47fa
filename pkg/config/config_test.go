package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsUnknownServerReferences(t *testing.T) {
	cfg := Default()
	cfg.Servers = map[string]string{"lobby": "127.0.0.1:25566"}
	cfg.Try = []string{"survival"}

	err := Validate(&cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "survival")
}

func TestValidateAcceptsKnownServers(t *testing.T) {
	cfg := Default()
	cfg.Servers = map[string]string{"lobby": "127.0.0.1:25566"}
	cfg.Try = []string{"lobby"}
	cfg.ForcedHosts = map[string][]string{"play.example.com": {"lobby"}}

	require.NoError(t, Validate(&cfg))
}

func TestAttemptOrderFallsBackToTry(t *testing.T) {
	cfg := Default()
	cfg.Try = []string{"lobby", "survival"}
	cfg.ForcedHosts = map[string][]string{"creative.example.com": {"creative"}}

	require.Equal(t, []string{"lobby", "survival"}, cfg.AttemptOrder("play.example.com:25565"))
	require.Equal(t, []string{"creative"}, cfg.AttemptOrder("CREATIVE.example.com"))
}

func TestValidateRequiresAtLeastOneServer(t *testing.T) {
	cfg := Default()
	err := Validate(&cfg)
	require.Error(t, err)
}
