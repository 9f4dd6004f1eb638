package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultsAutoDriver(t *testing.T) {
	cfg := NewForTesting()
	cfg.DBDriver = "auto"
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "sqlite", cfg.DBDriver)

	cfg = NewForTesting()
	cfg.DBDriver = "auto"
	cfg.PostgresDSN = "postgres://localhost/majordomo"
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestResolveDefaultsRejectsUnknownDriver(t *testing.T) {
	cfg := NewForTesting()
	cfg.DBDriver = "mongodb"
	assert.Error(t, cfg.ResolveDefaults())
}

func TestResolveDefaultsPostgresNeedsDSN(t *testing.T) {
	cfg := NewForTesting()
	cfg.DBDriver = "postgres"
	cfg.PostgresDSN = ""
	assert.Error(t, cfg.ResolveDefaults())
}

func TestParsePorts(t *testing.T) {
	cfg := NewForTesting()
	cfg.HTTPPorts = "5000, 5001 ,5002"
	ports, err := cfg.ParsePorts()
	require.NoError(t, err)
	assert.Equal(t, []int{5000, 5001, 5002}, ports)

	cfg.HTTPPorts = "5000,notaport"
	_, err = cfg.ParsePorts()
	assert.Error(t, err)

	cfg.HTTPPorts = " , "
	_, err = cfg.ParsePorts()
	assert.Error(t, err)
}
