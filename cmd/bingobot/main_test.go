package main

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bingobot/internal/config"
	"github.com/mcoot/bingobot/internal/testutil"
)

func testConfig(t *testing.T, vars map[string]string) config.Config {
	t.Helper()
	cfg, err := config.FromMap(vars)
	require.NoError(t, err)
	return cfg
}

func TestRunReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := testConfig(t, map[string]string{"BINGO_HTTP_ADDR": busy.Addr().String()})

	err = run(cfg, testutil.NopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}

func TestRunReturnsFactoryError(t *testing.T) {
	cfg := testConfig(t, map[string]string{})
	cfg.StorageType = "bogus"

	err := run(cfg, testutil.NopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create application")
}
