package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoForecast/internal/config"
)

func TestSelectAssets(t *testing.T) {
	cfg := &config.Config{Assets: config.DefaultAssets()}

	all, err := selectAssets(cfg.Assets, cfg.Asset, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	picked, err := selectAssets(cfg.Assets, cfg.Asset, []string{"eth", "BTC"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "ETH", picked[0].Symbol)
	assert.Equal(t, "BTC", picked[1].Symbol)

	_, err = selectAssets(cfg.Assets, cfg.Asset, []string{"XRP"})
	assert.Error(t, err)
}

func TestNewFetcher_Provider(t *testing.T) {
	cfg := &config.Config{}
	cfg.DataSource.Provider = "mock"
	assert.Equal(t, "mock", newFetcher(cfg).Name())

	cfg.DataSource.Provider = "yahoo"
	assert.Equal(t, "yahoo", newFetcher(cfg).Name())

	cfg.DataSource.Provider = "binance"
	assert.Equal(t, "binance", newFetcher(cfg).Name())
}
