package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"CryptoForecast/internal/model"
)

const binanceKlineLimit = 1000

// BinanceFetcher implements Fetcher using the public Binance spot klines endpoint.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBinanceFetcher creates a new fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string) *BinanceFetcher {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &BinanceFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// binanceSymbol turns "BTC/USDT" into "BTCUSDT".
func binanceSymbol(ticker string) string {
	return strings.ToUpper(strings.ReplaceAll(ticker, "/", ""))
}

// FetchDailyCloses pages through 1d klines from start until end is covered.
func (f *BinanceFetcher) FetchDailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	startMs := start.UnixMilli()
	endMs := end.UnixMilli()
	var points []model.PricePoint

	for startMs <= endMs {
		batch, err := f.fetchKlines(ctx, binanceSymbol(ticker), startMs, endMs)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		points = append(points, batch...)
		if len(batch) < binanceKlineLimit {
			break
		}
		startMs = batch[len(batch)-1].Time.UnixMilli() + 1
	}
	return points, nil
}

func (f *BinanceFetcher) fetchKlines(ctx context.Context, symbol string, startMs, endMs int64) ([]model.PricePoint, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1d")
	params.Set("startTime", strconv.FormatInt(startMs, 10))
	params.Set("endTime", strconv.FormatInt(endMs, 10))
	params.Set("limit", strconv.Itoa(binanceKlineLimit))
	endpoint := fmt.Sprintf("%s/api/v3/klines?%s", f.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: f.Name(), Code: resp.StatusCode, Body: string(body)}
	}

	// Each kline is [openTime, open, high, low, close, volume, closeTime, ...]
	var klines [][]json.RawMessage
	if err := json.Unmarshal(body, &klines); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}

	points := make([]model.PricePoint, 0, len(klines))
	for i, k := range klines {
		if len(k) < 5 {
			return nil, fmt.Errorf("binance: kline %d has %d fields", i, len(k))
		}
		var openTime int64
		if err := json.Unmarshal(k[0], &openTime); err != nil {
			return nil, fmt.Errorf("binance: kline %d open time: %w", i, err)
		}
		var closeStr string
		if err := json.Unmarshal(k[4], &closeStr); err != nil {
			return nil, fmt.Errorf("binance: kline %d close: %w", i, err)
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			return nil, fmt.Errorf("binance: kline %d close %q: %w", i, closeStr, err)
		}
		points = append(points, model.PricePoint{
			Time:  time.UnixMilli(openTime).UTC(),
			Close: closePrice,
		})
	}
	return points, nil
}
