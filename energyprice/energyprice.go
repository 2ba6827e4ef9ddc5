package energyprice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jhofstede/energycost-go/hours"
	"github.com/jhofstede/energycost-go/types"
)

// RawPrice is one entry as published by the dynamic price feed. Prices are
// decimal strings with a comma separator, timestamps come in two flavors
// ("2006-01-02T15:04:05" and "2006-01-02 15:04:05").
type RawPrice struct {
	Datum string `json:"datum"`
	Price string `json:"prijs_excl_belastingen"`
}

// Provider fetches hourly wholesale prices per calendar year.
type Provider struct {
	apiUrl string
	apiKey string
	logger *slog.Logger
	client *http.Client
}

func New(logger *slog.Logger, apiUrl, apiKey string) *Provider {
	return &Provider{
		apiUrl: apiUrl,
		apiKey: apiKey,
		logger: logger,
		client: &http.Client{},
	}
}

func (p *Provider) GetEnergyPrices(ctx context.Context, year int) ([]types.EnergyPrice, error) {
	url := fmt.Sprintf("%s?period=jaar&year=%d&type=json&key=%s", p.apiUrl, year, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices for %d: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for year %d", resp.StatusCode, year)
	}

	var raw []RawPrice
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response for year %d: %w", year, err)
	}

	return Parse(p.logger, raw), nil
}

// Parse converts raw feed entries into typed prices. A malformed timestamp
// or price skips that row; one bad hour must never abort a whole year.
func Parse(logger *slog.Logger, raw []RawPrice) []types.EnergyPrice {
	prices := make([]types.EnergyPrice, 0, len(raw))
	for _, entry := range raw {
		dh, err := hours.ParseKey(entry.Datum)
		if err != nil {
			logger.Debug("skipping price entry with bad timestamp",
				slog.String("datum", entry.Datum), slog.Any("error", err))
			continue
		}
		price, err := strconv.ParseFloat(strings.ReplaceAll(entry.Price, ",", "."), 64)
		if err != nil {
			logger.Debug("skipping price entry with bad price",
				slog.String("datum", entry.Datum),
				slog.String("price", entry.Price),
				slog.Any("error", err))
			continue
		}
		prices = append(prices, types.EnergyPrice{Hour: dh, Price: price})
	}
	return prices
}
