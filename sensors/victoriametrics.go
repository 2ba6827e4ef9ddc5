package sensors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhofstede/energycost-go/hours"
	"github.com/jhofstede/energycost-go/types"
)

type VictoriaMetrics struct {
	url    string
	logger *slog.Logger
	client *http.Client
}

func NewVictoriaMetrics(logger *slog.Logger, apiUrl string) *VictoriaMetrics {
	return &VictoriaMetrics{
		url:    apiUrl,
		logger: logger,
		client: &http.Client{},
	}
}

type vmResponse struct {
	Data struct {
		Result []struct {
			Values [][]any `json:"values"`
		} `json:"result"`
	} `json:"data"`
}

// FetchHourly queries hourly increments per sensor with the delta function
// and sums them into one flow map for [from, to).
func (v *VictoriaMetrics) FetchHourly(ctx context.Context, sensorIds []string, from, to hours.DateHour) (types.EnergyFlowMap, error) {
	flows := make(types.EnergyFlowMap)

	for _, sensorId := range sensorIds {
		params := url.Values{}
		params.Set("query", fmt.Sprintf("delta(%s_value[1h])", sensorId))
		params.Set("start", strconv.FormatInt(from.Time().Unix(), 10))
		params.Set("end", strconv.FormatInt(to.Time().Unix(), 10))
		params.Set("step", "3600s")

		req, err := http.NewRequestWithContext(ctx, "GET", v.url+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := v.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", sensorId, err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, sensorId)
		}

		var body vmResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response for %s: %w", sensorId, err)
		}

		for _, result := range body.Data.Result {
			v.mergeValues(result.Values, from, to, flows)
		}
	}

	return flows, nil
}

// mergeValues folds raw [timestamp, value] pairs into the flow map,
// adjusting the UTC timestamps to local hours. Malformed pairs are skipped.
func (v *VictoriaMetrics) mergeValues(values [][]any, from, to hours.DateHour, flows types.EnergyFlowMap) {
	for _, pair := range values {
		if len(pair) != 2 {
			continue
		}
		ts, ok := pair[0].(float64)
		if !ok {
			continue
		}
		str, ok := pair[1].(string)
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(str, 64)
		if err != nil {
			v.logger.Debug("skipping sample with bad value", slog.String("value", str))
			continue
		}

		dh := hours.FromTime(LocalHour(time.Unix(int64(ts), 0).UTC()))
		if dh.Before(from) || !dh.Before(to) {
			continue
		}
		flows.Add(dh, value)
	}
}
