package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/levantkite/windforecast/internal/domain"
)

const (
	defaultForecastURL = "https://api.open-meteo.com/v1/meteofrance"
	defaultMarineURL   = "https://marine-api.open-meteo.com/v1/marine"
	defaultSpatialURL  = "https://openmeteo.s3.amazonaws.com/data_spatial"

	// The AROME models publish for this locale; all spot timestamps are
	// requested in it so every series shares one UTC offset.
	defaultTimezone = "Europe/Madrid"
)

// spatialModels maps the model ids published on the open-meteo spatial
// bucket to display titles for the report footer.
var spatialModels = map[string]string{
	"meteofrance_arome_france_hd":       "AROME France HD (hourly)",
	"meteofrance_arome_france_hd_15min": "AROME France HD (15-min)",
}

// Params are the forecast request parameters from the spot configuration.
type Params struct {
	Model         string
	HourlyVars    string // comma-joined open-meteo variable names
	WaveVars      string
	ForecastHours int
	ForecastMin15 int
	Timezone      string // defaults to Europe/Madrid
}

// Client fetches forecast, marine, and model-run data from open-meteo.
type Client struct {
	spots      []domain.Spot
	params     Params
	httpClient *http.Client
	logger     *slog.Logger

	forecastURL string
	marineURL   string
	spatialURL  string
}

// NewClient creates an open-meteo client for a fixed spot list.
func NewClient(spots []domain.Spot, params Params, timeout time.Duration, logger *slog.Logger) *Client {
	if params.Timezone == "" {
		params.Timezone = defaultTimezone
	}
	return &Client{
		spots:       spots,
		params:      params,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
		forecastURL: defaultForecastURL,
		marineURL:   defaultMarineURL,
		spatialURL:  defaultSpatialURL,
	}
}

// FetchForecasts retrieves all raw series plus model-run metadata for one
// refresh. It implements pipeline.Fetcher.
func (c *Client) FetchForecasts(ctx context.Context) (domain.Bundle, error) {
	series, err := c.FetchSeries(ctx)
	if err != nil {
		return domain.Bundle{}, err
	}
	return domain.Bundle{Series: series, ModelUpdates: c.FetchModelRuns(ctx)}, nil
}

// FetchSeries retrieves the hourly, 15-minute, and wave series for every
// configured spot. All spots go in one batched request per resolution.
func (c *Client) FetchSeries(ctx context.Context) ([]domain.SpotSeries, error) {
	hourly, err := c.fetchLocations(ctx, c.forecastURL, c.hourlyQuery())
	if err != nil {
		return nil, fmt.Errorf("hourly forecast: %w", err)
	}
	if len(hourly) != len(c.spots) {
		return nil, fmt.Errorf("hourly forecast: got %d locations for %d spots", len(hourly), len(c.spots))
	}

	var min15 []forecastResponse
	if c.params.ForecastMin15 > 0 {
		min15, err = c.fetchLocations(ctx, c.forecastURL, c.min15Query())
		if err != nil {
			return nil, fmt.Errorf("15-minute forecast: %w", err)
		}
		if len(min15) != len(c.spots) {
			return nil, fmt.Errorf("15-minute forecast: got %d locations for %d spots", len(min15), len(c.spots))
		}
	}

	waves, err := c.fetchLocations(ctx, c.marineURL, c.marineQuery())
	if err != nil {
		return nil, fmt.Errorf("marine forecast: %w", err)
	}
	if len(waves) != len(c.spots) {
		return nil, fmt.Errorf("marine forecast: got %d locations for %d spots", len(waves), len(c.spots))
	}

	out := make([]domain.SpotSeries, 0, len(c.spots))
	for i, spot := range c.spots {
		ss := domain.SpotSeries{Spot: spot}

		if ss.Hourly, err = hourly[i].Hourly.points(hourly[i].location()); err != nil {
			return nil, fmt.Errorf("spot %s hourly: %w", spot.Name, err)
		}
		if min15 != nil {
			if ss.Min15, err = min15[i].Minutely15.points(min15[i].location()); err != nil {
				return nil, fmt.Errorf("spot %s 15-minute: %w", spot.Name, err)
			}
		}
		if ss.Wave, err = waves[i].Hourly.points(waves[i].location()); err != nil {
			return nil, fmt.Errorf("spot %s marine: %w", spot.Name, err)
		}

		out = append(out, ss)
	}
	return out, nil
}

// FetchModelRuns retrieves the latest-run metadata for the known models.
// Failures are recorded per model, never fatal: the forecast itself is
// still usable when the metadata endpoint is down.
func (c *Client) FetchModelRuns(ctx context.Context) []domain.ModelUpdate {
	models := make([]string, 0, len(spatialModels))
	for m := range spatialModels {
		models = append(models, m)
	}
	sort.Strings(models)

	out := make([]domain.ModelUpdate, 0, len(models))
	for _, model := range models {
		src := fmt.Sprintf("%s/%s/latest.json", c.spatialURL, model)
		update := domain.ModelUpdate{Model: model, Title: spatialModels[model], Source: src}

		if err := c.fetchRun(ctx, src, &update); err != nil {
			c.logger.Warn("model run metadata unavailable", "model", model, "error", err)
			update.Err = err.Error()
		}
		out = append(out, update)
	}
	return out
}

func (c *Client) fetchRun(ctx context.Context, src string, update *domain.ModelUpdate) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var meta struct {
		ReferenceTime    string `json:"reference_time"`
		LastModifiedTime string `json:"last_modified_time"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	update.Run = meta.ReferenceTime
	update.LastModified = meta.LastModifiedTime
	return nil
}

func (c *Client) fetchLocations(ctx context.Context, base string, q url.Values) ([]forecastResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return decodeLocations(body)
}

func (c *Client) hourlyQuery() url.Values {
	q := c.baseQuery()
	q.Set("models", c.params.Model)
	q.Set("hourly", c.params.HourlyVars)
	q.Set("wind_speed_unit", "kn")
	q.Set("forecast_hours", strconv.Itoa(c.params.ForecastHours))
	return q
}

func (c *Client) min15Query() url.Values {
	q := c.baseQuery()
	q.Set("models", c.params.Model)
	q.Set("minutely_15", c.params.HourlyVars) // same variables, finer grid
	q.Set("wind_speed_unit", "kn")
	q.Set("forecast_minutely_15", strconv.Itoa(c.params.ForecastMin15))
	return q
}

func (c *Client) marineQuery() url.Values {
	q := c.baseQuery()
	q.Set("hourly", c.params.WaveVars)
	q.Set("forecast_hours", strconv.Itoa(c.params.ForecastHours))
	q.Set("cell_selection", "sea")
	return q
}

func (c *Client) baseQuery() url.Values {
	lats := make([]string, len(c.spots))
	lons := make([]string, len(c.spots))
	for i, s := range c.spots {
		lats[i] = strconv.FormatFloat(s.Lat, 'f', -1, 64)
		lons[i] = strconv.FormatFloat(s.Lon, 'f', -1, 64)
	}
	q := url.Values{}
	q.Set("latitude", strings.Join(lats, ","))
	q.Set("longitude", strings.Join(lons, ","))
	q.Set("timezone", c.params.Timezone)
	return q
}
