package regcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/envutil"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

// ErrNotFound means the feed answered and the plate is unknown.
// Transport and upstream failures come back as ordinary errors so the
// caller can fall through to manual entry.
var ErrNotFound = errors.New("registration not found")

// Client looks up tow-vehicle plate records in the state registration
// feed. The feed covers vehicles only; caravans have no upstream
// source.
type Client interface {
	LookupVehicle(ctx context.Context, plate, state string) (*weigh.Entity, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		BaseURL: strings.TrimSpace(os.Getenv("REGCHECK_BASE_URL")),
		APIKey:  strings.TrimSpace(os.Getenv("REGCHECK_API_KEY")),
		Timeout: envutil.Duration("REGCHECK_TIMEOUT", 5*time.Second),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing REGCHECK_BASE_URL")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &client{
		log:  log.With("service", "RegcheckClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

type vehicleRecord struct {
	Make  string  `json:"make"`
	Model string  `json:"model"`
	Year  int     `json:"year"`
	VIN   string  `json:"vin"`
	GVM   float64 `json:"gvm_kg"`
	GCM   float64 `json:"gcm_kg"`
	FAWR  float64 `json:"front_axle_rating_kg"`
	RAWR  float64 `json:"rear_axle_rating_kg"`
	BTC   float64 `json:"braked_towing_capacity_kg"`
}

func (c *client) LookupVehicle(ctx context.Context, plate, state string) (*weigh.Entity, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	state = strings.ToUpper(strings.TrimSpace(state))
	if plate == "" || state == "" {
		return nil, fmt.Errorf("plate and state required")
	}

	endpoint := fmt.Sprintf("%s/v1/registrations/%s/%s",
		c.cfg.BaseURL, url.PathEscape(state), url.PathEscape(plate))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("regcheck request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("regcheck status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rec vehicleRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("regcheck decode: %w", err)
	}

	ent := &weigh.Entity{
		Kind:   weigh.KindVehicle,
		Make:   rec.Make,
		Model:  rec.Model,
		Year:   rec.Year,
		Plate:  plate,
		State:  state,
		VIN:    rec.VIN,
		Source: weigh.SourceExternalLookup,
	}
	add := func(metric string, value float64) {
		if value > 0 {
			ent.Capacities = append(ent.Capacities, weigh.RatedCapacity{
				Metric: metric, Value: value, Unit: "kg", Source: weigh.SourceExternalLookup,
			})
		}
	}
	add(weigh.MetricGVM, rec.GVM)
	add(weigh.MetricGCM, rec.GCM)
	add(weigh.MetricFrontAxle, rec.FAWR)
	add(weigh.MetricRearAxle, rec.RAWR)
	add(weigh.MetricBTC, rec.BTC)

	return ent, nil
}
