// Package weather reads forecasts from WeatherAPI.com.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/internal/sources/httpjson"
	"github.com/dugout-dev/dugout/pkg/log"
)

// DefaultBaseURL is the WeatherAPI.com v1 root.
const DefaultBaseURL = "https://api.weatherapi.com/v1/"

// WeeklyDays is the forecast length of Weekly, the API maximum.
const WeeklyDays = 14

// ErrNoForecast is returned when the forecast does not cover the requested date.
var ErrNoForecast = errors.New("no forecast for date")

// Client queries the forecast endpoint.
type Client struct {
	api    *httpjson.Client
	apiKey string
	logger log.Logger
}

// NewClient creates a client authenticating with apiKey.
func NewClient(baseURL, apiKey string, httpClient ports.HTTPClient, logger log.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("weather client: api key is required")
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	api, err := httpjson.New(baseURL, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("weather client: %w", err)
	}
	return &Client{api: api, apiKey: apiKey, logger: logger}, nil
}

type forecast struct {
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []forecastDay `json:"forecastday"`
	} `json:"forecast"`
}

type condition struct {
	Text string `json:"text"`
}

type forecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempF          float64   `json:"maxtemp_f"`
		MinTempF          float64   `json:"mintemp_f"`
		AvgTempF          float64   `json:"avgtemp_f"`
		Condition         condition `json:"condition"`
		DailyChanceOfRain int       `json:"daily_chance_of_rain"`
	} `json:"day"`
	Hour []struct {
		Time         string    `json:"time"`
		TempF        float64   `json:"temp_f"`
		Condition    condition `json:"condition"`
		ChanceOfRain int       `json:"chance_of_rain"`
	} `json:"hour"`
}

func (c *Client) forecast(ctx context.Context, location string, days int) (*forecast, error) {
	q := url.Values{
		"key":    {c.apiKey},
		"q":      {location},
		"days":   {strconv.Itoa(days)},
		"aqi":    {"no"},
		"alerts": {"no"},
	}
	var f forecast
	if _, err := c.api.Get(ctx, "forecast.json", q, &f); err != nil {
		return nil, fmt.Errorf("forecast for %s: %w", location, err)
	}
	return &f, nil
}

// HourlyReport is the hour-by-hour forecast of one day.
type HourlyReport struct {
	Location      string `json:"location"`
	Date          string `json:"date"`
	HourlyWeather []Hour `json:"hourly_weather"`
}

// Hour is one hourly forecast entry.
type Hour struct {
	Time                  string  `json:"time"`
	TemperatureFahrenheit float64 `json:"temperature_fahrenheit"`
	Condition             string  `json:"condition"`
	ChanceOfRainPercent   int     `json:"chance_of_rain_percent"`
}

// Hourly returns the hourly forecast for date (YYYY-MM-DD) at location.
func (c *Client) Hourly(ctx context.Context, location, date string) (*HourlyReport, error) {
	f, err := c.forecast(ctx, location, 1)
	if err != nil {
		return nil, err
	}

	for _, day := range f.Forecast.ForecastDay {
		if day.Date != date {
			continue
		}
		out := &HourlyReport{
			Location:      f.Location.Name,
			Date:          date,
			HourlyWeather: make([]Hour, 0, len(day.Hour)),
		}
		for _, h := range day.Hour {
			out.HourlyWeather = append(out.HourlyWeather, Hour{
				Time:                  h.Time,
				TemperatureFahrenheit: h.TempF,
				Condition:             h.Condition.Text,
				ChanceOfRainPercent:   h.ChanceOfRain,
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s at %s", ErrNoForecast, date, location)
}

// WeeklyReport is the daily forecast for the next WeeklyDays days.
type WeeklyReport struct {
	Location     string `json:"location"`
	FullForecast []Day  `json:"full_forecast"`
}

// Day is one daily forecast entry.
type Day struct {
	Date                string  `json:"date"`
	MaxTempF            float64 `json:"max_temp_f"`
	MinTempF            float64 `json:"min_temp_f"`
	AvgTempF            float64 `json:"avg_temp_f"`
	Condition           string  `json:"condition"`
	ChanceOfRainPercent int     `json:"chance_of_rain_percent"`
}

// Weekly returns the daily forecast at location.
func (c *Client) Weekly(ctx context.Context, location string) (*WeeklyReport, error) {
	f, err := c.forecast(ctx, location, WeeklyDays)
	if err != nil {
		return nil, err
	}

	out := &WeeklyReport{
		Location:     f.Location.Name,
		FullForecast: make([]Day, 0, len(f.Forecast.ForecastDay)),
	}
	for _, d := range f.Forecast.ForecastDay {
		out.FullForecast = append(out.FullForecast, Day{
			Date:                d.Date,
			MaxTempF:            d.Day.MaxTempF,
			MinTempF:            d.Day.MinTempF,
			AvgTempF:            d.Day.AvgTempF,
			Condition:           d.Day.Condition.Text,
			ChanceOfRainPercent: d.Day.DailyChanceOfRain,
		})
	}
	return out, nil
}
