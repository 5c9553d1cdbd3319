package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// AladhanName is the provider name of api.aladhan.com.
const AladhanName = "aladhan"

// Aladhan fetches prayer timings for a coordinate.
type Aladhan struct {
	client  *Client
	baseURL string
}

func NewAladhan(client *Client, baseURL string) *Aladhan {
	return &Aladhan{client: client, baseURL: baseURL}
}

// AladhanDay is one day of timings. Times are normalised to HH:MM.
type AladhanDay struct {
	Date     time.Time
	Readable string
	Hijri    string
	Method   string
	Timings  map[string]string
}

type aladhanEnvelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

type aladhanDay struct {
	Timings map[string]string `json:"timings"`
	Date    struct {
		Readable  string `json:"readable"`
		Gregorian struct {
			Date string `json:"date"`
		} `json:"gregorian"`
		Hijri struct {
			Day   string `json:"day"`
			Year  string `json:"year"`
			Month struct {
				En string `json:"en"`
			} `json:"month"`
		} `json:"hijri"`
	} `json:"date"`
	Meta struct {
		Method struct {
			Name string `json:"name"`
		} `json:"method"`
	} `json:"meta"`
}

// Timings fetches the timings for a single date.
func (a *Aladhan) Timings(ctx context.Context, lat, lng float64, date time.Time, method int) (*AladhanDay, error) {
	query := coordinateQuery(lat, lng, method)
	rawURL := withQuery(joinURL(a.baseURL, "timings", date.Format("02-01-2006")), query)

	var day aladhanDay
	if err := a.getData(ctx, rawURL, &day); err != nil {
		return nil, err
	}
	if len(day.Timings) == 0 {
		return nil, &FetchError{Provider: a.client.Name(), URL: rawURL, Kind: KindParse, Err: errors.New("no timings")}
	}
	return day.canonical(date), nil
}

// Calendar fetches every day of a Gregorian month.
func (a *Aladhan) Calendar(ctx context.Context, lat, lng float64, month, year, method int) ([]AladhanDay, error) {
	query := coordinateQuery(lat, lng, method)
	query.Set("month", strconv.Itoa(month))
	query.Set("year", strconv.Itoa(year))
	rawURL := withQuery(joinURL(a.baseURL, "calendar"), query)

	var days []aladhanDay
	if err := a.getData(ctx, rawURL, &days); err != nil {
		return nil, err
	}

	out := make([]AladhanDay, 0, len(days))
	for i, d := range days {
		fallback := time.Date(year, time.Month(month), i+1, 0, 0, 0, 0, time.UTC)
		out = append(out, *d.canonical(fallback))
	}
	return out, nil
}

func (a *Aladhan) getData(ctx context.Context, rawURL string, dest any) error {
	var env aladhanEnvelope
	if err := a.client.Get(ctx, rawURL, &env); err != nil {
		return err
	}
	if env.Code != 0 && env.Code != 200 {
		return &FetchError{Provider: a.client.Name(), URL: rawURL, Kind: KindHTTPStatus, StatusCode: env.Code}
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return &FetchError{Provider: a.client.Name(), URL: rawURL, Kind: KindParse, Err: err}
	}
	return nil
}

func (d aladhanDay) canonical(fallback time.Time) *AladhanDay {
	date, err := time.Parse("02-01-2006", d.Date.Gregorian.Date)
	if err != nil {
		date = fallback
	}

	timings := make(map[string]string, len(d.Timings))
	for name, value := range d.Timings {
		timings[name] = ClockTime(value)
	}

	var hijri string
	if d.Date.Hijri.Day != "" {
		hijri = fmt.Sprintf("%s %s %s AH", d.Date.Hijri.Day, d.Date.Hijri.Month.En, d.Date.Hijri.Year)
	}

	return &AladhanDay{
		Date:     date,
		Readable: d.Date.Readable,
		Hijri:    hijri,
		Method:   d.Meta.Method.Name,
		Timings:  timings,
	}
}

// ClockTime strips the timezone suffix aladhan appends, "05:12 (CEST)" -> "05:12".
func ClockTime(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}
	return value
}

func coordinateQuery(lat, lng float64, method int) url.Values {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("method", strconv.Itoa(method))
	return query
}
