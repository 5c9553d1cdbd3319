package resolve

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"nur/internal/core"
	"nur/internal/provider"
)

const (
	// kaabaLat and kaabaLng locate the Kaaba in degrees.
	kaabaLat = 21.422487
	kaabaLng = 39.826206
	// duhaOffset is how long after sunrise Duha begins.
	duhaOffset = 20 * time.Minute
	// scheduleDays is the length of the weekly schedule.
	scheduleDays = 7
)

// prayerOrder lists the displayed timings; Duha is derived from Sunrise and
// Tahajjud is aladhan's Lastthird.
var prayerOrder = []string{"Fajr", "Sunrise", "Duha", "Dhuhr", "Asr", "Maghrib", "Isha", "Tahajjud"}

// TimingsSource serves prayer timings for a coordinate.
type TimingsSource interface {
	Timings(ctx context.Context, lat, lng float64, date time.Time, method int) (*provider.AladhanDay, error)
	Calendar(ctx context.Context, lat, lng float64, month, year, method int) ([]provider.AladhanDay, error)
}

// Geocoder turns a place name into coordinates.
type Geocoder interface {
	Search(ctx context.Context, query string) (*core.Place, error)
}

type PrayerResolver struct {
	timings  TimingsSource
	geocoder Geocoder
	method   int
	now      func() time.Time
	logger   *zap.Logger
}

func NewPrayerResolver(timings TimingsSource, geocoder Geocoder, method int, logger *zap.Logger) *PrayerResolver {
	if method <= 0 {
		method = core.DefaultCalculationMethod
	}
	return &PrayerResolver{
		timings:  timings,
		geocoder: geocoder,
		method:   method,
		now:      time.Now,
		logger:   logger.Named("prayer"),
	}
}

// Today returns today's timings at the coordinate.
func (r *PrayerResolver) Today(ctx context.Context, lat, lng float64) (*core.PrayerDay, error) {
	if err := validCoordinate(lat, lng); err != nil {
		return nil, err
	}

	day, err := r.timings.Timings(ctx, lat, lng, r.now(), r.method)
	if err != nil {
		return nil, &core.ResolutionError{Resource: "prayer times", Reason: ReasonExhausted, Err: err}
	}
	out := prayerDay(*day)
	return &out, nil
}

// Week returns seven days of timings starting today. When the window crosses
// into the next month, that month's calendar is optional.
func (r *PrayerResolver) Week(ctx context.Context, lat, lng float64) ([]core.PrayerDay, error) {
	if err := validCoordinate(lat, lng); err != nil {
		return nil, err
	}

	now := r.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, scheduleDays)
	next := start.AddDate(0, 1, 1-start.Day())

	var current, following []provider.AladhanDay
	parts := []part{{
		name:      "current month",
		mandatory: true,
		run: func(ctx context.Context) error {
			var err error
			current, err = r.timings.Calendar(ctx, lat, lng, int(start.Month()), start.Year(), r.method)
			return err
		},
	}}
	if end.After(next) {
		parts = append(parts, part{
			name: "next month",
			run: func(ctx context.Context) error {
				var err error
				following, err = r.timings.Calendar(ctx, lat, lng, int(next.Month()), next.Year(), r.method)
				return err
			},
		})
	}

	if _, err := gather(ctx, r.logger, parts...); err != nil {
		return nil, &core.ResolutionError{Resource: "prayer schedule", Reason: ReasonExhausted, Err: err}
	}

	var week []core.PrayerDay
	for _, d := range append(current, following...) {
		date := time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(start) || !date.Before(end) {
			continue
		}
		week = append(week, prayerDay(d))
		if len(week) == scheduleDays {
			break
		}
	}
	return week, nil
}

// Geocode resolves a place name. A query with no match yields provider.ErrPlaceNotFound.
func (r *PrayerResolver) Geocode(ctx context.Context, query string) (*core.Place, error) {
	return r.geocoder.Search(ctx, query)
}

// Qibla returns the initial great-circle bearing from the coordinate to the
// Kaaba in degrees clockwise from north, within [0, 360).
func Qibla(lat, lng float64) float64 {
	latRad := lat * math.Pi / 180
	lngRad := lng * math.Pi / 180
	kLat := kaabaLat * math.Pi / 180
	kLng := kaabaLng * math.Pi / 180

	y := math.Sin(kLng - lngRad)
	x := math.Cos(latRad)*math.Tan(kLat) - math.Sin(latRad)*math.Cos(kLng-lngRad)
	bearing := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearing+360, 360)
}

// AddMinutes shifts an HH:MM clock time, wrapping around midnight. Malformed
// input yields an empty string.
func AddMinutes(clock string, d time.Duration) string {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return ""
	}
	return t.Add(d).Format("15:04")
}

func prayerDay(d provider.AladhanDay) core.PrayerDay {
	timings := make(map[string]string, len(d.Timings)+1)
	for k, v := range d.Timings {
		timings[k] = v
	}
	timings["Duha"] = AddMinutes(timings["Sunrise"], duhaOffset)
	timings["Tahajjud"] = timings["Lastthird"]

	out := core.PrayerDay{
		Date:   d.Date.Format("2006-01-02"),
		Hijri:  d.Hijri,
		Method: d.Method,
	}
	for _, name := range prayerOrder {
		if t := timings[name]; t != "" {
			out.Timings = append(out.Timings, core.PrayerTime{Name: name, Time: t})
		}
	}
	return out
}

func validCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return &core.ResolutionError{Resource: "prayer times", Reason: fmt.Sprintf("invalid coordinate %f,%f", lat, lng)}
	}
	return nil
}
