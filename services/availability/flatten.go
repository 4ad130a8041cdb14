package availability

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"pocketclass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUnparsableTime is returned when a stored date has none of the accepted shapes.
var ErrUnparsableTime = errors.New("unparsable time value")

// Zone-less layouts are interpreted in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime normalizes any stored date shape into a time.Time. Accepted shapes are
// native dates, Mongo dates, ISO-8601 strings, Unix milliseconds and provider
// timestamp objects ({seconds, nanoseconds} or {_seconds, _nanoseconds}).
func ParseTime(v any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("%w: missing value", ErrUnparsableTime)
	case time.Time:
		if t.IsZero() {
			return time.Time{}, fmt.Errorf("%w: zero time", ErrUnparsableTime)
		}
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("%w: nil time", ErrUnparsableTime)
		}
		return ParseTime(*t, loc)
	case primitive.DateTime:
		return t.Time(), nil
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0), nil
	case string:
		return parseString(t, loc)
	case int64:
		return time.UnixMilli(t), nil
	case int32:
		return time.UnixMilli(int64(t)), nil
	case int:
		return time.UnixMilli(int64(t)), nil
	case float64:
		return time.UnixMilli(int64(t)), nil
	case bson.D:
		return parseTimestampObject(t.Map())
	case bson.M:
		return parseTimestampObject(map[string]any(t))
	case map[string]any:
		return parseTimestampObject(t)
	}
	return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrUnparsableTime, v)
}

func parseString(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparsableTime)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableTime, s)
}

func parseTimestampObject(m map[string]any) (time.Time, error) {
	secs, ok := numberField(m, "seconds", "_seconds")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: timestamp object without seconds", ErrUnparsableTime)
	}
	nanos, _ := numberField(m, "nanoseconds", "_nanoseconds", "nanos")
	return time.Unix(int64(secs), int64(nanos)), nil
}

func numberField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch n := m[k].(type) {
		case int:
			return float64(n), true
		case int32:
			return float64(n), true
		case int64:
			return float64(n), true
		case float64:
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}

// Flatten turns a collection of availability records into one list of open
// intervals. Input order is preserved and nothing is sorted. Entries that are
// not open, cannot be parsed, or do not end after they start are skipped; the
// malformed ones are reported in the returned error slice.
func Flatten(records []models.AvailabilityRecord, loc *time.Location) ([]models.AvailabilityInterval, []error) {
	var (
		out  []models.AvailabilityInterval
		errs []error
	)
	for _, rec := range records {
		recLoc := loc
		if rec.Timezone != "" {
			recLoc = LoadZone(rec.Timezone)
		}
		for i, raw := range rec.Availability {
			if !raw.Availability {
				continue
			}
			start, err := ParseTime(raw.Start, recLoc)
			if err != nil {
				errs = append(errs, fmt.Errorf("record %s interval %d start: %w", rec.ID, i, err))
				continue
			}
			end, err := ParseTime(raw.End, recLoc)
			if err != nil {
				errs = append(errs, fmt.Errorf("record %s interval %d end: %w", rec.ID, i, err))
				continue
			}
			if !start.Before(end) {
				errs = append(errs, fmt.Errorf("record %s interval %d: end %s not after start %s",
					rec.ID, i, end.Format(time.RFC3339), start.Format(time.RFC3339)))
				continue
			}
			out = append(out, models.AvailabilityInterval{Start: start, End: end, Availability: true})
		}
	}
	return out, errs
}

// SortIntervals orders intervals by start, then end.
func SortIntervals(intervals []models.AvailabilityInterval) {
	sort.SliceStable(intervals, func(i, j int) bool {
		if intervals[i].Start.Equal(intervals[j].Start) {
			return intervals[i].End.Before(intervals[j].End)
		}
		return intervals[i].Start.Before(intervals[j].Start)
	})
}
