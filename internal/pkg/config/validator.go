package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule accepts standard five-field expressions such as
// "*/30 * * * *". Descriptors like "@hourly" are rejected.
func ValidateCronSchedule(schedule string) error {
	if strings.HasPrefix(schedule, "@") {
		return fmt.Errorf("descriptor %q not supported, use five fields", schedule)
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that tz is a loadable IANA zone name.
func ValidateTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("unknown timezone %q", tz)
	}
	return nil
}

// IntRange returns a validator for min <= v <= max.
func IntRange(min, max int) func(int) error {
	return func(v int) error {
		if v < min || v > max {
			return fmt.Errorf("%d out of range [%d, %d]", v, min, max)
		}
		return nil
	}
}

// DurationRange returns a validator for min <= d <= max.
func DurationRange(min, max time.Duration) func(time.Duration) error {
	return func(d time.Duration) error {
		if d < min || d > max {
			return fmt.Errorf("%s out of range [%s, %s]", d, min, max)
		}
		return nil
	}
}

// ValidateFeedURLs requires every entry to be an absolute http(s) URL.
func ValidateFeedURLs(urls []string) error {
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("feed %q is not an http(s) URL", raw)
		}
	}
	return nil
}
