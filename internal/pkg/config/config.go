// Package config exposes typed read access to the service configuration.
// Keys are dot-separated paths into the loaded document, and every getter
// returns the zero value when the key is absent or the value does not
// convert.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values and scales them into durations. The key
// itself names the unit, e.g. GetDay("modules.account.refresh_token_ttl_days").
type TimeConfig interface {
	// GetSecond reads the value at key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads the value at key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetHour reads the value at key as a number of hours.
	GetHour(key string) time.Duration

	// GetDay reads the value at key as a number of 24h days.
	GetDay(key string) time.Duration
}

// Config is the read surface handed to every component that needs
// configuration. Close releases whatever the implementation holds, such as a
// file watcher.
type Config interface {
	io.Closer
	TimeConfig

	// GetInt reads the value at key as an int.
	GetInt(key string) int

	// GetInt32 reads the value at key as an int32.
	GetInt32(key string) int32

	// GetInt64 reads the value at key as an int64.
	GetInt64(key string) int64

	// GetUint reads the value at key as a uint.
	GetUint(key string) uint

	// GetFloat64 reads the value at key as a float64.
	GetFloat64(key string) float64

	// GetBool reads the value at key as a bool.
	GetBool(key string) bool

	// GetString reads the value at key as a string.
	GetString(key string) string

	// GetBinary reads the value at key as raw bytes. The stored value must
	// be base64 encoded.
	GetBinary(key string) []byte

	// GetArray reads the value at key as a string slice. The stored value is
	// a single comma separated string.
	GetArray(key string) []string
}
