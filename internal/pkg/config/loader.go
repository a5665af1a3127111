package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one value. Warning is set whenever the
// default replaced an invalid value.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

func fallback[T any](key, raw string, def T, err error) Result[T] {
	return Result[T]{
		Value:           def,
		Warning:         fmt.Sprintf("%s=%q is invalid, using default %v: %v", key, raw, def, err),
		FallbackApplied: true,
	}
}

// Load reads key, parses it and validates it. An unset or blank variable
// yields the default without a warning.
func Load[T any](key string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return Result[T]{Value: def}
	}
	v, err := parse(raw)
	if err != nil {
		return fallback(key, raw, def, err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(key, raw, def, err)
		}
	}
	return Result[T]{Value: v}
}

func LoadString(key, def string, validate func(string) error) Result[string] {
	return Load(key, def, func(s string) (string, error) { return s, nil }, validate)
}

func LoadInt(key string, def int, validate func(int) error) Result[int] {
	return Load(key, def, strconv.Atoi, validate)
}

func LoadDuration(key string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(key, def, time.ParseDuration, validate)
}

func LoadBool(key string, def bool) Result[bool] {
	return Load(key, def, strconv.ParseBool, nil)
}

// GetEnvString returns the variable or def when it is unset.
func GetEnvString(key, def string) string {
	return LoadString(key, def, nil).Value
}
