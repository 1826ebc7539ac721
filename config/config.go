// Package config holds the settings of the patterns tool.
//
// Values live in a nested map addressed with dot notation ("log.level")
// behind a process-wide instance. Load fills it from the environment; a
// .env file in the working directory is read automatically.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	_ "github.com/joho/godotenv/autoload"
)

// Keys understood by the tool.
const (
	AppName          = "app.name"
	LogLevel         = "log.level"
	LogFormat        = "log.format"
	ObserverIsolated = "observer.isolated"
)

// M is a nested configuration map.
type M map[string]any

// Configuration is the read/write view of a settings store.
type Configuration interface {
	Set(key string, value any)
	Get(key string, fallback ...any) any
	String(key string, fallback string) string
	Bool(key string, fallback bool) bool
	GetAll() M
}

type config struct {
	mu sync.RWMutex
	m  M
}

// New returns an empty store, separate from the process-wide one.
func New() Configuration {
	return newConfig()
}

func newConfig() *config {
	return &config{m: make(M)}
}

var (
	instance *config
	once     sync.Once
)

// GetInstance returns the process-wide settings store.
func GetInstance() Configuration {
	once.Do(func() {
		instance = newConfig()
	})
	return instance
}

// Load reads the environment into the process-wide store and returns it.
// Malformed boolean values panic, as with MustEnv.
func Load() Configuration {
	c := GetInstance()
	c.Set(AppName, MustEnv("APP_NAME", "patterns"))
	c.Set(LogLevel, MustEnv("LOG_LEVEL", "info"))
	c.Set(LogFormat, MustEnv("LOG_FORMAT", "text"))
	c.Set(ObserverIsolated, MustEnv("OBSERVER_ISOLATED_DELIVERY", false))
	return c
}

// Set stores value under a dot separated key, creating nested maps as needed.
func (c *config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := strings.Split(key, ".")
	current := c.m
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(M)
		if !ok {
			next = make(M)
			current[k] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// Get returns the value under key, or the first fallback when it is unset.
func (c *config) Get(key string, fallback ...any) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := strings.Split(key, ".")
	current := c.m
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(M)
		if !ok {
			current = nil
			break
		}
		current = next
	}

	if current != nil {
		if v, ok := current[keys[len(keys)-1]]; ok && v != nil {
			return v
		}
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return nil
}

func (c *config) String(key string, fallback string) string {
	if v, ok := c.Get(key).(string); ok {
		return v
	}
	return fallback
}

func (c *config) Bool(key string, fallback bool) bool {
	if v, ok := c.Get(key).(bool); ok {
		return v
	}
	return fallback
}

// GetAll returns a deep copy of every setting.
func (c *config) GetAll() M {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(c.m)
}

func deepCopy(in M) M {
	out := make(M, len(in))
	for k, v := range in {
		if nested, ok := v.(M); ok {
			out[k] = deepCopy(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// MustEnv reads an environment variable converted to the type of fallback.
// It returns fallback when the variable is unset and panics when it cannot
// be converted.
func MustEnv[T string | bool | int](key string, fallback T) T {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	var result any
	var err error
	switch any(fallback).(type) {
	case int:
		result, err = strconv.Atoi(value)
	case bool:
		result, err = strconv.ParseBool(value)
	default:
		result = value
	}
	if err != nil {
		panic(fmt.Sprintf("config: %s: %v", key, err))
	}
	return result.(T)
}
