// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Default values used when a key is absent from the config file.
const (
	DefaultStartX = 1.0
	DefaultStartY = 1.0
	DefaultEndX   = 2.0
	// DefaultEndY reuses the end-X constant. Kept that way so existing fixtures
	// keep the diagonal path; set END_Y explicitly for anything else.
	DefaultEndY = DefaultEndX

	DefaultPublishMarkers = false

	DefaultMQTTBroker           = "tcp://localhost:1883"
	DefaultMQTTClientIDProducer = "fake-humans-producer"
	DefaultMQTTClientIDConsole  = "fake-humans-console"
	DefaultMQTTClientIDWeb      = "fake-humans-web"

	DefaultTopicHumans       = "humans"
	DefaultTopicHumansMarker = "humans_marker"
	DefaultFrameID           = "humans_frame"
	DefaultMarkerQueueSize   = 16

	DefaultWebServerPort = 8080

	// MaxCoordinate bounds START_X/START_Y/END_X/END_Y (meters). Larger values
	// overflow the per-tick velocity.
	MaxCoordinate = 1e9
)

// Config holds all application configuration values.
type Config struct {
	// Trajectory
	StartX         float64
	StartY         float64
	EndX           float64
	EndY           float64
	PublishMarkers bool

	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string

	// Topics
	TopicHumans       string
	TopicHumansMarker string
	FrameID           string
	MarkerQueueSize   int // pending marker messages kept when the broker is slow

	// Web Server
	WebServerPort int

	Logger LoggerConfig

	// UnknownKeys lists keys found in the file that this program does not
	// use. They are skipped; callers log them.
	UnknownKeys []string
}

// LoggerConfig configures internal/observability.
type LoggerConfig struct {
	ServiceName string
	Level       string // debug, info, warn, error
	Format      string // "console" or "json"
	LogFile     string // empty disables the rotated file sink
	MaxSize     int    // megabytes
	MaxBackups  int
	MaxAge      int // days
	Compress    bool
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every key set to its documented default.
func Default() *Config {
	return &Config{
		StartX:         DefaultStartX,
		StartY:         DefaultStartY,
		EndX:           DefaultEndX,
		EndY:           DefaultEndY,
		PublishMarkers: DefaultPublishMarkers,

		MQTTBroker:           DefaultMQTTBroker,
		MQTTClientIDProducer: DefaultMQTTClientIDProducer,
		MQTTClientIDConsole:  DefaultMQTTClientIDConsole,
		MQTTClientIDWeb:      DefaultMQTTClientIDWeb,

		TopicHumans:       DefaultTopicHumans,
		TopicHumansMarker: DefaultTopicHumansMarker,
		FrameID:           DefaultFrameID,
		MarkerQueueSize:   DefaultMarkerQueueSize,

		WebServerPort: DefaultWebServerPort,

		Logger: LoggerConfig{
			ServiceName: "fake-humans",
			Level:       "info",
			Format:      "console",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      7,
		},
	}
}

// ErrNotFound is returned (wrapped) by Load when the config file does not exist.
// The returned Config is still usable and holds the defaults.
var ErrNotFound = errors.New("config file not found")

var errUnknownKey = errors.New("unknown config key")

// Load reads the configuration file and returns a Config struct.
// Keys missing from the file keep their defaults. A missing file is not fatal:
// Load returns the defaults together with an error wrapping ErrNotFound.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), fmt.Errorf("%w: %s", ErrNotFound, configPath)
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines from r on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.ToUpper(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			if errors.Is(err, errUnknownKey) {
				cfg.UnknownKeys = append(cfg.UnknownKeys, key)
				continue
			}
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Trajectory
	case "START_X":
		return parseFloat(key, value, &c.StartX)
	case "START_Y":
		return parseFloat(key, value, &c.StartY)
	case "END_X":
		return parseFloat(key, value, &c.EndX)
	case "END_Y":
		return parseFloat(key, value, &c.EndY)
	case "PUBLISH_MARKERS":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid PUBLISH_MARKERS %q: %w", value, err)
		}
		c.PublishMarkers = b

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_HUMANS":
		c.TopicHumans = value
	case "TOPIC_HUMANS_MARKER":
		c.TopicHumansMarker = value
	case "FRAME_ID":
		c.FrameID = value
	case "MARKER_QUEUE_SIZE":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MARKER_QUEUE_SIZE %q: %w", value, err)
		}
		if size < 1 {
			return fmt.Errorf("MARKER_QUEUE_SIZE must be at least 1, got %d", size)
		}
		c.MarkerQueueSize = size

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Logging
	case "LOG_LEVEL":
		c.Logger.Level = strings.ToLower(value)
	case "LOG_FORMAT":
		format := strings.ToLower(value)
		if format != "console" && format != "json" {
			return fmt.Errorf("LOG_FORMAT must be console or json, got %q", value)
		}
		c.Logger.Format = format
	case "LOG_FILE":
		c.Logger.LogFile = value
	case "LOG_MAX_SIZE_MB":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid LOG_MAX_SIZE_MB %q: %w", value, err)
		}
		c.Logger.MaxSize = size
	case "LOG_MAX_BACKUPS":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid LOG_MAX_BACKUPS %q: %w", value, err)
		}
		c.Logger.MaxBackups = n

	default:
		return fmt.Errorf("%w: %q", errUnknownKey, key)
	}

	return nil
}

func parseFloat(key, value string, dst *float64) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = f
	return nil
}

// validate checks that the values a process cannot run without are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER must not be empty")
	}
	if c.TopicHumans == "" {
		return fmt.Errorf("TOPIC_HUMANS must not be empty")
	}
	if c.PublishMarkers && c.TopicHumansMarker == "" {
		return fmt.Errorf("TOPIC_HUMANS_MARKER must not be empty when PUBLISH_MARKERS is set")
	}
	if c.WebServerPort <= 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}

	coords := []struct {
		key string
		v   float64
	}{
		{"START_X", c.StartX}, {"START_Y", c.StartY},
		{"END_X", c.EndX}, {"END_Y", c.EndY},
	}
	for _, co := range coords {
		if math.IsNaN(co.v) || math.IsInf(co.v, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", co.key, co.v)
		}
		if math.Abs(co.v) > MaxCoordinate {
			return fmt.Errorf("%s must be within ±%g, got %g", co.key, MaxCoordinate, co.v)
		}
	}
	if math.IsInf(c.EndX-c.StartX, 0) || math.IsInf(c.EndY-c.StartY, 0) {
		return fmt.Errorf("segment from (%g, %g) to (%g, %g) is too long", c.StartX, c.StartY, c.EndX, c.EndY)
	}
	return nil
}

// InitGlobal initializes the global configuration from file, then applies
// flag and environment overrides from v (which may be nil).
// A missing file is tolerated and leaves the defaults in place; the returned
// error then wraps ErrNotFound so callers can log it.
func InitGlobal(configPath string, v *viper.Viper) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()

		cfg, loadErr := Load(configPath)
		if cfg == nil {
			err = loadErr
			return
		}
		if v != nil {
			if oerr := ApplyOverrides(cfg, v); oerr != nil {
				err = oerr
				return
			}
		}
		globalConfig = cfg
		err = loadErr
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// resetForTest clears the singleton so tests can call InitGlobal again.
func resetForTest() {
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = nil
	configOnce = sync.Once{}
}
