// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to override keys when read from the environment,
// e.g. FAKE_HUMANS_START_X.
const EnvPrefix = "FAKE_HUMANS"

// OverrideKeys lists the keys that flags or environment variables may set on
// top of the config file. Keys match the file keys in lower case.
var OverrideKeys = []string{
	"start_x",
	"start_y",
	"end_x",
	"end_y",
	"publish_markers",
	"mqtt_broker",
	"topic_humans",
	"topic_humans_marker",
	"web_server_port",
	"log_level",
	"log_format",
	"log_file",
}

// NewViper returns a viper instance reading FAKE_HUMANS_* environment variables.
// Commands bind their flags to it with BindPFlag using the OverrideKeys names.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every override key set in v onto cfg.
// Values go through the same parsing as the config file.
func ApplyOverrides(cfg *Config, v *viper.Viper) error {
	for _, key := range OverrideKeys {
		if !v.IsSet(key) {
			continue
		}
		if err := cfg.setValue(strings.ToUpper(key), v.GetString(key)); err != nil {
			return fmt.Errorf("override %s: %w", key, err)
		}
	}
	return cfg.validate()
}
