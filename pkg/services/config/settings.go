package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/de-tools/weekly-pulse/pkg/services/analysis"
	"github.com/de-tools/weekly-pulse/pkg/services/quality"
	"github.com/spf13/viper"
)

type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SnapshotSettings struct {
	DbPath string `mapstructure:"db_path"`
}

type SectionMapping struct {
	Period             string            `mapstructure:"period"`
	Dimension          string            `mapstructure:"dimension"`
	Fields             map[string]string `mapstructure:"fields"`
	NewUserValue       string            `mapstructure:"new_user_value"`
	ReturningUserValue string            `mapstructure:"returning_user_value"`
}

type ThresholdSetting struct {
	Field string  `mapstructure:"field"`
	Pct   float64 `mapstructure:"pct"`
}

// Settings is the full file-backed configuration. Every block is optional;
// absent blocks fall back to the built-in defaults.
type Settings struct {
	Server     ServerSettings                `mapstructure:"server"`
	Snapshot   SnapshotSettings              `mapstructure:"snapshot"`
	Profile    string                        `mapstructure:"profile"`
	Mappings   map[string]SectionMapping     `mapstructure:"mappings"`
	Thresholds map[string][]ThresholdSetting `mapstructure:"thresholds"`
}

// Load reads settings from the given file. A missing file is not an error
// when the path is empty: defaults apply.
func Load(path string) (*Settings, error) {
	settings := defaultSettings()
	if path == "" {
		return settings, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func defaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Host:            "localhost",
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Snapshot: SnapshotSettings{DbPath: "weekly-pulse.db"},
	}
}

// Schema materializes the configured column mappings on top of the default
// vocabulary, so deployments only list the aliases that actually differ.
func (s *Settings) Schema() (analysis.Schema, error) {
	schema := analysis.DefaultSchema()
	for name, m := range s.Mappings {
		section := domain.SectionID(strings.ToLower(name))
		if !section.Valid() {
			return nil, domain.ErrUnknownSection(section)
		}
		mapping := schema[section]
		if m.Period != "" {
			mapping.Period = m.Period
		}
		if m.Dimension != "" {
			mapping.Dimension = m.Dimension
		}
		if len(m.Fields) > 0 {
			if mapping.Fields == nil {
				mapping.Fields = make(map[string]string, len(m.Fields))
			}
			for field, column := range m.Fields {
				mapping.Fields[field] = column
			}
		}
		if m.NewUserValue != "" {
			mapping.NewUserValue = m.NewUserValue
		}
		if m.ReturningUserValue != "" {
			mapping.ReturningUserValue = m.ReturningUserValue
		}
		schema[section] = mapping
	}
	return schema, nil
}

// AnomalyThresholds converts the configured threshold table into detector
// overrides. Sections not mentioned keep their defaults.
func (s *Settings) AnomalyThresholds() (map[domain.SectionID][]quality.FieldThreshold, error) {
	if len(s.Thresholds) == 0 {
		return nil, nil
	}
	overrides := make(map[domain.SectionID][]quality.FieldThreshold, len(s.Thresholds))
	for name, entries := range s.Thresholds {
		section := domain.SectionID(strings.ToLower(name))
		if !section.Valid() {
			return nil, domain.ErrUnknownSection(section)
		}
		fields := make([]quality.FieldThreshold, 0, len(entries))
		for _, e := range entries {
			fields = append(fields, quality.FieldThreshold{Field: e.Field, Pct: e.Pct})
		}
		overrides[section] = fields
	}
	return overrides, nil
}
