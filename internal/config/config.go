// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type VerbsBackend string

const (
	VerbsIBVerbs VerbsBackend = "ibverbs"
	VerbsSysfs   VerbsBackend = "sysfs"
)

type CatalogBackend string

const (
	CatalogUdev  CatalogBackend = "udev"
	CatalogSysfs CatalogBackend = "sysfs"
)

const (
	DefaultSysfsRoot       = "/sys"
	DefaultRegistryBackoff = 500 * time.Millisecond
	DefaultRegistrySteps   = 5
)

// Config selects the inventory sources and where the probe registers.
type Config struct {
	SysfsRoot string         `yaml:"sysfsRoot"`
	Verbs     VerbsBackend   `yaml:"verbs"`
	Catalog   CatalogBackend `yaml:"catalog"`
	Registry  Registry       `yaml:"registry"`
}

type Registry struct {
	URL        string        `yaml:"url"`
	SystemUUID string        `yaml:"systemUUID"`
	Backoff    time.Duration `yaml:"backoff"`
	Steps      int           `yaml:"steps"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		SysfsRoot: DefaultSysfsRoot,
		Verbs:     VerbsIBVerbs,
		Catalog:   CatalogUdev,
		Registry: Registry{
			Backoff: DefaultRegistryBackoff,
			Steps:   DefaultRegistrySteps,
		},
	}
}

// Load reads the configuration file at path on top of the defaults. An empty
// path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the backend names and the registry retry settings.
func (c *Config) Validate() error {
	var errs []error
	if c.SysfsRoot == "" {
		errs = append(errs, errors.New("sysfsRoot must not be empty"))
	}
	switch c.Verbs {
	case VerbsIBVerbs, VerbsSysfs:
	default:
		errs = append(errs, fmt.Errorf("unknown verbs backend %q, expected %s or %s", c.Verbs, VerbsIBVerbs, VerbsSysfs))
	}
	switch c.Catalog {
	case CatalogUdev, CatalogSysfs:
	default:
		errs = append(errs, fmt.Errorf("unknown catalog backend %q, expected %s or %s", c.Catalog, CatalogUdev, CatalogSysfs))
	}
	if c.Registry.Backoff <= 0 {
		errs = append(errs, errors.New("registry.backoff must be positive"))
	}
	if c.Registry.Steps < 1 {
		errs = append(errs, errors.New("registry.steps must be at least 1"))
	}
	return errors.Join(errs...)
}
