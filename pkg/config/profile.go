package config

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

//go:embed profiles.yaml
var profilesYAML []byte

// Environment names with special meaning
const (
	EnvironmentProduction   = "production"
	EnvironmentDevelopment  = "development"
	EnvironmentExperimental = "experimental"
)

// EnvironmentProfile holds the operational parameters of one environment.
// A profile is never mutated after selection.
type EnvironmentProfile struct {
	Interval         time.Duration `yaml:"interval"`
	AlertThreshold   float64       `yaml:"alertThreshold"`
	DebugMode        bool          `yaml:"debugMode"`
	AIEnabled        bool          `yaml:"aiEnabled"`
	PredictiveWindow time.Duration `yaml:"predictiveWindow"`
	ModelPath        string        `yaml:"mlModelPath"`
	CloudProviders   []string      `yaml:"cloudProviders"`
	VerboseLogging   bool          `yaml:"verboseLogging"`
}

// Providers returns a copy of the provider identifiers
func (p EnvironmentProfile) Providers() []string {
	return slices.Clone(p.CloudProviders)
}

// Validate checks that a profile can drive the sampling loop
func (p EnvironmentProfile) Validate() error {
	var errs []error
	if p.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %v", p.Interval))
	}
	if p.AlertThreshold < 0 || p.AlertThreshold > 100 {
		errs = append(errs, fmt.Errorf("alert threshold must be within [0, 100], got %.2f", p.AlertThreshold))
	}
	if p.PredictiveWindow < 0 {
		errs = append(errs, fmt.Errorf("predictive window must not be negative, got %v", p.PredictiveWindow))
	}

	seen := sets.New[string]()
	for _, name := range p.CloudProviders {
		if name == "" {
			errs = append(errs, fmt.Errorf("cloud provider identifier must not be empty"))
			continue
		}
		if seen.Has(name) {
			errs = append(errs, fmt.Errorf("duplicate cloud provider %q", name))
		}
		seen.Insert(name)
	}

	return utilerrors.NewAggregate(errs)
}

// Resolve returns the profile registered under name, or fallback when the
// name is not in the table. It never fails.
func Resolve(name string, table map[string]EnvironmentProfile, fallback EnvironmentProfile) EnvironmentProfile {
	if profile, exists := table[name]; exists {
		return profile
	}
	return fallback
}

// ProfileTable is the fixed mapping of environment name to profile
type ProfileTable struct {
	profiles    map[string]EnvironmentProfile
	defaultName string
}

type profileFile struct {
	Default  string                        `yaml:"default"`
	Profiles map[string]EnvironmentProfile `yaml:"profiles"`
}

// ParseProfiles decodes and validates a profile table document
func ParseProfiles(data []byte) (*ProfileTable, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	if len(file.Profiles) == 0 {
		return nil, fmt.Errorf("profile table is empty")
	}
	if _, exists := file.Profiles[file.Default]; !exists {
		return nil, fmt.Errorf("default profile %q is not defined", file.Default)
	}

	var errs []error
	for name, profile := range file.Profiles {
		if err := profile.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profile %s: %w", name, err))
		}
	}
	if err := utilerrors.NewAggregate(errs); err != nil {
		return nil, err
	}

	return &ProfileTable{
		profiles:    file.Profiles,
		defaultName: file.Default,
	}, nil
}

// DefaultProfiles returns the built-in profile table.
// It panics if the embedded document is invalid.
func DefaultProfiles() *ProfileTable {
	table, err := ParseProfiles(profilesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded profiles are invalid: %v", err))
	}
	return table
}

// Resolve returns the profile for name, falling back to the default profile
func (t *ProfileTable) Resolve(name string) EnvironmentProfile {
	return Resolve(name, t.profiles, t.profiles[t.defaultName])
}

// Lookup returns the profile for name and whether it is in the table
func (t *ProfileTable) Lookup(name string) (EnvironmentProfile, bool) {
	profile, exists := t.profiles[name]
	return profile, exists
}

// DefaultName returns the name of the fallback profile
func (t *ProfileTable) DefaultName() string {
	return t.defaultName
}

// Names returns the known environment names in sorted order
func (t *ProfileTable) Names() []string {
	names := make([]string, 0, len(t.profiles))
	for name := range t.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
