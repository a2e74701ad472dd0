package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Section is the INI section holding the run parameters.
const Section = "Defaults"

// LoadFile reads the Defaults section of the INI file at path. Keys that are
// absent stay unset in the returned Layer.
func LoadFile(path string) (Layer, error) {
	f, err := ini.Load(path)
	if err != nil {
		return Layer{}, &ConfigError{Field: "file", Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}
	return fromFile(f)
}

// ParseFile is LoadFile for in-memory INI content.
func ParseFile(data []byte) (Layer, error) {
	f, err := ini.Load(data)
	if err != nil {
		return Layer{}, &ConfigError{Field: "file", Err: fmt.Errorf("failed to parse config: %w", err)}
	}
	return fromFile(f)
}

func fromFile(f *ini.File) (Layer, error) {
	section, err := f.GetSection(Section)
	if err != nil {
		return Layer{}, &ConfigError{Field: Section, Err: err}
	}

	var layer Layer
	var errs []error
	layer.Simulations = parseKey(section, "simulations", (*ini.Key).Int, &errs)
	layer.Depth = parseKey(section, "depth", (*ini.Key).Int, &errs)
	layer.Lambda = parseKey(section, "lambda_arg", (*ini.Key).Float64, &errs)
	layer.Trials = parseKey(section, "trials", (*ini.Key).Int, &errs)
	layer.Iterations = parseKey(section, "iterations", (*ini.Key).Int, &errs)
	layer.CollisionReward = parseKey(section, "collision", (*ini.Key).Float64, &errs)
	layer.LossReward = parseKey(section, "loss", (*ini.Key).Float64, &errs)
	// Bool only accepts the boolean spellings (true/false, yes/no, on/off, 1/0)
	layer.Plotting = parseKey(section, "plotting", (*ini.Key).Bool, &errs)

	if len(errs) > 0 {
		return Layer{}, errs[0]
	}
	return layer, nil
}

func parseKey[T any](section *ini.Section, name string, parse func(*ini.Key) (T, error), errs *[]error) *T {
	if !section.HasKey(name) {
		return nil
	}
	v, err := parse(section.Key(name))
	if err != nil {
		*errs = append(*errs, &ConfigError{Field: name, Err: err})
		return nil
	}
	return &v
}
