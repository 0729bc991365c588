package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"mortality-valuation/internal/model"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk run configuration (YAML). It is fixed at run start and
// passed by value into calibration and valuation.
type Config struct {
	// VHat is the value-of-statistical-life to income ratio at the reference age.
	VHat float64 `yaml:"v_hat" json:"v_hat" validate:"gt=0"`
	// AHat is the reference age used to calibrate gamma_hat.
	AHat int `yaml:"a_hat" json:"a_hat" validate:"min=0,max=100"`
	// Beta is the annual discount factor.
	Beta float64 `yaml:"beta" json:"beta" validate:"gt=0,lt=1"`
	// Ages are the focal ages evaluated on the grid.
	Ages []int `yaml:"ages" json:"ages" validate:"min=1,unique,dive,min=0,max=100"`

	Country  string `yaml:"country" json:"country"`
	BaseYear int    `yaml:"base_year" json:"base_year" validate:"required"`
	PreYear  int    `yaml:"pre_year" json:"pre_year" validate:"required,nefield=BaseYear"`

	// LStep is the grid resolution for delta_l in [0,1].
	LStep float64 `yaml:"l_step" json:"l_step" validate:"gt=0,lte=1"`
	// CRRARho is the relative risk aversion of the CRRA model.
	CRRARho float64 `yaml:"crra_rho" json:"crra_rho"`

	Output OutputConfig `yaml:"output" json:"output"`
	Axes   AxesConfig   `yaml:"axes" json:"axes"`
}

// OutputConfig toggles the artifacts written by a run.
type OutputConfig struct {
	Table   bool `yaml:"table" json:"table"`
	XLSX    bool `yaml:"xlsx" json:"xlsx"`
	Figures bool `yaml:"figures" json:"figures"`
	GridCSV bool `yaml:"grid_csv" json:"grid_csv"`
}

// Range is a fixed [Min, Max] axis range.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max" validate:"gtfield=Min"`
}

// AxesConfig holds the y-axis range of each figure. The x axis is always [0,1].
type AxesConfig struct {
	Value    Range `yaml:"value" json:"value"`
	Relative Range `yaml:"relative" json:"relative"`
	VSL      Range `yaml:"vsl" json:"vsl"`
}

// Default returns the reference calibration.
func Default() Config {
	return Config{
		VHat:     160,
		AHat:     40,
		Beta:     1 / 1.03,
		Ages:     []int{20, 50, 80},
		Country:  "USA",
		BaseYear: 2015,
		PreYear:  1990,
		LStep:    0.01,
		CRRARho:  model.DefaultCRRARho,
		Output: OutputConfig{
			Table:   true,
			XLSX:    true,
			Figures: true,
			GridCSV: true,
		},
		Axes: AxesConfig{
			Value:    Range{Min: 0, Max: 8},
			Relative: Range{Min: 0, Max: 1.1},
			VSL:      Range{Min: 0, Max: 250},
		},
	}
}

// Load reads a YAML file, overlays it onto Default and validates the result.
func Load(path string) (Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadUnchecked reads and merges config, but does not validate it.
func LoadUnchecked(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	// Unmarshal over the defaults so omitted keys keep their reference values.
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and cross-field constraints. Every violation
// is reported as a configuration error.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return model.NewConfigurationError("%s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return model.NewConfigurationError("invalid config: %v", err)
	}
	steps := 1 / c.LStep
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		return model.NewConfigurationError("l_step %v does not divide [0,1] evenly", c.LStep)
	}
	if c.CRRARho == 0 || c.CRRARho == 1 {
		return model.NewConfigurationError("crra_rho must differ from 0 and 1 (got %v)", c.CRRARho)
	}
	return nil
}

// Steps returns the number of grid intervals, 1/LStep.
func (c Config) Steps() int {
	return int(math.Round(1 / c.LStep))
}

// Years returns the base and comparison years.
func (c Config) Years() []int {
	return []int{c.BaseYear, c.PreYear}
}

// MergeOverrides overlays non-zero fields from override onto base.
// This is used by the API to apply per-request overrides to the server defaults.
func MergeOverrides(base, override Config) Config {
	out := base
	if override.VHat != 0 {
		out.VHat = override.VHat
	}
	if override.AHat != 0 {
		out.AHat = override.AHat
	}
	if override.Beta != 0 {
		out.Beta = override.Beta
	}
	if len(override.Ages) > 0 {
		out.Ages = append([]int(nil), override.Ages...)
	}
	if override.Country != "" {
		out.Country = override.Country
	}
	if override.BaseYear != 0 {
		out.BaseYear = override.BaseYear
	}
	if override.PreYear != 0 {
		out.PreYear = override.PreYear
	}
	if override.LStep != 0 {
		out.LStep = override.LStep
	}
	if override.CRRARho != 0 {
		out.CRRARho = override.CRRARho
	}
	return out
}
