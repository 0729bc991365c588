package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mortality-valuation/internal/config"
	"mortality-valuation/internal/model"

	"github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfig_Default(t *testing.T) {
	convey.Convey("Given the default run config", t, func() {
		cfg := config.Default()

		convey.Convey("Then it carries the reference calibration", func() {
			convey.So(cfg.VHat, convey.ShouldEqual, 160)
			convey.So(cfg.AHat, convey.ShouldEqual, 40)
			convey.So(cfg.Beta, convey.ShouldAlmostEqual, 1/1.03, 1e-15)
			convey.So(cfg.Ages, convey.ShouldResemble, []int{20, 50, 80})
			convey.So(cfg.BaseYear, convey.ShouldEqual, 2015)
			convey.So(cfg.PreYear, convey.ShouldEqual, 1990)
			convey.So(cfg.LStep, convey.ShouldEqual, 0.01)
			convey.So(cfg.Steps(), convey.ShouldEqual, 100)
		})

		convey.Convey("Then it validates", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given an otherwise valid config", t, func() {
		cfg := config.Default()

		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"non-positive beta", func(c *config.Config) { c.Beta = 0 }},
			{"beta of one", func(c *config.Config) { c.Beta = 1 }},
			{"non-positive v_hat", func(c *config.Config) { c.VHat = -1 }},
			{"a_hat above 100", func(c *config.Config) { c.AHat = 101 }},
			{"focal age below zero", func(c *config.Config) { c.Ages = []int{20, -1} }},
			{"no focal ages", func(c *config.Config) { c.Ages = nil }},
			{"duplicate ages", func(c *config.Config) { c.Ages = []int{20, 20} }},
			{"same years", func(c *config.Config) { c.PreYear = c.BaseYear }},
			{"uneven step", func(c *config.Config) { c.LStep = 0.03 }},
			{"log rho for crra", func(c *config.Config) { c.CRRARho = 1 }},
			{"inverted axis", func(c *config.Config) { c.Axes.VSL = config.Range{Min: 5, Max: 1} }},
		}
		for _, tc := range cases {
			mutate := tc.mutate
			convey.Convey("When it has "+tc.name, func() {
				c := cfg
				c.Ages = append([]int(nil), cfg.Ages...)
				mutate(&c)
				err := c.Validate()

				convey.Convey("Then it is a configuration error", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, model.ErrConfiguration), convey.ShouldBeTrue)
				})
			})
		}
	})
}

func TestConfig_Load(t *testing.T) {
	convey.Convey("Given a YAML run config", t, func() {
		convey.Convey("When it overrides a subset of keys", func() {
			path := writeFile(t, `
country: FRA
ages: [30, 60]
l_step: 0.05
output:
  figures: false
`)
			cfg, err := config.Load(path)

			convey.Convey("Then omitted keys keep their defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Country, convey.ShouldEqual, "FRA")
				convey.So(cfg.Ages, convey.ShouldResemble, []int{30, 60})
				convey.So(cfg.Steps(), convey.ShouldEqual, 20)
				convey.So(cfg.VHat, convey.ShouldEqual, 160)
				convey.So(cfg.Output.Figures, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When it sets an invalid discount factor", func() {
			path := writeFile(t, "beta: 1.5\n")
			_, err := config.Load(path)

			convey.Convey("Then loading fails validation", func() {
				convey.So(errors.Is(err, model.ErrConfiguration), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file is missing", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then the read error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When no path is given", func() {
			cfg, err := config.Load("")

			convey.Convey("Then defaults are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BaseYear, convey.ShouldEqual, 2015)
			})
		})
	})
}

func TestMergeOverrides(t *testing.T) {
	convey.Convey("Given defaults and a partial override", t, func() {
		out := config.MergeOverrides(config.Default(), config.Config{Country: "JPN", Ages: []int{65}, CRRARho: 3})

		convey.Convey("Then only non-zero fields are replaced", func() {
			convey.So(out.Country, convey.ShouldEqual, "JPN")
			convey.So(out.Ages, convey.ShouldResemble, []int{65})
			convey.So(out.CRRARho, convey.ShouldEqual, 3)
			convey.So(out.VHat, convey.ShouldEqual, 160)
		})
	})
}
