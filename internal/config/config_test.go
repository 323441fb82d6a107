package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/hoops/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8501")
			convey.So(cfg.Source, convey.ShouldEqual, config.SourceCSV)
			convey.So(cfg.DatasetsDir, convey.ShouldEqual, "data/datasets")
			convey.So(cfg.SQLDir, convey.ShouldEqual, "data/sql")
			convey.So(cfg.ExportWorkers, convey.ShouldEqual, 1)
			convey.So(cfg.FeaturedPlayerID, convey.ShouldEqual, int64(237))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the source is unknown", func() {
			cfg.Source = "parquet"

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "unknown source")
			})
		})

		convey.Convey("When the database source has no path", func() {
			cfg.Source = config.SourceDatabase

			convey.Convey("Then validation names the legacy variable", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, config.EnvLegacyDBPath)
			})
		})

		convey.Convey("When the database source has a path", func() {
			cfg.Source = config.SourceDatabase
			cfg.DBPath = "/tmp/nba.db"

			convey.Convey("Then validation passes", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the csv source has no datasets dir", func() {
			cfg.DatasetsDir = ""

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
