package types_test

import (
	"errors"
	"testing"

	types "github.com/okian/hoops/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseStats(t *testing.T) {
	Convey("Given stat keys from the checkboxes", t, func() {
		Convey("When no key was sent", func() {
			Convey("Then points are selected", func() {
				So(types.ParseStats(nil), ShouldResemble, types.DefaultStats)
				So(types.DefaultStats[0].Column, ShouldEqual, "career_pts")
			})
		})

		Convey("When only the empty marker was sent", func() {
			Convey("Then nothing is selected", func() {
				So(types.ParseStats([]string{""}), ShouldBeEmpty)
			})
		})

		Convey("When keys are mixed case, unordered or unknown", func() {
			got := types.ParseStats([]string{"stl", "PTS", "bogus", "stl"})

			Convey("Then known keys come back in display order once", func() {
				So(got, ShouldResemble, []types.Stat{types.Stats[0], types.Stats[4]})
			})
		})
	})
}

func TestPlayerLabel(t *testing.T) {
	Convey("Given a player", t, func() {
		label := types.PlayerLabel("LeBron James", 237)
		So(label, ShouldEqual, "LeBron James ID: 237")

		Convey("Then the label parses back to the id", func() {
			id, err := types.ParsePlayerLabel(label)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, int64(237))
		})
	})

	Convey("Given a bare id", t, func() {
		id, err := types.ParsePlayerLabel(" 15 ")
		So(err, ShouldBeNil)
		So(id, ShouldEqual, int64(15))
	})

	Convey("Given a label without an id", t, func() {
		_, err := types.ParsePlayerLabel("LeBron James")
		So(errors.Is(err, types.ErrInvalidPlayer), ShouldBeTrue)
	})
}
