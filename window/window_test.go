package window_test

import (
	"github.com/jeanrmiranda/script-zabbix/window"
	. "github.com/smartystreets/goconvey/convey"
	"testing"
	"time"
)

func TestPreviousMonth(t *testing.T) {
	Convey("Given now in the middle of January", t, func() {
		now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		w := window.Compute(now, window.PreviousMonth)
		Convey("Period rolls back to December of prior year", func() {
			So(w.From, ShouldResemble, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
			So(w.Till, ShouldResemble, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC))
			So(w.FromUnix(), ShouldBeLessThan, w.TillUnix())
		})
	})
	Convey("Given now in March of a leap year", t, func() {
		now := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
		w := window.Compute(now, window.PreviousMonth)
		So(w.From, ShouldResemble, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		So(w.Till, ShouldResemble, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC))
	})
	Convey("Given now in March of a common year", t, func() {
		now := time.Date(2023, 3, 31, 23, 0, 0, 0, time.UTC)
		w := window.Compute(now, window.PreviousMonth)
		So(w.Till, ShouldResemble, time.Date(2023, 2, 28, 23, 59, 59, 0, time.UTC))
	})
	Convey("Local times are converted to UTC first", t, func() {
		tz := time.FixedZone("BRT", -3*3600)
		// 2025-02-01 01:00 UTC
		now := time.Date(2025, 1, 31, 22, 0, 0, 0, tz)
		w := window.Compute(now, window.PreviousMonth)
		So(w.From, ShouldResemble, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	})
}

func TestLast30Days(t *testing.T) {
	Convey("Rolling window ends now and spans 30 days", t, func() {
		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		w := window.Compute(now, window.Last30Days)
		So(w.Till, ShouldResemble, now)
		So(w.TillUnix()-w.FromUnix(), ShouldEqual, 30*24*3600)
		So(w.String(), ShouldEqual,
			"Period: 2025-02-08 12:00:00 UTC to 2025-03-10 12:00:00 UTC")
	})
}

func TestByName(t *testing.T) {
	Convey("Modes parse by name", t, func() {
		mode, ok := window.ByName("previousMonth")
		So(ok, ShouldBeTrue)
		So(mode, ShouldEqual, window.PreviousMonth)
		So(mode.String(), ShouldEqual, "previousMonth")
		_, ok = window.ByName("lastYear")
		So(ok, ShouldBeFalse)
	})
}
