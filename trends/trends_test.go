package trends_test

import (
	"errors"
	"github.com/jeanrmiranda/script-zabbix/stats"
	"github.com/jeanrmiranda/script-zabbix/trends"
	"github.com/jeanrmiranda/script-zabbix/window"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	. "github.com/smartystreets/goconvey/convey"
	"testing"
	"time"
)

type sourceType struct {
	buckets []zabbix.TrendBucket
	err     error
	itemId  string
	from    int64
	till    int64
}

func (s *sourceType) Trends(itemId string, from, till int64) (
	[]zabbix.TrendBucket, error) {
	s.itemId, s.from, s.till = itemId, from, till
	return s.buckets, s.err
}

var (
	kWindow = window.Compute(
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), window.PreviousMonth)
)

func TestFetch(t *testing.T) {
	Convey("Given buckets with and without samples", t, func() {
		source := &sourceType{
			buckets: []zabbix.TrendBucket{
				{Clock: 1733011200, Num: 0},
				{Clock: 1733014800, Num: 5, ValueAvg: 100, ValueMin: 80, ValueMax: 120},
			},
		}
		series, err := trends.Fetch(source, "4242", kWindow)
		So(err, ShouldBeNil)
		Convey("Query covers the window", func() {
			So(source.itemId, ShouldEqual, "4242")
			So(source.from, ShouldEqual, kWindow.FromUnix())
			So(source.till, ShouldEqual, kWindow.TillUnix())
		})
		Convey("Empty bucket is dropped", func() {
			So(series, ShouldResemble, stats.Series{
				Avg: []float64{100},
				Min: []float64{80},
				Max: []float64{120},
			})
		})
		Convey("Reduction over one hour", func() {
			summary, ok := stats.Summarize(series, stats.HourSeconds)
			So(ok, ShouldBeTrue)
			So(summary.Mean, ShouldEqual, 100.0)
			So(summary.Min, ShouldEqual, 80.0)
			So(summary.Max, ShouldEqual, 120.0)
			So(summary.TotalBytes, ShouldEqual, 45000.0)
		})
	})

	Convey("Only empty buckets means no data", t, func() {
		series := trends.FromBuckets([]zabbix.TrendBucket{{Num: 0}, {Num: 0}})
		So(series.IsEmpty(), ShouldBeTrue)
	})

	Convey("Errors pass through", t, func() {
		source := &sourceType{err: errors.New("boom")}
		series, err := trends.Fetch(source, "1", kWindow)
		So(err, ShouldNotBeNil)
		So(series.IsEmpty(), ShouldBeTrue)
	})
}
