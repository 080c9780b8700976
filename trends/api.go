// Package trends turns the hourly trend buckets of an item into the series
// reduced by the stats package.
package trends

import (
	"github.com/jeanrmiranda/script-zabbix/stats"
	"github.com/jeanrmiranda/script-zabbix/window"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
)

// Source fetches trend buckets. *zabbix.Client implements Source.
type Source interface {
	Trends(itemId string, from, till int64) ([]zabbix.TrendBucket, error)
}

// Fetch returns the series of itemId over w. Buckets without samples are
// dropped so that hours with no data do not count as zero traffic.
// If no bucket had data, Fetch returns an empty series and no error.
func Fetch(source Source, itemId string, w window.Window) (
	stats.Series, error) {
	return fetch(source, itemId, w)
}

// FromBuckets returns the series of the buckets that have samples.
func FromBuckets(buckets []zabbix.TrendBucket) stats.Series {
	return fromBuckets(buckets)
}
