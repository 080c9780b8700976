package trends

import (
	"github.com/jeanrmiranda/script-zabbix/stats"
	"github.com/jeanrmiranda/script-zabbix/window"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
)

func fetch(source Source, itemId string, w window.Window) (
	stats.Series, error) {
	buckets, err := source.Trends(itemId, w.FromUnix(), w.TillUnix())
	if err != nil {
		return stats.Series{}, err
	}
	return fromBuckets(buckets), nil
}

func fromBuckets(buckets []zabbix.TrendBucket) (result stats.Series) {
	for i := range buckets {
		if buckets[i].Num <= 0 {
			continue
		}
		result.Add(
			buckets[i].ValueAvg, buckets[i].ValueMin, buckets[i].ValueMax)
	}
	return
}
