package report

import (
	"errors"
	"fmt"
	"github.com/jeanrmiranda/script-zabbix/format"
	"github.com/jeanrmiranda/script-zabbix/resolve"
	"github.com/jeanrmiranda/script-zabbix/stats"
	"github.com/jeanrmiranda/script-zabbix/trends"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"strconv"
)

const (
	kKeysMissingHint = "Check that the interfaces configured for this host match the item keys exactly."
)

func (r *Reporter) logf(fmtStr string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Printf(fmtStr, args...)
	}
}

func (r *Reporter) families() []*resolve.KeyFamily {
	if len(r.config.Families) == 0 {
		return []*resolve.KeyFamily{resolve.HCFamily}
	}
	return r.config.Families
}

func (r *Reporter) keyTemplate() resolve.KeyTemplate {
	if r.config.KeyTemplate.In == "" || r.config.KeyTemplate.Out == "" {
		return resolve.ExplicitKeyTemplate
	}
	return r.config.KeyTemplate
}

func maxOr(value, def int) int {
	if value <= 0 {
		return def
	}
	return value
}

func (r *Reporter) run(hostReport func(host Host) *HostReport) error {
	if err := r.writer.Begin(&r.period); err != nil {
		return err
	}
	for _, host := range r.config.Hosts {
		result := hostReport(host)
		if result.Err != nil {
			r.logf("%s: %v", host.Name, result.Err)
		}
		if err := r.writer.WriteHost(result); err != nil {
			return err
		}
	}
	return r.writer.End()
}

// summarize fetches and reduces one item. A nil summary means no data.
func (r *Reporter) summarize(itemId string) (*stats.Summary, error) {
	series, err := trends.Fetch(r.source, itemId, r.period)
	if err != nil {
		return nil, err
	}
	summary, ok := stats.Summarize(series, stats.HourSeconds)
	if !ok {
		return nil, nil
	}
	return &summary, nil
}

// fill computes the summary of every found key in resolution, adding
// records to table as idOf and labelOf dictate.
func (r *Reporter) fill(
	table *Table,
	resolution *resolve.Resolution,
	idOf func(request resolve.KeyRequest) InterfaceId,
	labelOf func(request resolve.KeyRequest, item *zabbix.Item) string) error {
	for _, request := range resolution.Requests {
		item, ok := resolution.Item(request.Key)
		if !ok {
			table.Ensure(idOf(request), labelOf(request, nil))
			continue
		}
		record := table.Ensure(idOf(request), labelOf(request, &item))
		summary, err := r.summarize(item.ItemId)
		if err != nil {
			return fmt.Errorf("%s: %w", request.Key, err)
		}
		record.Set(request.Direction, summary)
	}
	return nil
}

func (r *Reporter) sinkRecords(host string, records []*Record) {
	if r.sink == nil || len(records) == 0 {
		return
	}
	if err := r.sink.Write(host, r.period, records); err != nil {
		r.logf("%s: export failed: %v", host, err)
	}
}

func (r *Reporter) keysReport(host Host) *HostReport {
	result := &HostReport{Host: host.Name}
	resolution, err := resolve.Explicit(
		r.source, host.Name, host.Interfaces, r.keyTemplate())
	if err != nil {
		result.Err = err
		return result
	}
	if len(resolution.Missing) > 0 {
		result.Missing = resolution.Missing
		result.MissingHint = kKeysMissingHint
	}
	table := NewTable()
	err = r.fill(
		table,
		resolution,
		func(request resolve.KeyRequest) InterfaceId {
			return NameId(request.Id)
		},
		func(request resolve.KeyRequest, item *zabbix.Item) string {
			if item == nil {
				return ""
			}
			return format.CleanItemName(item.Name)
		})
	if err != nil {
		result.Err = err
		return result
	}
	records := table.Records()
	if len(records) == 0 {
		result.NoInterfaces = true
		return result
	}
	result.Groups = []Group{{Records: records}}
	r.sinkRecords(host.Name, records)
	return result
}

func (r *Reporter) labelsReport(host Host) *HostReport {
	result := &HostReport{Host: host.Name}
	inventory, err := resolve.Discover(
		r.source, host.Name, r.families(), r.config.MatchTags)
	if err != nil {
		result.Err = err
		return result
	}
	if inventory.Len() == 0 {
		result.NoInterfaces = true
		return result
	}
	matches := inventory.Match(r.config.LabelPatterns, r.config.MatchTags)
	selected := selectedEntries(matches)
	if len(selected) == 0 {
		maxShow := maxOr(r.config.MaxShow, DefaultMaxShow)
		result.Unmatched = &Unmatched{
			Patterns:  r.config.LabelPatterns,
			Sample:    inventory.Sample(maxShow),
			Truncated: inventory.Len() > maxShow,
		}
		return result
	}
	var requests []resolve.KeyRequest
	for _, entry := range selected {
		requests = append(requests, entry.Keys()...)
	}
	resolution, err := resolve.Keys(r.source, host.Name, requests)
	if err != nil {
		result.Err = err
		return result
	}
	result.Missing = resolution.Missing
	table := NewTable()
	err = r.fill(
		table,
		resolution,
		func(request resolve.KeyRequest) InterfaceId {
			index, _ := strconv.Atoi(request.Id)
			return IndexId(index)
		},
		func(request resolve.KeyRequest, _ *zabbix.Item) string {
			index, _ := strconv.Atoi(request.Id)
			if entry, ok := inventory.Entry(index); ok {
				return entry.Name()
			}
			return ""
		})
	if err != nil {
		result.Err = err
		return result
	}
	for _, match := range matches {
		if len(match.Entries) == 0 {
			continue
		}
		group := Group{Pattern: match.Pattern}
		for _, entry := range match.Entries {
			record := table.Ensure(IndexId(entry.Index), entry.Name())
			group.Records = append(group.Records, record)
		}
		result.Groups = append(result.Groups, group)
	}
	r.sinkRecords(host.Name, table.Records())
	return result
}

// selectedEntries returns the union of the entries of matches sorted by
// ifIndex.
func selectedEntries(matches []resolve.PatternMatch) []*resolve.Entry {
	table := NewTable()
	byIndex := make(map[int]*resolve.Entry)
	for _, match := range matches {
		for _, entry := range match.Entries {
			byIndex[entry.Index] = entry
			table.Ensure(IndexId(entry.Index), "")
		}
	}
	var result []*resolve.Entry
	for _, record := range table.Records() {
		result = append(result, byIndex[record.Id.Index])
	}
	return result
}

func (r *Reporter) runDiscover() error {
	if err := r.writer.Begin(nil); err != nil {
		return err
	}
	for _, host := range r.config.Hosts {
		result := r.discover(host)
		if result.Err != nil {
			r.logf("%s: %v", host.Name, result.Err)
		}
		if err := r.writer.WriteDiscovery(result); err != nil {
			return err
		}
	}
	return r.writer.End()
}

func (r *Reporter) discover(host Host) *Discovery {
	result := &Discovery{Host: host.Name}
	hosts, err := r.source.Hosts(host.Name)
	if err != nil {
		result.Err = err
		return result
	}
	if len(hosts) == 0 {
		return result
	}
	result.Exists = true
	result.Interfaces, err = r.source.HostInterfaces(hosts[0].HostId)
	if err != nil {
		result.Err = err
		return result
	}
	inventory, err := resolve.Discover(
		r.source, host.Name, r.families(), r.config.MatchTags)
	if err != nil {
		result.Err = err
		return result
	}
	result.InItems, result.OutItems = inventory.ItemCounts()
	result.Distinct = inventory.Len()
	maxShow := maxOr(r.config.DiscoverMaxShow, DefaultDiscoverMaxShow)
	result.Sample = inventory.Sample(maxShow)
	result.Truncated = inventory.Len() > maxShow
	if inventory.Len() == 0 {
		return result
	}
	for _, match := range inventory.Match(
		r.config.LabelPatterns, r.config.MatchTags) {
		result.MatchCount = append(result.MatchCount, len(match.Entries))
		if len(match.Entries) > MaxMatchesShown {
			match.Entries = match.Entries[:MaxMatchesShown]
		}
		result.Checks = append(result.Checks, match)
	}
	return result
}

func describe(err error) string {
	var transportErr *zabbix.TransportError
	var apiErr *zabbix.ApiError
	switch {
	case errors.As(err, &transportErr):
		return "HTTP/connection error: " + err.Error()
	case errors.As(err, &apiErr):
		return "Zabbix API error: " + err.Error()
	default:
		return "Unexpected failure: " + err.Error()
	}
}
