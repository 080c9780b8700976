package report

import (
	"encoding/json"
	"github.com/jeanrmiranda/script-zabbix/resolve"
	"github.com/jeanrmiranda/script-zabbix/stats"
	"github.com/jeanrmiranda/script-zabbix/window"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"io"
	"time"
)

type jsonSummary struct {
	Mean       float64 `json:"mean"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	P95        float64 `json:"p95"`
	TotalBytes float64 `json:"totalBytes"`
	Buckets    int     `json:"buckets"`
}

type jsonAggregate struct {
	Mean float64 `json:"mean"`
	P95  float64 `json:"p95"`
}

type jsonRecord struct {
	Index     *int           `json:"ifIndex,omitempty"`
	Name      string         `json:"ifName,omitempty"`
	Label     string         `json:"label"`
	In        *jsonSummary   `json:"in"`
	Out       *jsonSummary   `json:"out"`
	Aggregate *jsonAggregate `json:"aggregate,omitempty"`
}

type jsonGroup struct {
	Pattern    string       `json:"pattern,omitempty"`
	Interfaces []jsonRecord `json:"interfaces"`
}

type jsonEntry struct {
	Index int    `json:"ifIndex"`
	Name  string `json:"name"`
}

type jsonUnmatched struct {
	Patterns  []string    `json:"patterns"`
	Sample    []jsonEntry `json:"sample"`
	Truncated bool        `json:"truncated"`
}

type jsonHost struct {
	Host         string         `json:"host"`
	Error        string         `json:"error,omitempty"`
	Missing      []string       `json:"missing,omitempty"`
	NoInterfaces bool           `json:"noInterfaces,omitempty"`
	Unmatched    *jsonUnmatched `json:"unmatched,omitempty"`
	Groups       []jsonGroup    `json:"groups,omitempty"`
}

type jsonCheck struct {
	Pattern string      `json:"pattern"`
	Count   int         `json:"count"`
	Entries []jsonEntry `json:"interfaces"`
}

type jsonDiscovery struct {
	Host       string                 `json:"host"`
	Error      string                 `json:"error,omitempty"`
	Exists     bool                   `json:"exists"`
	Interfaces []zabbix.HostInterface `json:"hostInterfaces,omitempty"`
	InItems    int                    `json:"inItems"`
	OutItems   int                    `json:"outItems"`
	Distinct   int                    `json:"distinct"`
	Sample     []jsonEntry            `json:"sample,omitempty"`
	Truncated  bool                   `json:"truncated,omitempty"`
	Checks     []jsonCheck            `json:"checks,omitempty"`
}

type jsonDocument struct {
	From        *time.Time      `json:"from,omitempty"`
	Till        *time.Time      `json:"till,omitempty"`
	Hosts       []jsonHost      `json:"hosts,omitempty"`
	Discoveries []jsonDiscovery `json:"discoveries,omitempty"`
}

type jsonWriter struct {
	w   io.Writer
	doc jsonDocument
}

func newJSONWriter(w io.Writer) *jsonWriter {
	return &jsonWriter{w: w}
}

func (j *jsonWriter) Begin(period *window.Window) error {
	j.doc = jsonDocument{}
	if period != nil {
		from, till := period.From.UTC(), period.Till.UTC()
		j.doc.From, j.doc.Till = &from, &till
	}
	return nil
}

func (j *jsonWriter) End() error {
	encoder := json.NewEncoder(j.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&j.doc)
}

func (j *jsonWriter) WriteHost(report *HostReport) error {
	host := jsonHost{
		Host:         report.Host,
		Missing:      report.Missing,
		NoInterfaces: report.NoInterfaces,
	}
	if report.Err != nil {
		host.Error = describe(report.Err)
	}
	if report.Unmatched != nil {
		host.Unmatched = &jsonUnmatched{
			Patterns:  report.Unmatched.Patterns,
			Sample:    toJSONEntries(report.Unmatched.Sample),
			Truncated: report.Unmatched.Truncated,
		}
	}
	for _, group := range report.Groups {
		jgroup := jsonGroup{Pattern: group.Pattern}
		for _, record := range group.Records {
			jgroup.Interfaces = append(jgroup.Interfaces, toJSONRecord(record))
		}
		host.Groups = append(host.Groups, jgroup)
	}
	j.doc.Hosts = append(j.doc.Hosts, host)
	return nil
}

func (j *jsonWriter) WriteDiscovery(discovery *Discovery) error {
	jdiscovery := jsonDiscovery{
		Host:       discovery.Host,
		Exists:     discovery.Exists,
		Interfaces: discovery.Interfaces,
		InItems:    discovery.InItems,
		OutItems:   discovery.OutItems,
		Distinct:   discovery.Distinct,
		Sample:     toJSONEntries(discovery.Sample),
		Truncated:  discovery.Truncated,
	}
	if discovery.Err != nil {
		jdiscovery.Error = describe(discovery.Err)
	}
	for i, check := range discovery.Checks {
		jdiscovery.Checks = append(jdiscovery.Checks, jsonCheck{
			Pattern: check.Pattern,
			Count:   discovery.MatchCount[i],
			Entries: toJSONEntries(check.Entries),
		})
	}
	j.doc.Discoveries = append(j.doc.Discoveries, jdiscovery)
	return nil
}

func toJSONEntries(entries []*resolve.Entry) []jsonEntry {
	if entries == nil {
		return nil
	}
	result := make([]jsonEntry, len(entries))
	for i, entry := range entries {
		result[i] = jsonEntry{Index: entry.Index, Name: entry.Name()}
	}
	return result
}

func toJSONSummary(summary *stats.Summary) *jsonSummary {
	if summary == nil {
		return nil
	}
	return &jsonSummary{
		Mean:       summary.Mean,
		Min:        summary.Min,
		Max:        summary.Max,
		P95:        summary.P95,
		TotalBytes: summary.TotalBytes,
		Buckets:    summary.Buckets,
	}
}

func toJSONRecord(record *Record) jsonRecord {
	result := jsonRecord{
		Label: record.DisplayLabel(),
		In:    toJSONSummary(record.In),
		Out:   toJSONSummary(record.Out),
	}
	if record.Id.IsName() {
		result.Name = record.Id.Name
	} else {
		index := record.Id.Index
		result.Index = &index
	}
	if aggregate, ok := record.Aggregate(); ok {
		result.Aggregate = &jsonAggregate{Mean: aggregate.Mean, P95: aggregate.P95}
	}
	return result
}
