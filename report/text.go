package report

import (
	"bufio"
	"fmt"
	"github.com/jeanrmiranda/script-zabbix/format"
	"github.com/jeanrmiranda/script-zabbix/resolve"
	"github.com/jeanrmiranda/script-zabbix/stats"
	"github.com/jeanrmiranda/script-zabbix/window"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"io"
)

type textWriter struct {
	w       *bufio.Writer
	options Options
}

func newTextWriter(w io.Writer, options Options) *textWriter {
	return &textWriter{w: bufio.NewWriter(w), options: options}
}

func newWriterForFormat(format string, w io.Writer, options Options) (
	Writer, error) {
	switch format {
	case FormatText:
		return newTextWriter(w, options), nil
	case FormatJSON:
		return newJSONWriter(w), nil
	default:
		return nil, fmt.Errorf("Unknown format %q: want text or json.", format)
	}
}

func (t *textWriter) printf(fmtStr string, args ...interface{}) {
	fmt.Fprintf(t.w, fmtStr, args...)
}

func (t *textWriter) Begin(period *window.Window) error {
	if period != nil {
		t.printf("%s\n\n", period)
	}
	return nil
}

func (t *textWriter) End() error {
	return t.w.Flush()
}

func (t *textWriter) banner(host string) {
	t.printf("==================== %s ====================\n", host)
}

func (t *textWriter) WriteHost(report *HostReport) error {
	t.banner(report.Host)
	t.writeMissing(report.Missing, report.MissingHint)
	if report.Err != nil {
		t.failed(report.Host, report.Err)
		t.printf("\n")
		return t.w.Flush()
	}
	if report.NoInterfaces {
		t.printf("  No interface found (check template, LLD or SNMP credentials).\n\n")
		return t.w.Flush()
	}
	if report.Unmatched != nil {
		t.writeUnmatched(report.Unmatched)
		return t.w.Flush()
	}
	for _, group := range report.Groups {
		if group.Pattern != "" {
			t.printf("--- Label contains: %q ---\n", group.Pattern)
		}
		for _, record := range group.Records {
			t.writeRecord(record)
		}
	}
	t.printf("\n")
	return t.w.Flush()
}

func (t *textWriter) failed(host string, err error) {
	t.printf("  Failed on host %s: %s\n", host, describe(err))
}

func (t *textWriter) writeMissing(missing []string, hint string) {
	if len(missing) == 0 {
		return
	}
	t.printf("  Warning: some items were not found or are disabled:\n")
	shown := missing
	if len(shown) > MaxMissingShown {
		shown = shown[:MaxMissingShown]
	}
	for _, key := range shown {
		t.printf("    - %s\n", key)
	}
	if len(missing) > MaxMissingShown {
		t.printf("    ... (+%d items)\n", len(missing)-MaxMissingShown)
	}
	if hint != "" {
		t.printf("  %s\n", hint)
	}
	t.printf("\n")
}

func (t *textWriter) writeUnmatched(unmatched *Unmatched) {
	t.printf("  No interface matched the given labels:\n")
	for _, pattern := range unmatched.Patterns {
		t.printf("    - %s\n", pattern)
	}
	t.printf("\n  Available interfaces (sample):\n")
	t.writeEntries(unmatched.Sample, "    ifIndex %4d: %s\n")
	if unmatched.Truncated {
		t.printf("    ... (list truncated)\n")
	}
	t.printf("\n")
}

func (t *textWriter) writeEntries(entries []*resolve.Entry, fmtStr string) {
	for _, entry := range entries {
		t.printf(fmtStr, entry.Index, entry.Name())
	}
}

func (t *textWriter) writeRecord(record *Record) {
	t.printf("[%s] %s\n", record.Id, record.DisplayLabel())
	t.writeSummary("Received (IN)", record.In)
	t.writeSummary("Sent (OUT)", record.Out)
	if aggregate, ok := record.Aggregate(); ok {
		t.printf("  Aggregate (IN+OUT):\n")
		t.printf("    Mean: %s\n", format.Bps(aggregate.Mean))
		if t.options.PrintP95 {
			t.printf(
				"    95th percentile (approx.): %s\n",
				format.Bps(aggregate.P95))
		}
	}
	t.printf("\n")
}

func (t *textWriter) writeSummary(title string, summary *stats.Summary) {
	if summary == nil {
		t.printf("  %s: no data in period or item missing.\n", title)
		return
	}
	t.printf("  %s:\n", title)
	t.printf("    Mean: %s\n", format.Bps(summary.Mean))
	t.printf(
		"    Hourly min/max: %s | %s\n",
		format.Bps(summary.Min),
		format.Bps(summary.Max))
	if t.options.PrintP95 {
		t.printf("    95th percentile: %s\n", format.Bps(summary.P95))
	}
	if t.options.PrintTotal {
		t.printf("    Total: %s\n", format.Bytes(summary.TotalBytes))
	}
}

func (t *textWriter) WriteDiscovery(discovery *Discovery) error {
	t.printf("\n")
	t.banner(discovery.Host)
	if discovery.Err != nil {
		t.failed(discovery.Host, discovery.Err)
		return t.w.Flush()
	}
	if !discovery.Exists {
		t.printf("  Host does not exist in the API (check the exact host name).\n")
		return t.w.Flush()
	}
	t.writeInterfaces(discovery.Interfaces)
	t.printf("  IN items found:      %d\n", discovery.InItems)
	t.printf("  OUT items found:     %d\n", discovery.OutItems)
	t.printf("  Distinct ifIndexes:  %d\n", discovery.Distinct)
	if discovery.Distinct == 0 {
		t.printf("  No interface found (template, LLD or SNMP?).\n")
		return t.w.Flush()
	}
	t.printf("  Label sample (ifIndex -> item name):\n")
	t.writeEntries(discovery.Sample, "    %4d -> %s\n")
	if discovery.Truncated {
		t.printf("    ... (list truncated)\n")
	}
	if len(discovery.Checks) > 0 {
		t.printf("\n  Substring check (case-insensitive):\n")
		for i, check := range discovery.Checks {
			count := discovery.MatchCount[i]
			t.printf("    %q: %d matching interface(s)\n", check.Pattern, count)
			t.writeEntries(check.Entries, "      - %4d -> %s\n")
			if count > len(check.Entries) {
				t.printf("      ... (+%d)\n", count-len(check.Entries))
			}
		}
	}
	return t.w.Flush()
}

func (t *textWriter) writeInterfaces(interfaces []zabbix.HostInterface) {
	var snmp []zabbix.HostInterface
	for _, iface := range interfaces {
		if iface.Type == zabbix.SNMPInterfaceType {
			snmp = append(snmp, iface)
		}
	}
	if len(snmp) == 0 {
		t.printf("  SNMP interfaces: none\n")
		return
	}
	t.printf("  SNMP interfaces:\n")
	for _, iface := range snmp {
		address := iface.Ip
		if address == "" {
			address = iface.Dns
		}
		t.printf("    %s:%s\n", address, iface.Port)
	}
}
