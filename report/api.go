// Package report builds and prints per interface traffic reports.
//
// A Reporter walks the configured hosts one at a time in configuration
// order. For each host it resolves the interfaces, fetches the trend
// buckets of each direction, reduces them with the stats package and hands
// the resulting HostReport to a Writer. A failure on one host is reported
// and the Reporter moves on to the next host.
package report

import (
	"github.com/jeanrmiranda/script-zabbix/resolve"
	"github.com/jeanrmiranda/script-zabbix/stats"
	"github.com/jeanrmiranda/script-zabbix/trends"
	"github.com/jeanrmiranda/script-zabbix/window"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"io"
	"log"
)

const (
	// DefaultMaxShow is the default number of interfaces listed when no
	// interface matches the label patterns.
	DefaultMaxShow = 30
	// DefaultDiscoverMaxShow is the default number of interfaces listed
	// by discovery.
	DefaultDiscoverMaxShow = 40
	// MaxMissingShown is the number of missing keys listed per host.
	MaxMissingShown = 10
	// MaxMatchesShown is the number of matching interfaces listed per
	// pattern by discovery.
	MaxMatchesShown = 10
)

// InterfaceId identifies an interface within a host either by SNMP
// ifIndex or by name. InterfaceId is a name if Name is non-empty.
type InterfaceId struct {
	Index int
	Name  string
}

// IndexId returns the InterfaceId of an ifIndex.
func IndexId(index int) InterfaceId {
	return InterfaceId{Index: index}
}

// NameId returns the InterfaceId of an interface name such as ae814.
// Numeric names such as "11" remain names.
func NameId(name string) InterfaceId {
	return InterfaceId{Name: name}
}

// IsName returns true if this id is a name.
func (i InterfaceId) IsName() bool {
	return i.Name != ""
}

// Value returns the index or name as a string.
func (i InterfaceId) Value() string {
	return i.value()
}

// String returns "ifIndex 12" or "ifName ae814".
func (i InterfaceId) String() string {
	return i.string()
}

// Less orders ifIndexes numerically before names in lexical order.
func (i InterfaceId) Less(other InterfaceId) bool {
	return i.less(other)
}

// Record contains the summaries of one interface. A nil summary means the
// item is missing or had no data in the period.
type Record struct {
	Id    InterfaceId
	Label string
	In    *stats.Summary
	Out   *stats.Summary
}

// DisplayLabel returns Label or the id value if Label is empty.
func (r *Record) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Id.Value()
}

// Set stores summary for direction d.
func (r *Record) Set(d resolve.Direction, summary *stats.Summary) {
	if d == resolve.In {
		r.In = summary
	} else {
		r.Out = summary
	}
}

// Aggregate returns the IN+OUT aggregate or false if either direction is
// missing.
func (r *Record) Aggregate() (stats.Aggregate, bool) {
	if r.In == nil || r.Out == nil {
		return stats.Aggregate{}, false
	}
	return stats.Combine(*r.In, *r.Out), true
}

// Table holds Records ordered by InterfaceId.
// Table instances are NOT safe to use with multiple goroutines.
type Table struct {
	tree treeType
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return newTable()
}

// Ensure returns the record for id adding it with label if absent. If the
// record exists with an empty label, Ensure sets its label.
func (t *Table) Ensure(id InterfaceId, label string) *Record {
	return t.ensure(id, label)
}

// Get returns the record for id or nil, false if absent.
func (t *Table) Get(id InterfaceId) (*Record, bool) {
	return t.get(id)
}

// Len returns the number of records.
func (t *Table) Len() int {
	return t.tree.Len()
}

// Records returns all records ordered by InterfaceId.
func (t *Table) Records() []*Record {
	return t.records()
}

// Group is a list of records printed together. In label mode there is one
// group per label pattern.
type Group struct {
	// Empty in explicit-key mode
	Pattern string
	Records []*Record
}

// Unmatched describes a host where no interface matched any label pattern.
type Unmatched struct {
	Patterns []string
	// First interfaces of the host by ifIndex
	Sample []*resolve.Entry
	// True if the host has more interfaces than Sample
	Truncated bool
}

// HostReport is the report of one host.
type HostReport struct {
	Host string
	// Non nil if processing this host failed. Other fields may be partial.
	Err error
	// Keys with no item
	Missing []string
	// Printed after Missing. Optional.
	MissingHint string
	// True if the host has no interface traffic items at all
	NoInterfaces bool
	// Non nil if no interface matched any label pattern
	Unmatched *Unmatched
	Groups    []Group
}

// Discovery is the discovery output for one host.
type Discovery struct {
	Host string
	// Non nil if discovery failed. Other fields may be partial.
	Err error
	// False if Zabbix does not know Host.
	Exists     bool
	Interfaces []zabbix.HostInterface
	InItems    int
	OutItems   int
	Distinct   int
	Sample     []*resolve.Entry
	Truncated  bool
	// One per label pattern. Entries holds at most MaxMatchesShown
	// entries; MatchCount holds the full count.
	Checks     []resolve.PatternMatch
	MatchCount []int
}

// Writer prints reports.
type Writer interface {
	// Begin starts output. period is nil for discovery.
	Begin(period *window.Window) error
	WriteHost(report *HostReport) error
	WriteDiscovery(discovery *Discovery) error
	// End finishes output.
	End() error
}

// Options controls what to print.
type Options struct {
	PrintP95   bool
	PrintTotal bool
}

// NewTextWriter returns a Writer printing human readable text to w.
func NewTextWriter(w io.Writer, options Options) Writer {
	return newTextWriter(w, options)
}

// NewJSONWriter returns a Writer printing one JSON document to w when End
// is called.
func NewJSONWriter(w io.Writer) Writer {
	return newJSONWriter(w)
}

const (
	// FormatText selects NewTextWriter.
	FormatText = "text"
	// FormatJSON selects NewJSONWriter.
	FormatJSON = "json"
)

// NewWriterForFormat returns the Writer of format, FormatText or
// FormatJSON. options only apply to text.
func NewWriterForFormat(format string, w io.Writer, options Options) (
	Writer, error) {
	return newWriterForFormat(format, w, options)
}

// Describe returns a one line description of err naming its kind:
// HTTP/connection error, Zabbix API error or unexpected failure.
func Describe(err error) string {
	return describe(err)
}

// Sink receives the records of each host after they are computed.
type Sink interface {
	Write(host string, period window.Window, records []*Record) error
}

// Source is the Zabbix API as the Reporter uses it. *zabbix.Client
// implements Source.
type Source interface {
	resolve.ItemSource
	trends.Source
	Hosts(hostNames ...string) ([]zabbix.Host, error)
	HostInterfaces(hostIds ...string) ([]zabbix.HostInterface, error)
}

// Host is one host to report on.
type Host struct {
	// Technical host name
	Name string
	// Interface names or indexes for the explicit-key report
	Interfaces []string
}

// Config configures a Reporter.
type Config struct {
	Hosts []Host
	// Key template of the explicit-key report. The zero value means
	// resolve.ExplicitKeyTemplate.
	KeyTemplate resolve.KeyTemplate
	// Label patterns of the label report and discovery
	LabelPatterns []string
	// Key families searched by the label report and discovery. Empty
	// means resolve.HCFamily alone.
	Families []*resolve.KeyFamily
	// If true, label patterns match tags too
	MatchTags bool
	// Interfaces listed when nothing matches. 0 means DefaultMaxShow.
	MaxShow int
	// Interfaces listed by discovery. 0 means DefaultDiscoverMaxShow.
	DiscoverMaxShow int
}

// Reporter runs reports.
type Reporter struct {
	source Source
	config Config
	period window.Window
	writer Writer
	sink   Sink
	logger *log.Logger
}

// New returns a new Reporter. logger receives per host failures and sink
// errors; it may be nil.
func New(
	source Source,
	config Config,
	period window.Window,
	writer Writer,
	logger *log.Logger) *Reporter {
	return &Reporter{
		source: source,
		config: config,
		period: period,
		writer: writer,
		logger: logger,
	}
}

// SetSink makes r hand the records of each host to sink. Sink errors are
// logged and do not stop the report.
func (r *Reporter) SetSink(sink Sink) {
	r.sink = sink
}

// RunKeys runs the explicit-key report. RunKeys returns an error only if
// writing output fails.
func (r *Reporter) RunKeys() error {
	return r.run(r.keysReport)
}

// RunLabels runs the label-pattern report. RunLabels returns an error only
// if writing output fails.
func (r *Reporter) RunLabels() error {
	return r.run(r.labelsReport)
}

// RunDiscover runs label discovery. RunDiscover returns an error only if
// writing output fails.
func (r *Reporter) RunDiscover() error {
	return r.runDiscover()
}
