// Package resolve maps the interfaces an operator asks for to Zabbix item
// ids.
//
// Two strategies exist. The explicit-key strategy builds the inbound and
// outbound key of each requested interface from a KeyTemplate and resolves
// them all with one item.get call. The label-pattern strategy lists every
// traffic item of a host for one or more key families, extracts the SNMP
// ifIndex from each key and lets the caller select interfaces by
// case-insensitive substrings of their names or tags.
package resolve

import (
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"strconv"
)

// ItemLimit caps the items returned by each discovery search.
const ItemLimit = 10000

// Direction is the direction of traffic an item measures.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "IN"
	case Out:
		return "OUT"
	default:
		return ""
	}
}

// KeyTemplate builds the item keys of an interface. In and Out contain a
// single %s verb replaced with the interface identifier.
type KeyTemplate struct {
	In  string
	Out string
}

// Keys returns the inbound and outbound key for id.
func (t KeyTemplate) Keys(id string) (in, out string) {
	return t.keys(id)
}

var (
	// ExplicitKeyTemplate is the template of the explicit-key report.
	// Its items are keyed by interface name, e.g. ae814.
	ExplicitKeyTemplate = KeyTemplate{
		In:  "SnmpInterfaceInTraffic[%s]",
		Out: "SnmpInterfaceOutTraffic[%s]",
	}
)

// KeyFamily describes one naming scheme of interface traffic items keyed
// by ifIndex.
type KeyFamily struct {
	// Short name used in configuration files
	Name string
	// Key substrings searched to list inbound and outbound items
	InSearch  string
	OutSearch string
	// Template rebuilding the key of an ifIndex. A listed key is only
	// accepted if the template reproduces it.
	Template KeyTemplate
}

var (
	// HCFamily covers 64-bit counters: net.if.in[ifHCInOctets.12]
	HCFamily = &KeyFamily{
		Name:      "hc",
		InSearch:  "net.if.in[ifHCInOctets.",
		OutSearch: "net.if.out[ifHCOutOctets.",
		Template: KeyTemplate{
			In:  "net.if.in[ifHCInOctets.%s]",
			Out: "net.if.out[ifHCOutOctets.%s]",
		},
	}
	// SNMPFamily covers 32-bit counters: net.if.in[ifInOctets.12]
	SNMPFamily = &KeyFamily{
		Name:      "snmp",
		InSearch:  "net.if.in[ifInOctets.",
		OutSearch: "net.if.out[ifOutOctets.",
		Template: KeyTemplate{
			In:  "net.if.in[ifInOctets.%s]",
			Out: "net.if.out[ifOutOctets.%s]",
		},
	}
	// LegacyFamily covers older templates: ifHCInOctets[12]
	LegacyFamily = &KeyFamily{
		Name:      "legacy",
		InSearch:  "ifHCInOctets[",
		OutSearch: "ifHCOutOctets[",
		Template: KeyTemplate{
			In:  "ifHCInOctets[%s]",
			Out: "ifHCOutOctets[%s]",
		},
	}

	kFamiliesByName = map[string]*KeyFamily{
		HCFamily.Name:     HCFamily,
		SNMPFamily.Name:   SNMPFamily,
		LegacyFamily.Name: LegacyFamily,
	}
)

// FamilyByName returns the key family with given name or nil, false if no
// family matches given name.
func FamilyByName(name string) (*KeyFamily, bool) {
	result, ok := kFamiliesByName[name]
	return result, ok
}

// IndexFromKey extracts the ifIndex from keys ending in .<digits>] or
// [<digits>]. IndexFromKey returns false if key has neither shape.
func IndexFromKey(key string) (int, bool) {
	return indexFromKey(key)
}

// ItemSource lists items. *zabbix.Client implements ItemSource.
type ItemSource interface {
	Items(query zabbix.ItemQuery) ([]zabbix.Item, error)
}

// KeyRequest is one item key to resolve.
type KeyRequest struct {
	Key       string
	Id        string
	Direction Direction
}

// Resolution is the outcome of resolving a list of keys.
type Resolution struct {
	// The requests in the order given
	Requests []KeyRequest
	// Found items by key
	Found map[string]zabbix.Item
	// Keys with no matching item in request order
	Missing []string
}

// Item returns the item for key or false if key is missing.
func (r *Resolution) Item(key string) (zabbix.Item, bool) {
	item, ok := r.Found[key]
	return item, ok
}

// Explicit resolves the inbound and outbound keys template builds for each
// of ids on host with a single item.get call. Keys with no item end up in
// Missing; they are not an error.
func Explicit(
	source ItemSource,
	host string,
	ids []string,
	template KeyTemplate) (*Resolution, error) {
	return Keys(source, host, explicitRequests(ids, template))
}

// Keys resolves requests on host with a single item.get call.
func Keys(source ItemSource, host string, requests []KeyRequest) (
	*Resolution, error) {
	return resolveKeys(source, host, requests)
}

// Entry describes one interface found by Discover.
type Entry struct {
	Index int
	// Family that first reported this ifIndex
	Family *KeyFamily
	// Items for each direction. nil if absent.
	In  *zabbix.Item
	Out *zabbix.Item
}

// Name returns the display name of the interface. The inbound item name
// wins; the outbound one is the fallback.
func (e *Entry) Name() string {
	if e.In != nil {
		return e.In.Name
	}
	if e.Out != nil {
		return e.Out.Name
	}
	return ""
}

// Tags returns the tags of both items, inbound first.
func (e *Entry) Tags() []zabbix.Tag {
	return e.tags()
}

// Keys returns the key requests of both directions. The key of a missing
// direction comes from the family template.
func (e *Entry) Keys() []KeyRequest {
	return e.keys()
}

// Id returns the ifIndex as a string.
func (e *Entry) Id() string {
	return strconv.Itoa(e.Index)
}

// Inventory holds the interfaces of one host found by Discover keyed by
// ifIndex.
type Inventory struct {
	entries  map[int]*Entry
	inItems  int
	outItems int
}

// Discover lists the inbound and outbound items of every family on host.
// When an ifIndex appears in more than one family, the earliest family
// owns it for both directions; items of later families for that ifIndex
// are ignored even if the earliest family lacks one direction.
// If withTags is true, item tags are fetched too.
func Discover(
	source ItemSource,
	host string,
	families []*KeyFamily,
	withTags bool) (*Inventory, error) {
	return discover(source, host, families, withTags)
}

// Len returns the number of distinct ifIndexes.
func (v *Inventory) Len() int {
	return len(v.entries)
}

// ItemCounts returns how many inbound and outbound items the searches
// returned, including items whose key yielded no ifIndex.
func (v *Inventory) ItemCounts() (in, out int) {
	return v.inItems, v.outItems
}

// Entry returns the interface with given ifIndex or nil, false if none.
func (v *Inventory) Entry(index int) (*Entry, bool) {
	result, ok := v.entries[index]
	return result, ok
}

// Sample returns the first n interfaces sorted by ifIndex.
func (v *Inventory) Sample(n int) []*Entry {
	result := v.sorted()
	if n >= 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// PatternMatch lists the interfaces matching one pattern.
type PatternMatch struct {
	Pattern string
	// Matching interfaces sorted by ifIndex
	Entries []*Entry
}

// Match returns one PatternMatch per pattern in the order given. An
// interface matches a pattern if its name contains the pattern ignoring
// case. If matchTags is true, an interface also matches if a tag name, a
// tag value or "name:value" contains the pattern.
func (v *Inventory) Match(patterns []string, matchTags bool) []PatternMatch {
	return v.match(patterns, matchTags)
}
