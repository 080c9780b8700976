package resolve_test

import (
	"errors"
	"github.com/jeanrmiranda/script-zabbix/resolve"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	. "github.com/smartystreets/goconvey/convey"
	"strings"
	"testing"
)

// itemSourceType answers searches by substring and filters by exact key
// from a fixed list of items.
type itemSourceType struct {
	items   []zabbix.Item
	queries []zabbix.ItemQuery
	err     error
}

func (s *itemSourceType) Items(query zabbix.ItemQuery) (
	result []zabbix.Item, err error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	for _, item := range s.items {
		if query.KeySearch != "" && !strings.Contains(item.Key, query.KeySearch) {
			continue
		}
		if len(query.Keys) > 0 && !contains(query.Keys, item.Key) {
			continue
		}
		if !query.WithTags {
			item.Tags = nil
		}
		result = append(result, item)
	}
	return
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func TestIndexFromKey(t *testing.T) {
	tests := []struct {
		key   string
		index int
		ok    bool
	}{
		{"net.if.in[ifHCInOctets.12]", 12, true},
		{"net.if.out[ifHCOutOctets.1073741824]", 1073741824, true},
		{"ifHCInOctets[7]", 7, true},
		{"net.if.in[ifInOctets.3]", 3, true},
		{"SnmpInterfaceInTraffic[ae2]", 0, false},
		{"net.if.in[ifHCInOctets.12] ", 0, false},
		{"net.if.in[ifHCInOctets.]", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		index, ok := resolve.IndexFromKey(tt.key)
		if index != tt.index || ok != tt.ok {
			t.Errorf(
				"IndexFromKey(%q): expected (%d, %v), got (%d, %v)",
				tt.key, tt.index, tt.ok, index, ok)
		}
	}
}

func TestExplicit(t *testing.T) {
	Convey("Given a host missing one outbound item", t, func() {
		source := &itemSourceType{
			items: []zabbix.Item{
				{ItemId: "1", Name: "Interface ae2: Bits received", Key: "SnmpInterfaceInTraffic[ae2]"},
				{ItemId: "2", Name: "Interface ae2: Bits sent", Key: "SnmpInterfaceOutTraffic[ae2]"},
				{ItemId: "3", Name: "Interface 11: Bits received", Key: "SnmpInterfaceInTraffic[11]"},
			},
		}
		resolution, err := resolve.Explicit(
			source, "edge1", []string{"ae2", "11"}, resolve.ExplicitKeyTemplate)
		So(err, ShouldBeNil)
		Convey("One batched query is issued", func() {
			So(source.queries, ShouldHaveLength, 1)
			So(source.queries[0].Host, ShouldEqual, "edge1")
			So(source.queries[0].Keys, ShouldResemble, []string{
				"SnmpInterfaceInTraffic[ae2]",
				"SnmpInterfaceOutTraffic[ae2]",
				"SnmpInterfaceInTraffic[11]",
				"SnmpInterfaceOutTraffic[11]",
			})
		})
		Convey("Missing key is reported, not raised", func() {
			So(resolution.Missing, ShouldResemble, []string{"SnmpInterfaceOutTraffic[11]"})
			_, ok := resolution.Item("SnmpInterfaceOutTraffic[11]")
			So(ok, ShouldBeFalse)
		})
		Convey("Found keys map to items", func() {
			item, ok := resolution.Item("SnmpInterfaceInTraffic[11]")
			So(ok, ShouldBeTrue)
			So(item.ItemId, ShouldEqual, "3")
			So(resolution.Requests[3], ShouldResemble, resolve.KeyRequest{
				Key:       "SnmpInterfaceOutTraffic[11]",
				Id:        "11",
				Direction: resolve.Out,
			})
		})
	})
	Convey("No interfaces means no query", t, func() {
		source := &itemSourceType{}
		resolution, err := resolve.Explicit(source, "edge1", nil, resolve.ExplicitKeyTemplate)
		So(err, ShouldBeNil)
		So(resolution.Missing, ShouldBeEmpty)
		So(source.queries, ShouldBeEmpty)
	})
	Convey("Query errors are returned", t, func() {
		source := &itemSourceType{err: errors.New("down")}
		_, err := resolve.Explicit(source, "edge1", []string{"1"}, resolve.ExplicitKeyTemplate)
		So(err, ShouldNotBeNil)
	})
}

func newLabelSource() *itemSourceType {
	return &itemSourceType{
		items: []zabbix.Item{
			{ItemId: "10", Name: "Interface xe-0/0/1(Peering-Transit-1): Bits received", Key: "net.if.in[ifHCInOctets.12]",
				Tags: []zabbix.Tag{{Tag: "Interface", Value: "xe-0/0/1"}}},
			{ItemId: "11", Name: "Interface xe-0/0/1(Peering-Transit-1): Bits sent", Key: "net.if.out[ifHCOutOctets.12]",
				Tags: []zabbix.Tag{{Tag: "circuit", Value: "CID-778"}}},
			// outbound only: name falls back to the outbound item
			{ItemId: "20", Name: "Interface ae0(transit-EdgeUno): Bits sent", Key: "net.if.out[ifHCOutOctets.3]"},
			// 32-bit counter on an index already covered by HC
			{ItemId: "30", Name: "Interface xe-0/0/1: 32bit in", Key: "net.if.in[ifInOctets.12]"},
			// 32-bit only interface
			{ItemId: "31", Name: "Interface ge-1/1/1(Customer-A): Bits received", Key: "net.if.in[ifInOctets.40]"},
			{ItemId: "32", Name: "Interface ge-1/1/1(Customer-A): Bits sent", Key: "net.if.out[ifOutOctets.40]"},
			// no ifIndex in key
			{ItemId: "99", Name: "Total", Key: "net.if.in[ifHCInOctets.total]"},
		},
	}
}

func TestDiscover(t *testing.T) {
	Convey("Given items of two key families", t, func() {
		source := newLabelSource()
		inventory, err := resolve.Discover(
			source,
			"edge1",
			[]*resolve.KeyFamily{resolve.HCFamily, resolve.SNMPFamily},
			false)
		So(err, ShouldBeNil)

		Convey("One search per family and direction", func() {
			So(source.queries, ShouldHaveLength, 4)
			So(source.queries[0].KeySearch, ShouldEqual, "net.if.in[ifHCInOctets.")
			So(source.queries[1].KeySearch, ShouldEqual, "net.if.out[ifHCOutOctets.")
			So(source.queries[0].Limit, ShouldEqual, resolve.ItemLimit)
		})

		Convey("Distinct indexes are collected", func() {
			So(inventory.Len(), ShouldEqual, 3)
			in, out := inventory.ItemCounts()
			So(in, ShouldEqual, 4)
			So(out, ShouldEqual, 3)
		})

		Convey("Inbound name wins and earlier family wins", func() {
			entry, ok := inventory.Entry(12)
			So(ok, ShouldBeTrue)
			So(entry.Family, ShouldEqual, resolve.HCFamily)
			So(entry.In.ItemId, ShouldEqual, "10")
			So(entry.Name(), ShouldEqual, "Interface xe-0/0/1(Peering-Transit-1): Bits received")
		})

		Convey("Outbound name is the fallback", func() {
			entry, _ := inventory.Entry(3)
			So(entry.In, ShouldBeNil)
			So(entry.Name(), ShouldEqual, "Interface ae0(transit-EdgeUno): Bits sent")
			So(entry.Keys(), ShouldResemble, []resolve.KeyRequest{
				{Key: "net.if.in[ifHCInOctets.3]", Id: "3", Direction: resolve.In},
				{Key: "net.if.out[ifHCOutOctets.3]", Id: "3", Direction: resolve.Out},
			})
		})

		Convey("Keys follow the family of the entry", func() {
			entry, _ := inventory.Entry(40)
			So(entry.Family, ShouldEqual, resolve.SNMPFamily)
			So(entry.Keys()[1].Key, ShouldEqual, "net.if.out[ifOutOctets.40]")
		})

		Convey("Sample is sorted and bounded", func() {
			sample := inventory.Sample(2)
			So(sample, ShouldHaveLength, 2)
			So(sample[0].Index, ShouldEqual, 3)
			So(sample[1].Index, ShouldEqual, 12)
			So(inventory.Sample(30), ShouldHaveLength, 3)
		})

		Convey("Matching ignores case", func() {
			matches := inventory.Match([]string{"peering", "TRANSIT", "nothing"}, false)
			So(matches, ShouldHaveLength, 3)
			So(matches[0].Pattern, ShouldEqual, "peering")
			So(indexes(matches[0].Entries), ShouldResemble, []int{12})
			So(indexes(matches[1].Entries), ShouldResemble, []int{3, 12})
			So(matches[2].Entries, ShouldBeEmpty)
		})
	})

	Convey("Directions never mix counter families", t, func() {
		source := &itemSourceType{
			items: []zabbix.Item{
				{ItemId: "50", Name: "Interface et-0/0/5: Bits received", Key: "net.if.in[ifHCInOctets.5]"},
				{ItemId: "51", Name: "Interface et-0/0/5: 32bit out", Key: "net.if.out[ifOutOctets.5]"},
			},
		}
		inventory, err := resolve.Discover(
			source,
			"edge1",
			[]*resolve.KeyFamily{resolve.HCFamily, resolve.SNMPFamily},
			false)
		So(err, ShouldBeNil)
		entry, ok := inventory.Entry(5)
		So(ok, ShouldBeTrue)
		So(entry.Family, ShouldEqual, resolve.HCFamily)
		So(entry.In.ItemId, ShouldEqual, "50")
		So(entry.Out, ShouldBeNil)
		So(entry.Keys(), ShouldResemble, []resolve.KeyRequest{
			{Key: "net.if.in[ifHCInOctets.5]", Id: "5", Direction: resolve.In},
			{Key: "net.if.out[ifHCOutOctets.5]", Id: "5", Direction: resolve.Out},
		})
	})

	Convey("Tag-aware matching", t, func() {
		source := newLabelSource()
		inventory, err := resolve.Discover(
			source, "edge1", []*resolve.KeyFamily{resolve.HCFamily}, true)
		So(err, ShouldBeNil)
		So(source.queries[0].WithTags, ShouldBeTrue)
		entry, _ := inventory.Entry(12)
		So(entry.Tags(), ShouldHaveLength, 2)
		Convey("Tag values match when enabled", func() {
			matches := inventory.Match([]string{"cid-778", "circuit:CID"}, true)
			So(indexes(matches[0].Entries), ShouldResemble, []int{12})
			So(indexes(matches[1].Entries), ShouldResemble, []int{12})
		})
		Convey("Tag values are ignored when disabled", func() {
			matches := inventory.Match([]string{"cid-778"}, false)
			So(matches[0].Entries, ShouldBeEmpty)
		})
	})

	Convey("Family names", t, func() {
		family, ok := resolve.FamilyByName("legacy")
		So(ok, ShouldBeTrue)
		So(family, ShouldEqual, resolve.LegacyFamily)
		in, out := family.Template.Keys("7")
		So(in, ShouldEqual, "ifHCInOctets[7]")
		So(out, ShouldEqual, "ifHCOutOctets[7]")
		_, ok = resolve.FamilyByName("bogus")
		So(ok, ShouldBeFalse)
	})
}

func indexes(entries []*resolve.Entry) (result []int) {
	for _, e := range entries {
		result = append(result, e.Index)
	}
	return
}
