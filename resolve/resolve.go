package resolve

import (
	"fmt"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	kIndexSuffix = regexp.MustCompile(`[.\[](\d+)\]$`)
)

func indexFromKey(key string) (int, bool) {
	m := kIndexSuffix.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	result, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return result, true
}

func (t KeyTemplate) keys(id string) (in, out string) {
	return fmt.Sprintf(t.In, id), fmt.Sprintf(t.Out, id)
}

func explicitRequests(ids []string, template KeyTemplate) []KeyRequest {
	result := make([]KeyRequest, 0, 2*len(ids))
	for _, id := range ids {
		in, out := template.Keys(id)
		result = append(
			result,
			KeyRequest{Key: in, Id: id, Direction: In},
			KeyRequest{Key: out, Id: id, Direction: Out})
	}
	return result
}

func resolveKeys(source ItemSource, host string, requests []KeyRequest) (
	*Resolution, error) {
	result := &Resolution{
		Requests: requests,
		Found:    make(map[string]zabbix.Item),
	}
	if len(requests) == 0 {
		return result, nil
	}
	keys := make([]string, len(requests))
	for i := range requests {
		keys[i] = requests[i].Key
	}
	items, err := source.Items(zabbix.ItemQuery{Host: host, Keys: keys})
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		result.Found[item.Key] = item
	}
	for _, key := range keys {
		if _, ok := result.Found[key]; !ok {
			result.Missing = append(result.Missing, key)
		}
	}
	return result, nil
}

func (e *Entry) tags() (result []zabbix.Tag) {
	if e.In != nil {
		result = append(result, e.In.Tags...)
	}
	if e.Out != nil {
		result = append(result, e.Out.Tags...)
	}
	return
}

func (e *Entry) keys() []KeyRequest {
	in, out := e.Family.Template.Keys(e.Id())
	if e.In != nil {
		in = e.In.Key
	}
	if e.Out != nil {
		out = e.Out.Key
	}
	return []KeyRequest{
		{Key: in, Id: e.Id(), Direction: In},
		{Key: out, Id: e.Id(), Direction: Out},
	}
}

func discover(
	source ItemSource,
	host string,
	families []*KeyFamily,
	withTags bool) (*Inventory, error) {
	result := &Inventory{entries: make(map[int]*Entry)}
	for _, family := range families {
		inItems, err := source.Items(zabbix.ItemQuery{
			Host:      host,
			KeySearch: family.InSearch,
			WithTags:  withTags,
			Limit:     ItemLimit,
		})
		if err != nil {
			return nil, err
		}
		outItems, err := source.Items(zabbix.ItemQuery{
			Host:      host,
			KeySearch: family.OutSearch,
			WithTags:  withTags,
			Limit:     ItemLimit,
		})
		if err != nil {
			return nil, err
		}
		result.inItems += len(inItems)
		result.outItems += len(outItems)
		for i := range inItems {
			result.add(family, In, inItems[i])
		}
		for i := range outItems {
			result.add(family, Out, outItems[i])
		}
	}
	return result, nil
}

func (v *Inventory) add(
	family *KeyFamily, direction Direction, item zabbix.Item) {
	index, ok := indexFromKey(item.Key)
	if !ok {
		return
	}
	in, out := family.Template.Keys(strconv.Itoa(index))
	expected := in
	if direction == Out {
		expected = out
	}
	if item.Key != expected {
		return
	}
	entry, ok := v.entries[index]
	if !ok {
		entry = &Entry{Index: index, Family: family}
		v.entries[index] = entry
	}
	// Both directions of an interface come from the same family.
	if entry.Family != family {
		return
	}
	slot := &entry.In
	if direction == Out {
		slot = &entry.Out
	}
	if *slot == nil {
		*slot = &item
	}
}

func (v *Inventory) sorted() []*Entry {
	result := make([]*Entry, 0, len(v.entries))
	for _, entry := range v.entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Index < result[j].Index
	})
	return result
}

func (e *Entry) matches(lowerPattern string, matchTags bool) bool {
	if strings.Contains(strings.ToLower(e.Name()), lowerPattern) {
		return true
	}
	if !matchTags {
		return false
	}
	for _, tag := range e.tags() {
		for _, s := range []string{
			tag.Tag, tag.Value, tag.Tag + ":" + tag.Value} {
			if strings.Contains(strings.ToLower(s), lowerPattern) {
				return true
			}
		}
	}
	return false
}

func (v *Inventory) match(patterns []string, matchTags bool) []PatternMatch {
	entries := v.sorted()
	result := make([]PatternMatch, len(patterns))
	for i, pattern := range patterns {
		result[i].Pattern = pattern
		lowerPattern := strings.ToLower(pattern)
		for _, entry := range entries {
			if entry.matches(lowerPattern, matchTags) {
				result[i].Entries = append(result[i].Entries, entry)
			}
		}
	}
	return result
}
