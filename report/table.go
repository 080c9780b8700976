package report

import (
	"fmt"
	"github.com/google/btree"
	"strconv"
)

const (
	kDegree = 8
)

type treeType = *btree.BTree

// recordItem orders records in the btree by interface id.
type recordItem struct {
	*Record
}

func (r recordItem) Less(than btree.Item) bool {
	return r.Id.less(than.(recordItem).Id)
}

func (i InterfaceId) value() string {
	if i.IsName() {
		return i.Name
	}
	return strconv.Itoa(i.Index)
}

func (i InterfaceId) string() string {
	if i.IsName() {
		return fmt.Sprintf("ifName %s", i.Name)
	}
	return fmt.Sprintf("ifIndex %d", i.Index)
}

func (i InterfaceId) less(other InterfaceId) bool {
	if i.IsName() != other.IsName() {
		return !i.IsName()
	}
	if i.IsName() {
		return i.Name < other.Name
	}
	return i.Index < other.Index
}

func newTable() *Table {
	return &Table{tree: btree.New(kDegree)}
}

func (t *Table) get(id InterfaceId) (*Record, bool) {
	item := t.tree.Get(recordItem{&Record{Id: id}})
	if item == nil {
		return nil, false
	}
	return item.(recordItem).Record, true
}

func (t *Table) ensure(id InterfaceId, label string) *Record {
	if result, ok := t.get(id); ok {
		if result.Label == "" {
			result.Label = label
		}
		return result
	}
	result := &Record{Id: id, Label: label}
	t.tree.ReplaceOrInsert(recordItem{result})
	return result
}

func (t *Table) records() []*Record {
	result := make([]*Record, 0, t.tree.Len())
	t.tree.Ascend(func(item btree.Item) bool {
		result = append(result, item.(recordItem).Record)
		return true
	})
	return result
}
