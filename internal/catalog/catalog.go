package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/baasilali/2m-backend/pkg/types"
)

var versionSeq atomic.Uint64

// Catalog is an immutable set of items plus lookup indices built once at
// construction. Readers may share a Catalog freely across goroutines.
type Catalog struct {
	items []types.Item

	byName     map[string]int
	byFold     map[string][]int
	byWeapon   map[types.WeaponType][]int
	statTrak   []int
	regular    []int
	statTrakOf map[string]string

	version     uint64
	nameSetHash string
	stats       LoadStats
	source      string
}

// New builds a catalog from items. Positions are reassigned to the slice
// order. Later duplicates of a name replace the earlier record in place.
func New(items []types.Item) *Catalog {
	c := &Catalog{
		byName:     make(map[string]int, len(items)),
		byFold:     make(map[string][]int, len(items)),
		byWeapon:   make(map[types.WeaponType][]int),
		statTrakOf: make(map[string]string),
		version:    versionSeq.Add(1),
	}

	c.items = make([]types.Item, 0, len(items))
	for _, it := range items {
		if pos, dup := c.byName[it.Name]; dup {
			it.Position = pos
			c.items[pos] = it
			continue
		}
		it.Position = len(c.items)
		c.byName[it.Name] = it.Position
		c.items = append(c.items, it)
	}

	for i, it := range c.items {
		fold := types.FoldName(it.Name)
		c.byFold[fold] = append(c.byFold[fold], i)
		c.byWeapon[it.WeaponType] = append(c.byWeapon[it.WeaponType], i)
		if it.IsStatTrak {
			c.statTrak = append(c.statTrak, i)
		} else {
			c.regular = append(c.regular, i)
		}
	}

	for _, i := range c.statTrak {
		name := c.items[i].Name
		base := strings.TrimSpace(strings.Replace(strings.Replace(name, types.StatTrakMarker+" ", "", 1), "StatTrak ", "", 1))
		if _, ok := c.byName[base]; ok && base != name {
			c.statTrakOf[base] = name
		}
	}

	c.nameSetHash = hashNames(c.Names())
	return c
}

// Empty returns a catalog with no items
func Empty() *Catalog {
	return New(nil)
}

// Len returns the number of items
func (c *Catalog) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the catalog has no items
func (c *Catalog) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns all items in load order. The slice must not be modified.
func (c *Catalog) Items() []types.Item {
	return c.items
}

// Get returns the item with exactly this name
func (c *Catalog) Get(name string) (types.Item, bool) {
	i, ok := c.byName[name]
	if !ok {
		return types.Item{}, false
	}
	return c.items[i], true
}

// LookupExact returns the items whose folded name equals the folded query.
// Normally one item; several only when distinct names fold to the same key.
func (c *Catalog) LookupExact(query string) []types.Item {
	return c.collect(c.byFold[types.FoldName(query)])
}

// ItemsForWeapon returns the items of weapon type w in load order. The
// generic Knife and Gloves types return their whole category.
func (c *Catalog) ItemsForWeapon(w types.WeaponType) []types.Item {
	if !w.IsGeneric() {
		return c.collect(c.byWeapon[w])
	}

	var idx []int
	for wt, positions := range c.byWeapon {
		if w.Covers(wt) {
			idx = append(idx, positions...)
		}
	}
	sort.Ints(idx)
	return c.collect(idx)
}

// StatTrakItems returns the StatTrak partition in load order
func (c *Catalog) StatTrakItems() []types.Item {
	return c.collect(c.statTrak)
}

// NonStatTrakItems returns the non-StatTrak partition in load order
func (c *Catalog) NonStatTrakItems() []types.Item {
	return c.collect(c.regular)
}

// StatTrakCounterpart maps a non-StatTrak name to its StatTrak variant
func (c *Catalog) StatTrakCounterpart(name string) (string, bool) {
	st, ok := c.statTrakOf[name]
	return st, ok
}

// Names returns every item name in load order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.items))
	for i, it := range c.items {
		names[i] = it.Name
	}
	return names
}

// Version is unique per constructed catalog and increases monotonically
func (c *Catalog) Version() uint64 {
	return c.version
}

// NameSetHash identifies the set of names independent of their order
func (c *Catalog) NameSetHash() string {
	return c.nameSetHash
}

// LoadStats reports what the loader coerced or skipped
func (c *Catalog) LoadStats() LoadStats {
	return c.stats
}

// Source is the snapshot path the catalog was loaded from, if any
func (c *Catalog) Source() string {
	return c.source
}

func (c *Catalog) collect(idx []int) []types.Item {
	if len(idx) == 0 {
		return nil
	}
	out := make([]types.Item, len(idx))
	for i, pos := range idx {
		out[i] = c.items[pos]
	}
	return out
}

// HashNames computes the order-independent hash used to validate
// embedding caches
func HashNames(names []string) string {
	return hashNames(names)
}

func hashNames(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	h := sha256.New()
	for _, n := range sorted {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
