package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/baasilali/2m-backend/pkg/types"
)

// WrapperKey is the optional top-level key snapshots may nest their items under
const WrapperKey = "marketplace_data"

var (
	// ErrUnsupportedShape is returned for snapshots that are neither a JSON
	// array nor a JSON object
	ErrUnsupportedShape = errors.New("snapshot must be a JSON array or object")
)

// LoadStats counts what the loader accepted, skipped or coerced
type LoadStats struct {
	Records         int // entries seen in the snapshot
	Skipped         int // entries without a usable name
	Duplicates      int // entries that replaced an earlier record
	MalformedFields int // price/quantity fields coerced to unknown/0
}

// LoadFile reads and decodes a snapshot file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.LoadError{Path: path, Err: err}
	}
	cat, err := Load(bytes.NewReader(data))
	if err != nil {
		var le *types.LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	cat.source = path
	return cat, nil
}

// Load decodes a snapshot. Three shapes are accepted:
//
//	[{"market_hash_name": "...", "min_price": 1.2, ...}, ...]
//	{"<name>": {"min_price": 1.2, ...}, ...}
//	{"marketplace_data": <either of the above>}
//
// Malformed prices and quantities are coerced per item; only a snapshot that
// is not valid JSON of one of these shapes fails.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &types.LoadError{Err: err}
	}

	b := &builder{index: make(map[string]int)}
	if err := b.decode(data, true); err != nil {
		return nil, &types.LoadError{Err: err}
	}

	cat := New(b.items)
	cat.stats = b.stats
	return cat, nil
}

type builder struct {
	items []types.Item
	index map[string]int
	stats LoadStats
}

func (b *builder) decode(data []byte, allowWrapper bool) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrUnsupportedShape
	}

	switch data[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("decode array: %w", err)
		}
		for _, raw := range records {
			b.stats.Records++
			b.addRecord("", raw)
		}
		return nil
	case '{':
		keys, values, err := orderedObject(data)
		if err != nil {
			return fmt.Errorf("decode object: %w", err)
		}
		if allowWrapper {
			for i, k := range keys {
				if k == WrapperKey {
					return b.decode(values[i], false)
				}
			}
		}
		for i, k := range keys {
			b.stats.Records++
			b.addRecord(k, values[i])
		}
		return nil
	default:
		return ErrUnsupportedShape
	}
}

// orderedObject decodes a JSON object keeping its key order, which becomes
// the catalog's load order
func orderedObject(data []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	var keys []string
	var values []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

// addRecord converts one entry. key is the object key for the mapping
// shapes and empty for arrays.
func (b *builder) addRecord(key string, raw json.RawMessage) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		fields = nil
	}

	name := strings.TrimSpace(key)
	if name == "" {
		name = stringField(fields, "market_hash_name")
	}
	if name == "" {
		name = stringField(fields, "name")
	}
	if name == "" {
		b.stats.Skipped++
		return
	}

	item := types.NewItem(name)
	item.MinPrice = b.priceField(fields, "min_price")
	item.MaxPrice = b.priceField(fields, "max_price")
	item.SuggestedPrice = b.priceField(fields, "suggested_price")
	item.Quantity = b.quantityField(fields, "quantity")

	if pos, dup := b.index[name]; dup {
		b.stats.Duplicates++
		item.Position = pos
		b.items[pos] = item
		return
	}
	item.Position = len(b.items)
	b.index[name] = item.Position
	b.items = append(b.items, item)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// priceField accepts a JSON number or numeric string. Missing and null
// values are unknown without counting as malformed.
func (b *builder) priceField(fields map[string]json.RawMessage, key string) types.Price {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return types.UnknownPrice
	}
	v, ok := parseNumber(raw)
	if !ok {
		b.stats.MalformedFields++
		return types.UnknownPrice
	}
	p := types.NewPrice(v)
	if !p.Known() {
		b.stats.MalformedFields++
	}
	return p
}

func (b *builder) quantityField(fields map[string]json.RawMessage, key string) int {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return 0
	}
	v, ok := parseNumber(raw)
	if !ok || v < 0 || v != float64(int64(v)) {
		b.stats.MalformedFields++
		return 0
	}
	return int(v)
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
