package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps documents in process. It backs local runs without a
// database and the service tests.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[string]map[string]*memDoc
	seq  int64
	now  func() time.Time
}

type memDoc struct {
	body Document
	seq  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cols: make(map[string]map[string]*memDoc),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Create(_ context.Context, collection, id string, data Document) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(collection, id, data)
}

func (m *MemoryStore) set(collection, id string, data Document) error {
	now := m.now()
	body := make(Document, len(data)+2)
	for k, v := range data {
		body[k] = v
	}
	body["created_at"] = now
	body["updated_at"] = now
	norm, err := normalize(body)
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	delete(norm, "id")

	col, ok := m.cols[collection]
	if !ok {
		col = make(map[string]*memDoc)
		m.cols[collection] = col
	}
	if existing, ok := col[id]; ok {
		existing.body = norm
		return nil
	}
	m.seq++
	col[id] = &memDoc{body: norm, seq: m.seq}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.cols[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc.body, id)
}

func (m *MemoryStore) Update(_ context.Context, collection, id string, data Document) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(collection, id, data)
}

func (m *MemoryStore) update(collection, id string, data Document) error {
	doc, ok := m.cols[collection][id]
	if !ok {
		return ErrNotFound
	}
	body := make(Document, len(data)+1)
	for k, v := range data {
		body[k] = v
	}
	body["updated_at"] = m.now()
	norm, err := normalize(body)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	delete(norm, "id")
	for k, v := range norm {
		doc.body[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.cols[collection], id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Query(_ context.Context, collection string, opts QueryOptions) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched, err := m.match(collection, opts.Filters)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].doc.seq < matched[j].doc.seq })
	if opts.OrderBy != nil {
		if _, err := splitOrderField(opts.OrderBy.Field); err != nil {
			return nil, err
		}
		o := *opts.OrderBy
		sort.SliceStable(matched, func(i, j int) bool {
			a, aok := fieldValue(matched[i].doc.body, matched[i].id, o.Field)
			b, bok := fieldValue(matched[j].doc.body, matched[j].id, o.Field)
			// Missing values sort last ascending, first descending.
			if !aok || !bok {
				if aok == bok {
					return false
				}
				return aok != o.Desc
			}
			c := compareForOrder(a, b, o.As)
			if o.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[opts.Offset:]
		}
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	out := make([]Document, 0, len(matched))
	for _, mt := range matched {
		doc, err := copyDoc(mt.doc.body, mt.id)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context, collection string, filters []Filter) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched, err := m.match(collection, filters)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// BatchWrite checks every op before applying any, so a failing batch leaves
// the store untouched.
func (m *MemoryStore) BatchWrite(_ context.Context, ops []BatchOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, op := range ops {
		if err := checkCollection(op.Collection); err != nil {
			return fmt.Errorf("batch op %d: %w", i, err)
		}
		switch op.Type {
		case BatchSet:
			if op.DocumentID == "" {
				return fmt.Errorf("batch op %d: %w", i, ErrEmptyID)
			}
		case BatchUpdate:
			if _, ok := m.cols[op.Collection][op.DocumentID]; !ok && !setEarlier(ops[:i], op) {
				return fmt.Errorf("batch op %d (%s %s/%s): %w", i, op.Type, op.Collection, op.DocumentID, ErrNotFound)
			}
		case BatchDelete:
		default:
			return fmt.Errorf("batch op %d: unknown batch op %q", i, op.Type)
		}
	}

	for _, op := range ops {
		var err error
		switch op.Type {
		case BatchSet:
			err = m.set(op.Collection, op.DocumentID, op.Data)
		case BatchUpdate:
			err = m.update(op.Collection, op.DocumentID, op.Data)
		case BatchDelete:
			delete(m.cols[op.Collection], op.DocumentID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func setEarlier(ops []BatchOp, target BatchOp) bool {
	for _, op := range ops {
		if op.Type == BatchSet && op.Collection == target.Collection && op.DocumentID == target.DocumentID {
			return true
		}
	}
	return false
}

type matchedDoc struct {
	id  string
	doc *memDoc
}

func (m *MemoryStore) match(collection string, filters []Filter) ([]matchedDoc, error) {
	for _, f := range filters {
		if _, err := filterExpr(f); err != nil {
			return nil, err
		}
	}

	var out []matchedDoc
	for id, doc := range m.cols[collection] {
		ok := true
		for _, f := range filters {
			if !matchFilter(doc.body, id, f) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, matchedDoc{id: id, doc: doc})
		}
	}
	return out, nil
}

func splitOrderField(field string) ([]string, error) {
	if field == "id" {
		return []string{"id"}, nil
	}
	return splitField(field)
}

func fieldValue(body Document, id, field string) (any, bool) {
	if field == "id" {
		return id, true
	}
	var cur any = map[string]any(body)
	for _, part := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func matchFilter(body Document, id string, f Filter) bool {
	val, present := fieldValue(body, id, f.Field)

	switch f.Op {
	case OpArrayContains:
		arr, ok := val.([]any)
		if !ok {
			return false
		}
		for _, el := range arr {
			if c, ok := compareValues(el, f.Value); ok && c == 0 {
				return true
			}
		}
		return false
	case OpIn:
		values, _ := toSlice(f.Value)
		if !present {
			return false
		}
		for _, v := range values {
			if c, ok := compareValues(val, v); ok && c == 0 {
				return true
			}
		}
		return false
	}

	if f.Value == nil {
		switch f.Op {
		case OpEq:
			return !present
		case OpNeq:
			return present
		}
		return false
	}
	if !present {
		return false
	}

	c, ok := compareValues(val, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case OpEq:
		return c == 0
	case OpNeq:
		return c != 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	}
	return false
}

// compareValues compares a stored JSON value with a Go filter value, the
// way the SQL casts in typedColumn would.
func compareValues(stored, want any) (int, bool) {
	switch w := want.(type) {
	case time.Time:
		s, ok := stored.(string)
		if !ok {
			return 0, false
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return 0, false
		}
		return t.Compare(w), true
	case bool:
		b, ok := stored.(bool)
		if !ok {
			return 0, false
		}
		if b == w {
			return 0, true
		}
		if !b {
			return -1, true
		}
		return 1, true
	case string:
		s, ok := stored.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(s, w), true
	case fmt.Stringer:
		s, ok := stored.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(s, w.String()), true
	}
	wf, ok := toFloat(want)
	if !ok {
		return 0, false
	}
	sf, ok := toFloat(stored)
	if !ok {
		return 0, false
	}
	switch {
	case sf < wf:
		return -1, true
	case sf > wf:
		return 1, true
	}
	return 0, true
}

func compareForOrder(a, b any, kind Kind) int {
	switch kind {
	case KindTime:
		as, _ := a.(string)
		bs, _ := b.(string)
		at, aerr := time.Parse(time.RFC3339Nano, as)
		bt, berr := time.Parse(time.RFC3339Nano, bs)
		if aerr == nil && berr == nil {
			return at.Compare(bt)
		}
		return strings.Compare(as, bs)
	case KindText:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func copyDoc(body Document, id string) (Document, error) {
	cp, err := normalize(body)
	if err != nil {
		return nil, err
	}
	cp["id"] = id
	return cp, nil
}
