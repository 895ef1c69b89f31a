package wizard

// Tabs is a cursor over a fixed, ordered set of tab keys. Unlike a wizard, tab
// navigation wraps and has no validation.
type Tabs struct {
	keys   []string
	active int
}

// NewTabs panics on an empty or duplicated key list; tab sets are static.
func NewTabs(keys ...string) *Tabs {
	if len(keys) == 0 {
		panic("wizard: tabs need at least one key")
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			panic("wizard: duplicate tab key " + k)
		}
		seen[k] = struct{}{}
	}
	return &Tabs{keys: append([]string(nil), keys...)}
}

func (t *Tabs) Keys() []string { return append([]string(nil), t.keys...) }

func (t *Tabs) Active() string { return t.keys[t.active] }

func (t *Tabs) Index() int { return t.active }

func (t *Tabs) Next() string {
	t.active = (t.active + 1) % len(t.keys)
	return t.Active()
}

func (t *Tabs) Prev() string {
	t.active = (t.active - 1 + len(t.keys)) % len(t.keys)
	return t.Active()
}

// Select activates key. Unknown keys leave the cursor where it is.
func (t *Tabs) Select(key string) bool {
	for i, k := range t.keys {
		if k == key {
			t.active = i
			return true
		}
	}
	return false
}
