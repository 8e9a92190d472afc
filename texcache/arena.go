package texcache

type tier uint8

const (
	slotTier tier = iota + 1
	valueTier
)

func (t tier) String() string {
	switch t {
	case slotTier:
		return "slot"
	case valueTier:
		return "value"
	default:
		return "unknown"
	}
}

// tierRef is one tier key holding an arena index.
type tierRef struct {
	tier     tier
	slot     SlotKey
	identity IdentityKey
}

func slotRef(slot SlotKey) tierRef          { return tierRef{tier: slotTier, slot: slot} }
func valueRef(identity IdentityKey) tierRef { return tierRef{tier: valueTier, identity: identity} }

// arena stores resources by index. Tiers hold indexes; an entry leaves the
// arena when its last reference is released.
type arena struct {
	entries []*Resource
	free    []int
	live    int
}

func (a *arena) insert(r *Resource) int {
	r.refs = make(map[tierRef]struct{}, 2)
	a.live++
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		a.entries[i] = r
		return i
	}
	a.entries = append(a.entries, r)
	return len(a.entries) - 1
}

func (a *arena) get(i int) *Resource {
	if i < 0 || i >= len(a.entries) {
		return nil
	}
	return a.entries[i]
}

func (a *arena) retain(i int, ref tierRef) {
	if r := a.get(i); r != nil {
		r.refs[ref] = struct{}{}
	}
}

// release drops ref from entry i. When no reference is left the entry is
// removed and returned so the caller can dispose it.
func (a *arena) release(i int, ref tierRef) *Resource {
	r := a.get(i)
	if r == nil {
		return nil
	}
	delete(r.refs, ref)
	if len(r.refs) > 0 {
		return nil
	}
	a.entries[i] = nil
	a.free = append(a.free, i)
	a.live--
	return r
}

// drain removes every live entry, each exactly once.
func (a *arena) drain() []*Resource {
	out := make([]*Resource, 0, a.live)
	for _, r := range a.entries {
		if r != nil {
			out = append(out, r)
		}
	}
	a.entries = nil
	a.free = nil
	a.live = 0
	return out
}
