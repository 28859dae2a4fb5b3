package avlmap

import "fmt"

// DiffIter invokes the given callback, in ascending key order, for every
// entry that differs between m and old. Callback invocation with
// added==removed==false signifies entries whose values have changed. The
// iteration will stop if the callback returns keepGoing==false or an
// error. A nil old is treated as an empty map.
//
// Neither map is locked while the callback runs: each map's entries are
// copied under its own lock, one map at a time, and the copies are
// compared afterwards. The two copies are therefore not taken atomically
// with respect to each other.
func (m *Map[K, V]) DiffIter(
	old *Map[K, V],
	f func(added, removed bool, key K, addedValue, removedValue V) (keepGoing bool, err error),
) error {
	var oldEntries []entry[K, V]
	if old != nil {
		oldEntries = old.snapshot()
	}
	newEntries := m.snapshot()
	var zero V
	i, j := 0, 0
	for i < len(oldEntries) || j < len(newEntries) {
		var keepGoing bool
		var err error
		switch {
		case j == len(newEntries):
			o := oldEntries[i]
			i++
			keepGoing, err = f(false, true, o.Key, zero, o.Value)
		case i == len(oldEntries):
			n := newEntries[j]
			j++
			keepGoing, err = f(true, false, n.Key, n.Value, zero)
		default:
			o, n := oldEntries[i], newEntries[j]
			cmp := m.keyOrder(o.Key, n.Key)
			if cmp < 0 {
				i++
				keepGoing, err = f(false, true, o.Key, zero, o.Value)
			} else if cmp > 0 {
				j++
				keepGoing, err = f(true, false, n.Key, n.Value, zero)
			} else {
				i++
				j++
				if m.valuesEqual(o.Value, n.Value) {
					continue
				}
				keepGoing, err = f(false, false, n.Key, n.Value, o.Value)
			}
		}
		if err != nil {
			return fmt.Errorf("callback: %w", err)
		}
		if !keepGoing {
			return nil
		}
	}
	return nil
}

// snapshot copies the entries out from under the lock.
func (m *Map[K, V]) snapshot() []entry[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("snapshot")
	return m.toSlice()
}
