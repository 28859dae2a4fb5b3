package avlmap

import lru "github.com/hashicorp/golang-lru"

// DigestCache remembers digests already computed for a particular version
// of a particular map. Every mutation moves a map to a new version, so
// entries never go stale, they just stop being asked for.
type DigestCache interface {
	// Add records the digest for the given map version.
	Add(key, value interface{})
	// Get retrieves the digest for the given map version, if cached.
	Get(key interface{}) (value interface{}, ok bool)
}

// NewDigestCache creates a new LRU-based digest cache of the given size.
// One cache can be shared by any number of maps.
func NewDigestCache(size int) DigestCache {
	cache, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}
	return cache
}

type digestKey struct {
	mapID   uint64
	version uint64
}
