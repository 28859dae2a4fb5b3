package avlmap

import (
	"encoding/base64"
	"fmt"

	"github.com/minio/blake2b-simd"
)

// Digest returns a content hash of the map's entries. Maps holding equal
// entries have equal digests, regardless of insertion order or tree shape.
func (m *Map[K, V]) Digest() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.op("digest")
	cacheKey := digestKey{m.id, m.version}
	if m.digestCache != nil {
		if digest, ok := m.digestCache.Get(cacheKey); ok {
			return digest.(string), nil
		}
	}
	encoded, err := encodeEntries(m.root, m.marshal)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	hashBytes := blake2b.Sum256(encoded)
	digest := base64.RawURLEncoding.EncodeToString(hashBytes[:])
	if m.digestCache != nil {
		m.digestCache.Add(cacheKey, digest)
	}
	return digest, nil
}
