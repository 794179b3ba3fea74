package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keySchema is mixed into every hashed key. Bump it when a cached payload
// changes shape.
const keySchema = 1

// hashKey returns "kind:<hex sha256>" over the schema version and the JSON
// encoding of each part.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(keySchema)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of an input file's bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
