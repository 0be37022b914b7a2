package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keySchema is mixed into every derived key. Bump it when the cached payloads
// change shape so stale entries are never read back.
const keySchema = "yamlviz/1"

// hashKey returns prefix:sha256(schema, parts...). Parts are JSON encoded so
// option structs hash by value.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	h.Write([]byte(keySchema))
	for _, p := range parts {
		data, err := json.Marshal(p)
		if err != nil {
			data = []byte(err.Error())
		}
		h.Write([]byte{0})
		h.Write(data)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString is Hash for text input.
func HashString(s string) string { return Hash([]byte(s)) }
