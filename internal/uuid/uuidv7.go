// Package uuid generates time-ordered UUIDv7 strings for primary keys.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 for the current time. The millisecond timestamp
// prefix keeps freshly inserted rows roughly index-ordered, which plain
// random v4 IDs do not.
//
// Layout per RFC 4122:
//   - 48 bits: Unix milliseconds
//   - 4 bits: version (0111)
//   - 12 bits: random
//   - 2 bits: variant (10)
//   - 62 bits: random
func New() string {
	var uuid [16]byte

	timestamp := uint64(time.Now().UnixMilli())
	binary.BigEndian.PutUint64(uuid[0:8], timestamp<<16)

	if _, err := rand.Read(uuid[6:]); err != nil {
		// No randomness available; a v4 from the library still yields a
		// usable unique key.
		return googleuuid.New().String()
	}

	// Stamp version and variant bits over the random data.
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return formatUUID(uuid)
}

func formatUUID(uuid [16]byte) string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(uuid[0:4]),
		binary.BigEndian.Uint16(uuid[4:6]),
		binary.BigEndian.Uint16(uuid[6:8]),
		binary.BigEndian.Uint16(uuid[8:10]),
		uuid[10:16],
	)
}

// Parse canonicalizes a UUID string, rejecting malformed input.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
