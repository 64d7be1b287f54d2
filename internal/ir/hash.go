package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// HashLength is the number of hex characters kept from the SHA-256 digest.
const HashLength = 16

// GenesisHash is the PrevHash of the first record in every chain.
var GenesisHash = strings.Repeat("0", HashLength)

var hashPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// RecordHash computes the chain hash for a record.
// Format: hex(SHA256(category + length + prevHash + timestamp))[:16]
//
// The fields are concatenated without separators. Category names never end in
// a digit, so category and length cannot run together ambiguously.
func RecordHash(category Category, length int, prevHash string, at time.Time) string {
	h := sha256.New()
	h.Write([]byte(category))
	h.Write([]byte(strconv.Itoa(length)))
	h.Write([]byte(prevHash))
	h.Write([]byte(FormatTimestamp(at)))
	return hex.EncodeToString(h.Sum(nil))[:HashLength]
}

// ValidHash reports whether s has the shape of a chain hash.
func ValidHash(s string) bool {
	return hashPattern.MatchString(s)
}
