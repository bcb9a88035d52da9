package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Domain-specific hash types
type (
	DatasetHash Hash
	ResultHash  Hash
)

func (h DatasetHash) String() string { return Hash(h).String() }
func (h ResultHash) String() string  { return Hash(h).String() }

// ComputeResultHash hashes the canonical JSON encoding of v. encoding/json
// sorts map keys, so equal values always produce equal hashes.
func ComputeResultHash(v interface{}) (ResultHash, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return ResultHash(NewHash(data)), nil
}
