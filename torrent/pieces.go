package torrent

import "encoding/hex"

// Pieces is the concatenation of 20-byte SHA-1 piece digests.
type Pieces []byte

// Hex returns the hex encoding of p, for logging and debugging.
func (p Pieces) Hex() string {
	return hex.EncodeToString(p)
}
