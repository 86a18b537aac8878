// Package randutil provides small randomized helpers used by test fixtures
// throughout the tracker.
package randutil

import (
	"fmt"
	"math/rand"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

// Text returns n random alphanumeric bytes.
func Text(n uint64) []byte {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return b
}

// IP returns a random IPv4 address string.
func IP() string {
	return fmt.Sprintf("%d.%d.%d.%d", rand.Intn(256), rand.Intn(256), rand.Intn(256), rand.Intn(256))
}

// Port returns a random ephemeral port number.
func Port() int {
	return 1024 + rand.Intn(64511)
}

// ShuffleInt64s shuffles s in place.
func ShuffleInt64s(s []int64) {
	rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
