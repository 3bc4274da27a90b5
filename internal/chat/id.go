package chat

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	idMu  sync.Mutex
	idRng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NewID returns a message ID unique within a chat: millisecond timestamp
// plus a random suffix. Collisions are negligible, not impossible.
func NewID() string {
	idMu.Lock()
	n := idRng.Intn(10000)
	idMu.Unlock()
	return fmt.Sprintf("%d-%04d", time.Now().UnixMilli(), n)
}
