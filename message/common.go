package message

import (
	"math/rand"
	"sync/atomic"
	"time"
)

var currentMessageID int32

func init() {
	rand.Seed(time.Now().UnixNano())
	currentMessageID = int32(rand.Intn(65535))
}

// GenerateMessageID returns the next message ID of a process-wide sequence
// starting at a random point.
func GenerateMessageID() uint16 {
	for {
		cur := atomic.LoadInt32(&currentMessageID)
		next := cur + 1
		if cur >= 65535 {
			next = 1
		}
		if atomic.CompareAndSwapInt32(&currentMessageID, cur, next) {
			return uint16(next)
		}
	}
}

// GenerateToken returns l random bytes. l is clamped to MaxTokenLength.
func GenerateToken(l int) []byte {
	if l > MaxTokenLength {
		l = MaxTokenLength
	}
	if l <= 0 {
		return nil
	}
	token := make([]byte, l)
	rand.Read(token)
	return token
}
