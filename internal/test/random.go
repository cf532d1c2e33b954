package test

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const hexDigits = "0123456789abcdefABCDEF"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomAddress returns a well-formed 0x-prefixed account address in mixed case.
func RandomAddress() string {
	var b strings.Builder
	b.Grow(42)
	b.WriteString("0x")
	for range 40 {
		b.WriteByte(hexDigits[randomIntn(len(hexDigits))])
	}
	return b.String()
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
