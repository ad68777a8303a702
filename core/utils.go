package core

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd returns the current working directory, "." on failure.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

var (
	tokenMu   sync.Mutex
	lastToken int64
)

// NewToken returns a timestamp-derived opaque id, unique within the process
// even when issued on the same tick.
func NewToken() string {
	tokenMu.Lock()
	defer tokenMu.Unlock()
	n := time.Now().UnixNano()
	if n <= lastToken {
		n = lastToken + 1
	}
	lastToken = n
	return strconv.FormatInt(n, 10)
}
