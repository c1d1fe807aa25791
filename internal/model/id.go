package model

import (
	"strconv"
	"sync"
	"time"
)

var idMu sync.Mutex
var lastID int64

// NewItemID returns a creation-time monotonic token used as the unique
// identifier of repeatable section items. Tokens from the same process are
// strictly increasing even when the clock does not advance between calls.
func NewItemID() string {
	idMu.Lock()
	defer idMu.Unlock()
	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return strconv.FormatInt(now, 10)
}
