package xid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
)

// New returns an id of the form prefix-<unix ms>-<random base36>.
func New(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	n := binary.BigEndian.Uint64(buf)
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), strconv.FormatUint(n, 36))
}
