package terminal

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// idSource produces line ids of the form <unix-nanos>-<suffix>. The suffix is
// random; a per-buffer counter keeps ids distinct if the random source fails.
type idSource struct {
	seq uint64
}

func (s *idSource) next(ts time.Time) string {
	s.seq++
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return strconv.FormatInt(ts.UnixNano(), 10) + "-" + strconv.FormatUint(s.seq, 10)
	}
	return strconv.FormatInt(ts.UnixNano(), 10) + "-" + hex.EncodeToString(buf[:]) + strconv.FormatUint(s.seq, 36)
}
