package reader

import (
	"time"

	"github.com/ugparu/vp9parser/utils/logger"
)

// offsetHandler maps container timestamps onto a timeline that starts at zero and never
// moves backwards. A backwards jump is stitched on after the last timestamp.
type offsetHandler struct {
	started      bool
	last         time.Duration
	lastDuration time.Duration
	offset       time.Duration
}

func (oh *offsetHandler) apply(ts time.Duration) time.Duration {
	if !oh.started {
		oh.started = true
		oh.offset = -ts
		return 0
	}

	out := ts + oh.offset
	switch {
	case out < oh.last:
		logger.Warningf("READER", "Timestamp %v jumps back from %v, rebasing", out, oh.last)
		oh.offset = oh.last + oh.lastDuration - ts
		out = oh.last + oh.lastDuration
	case out > oh.last:
		oh.lastDuration = out - oh.last
	}
	oh.last = out
	return out
}
