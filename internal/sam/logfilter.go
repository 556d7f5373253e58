package sam

import (
	"strings"

	"github.com/cfusterbarcelo/SAMJ/internal/backend"
)

// contourMarker starts the bulk contour dump the backend prints after each
// inference. Everything from the marker on is per-pixel noise.
const contourMarker = "contours_x"

// FilterDebugText wraps an info sink so that backend diagnostic lines
// carrying a contour dump are forwarded truncated to the text before the
// marker, keeping the informative prefix and dropping the payload. Lines
// without the marker pass through unchanged.
func FilterDebugText(sink func(text string)) backend.DebugSink {
	return func(text string) {
		if idx := strings.Index(text, contourMarker); idx >= 0 {
			sink(text[:idx])
			return
		}
		sink(text)
	}
}
