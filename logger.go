package imgkit

import (
	"log/slog"
	"sync/atomic"
)

// silent is installed until SetLogger is called. Its handler reports every
// level as disabled, so log calls in decoders and filters cost a load and a
// branch.
var silent = slog.New(slog.DiscardHandler)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger routes diagnostics from imgkit, png, codec and filter to l.
// A nil l silences them again. It may be called while images are being
// decoded or filtered.
//
// Debug records describe one operation: a file loaded or saved, a PNG
// stream decoded or encoded, a pipeline folded or a quantizer falling back
// to dithering. Warn records report ancillary PNG chunks that were dropped
// or ignored because they were damaged or misplaced.
//
//	imgkit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//		Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}
