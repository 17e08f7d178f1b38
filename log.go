package recordkit

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var _logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	_logger.Store(&nop)
}

// SetLogger installs the logger used for debug events (descriptor resolution,
// codec registration, rejected payloads). The default discards everything.
func SetLogger(l zerolog.Logger) { _logger.Store(&l) }

func log() *zerolog.Logger { return _logger.Load() }
