package testutil

import (
	"os"

	"github.com/phuslu/log"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/logging"
)

// TestLogLevel is the level of the process logger in every test binary that imports testutil.
// Services log each mutation at debug and info, which would otherwise flood test output.
const TestLogLevel = "error"

func init() {
	log.DefaultLogger = logging.New(config.LoggingConfig{Level: TestLogLevel, Format: "console"}, os.Stderr)
}
