package sim

import (
	"log"
)

// LogHookBase provides the logger of hooks that record what they observe.
type LogHookBase struct {
	*log.Logger
}
