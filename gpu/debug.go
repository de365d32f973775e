package gpu

import "github.com/jnkdev/vkprog/logs"

// LayerTag tags messages that come from validation layers.
const LayerTag = "VkLayer"

// DebugChannel forwards runtime diagnostics to a logger.
type DebugChannel struct {
	Logger logs.Logger
}

// Handle is a DebugHandler. It never asks the runtime to abort.
func (c DebugChannel) Handle(sev DebugSeverity, _ DebugMessageType, message string) bool {
	if c.Logger == nil {
		return false
	}
	c.Logger.Emit(debugSeverity(sev), LayerTag, "%s", message)
	return false
}

func debugSeverity(sev DebugSeverity) logs.Severity {
	switch {
	case sev&DebugError != 0:
		return logs.Error
	case sev&DebugWarning != 0:
		return logs.Warning
	case sev&DebugInfo != 0:
		return logs.Info
	default:
		return logs.Verbose
	}
}
