package vkng

import (
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"

	"github.com/jnkdev/vkprog/gpu"
)

func messengerOptions(handler gpu.DebugHandler) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityVerbose | ext_debug_utils.SeverityInfo |
			ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityError,
		MessageType: ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			message := ""
			if data != nil {
				message = data.Message
			}
			return handler(gpu.DebugSeverity(severity), gpu.DebugMessageType(msgType), message)
		},
	}
}
