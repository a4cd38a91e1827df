package protocol

import "encoding/json"

// Constructors for every command. They exist so that callers never build a
// message with a field the command does not use.

func AddWindow(url string, arg json.RawMessage) Message {
	return Message{Command: CmdAddWindow, URL: url, Arg: arg}
}

func Close(confirm bool) Message {
	return Message{Command: CmdClose, Confirm: Flag(confirm)}
}

func Focus() Message      { return Message{Command: CmdFocus} }
func Maximize() Message   { return Message{Command: CmdMaximize} }
func Minimize() Message   { return Message{Command: CmdMinimize} }
func Unminimize() Message { return Message{Command: CmdUnminimize} }
func Restore() Message    { return Message{Command: CmdRestore} }

func SetFixedPosition(fixed bool) Message {
	return Message{Command: CmdSetFixedPosition, Fixed: Flag(fixed)}
}

func SetFixedSize(fixed bool) Message {
	return Message{Command: CmdSetFixedSize, Fixed: Flag(fixed)}
}

func SetEnabled(enabled bool) Message {
	return Message{Command: CmdSetEnabled, Enabled: Flag(enabled)}
}

func SetConfirm(requires bool) Message {
	return Message{Command: CmdSetConfirm, RequiresConfirm: Flag(requires)}
}

func SetSize(w, h int) Message {
	return Message{Command: CmdSetSize, W: w, H: h}
}

func SetPosition(x, y int) Message {
	return Message{Command: CmdSetPosition, X: x, Y: y}
}

func SetTitle(title string) Message {
	return Message{Command: CmdSetTitle, Title: title}
}

func SetIcon(icon string) Message {
	return Message{Command: CmdSetIcon, Icon: icon}
}

func DialogReturn(arg json.RawMessage) Message {
	return Message{Command: CmdDialogReturn, Arg: nullIfEmpty(arg)}
}

func Broadcast(arg json.RawMessage) Message {
	return Message{Command: CmdBroadcast, Arg: nullIfEmpty(arg)}
}

func SetWindowArg(arg json.RawMessage) Message {
	return Message{Command: CmdSetWindowArg, Arg: nullIfEmpty(arg)}
}

func CloseConfirm() Message { return Message{Command: CmdCloseConfirm} }

func nullIfEmpty(arg json.RawMessage) json.RawMessage {
	if len(arg) == 0 {
		return json.RawMessage("null")
	}
	return arg
}
