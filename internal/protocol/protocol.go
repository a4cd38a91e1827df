// Package protocol defines the messages exchanged between the window manager
// host and the child surfaces it hosts.
//
// Every message is a JSON object with a "command" discriminator and a flat set
// of optional fields. The same shape travels in both directions; which
// commands are valid depends on the direction.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Command identifies a protocol message.
type Command string

// Child -> host commands.
const (
	CmdAddWindow        Command = "add_window"
	CmdClose            Command = "close"
	CmdFocus            Command = "focus"
	CmdMaximize         Command = "maximize"
	CmdMinimize         Command = "minimize"
	CmdUnminimize       Command = "unminimize"
	CmdRestore          Command = "restore"
	CmdSetFixedPosition Command = "set_fixed_position"
	CmdSetFixedSize     Command = "set_fixed_size"
	CmdSetEnabled       Command = "set_enabled"
	CmdSetConfirm       Command = "set_confirm"
	CmdSetSize          Command = "set_size"
	CmdSetPosition      Command = "set_position"
	CmdSetTitle         Command = "set_title"
	CmdSetIcon          Command = "set_icon"
	CmdDialogReturn     Command = "dialog_return"
	CmdBroadcast        Command = "broadcast"
)

// Host -> child commands. dialog_return and broadcast travel both ways.
const (
	CmdSetWindowArg Command = "set_window_arg"
	CmdCloseConfirm Command = "close_confirm"
)

// Direction reports which side may send a command.
type Direction int

const (
	DirUnknown Direction = iota
	DirToHost
	DirToChild
	DirBoth
)

func (d Direction) String() string {
	switch d {
	case DirToHost:
		return "to_host"
	case DirToChild:
		return "to_child"
	case DirBoth:
		return "both"
	default:
		return "unknown"
	}
}

var directions = map[Command]Direction{
	CmdAddWindow:        DirToHost,
	CmdClose:            DirToHost,
	CmdFocus:            DirToHost,
	CmdMaximize:         DirToHost,
	CmdMinimize:         DirToHost,
	CmdUnminimize:       DirToHost,
	CmdRestore:          DirToHost,
	CmdSetFixedPosition: DirToHost,
	CmdSetFixedSize:     DirToHost,
	CmdSetEnabled:       DirToHost,
	CmdSetConfirm:       DirToHost,
	CmdSetSize:          DirToHost,
	CmdSetPosition:      DirToHost,
	CmdSetTitle:         DirToHost,
	CmdSetIcon:          DirToHost,
	CmdDialogReturn:     DirBoth,
	CmdBroadcast:        DirBoth,
	CmdSetWindowArg:     DirToChild,
	CmdCloseConfirm:     DirToChild,
}

// Direction returns the direction a command travels in.
func (c Command) Direction() Direction {
	return directions[c]
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	_, ok := directions[c]
	return ok
}

// ToHost reports whether a child may send c.
func (c Command) ToHost() bool {
	d := c.Direction()
	return d == DirToHost || d == DirBoth
}

// ToChild reports whether the host may send c.
func (c Command) ToChild() bool {
	d := c.Direction()
	return d == DirToChild || d == DirBoth
}

// Message is a single protocol message. Only the fields relevant to Command
// are meaningful.
type Message struct {
	Command         Command         `json:"command"`
	URL             string          `json:"url,omitempty"`
	Arg             json.RawMessage `json:"arg,omitempty"`
	Confirm         Flag            `json:"confirm,omitempty"`
	Fixed           Flag            `json:"fixed,omitempty"`
	Enabled         Flag            `json:"enabled,omitempty"`
	RequiresConfirm Flag            `json:"requires_confirm,omitempty"`
	W               int             `json:"w,omitempty"`
	H               int             `json:"h,omitempty"`
	X               int             `json:"x,omitempty"`
	Y               int             `json:"y,omitempty"`
	Title           string          `json:"title,omitempty"`
	Icon            string          `json:"icon,omitempty"`
}

// Errors returned by the codec.
var (
	ErrMissingCommand = errors.New("protocol: message has no command")
	ErrEmptyMessage   = errors.New("protocol: empty message")
)

// Encode serializes a message.
func Encode(msg Message) ([]byte, error) {
	if msg.Command == "" {
		return nil, ErrMissingCommand
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", msg.Command, err)
	}
	return b, nil
}

// Decode parses a message. Unknown commands decode successfully; rejecting
// them is the receiver's job.
func Decode(data []byte) (Message, error) {
	var msg Message
	if len(bytes.TrimSpace(data)) == 0 {
		return msg, ErrEmptyMessage
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("protocol: decode: %w", err)
	}
	if msg.Command == "" {
		return Message{}, ErrMissingCommand
	}
	return msg, nil
}

// MarshalArg encodes an opaque argument. A nil value becomes JSON null so the
// field is still carried on the wire.
func MarshalArg(v any) (json.RawMessage, error) {
	if raw, ok := v.(json.RawMessage); ok {
		if raw == nil {
			return json.RawMessage("null"), nil
		}
		return raw, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal arg: %w", err)
	}
	return b, nil
}

// UnmarshalArg decodes an opaque argument into v. A missing or null argument
// leaves v untouched.
func UnmarshalArg(arg json.RawMessage, v any) error {
	if IsNull(arg) {
		return nil
	}
	if err := json.Unmarshal(arg, v); err != nil {
		return fmt.Errorf("protocol: unmarshal arg: %w", err)
	}
	return nil
}

// IsNull reports whether arg is absent or JSON null.
func IsNull(arg json.RawMessage) bool {
	t := bytes.TrimSpace(arg)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func (m Message) String() string {
	return string(m.Command)
}
