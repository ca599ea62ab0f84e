// Package types holds small shared types to avoid import cycles.
package types

import "fmt"

type EventKind uint8

const (
	EventInvalid EventKind = iota
	EventInput
	EventTime
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventInvalid:
		return "Invalid"
	case EventInput:
		return "Input"
	case EventTime:
		return "Time"
	case EventStop:
		return "Stop"
	}
	return fmt.Sprintf("?%d", uint8(k))
}

type Event struct {
	Input InputEvent
	Kind  EventKind
}

func (e *Event) String() string {
	inner := ""
	if e.Kind == EventInput {
		inner = fmt.Sprintf(" source=%s key=%v up=%t", e.Input.Source, e.Input.Key, e.Input.Up)
	}
	return fmt.Sprintf("Event(%s%s)", e.Kind.String(), inner)
}

type InputKey uint16

// Logical joystick directions, independent of the physical source.
const (
	KeyInvalid InputKey = 0
	KeyUp      InputKey = iota + 0x100
	KeyDown
	KeyLeft
	KeyRight
	KeySelect
)

func (k InputKey) String() string {
	switch k {
	case KeyInvalid:
		return "invalid"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeySelect:
		return "select"
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

type InputEvent struct {
	Source string
	Key    InputKey
	Up     bool
}

func (e *InputEvent) IsZero() bool { return e.Key == KeyInvalid }

// Press reports a key-down edge from any source.
func (e *InputEvent) Press() bool { return !e.Up && e.Key != KeyInvalid }
