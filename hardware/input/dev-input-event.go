package input

import (
	"io"
	"os"

	"github.com/temoto/inputevent-go"
	"github.com/thenoizz/dotmenu/internal/types"
)

const DevInputEventTag = "dev-input-event"

// linux/input-event-codes.h
const (
	evKey uint16 = 0x01

	keyCodeEnter uint16 = 28
	keyCodeUp    uint16 = 103
	keyCodeLeft  uint16 = 105
	keyCodeRight uint16 = 106
	keyCodeDown  uint16 = 108
)

type DevInputEventSource struct {
	f io.ReadCloser
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }

func NewDevInputEventSource(device string) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return &DevInputEventSource{f: f}, nil
}

func (self *DevInputEventSource) Read() (types.InputEvent, error) {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			return types.InputEvent{}, err
		}
		if ie.Type != evKey {
			continue
		}
		key := mapKeyCode(ie.Code)
		if key == types.KeyInvalid {
			continue
		}
		ev := types.InputEvent{
			Source: DevInputEventTag,
			Key:    key,
			Up:     ie.Value == int32(inputevent.KeyStateUp),
		}
		return ev, nil
	}
}

func mapKeyCode(code uint16) types.InputKey {
	switch code {
	case keyCodeUp:
		return types.KeyUp
	case keyCodeDown:
		return types.KeyDown
	case keyCodeLeft:
		return types.KeyLeft
	case keyCodeRight:
		return types.KeyRight
	case keyCodeEnter:
		return types.KeySelect
	}
	return types.KeyInvalid
}
