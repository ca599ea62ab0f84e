package text_display

func NewMockTextDisplay(opt *TextDisplayConfig) *TextDisplay {
	dev := new(MockDevicer)
	display, err := NewTextDisplay(opt)
	if err != nil {
		panic(err)
	}
	display.dev = dev
	return display
}

type MockDevicer struct{}

func (self *MockDevicer) Clear()                   {}
func (self *MockDevicer) CursorYX(y, x uint8) bool { return true }
func (self *MockDevicer) Write(b []byte)           {}
