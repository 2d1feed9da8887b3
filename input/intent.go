package input

// IntentType discriminates semantic actions produced by frontends
type IntentType uint8

const (
	IntentNone IntentType = iota

	IntentQuit        // q, Ctrl+C, Esc
	IntentRestart     // r
	IntentToggleMute  // m
	IntentPaddleLeft  // h, Left arrow
	IntentPaddleRight // l, Right arrow
	IntentPointer     // Mouse motion, X carries the playfield column
	IntentResize      // Terminal resize
)

var intentNames = map[IntentType]string{
	IntentNone:        "none",
	IntentQuit:        "quit",
	IntentRestart:     "restart",
	IntentToggleMute:  "toggle_mute",
	IntentPaddleLeft:  "paddle_left",
	IntentPaddleRight: "paddle_right",
	IntentPointer:     "pointer",
	IntentResize:      "resize",
}

// String returns the action name used in keymap files
func (t IntentType) String() string {
	if name, ok := intentNames[t]; ok {
		return name
	}
	return "unknown"
}

// intentByName resolves a keymap action name; pointer and resize are not bindable
func intentByName(name string) (IntentType, bool) {
	for t, n := range intentNames {
		if n == name && t != IntentNone && t != IntentPointer && t != IntentResize {
			return t, true
		}
	}
	return IntentNone, false
}

// Intent is one translated input event
type Intent struct {
	Type IntentType
	X, Y int // Pointer position relative to the playfield, or new size on resize
}
