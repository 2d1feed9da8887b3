package input

import (
	"github.com/gdamore/tcell/v2"
)

// KeyTable maps terminal keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, Esc)
	Keys map[tcell.Key]IntentType

	// Printable rune bindings
	Runes map[rune]IntentType
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Keys: map[tcell.Key]IntentType{
			tcell.KeyCtrlC:  IntentQuit,
			tcell.KeyEscape: IntentQuit,
			tcell.KeyLeft:   IntentPaddleLeft,
			tcell.KeyRight:  IntentPaddleRight,
		},
		Runes: map[rune]IntentType{
			'q': IntentQuit,
			'r': IntentRestart,
			'm': IntentToggleMute,
			'h': IntentPaddleLeft,
			'l': IntentPaddleRight,
		},
	}
}

// Merge overlays o onto kt; entries in o win and IntentNone removes a binding
func (kt *KeyTable) Merge(o *KeyTable) {
	if o == nil {
		return
	}
	for k, v := range o.Keys {
		if v == IntentNone {
			delete(kt.Keys, k)
		} else {
			kt.Keys[k] = v
		}
	}
	for r, v := range o.Runes {
		if v == IntentNone {
			delete(kt.Runes, r)
		} else {
			kt.Runes[r] = v
		}
	}
}

// Translate converts a terminal event into an intent
// origin is the screen position of the playfield's top-left cell
func (kt *KeyTable) Translate(ev tcell.Event, originX, originY int) Intent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyRune {
			return Intent{Type: kt.Runes[ev.Rune()]}
		}
		return Intent{Type: kt.Keys[ev.Key()]}

	case *tcell.EventMouse:
		x, y := ev.Position()
		return Intent{Type: IntentPointer, X: x - originX, Y: y - originY}

	case *tcell.EventResize:
		w, h := ev.Size()
		return Intent{Type: IntentResize, X: w, Y: h}
	}
	return Intent{}
}
