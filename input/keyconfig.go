package input

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/breakout/toml"
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// keysByName indexes tcell key names in lower case ("left", "ctrl-c", "esc")
var keysByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

// LoadKeyConfig parses TOML keymap data into a sparse override KeyTable
//
//	[keys]
//	left = "paddle_left"
//	[runes]
//	a = "paddle_left"
//	q = "none"
//
// Returns error on unknown action names, invalid key names, or parse failure
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	raw, err := toml.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}

	kt := &KeyTable{
		Keys:  make(map[tcell.Key]IntentType),
		Runes: make(map[rune]IntentType),
	}

	if section, ok := raw["keys"]; ok {
		m, ok := section.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("section [keys]: expected table, got %T", section)
		}
		for name, val := range m {
			k, ok := keysByName[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("[keys] unknown key name: %q", name)
			}
			intent, err := resolveAction("keys", name, val)
			if err != nil {
				return nil, err
			}
			kt.Keys[k] = intent
		}
	}

	if section, ok := raw["runes"]; ok {
		m, ok := section.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("section [runes]: expected table, got %T", section)
		}
		for name, val := range m {
			r, err := resolveRune(name)
			if err != nil {
				return nil, fmt.Errorf("[runes] key %q: %w", name, err)
			}
			intent, err := resolveAction("runes", name, val)
			if err != nil {
				return nil, err
			}
			kt.Runes[r] = intent
		}
	}

	return kt, nil
}

// resolveRune converts a TOML key string to a rune
// Accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return 0, fmt.Errorf("invalid rune key: %q (expected single character or alias)", s)
}

// resolveAction converts a binding value to an intent, "none" unbinds
func resolveAction(section, key string, val any) (IntentType, error) {
	name, ok := val.(string)
	if !ok {
		return IntentNone, fmt.Errorf("[%s] key %q: value must be string, got %T", section, key, val)
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "none" {
		return IntentNone, nil
	}
	intent, ok := intentByName(name)
	if !ok {
		return IntentNone, fmt.Errorf("[%s] key %q: unknown action: %q", section, key, name)
	}
	return intent, nil
}
