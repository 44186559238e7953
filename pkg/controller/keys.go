package controller

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// tcell reports printable keys as KeyRune, so each rune we bind gets its own synthetic Key
// above tcell's range. That lets a single map[tcell.Key]KeyEvent hold every binding.
const runeKeyBase tcell.Key = 1 << 12

func runeKey(r rune) tcell.Key {
	return runeKeyBase + tcell.Key(r)
}

// Keys bound in the main view.
var (
	KeyA      = runeKey('a')
	KeyN      = runeKey('n')
	KeyE      = runeKey('e')
	KeyI      = runeKey('i')
	KeyM      = runeKey('m')
	KeyD      = runeKey('d')
	KeyQ      = runeKey('q')
	KeySpace  = runeKey(' ')
	KeySlash  = runeKey('/')
	KeyShiftJ = runeKey('J')
	KeyShiftK = runeKey('K')
	KeyShiftL = runeKey('L')
	KeyShiftR = runeKey('R')
	KeyShiftX = runeKey('X')
	KeyShiftT = runeKey('T')
	Key1      = runeKey('1')
	Key2      = runeKey('2')
	Key3      = runeKey('3')
	Key4      = runeKey('4')
	Key5      = runeKey('5')
	Key6      = runeKey('6')
)

var (
	runeNames = map[rune]string{
		' ': "Space",
	}
	keysOnce sync.Once
)

// initKeys registers names for the synthetic keys so they can be listed with tcell.KeyNames.
func initKeys() {
	keysOnce.Do(func() {
		for _, r := range "aneimdq/JKLRXT123456 " {
			name, ok := runeNames[r]
			if !ok {
				name = string(r)
			}

			tcell.KeyNames[runeKey(r)] = name
		}
	})
}

// AsKey returns the Key to look up in an event map for the given event.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}

	if r := evt.Rune(); r > 0 && r < 128 {
		return runeKey(r)
	}

	return tcell.KeyRune
}
