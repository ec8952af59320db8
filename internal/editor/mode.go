package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidMode = errors.New("mode must be 0, 1, or 2")

// Mode is the value of playerData.permadeathMode.
type Mode int

const (
	ModeNormal          Mode = 0
	ModeSteelSoulModded Mode = 1
	ModeSteelSoul       Mode = 2
)

// Modes lists every mode the editor will write, in menu order.
func Modes() []Mode {
	return []Mode{ModeNormal, ModeSteelSoulModded, ModeSteelSoul}
}

func (m Mode) Valid() bool {
	return m >= ModeNormal && m <= ModeSteelSoul
}

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal mode"
	case ModeSteelSoulModded:
		return "Steel Soul mode (modded - can continue after death)"
	case ModeSteelSoul:
		return "Steel Soul mode (original - permadeath)"
	default:
		return fmt.Sprintf("Unknown mode (%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidMode, s)
	}
	m := Mode(n)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMode, n)
	}
	return m, nil
}
