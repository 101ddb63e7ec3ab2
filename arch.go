package fwdeforge

import (
	"fmt"
	"strconv"
	"strings"
)

// Architecture is the target word size recorded at header offset 4. The
// tagger never checks it against the payload's machine code.
type Architecture uint8

const (
	Arch64 Architecture = 1
	Arch32 Architecture = 2
	Arch16 Architecture = 3
	Arch8  Architecture = 4
)

func (a Architecture) Valid() bool {
	return a >= Arch64 && a <= Arch8
}

// Bits returns the word size in bits, or 0 for an unknown code.
func (a Architecture) Bits() int {
	switch a {
	case Arch64:
		return 64
	case Arch32:
		return 32
	case Arch16:
		return 16
	case Arch8:
		return 8
	}
	return 0
}

func (a Architecture) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Architecture(%d)", uint8(a))
	}
	return strconv.Itoa(a.Bits()) + "-bit"
}

// ParseArchitecture accepts either a header code ("1".."4") or a word size
// ("64", "32", "16", "8", optionally suffixed with "-bit").
func ParseArchitecture(s string) (Architecture, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "-bit")
	switch s {
	case "1", "64":
		return Arch64, nil
	case "2", "32":
		return Arch32, nil
	case "3", "16":
		return Arch16, nil
	case "4", "8":
		return Arch8, nil
	}
	return 0, fmt.Errorf("fwdeforge: parse architecture %q: %w", s, ErrBadArchitecture)
}
