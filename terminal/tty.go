package terminal

import (
	"errors"
	"fmt"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when the animation is asked to run without a tty
var ErrNotTerminal = errors.New("not a terminal")

// RequireTerminal fails unless fd is an interactive terminal
func RequireTerminal(fd uintptr) error {
	if !term.IsTerminal(int(fd)) {
		return fmt.Errorf("fd %d: %w", fd, ErrNotTerminal)
	}
	return nil
}
