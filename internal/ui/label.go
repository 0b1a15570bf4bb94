// Package ui holds the on-screen widgets the game updates.
package ui

import (
	"fmt"
	"io"
)

// Label displays a line of text. Labels are only touched from the game loop.
type Label interface {
	SetText(text string)
	Text() string
}

// TextLabel is a label drawn at a fixed terminal position.
// Coordinates are 1-based terminal positions.
type TextLabel struct {
	X      int
	Y      int
	Prefix string
	value  string
}

// Compile-time check that TextLabel implements Label.
var _ Label = (*TextLabel)(nil)

// NewTextLabel creates a label at (x, y) rendered as prefix + text.
func NewTextLabel(x, y int, prefix string) *TextLabel {
	return &TextLabel{X: x, Y: y, Prefix: prefix}
}

// SetText implements Label.
func (l *TextLabel) SetText(text string) {
	l.value = text
}

// Text implements Label.
func (l *TextLabel) Text() string {
	return l.value
}

// Draw writes the label at its position using ANSI cursor movement.
func (l *TextLabel) Draw(w io.Writer) error {
	if l.value == "" {
		return nil
	}
	x := l.X
	y := l.Y
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	if _, err := fmt.Fprintf(w, "\033[%d;%dH%s%s", y, x, l.Prefix, l.value); err != nil {
		return err
	}
	return nil
}
