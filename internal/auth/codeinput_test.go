package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigitBoxesTyping(t *testing.T) {
	var b DigitBoxes
	for i, c := range "123456" {
		b.Input(i, string(c))
	}
	assert.Equal(t, "123456", b.Code())
	assert.True(t, b.Complete())
	assert.Equal(t, 5, b.Focus)
}

func TestDigitBoxesPasteMatchesTyping(t *testing.T) {
	var typed, pasted DigitBoxes
	for i, c := range "908172" {
		typed.Input(i, string(c))
	}
	pasted.Input(0, "908172")
	assert.Equal(t, typed.Digits, pasted.Digits)
	assert.Equal(t, 5, pasted.Focus)

	var filled DigitBoxes
	filled.Fill([]string{"908172", "", "", "", "", ""})
	assert.Equal(t, typed.Digits, filled.Digits)
	assert.Equal(t, 5, filled.Focus)
}

func TestDigitBoxesIgnoresNonDigits(t *testing.T) {
	var b DigitBoxes
	b.Input(0, "7")
	b.Input(1, "x")
	assert.Equal(t, "7", b.Code())
	assert.Equal(t, 1, b.Focus)

	b.Input(0, "12ab34567")
	assert.Equal(t, "123456", b.Code())
}

func TestDigitBoxesBackspace(t *testing.T) {
	var b DigitBoxes
	b.Input(0, "1")
	b.Input(1, "2")

	b.Backspace(2)
	assert.Equal(t, 1, b.Focus)
	assert.Equal(t, "12", b.Code())

	b.Backspace(1)
	assert.Equal(t, "1", b.Code())
	assert.Equal(t, 1, b.Focus)

	b.Clear()
	assert.Equal(t, "", b.Code())
	assert.Equal(t, 0, b.Focus)
}

func TestDigitBoxesPartialFill(t *testing.T) {
	var b DigitBoxes
	b.Fill([]string{"1", "2", "", "4"})
	assert.False(t, b.Complete())
	assert.Equal(t, 2, b.Focus)
}
