package auth

import "github.com/khanghh/admin-portal/params"

// DigitBoxes models a row of single digit inputs that together form one
// verification code. Focus is the index of the box that should receive
// the cursor on the next render.
type DigitBoxes struct {
	Digits [params.DigitCodeLength]string
	Focus  int
}

// Input applies value typed or pasted into box i. A multi character value
// in the first box is treated as a paste and spread across all boxes.
func (b *DigitBoxes) Input(i int, value string) {
	if i < 0 || i >= len(b.Digits) {
		return
	}
	digits := NormalizeDigitCode(value)
	if i == 0 && len(digits) > 1 {
		b.paste(digits)
		return
	}
	if len(value) > 0 && digits == "" {
		return
	}
	if digits == "" {
		b.Digits[i] = ""
		b.Focus = i
		return
	}
	b.Digits[i] = digits[len(digits)-1:]
	if i < len(b.Digits)-1 {
		b.Focus = i + 1
	} else {
		b.Focus = i
	}
}

func (b *DigitBoxes) paste(digits string) {
	for i := range b.Digits {
		b.Digits[i] = ""
	}
	for i := 0; i < len(digits) && i < len(b.Digits); i++ {
		b.Digits[i] = digits[i : i+1]
	}
	b.Focus = b.firstEmpty()
}

// firstEmpty returns the index of the first empty box, or the last box
// when all are filled.
func (b *DigitBoxes) firstEmpty() int {
	for i, d := range b.Digits {
		if d == "" {
			return i
		}
	}
	return len(b.Digits) - 1
}

// Backspace handles a backspace key press in box i. The rendered form
// submits all boxes at once, so only a scripted client drives this.
func (b *DigitBoxes) Backspace(i int) {
	if i < 0 || i >= len(b.Digits) {
		return
	}
	if b.Digits[i] != "" {
		b.Digits[i] = ""
		b.Focus = i
		return
	}
	if i > 0 {
		b.Focus = i - 1
	}
}

// Fill replaces all boxes with values as submitted by the form, in order.
func (b *DigitBoxes) Fill(values []string) {
	b.Clear()
	for i, v := range values {
		if i >= len(b.Digits) {
			break
		}
		if i == 0 && len(NormalizeDigitCode(v)) > 1 {
			b.paste(NormalizeDigitCode(v))
			return
		}
		b.Input(i, v)
	}
	b.Focus = b.firstEmpty()
}

func (b *DigitBoxes) Code() string {
	code := ""
	for _, d := range b.Digits {
		code += d
	}
	return code
}

func (b *DigitBoxes) Complete() bool {
	return IsCompleteCode(b.Code())
}

func (b *DigitBoxes) Clear() {
	for i := range b.Digits {
		b.Digits[i] = ""
	}
	b.Focus = 0
}
