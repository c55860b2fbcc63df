package service

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders score card values for a locale.
type Formatter struct {
	printer *message.Printer
}

func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

func DefaultFormatter() *Formatter {
	return NewFormatter(language.Korean)
}

// Score formats to two decimals.
func (f *Formatter) Score(v float64) string {
	return f.printer.Sprintf("%.2f", v)
}

// Count formats with digit grouping and the 건 suffix.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d건", n)
}
