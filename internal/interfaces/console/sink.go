package console

import (
	"fmt"

	"templog/internal/application/port"
)

const (
	ansiClearEOL = "\033[K"
)

// Publisher mirrors the live reading onto the terminal, overwriting a
// single status line. Useful on headless dev hosts with the web UI off.
type Publisher struct{}

func NewPublisher() port.Publisher { return &Publisher{} }

func (p *Publisher) Broadcast(text string) {
	fmt.Printf("\rtemp: %s °C%s", text, ansiClearEOL)
}
