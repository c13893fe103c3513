package keypad

import "github.com/SjB/mcp23017"

type Config struct {
	// Port driving the columns (outputs).
	ColumnPort mcp23017.Port
	// Port sensing the rows (inputs with pull-ups).
	RowPort mcp23017.Port
	// Clock stamps events. Nil means Ticks.
	Clock Clock
	// ExternalPullUp skips enabling the host pull-up on the interrupt
	// pin, for hosts that cannot set one and boards that fit a resistor.
	ExternalPullUp bool
}

var DefaultConfig = Config{
	ColumnPort: mcp23017.PortA,
	RowPort:    mcp23017.PortB,
	Clock:      Ticks,
}
