// keypaddemo scans a key matrix on an MCP23017 and logs every transition.
//
// Default wiring is the Adafruit NeoKey 5x6: columns on GPA0..GPA5, rows on
// GPB0..GPB4, INTA/INTB mirrored to GPIO_17 of a Raspberry Pi.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/SjB/mcp23017"
	"github.com/SjB/mcp23017/keypad"
	"github.com/SjB/mcp23017/periphio"
	"github.com/golang/glog"
	"github.com/kidoman/embd"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	_ "github.com/kidoman/embd/host/all"
)

var (
	backend  = flag.String("backend", "embd", "bus backend: embd or periph")
	busName  = flag.String("bus", "1", "I2C bus number (embd) or name (periph)")
	addr     = flag.Uint("addr", mcp23017.DefaultAddress, "MCP23017 bus address")
	intPin   = flag.String("int", "GPIO_17", "host pin wired to INT, empty to poll without it")
	rows     = flag.String("rows", "0,1,2,3,4", "row pins on port B")
	cols     = flag.String("cols", "0,1,2,3,4,5", "column pins on port A")
	interval = flag.Duration("interval", 20*time.Millisecond, "scan interval")
	extPull  = flag.Bool("extpullup", false, "INT has a pull-up on the board, leave the host pull-up alone")
)

func parsePins(s string) ([]int, error) {
	var pins []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad pin %q: %w", f, err)
		}
		pins = append(pins, n)
	}
	return pins, nil
}

// conn is an opened backend.
type conn struct {
	bus embd.I2CBus
	irq keypad.InterruptPin
	// hostPullUp reports whether irq can enable its own pull-up. embd's
	// generic pins cannot.
	hostPullUp bool
	cleanup    func()
}

func open() (*conn, error) {
	switch *backend {
	case "embd":
		n, err := strconv.Atoi(*busName)
		if err != nil {
			return nil, fmt.Errorf("embd bus must be a number: %w", err)
		}
		if err := embd.InitI2C(); err != nil {
			return nil, err
		}
		if err := embd.InitGPIO(); err != nil {
			embd.CloseI2C()
			return nil, err
		}
		c := &conn{
			bus: embd.NewI2CBus(byte(n)),
			cleanup: func() {
				embd.CloseGPIO()
				embd.CloseI2C()
			},
		}
		if *intPin == "" {
			return c, nil
		}
		irq, err := embd.NewDigitalPin(*intPin)
		if err != nil {
			c.cleanup()
			return nil, err
		}
		c.irq = irq
		return c, nil

	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		b, err := i2creg.Open(*busName)
		if err != nil {
			return nil, err
		}
		c := &conn{
			bus:        periphio.NewBus(b),
			hostPullUp: true,
			cleanup:    func() { b.Close() },
		}
		if *intPin == "" {
			return c, nil
		}
		p := gpioreg.ByName(*intPin)
		if p == nil {
			c.cleanup()
			return nil, fmt.Errorf("no pin named %q", *intPin)
		}
		c.irq = periphio.NewPin(p)
		return c, nil
	}
	return nil, fmt.Errorf("unknown backend %q", *backend)
}

// scannerConfig leaves the INT pull-up to the board when the host pin
// cannot provide one.
func scannerConfig(hostPullUp, external bool) keypad.Config {
	config := keypad.DefaultConfig
	config.ExternalPullUp = external || !hostPullUp
	if config.ExternalPullUp && !external {
		glog.Warning("host pin has no pull-up, INT needs one on the board")
	}
	return config
}

func main() {
	flag.Parse()

	err := start()
	if err != nil {
		glog.Error(err)
	}
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func start() error {
	rowPins, err := parsePins(*rows)
	if err != nil {
		return err
	}
	colPins, err := parsePins(*cols)
	if err != nil {
		return err
	}

	c, err := open()
	if err != nil {
		return err
	}
	defer c.cleanup()

	dev := mcp23017.New(c.bus, byte(*addr))
	scanner, err := keypad.New(dev, rowPins, colPins, c.irq, scannerConfig(c.hostPullUp, *extPull))
	if err != nil {
		return err
	}
	defer scanner.Close()

	return run(scanner, os.Stdout)
}

func run(scanner *keypad.Scanner, out io.Writer) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	var ev keypad.Event
	for {
		select {
		case <-ticker.C:
			if err := scanner.UpdateQueue(); err != nil {
				glog.Warningf("scan failed: %v", err)
				continue
			}
			for scanner.Events().GetInto(&ev) {
				row, col := scanner.KeyNumberToRowColumn(ev.KeyNumber)
				fmt.Fprintf(out, "%v (row %d, column %d)\n", ev, row, col)
			}
		case <-c:
			return nil
		}
	}
}
