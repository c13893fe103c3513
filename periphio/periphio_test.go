package periphio

import (
	"testing"

	"github.com/SjB/mcp23017"
	"github.com/SjB/mcp23017/keypad"
	"github.com/kidoman/embd"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

var _ keypad.InterruptPin = (*Pin)(nil)

func TestBusRegisterAccess(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x20, W: []byte{0x13}, R: []byte{0xfd}},
			{Addr: 0x20, W: []byte{0x12, 0xfe}},
			{Addr: 0x20, W: []byte{0x10}, R: []byte{0x12, 0x34}},
			{Addr: 0x20, W: []byte{0x06, 0xff, 0x00}},
			{Addr: 0x20, W: []byte{0x0c, 0x01, 0x02}},
		},
		DontPanic: true,
	}
	bus := NewBus(pb)

	if b, err := bus.ReadByteFromReg(0x20, 0x13); err != nil || b != 0xfd {
		t.Errorf("ReadByteFromReg = %#02x, %v, want 0xfd", b, err)
	}
	if err := bus.WriteByteToReg(0x20, 0x12, 0xfe); err != nil {
		t.Errorf("WriteByteToReg: %v", err)
	}
	if w, err := bus.ReadWordFromReg(0x20, 0x10); err != nil || w != 0x1234 {
		t.Errorf("ReadWordFromReg = %#04x, %v, want 0x1234", w, err)
	}
	if err := bus.WriteWordToReg(0x20, 0x06, 0xff00); err != nil {
		t.Errorf("WriteWordToReg: %v", err)
	}
	if err := bus.WriteToReg(0x20, 0x0c, []byte{0x01, 0x02}); err != nil {
		t.Errorf("WriteToReg: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestBusDrivesMCP23017(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x21, W: []byte{mcp23017.GPIO, 0xef}},
			{Addr: 0x21, W: []byte{mcp23017.GPIO + 1}, R: []byte{0x7f}},
		},
		DontPanic: true,
	}
	dev := mcp23017.New(NewBus(pb), 0x21)
	if err := dev.WritePort(mcp23017.PortA, 0xef); err != nil {
		t.Fatal(err)
	}
	if b, err := dev.ReadPort(mcp23017.PortB); err != nil || b != 0x7f {
		t.Errorf("ReadPort = %#02x, %v, want 0x7f", b, err)
	}
	if err := pb.Close(); err != nil {
		t.Errorf("playback: %v", err)
	}
}

func TestBusReportsMismatch(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x20, W: []byte{0x00, 0x00}}},
		DontPanic: true,
	}
	if err := NewBus(pb).WriteByteToReg(0x20, 0x01, 0xff); err == nil {
		t.Error("WriteByteToReg with unexpected register succeeded")
	}
}

func TestPin(t *testing.T) {
	gp := &gpiotest.Pin{N: "GPIO17", Num: 17}
	p := NewPin(gp)

	if err := p.PullUp(); err != nil {
		t.Fatal(err)
	}
	if gp.P != gpio.PullUp {
		t.Errorf("pull = %v, want PullUp", gp.P)
	}
	if err := p.SetDirection(embd.In); err != nil {
		t.Fatal(err)
	}
	if gp.P != gpio.PullUp {
		t.Errorf("pull after SetDirection(In) = %v, want PullUp kept", gp.P)
	}

	gp.L = gpio.Low
	if v, err := p.Read(); err != nil || v != embd.Low {
		t.Errorf("Read() = %d, %v, want Low", v, err)
	}
	gp.L = gpio.High
	if v, err := p.Read(); err != nil || v != embd.High {
		t.Errorf("Read() = %d, %v, want High", v, err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
