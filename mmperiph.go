// This file is part of MMPeriph.
//
// MMPeriph is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// MMPeriph is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with MMPeriph.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/hardware/peripheral"
	"github.com/jetsetilly/mmperiph/hardware/regmap"
	"github.com/jetsetilly/mmperiph/hardware/transport"
	"github.com/jetsetilly/mmperiph/logger"
	"github.com/jetsetilly/mmperiph/modalflag"
	"github.com/jetsetilly/mmperiph/prefs"
	"github.com/jetsetilly/mmperiph/protocol"
	"github.com/jetsetilly/mmperiph/regfile"
	"github.com/jetsetilly/mmperiph/script"
	"github.com/jetsetilly/mmperiph/statsview"
	"github.com/jetsetilly/mmperiph/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("run", "dump", "viz")

	log := md.AddBool("log", false, "echo the central log to stderr")
	ver := md.AddBool("version", false, "print version and quit")
	prf := md.AddString("prefs", "", "preference values for this session, overriding the prefs file. eg. \"run.baud::9600\"")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}

	if *ver {
		fmt.Println(version.Version)
		os.Exit(0)
	}

	if *log {
		logger.SetEcho(os.Stderr)
	}

	if *prf != "" {
		prefs.PushCommandLineStack(*prf)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "DUMP":
		err = dump(md, os.Stdout)
	case "VIZ":
		err = viz(md, os.Stdout)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}
}

// load a register description file named in the first remaining argument.
func loadMap(md *modalflag.Modes) (*regmap.Map, error) {
	if len(md.RemainingArgs()) == 0 {
		return nil, fmt.Errorf("no register description file specified")
	}

	specs, err := regfile.Read(md.GetArg(0))
	if err != nil {
		return nil, err
	}

	return regmap.NewMap(specs), nil
}

// dump prints the register map in human readable form.
func dump(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	mp, err := loadMap(md)
	if err != nil {
		return err
	}

	fmt.Fprint(output, mp.String())
	return nil
}

// viz writes a graphviz dot description of the register map structure,
// suitable for piping into dot itself:
//
//	mmperiph viz registers.json | dot -Tpng -o registers.png
func viz(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	mp, err := loadMap(md)
	if err != nil {
		return err
	}

	memviz.Map(output, mp)
	return nil
}

// run drives a peripheral over a real or loopback transport. With a Lua
// script as the second argument the script is in charge; without one, every
// register is read once and the resulting map printed.
func run(md *modalflag.Modes) error {
	md.NewMode()

	// preference values double as the flag defaults
	rp, err := newRunPrefs()
	if err != nil {
		return err
	}

	device := md.AddString("device", rp.device.String(), "tty device the peripheral is attached to")
	baud := md.AddInt("baud", rp.baud.Get().(int), "baud rate of the tty device")
	interval := md.AddInt("interval", rp.interval.Get().(int), "tick interval in milliseconds")
	loopback := md.AddBool("loopback", false, "use an in-memory loopback instead of a tty device")
	direct := md.AddBool("direct", false, "dispatch commands synchronously, without the queue")
	crc := md.AddBool("crc", false, "append and verify CRC fields on the wire")
	stats := md.AddBool("stats", false, "run the statistics server")
	save := md.AddBool("save", false, "save device, baud and interval values as the new defaults")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *save {
		if err := rp.save(*device, *baud, *interval); err != nil {
			return err
		}
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("* statsview not available. build with statsview tag")
		}
	}

	mp, err := loadMap(md)
	if err != nil {
		return err
	}

	var trans transport.Transport
	if *loopback {
		trans = &transport.Loopback{}
	} else {
		trans, err = openSerial(*device, *baud)
		if err != nil {
			return err
		}
	}
	defer trans.Close()

	per, err := peripheral.NewPeriph(mp, protocol.NewIPCTRL(*crc), trans, !*direct, nil)
	if err != nil {
		return err
	}

	if len(md.RemainingArgs()) > 1 {
		con := script.NewConsole(per)
		defer con.Close()
		return con.RunFile(md.GetArg(1))
	}

	// no script. read every register once and print what came back
	if err := queueAllReads(per, mp.Addresses()); err != nil {
		return err
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	tick := time.NewTicker(time.Duration(*interval) * time.Millisecond)
	defer tick.Stop()

	// keep ticking for a short while after the queue drains so that the
	// last responses have time to arrive
	settle := 20

	for per.QueueLen() > 0 || settle > 0 {
		if per.QueueLen() == 0 {
			settle--
		}
		select {
		case <-intChan:
			fmt.Println()
			return nil
		case <-tick.C:
			per.Tick()
		}
	}

	fmt.Print(mp.String())
	return nil
}

// queueAllReads schedules a read of every supplied address. The dispatch
// queue is shallower than many register maps so a full queue is expected
// rather than fatal: a Tick() dispatches the command at the head of the
// queue, making room for the read on a second attempt. Any other error, or a
// queue still full after the Tick(), is returned.
func queueAllReads(per *peripheral.Periph, addrs []uint32) error {
	for _, addr := range addrs {
		err := per.QueueRead(addr)
		if err != nil && curated.Is(err, peripheral.QueueFull) {
			per.Tick()
			err = per.QueueRead(addr)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
