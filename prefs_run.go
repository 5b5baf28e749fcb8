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
	"github.com/jetsetilly/mmperiph/prefs"
	"github.com/jetsetilly/mmperiph/resources"
)

const prefsFile = "mmperiph.prefs"

// runPrefs holds the saveable settings for the run mode. the values are used
// as the defaults for the corresponding command line flags.
type runPrefs struct {
	dsk      *prefs.Disk
	device   prefs.String
	baud     prefs.Int
	interval prefs.Int
}

func newRunPrefs() (*runPrefs, error) {
	rp := &runPrefs{}

	pth, err := resources.JoinPath(prefsFile)
	if err != nil {
		return nil, err
	}

	rp.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	// defaults are set before registration so that command line overrides,
	// applied by Add(), win
	err = rp.setDefaults()
	if err != nil {
		return nil, err
	}

	err = rp.dsk.Add("run.device", &rp.device)
	if err != nil {
		return nil, err
	}
	err = rp.dsk.Add("run.baud", &rp.baud)
	if err != nil {
		return nil, err
	}
	err = rp.dsk.Add("run.interval", &rp.interval)
	if err != nil {
		return nil, err
	}

	// a missing prefs file leaves the defaults in place
	err = rp.dsk.Load(true)
	if err != nil {
		return nil, err
	}

	return rp, nil
}

func (rp *runPrefs) setDefaults() error {
	if err := rp.device.Set("/dev/ttyUSB0"); err != nil {
		return err
	}
	if err := rp.baud.Set(115200); err != nil {
		return err
	}
	return rp.interval.Set(10)
}

// save the supplied values as the new run mode defaults.
func (rp *runPrefs) save(device string, baud int, interval int) error {
	if err := rp.device.Set(device); err != nil {
		return err
	}
	if err := rp.baud.Set(baud); err != nil {
		return err
	}
	if err := rp.interval.Set(interval); err != nil {
		return err
	}
	return rp.dsk.Save()
}
