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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jetsetilly/mmperiph/curated"
	"github.com/jetsetilly/mmperiph/logger"
)

// WarningBoilerPlate is the first line in a saved prefs file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// the string that separates the key from the value in a saved prefs file.
const entrySeparator = " :: "

// Error patterns returned by the prefs functions.
const (
	DuplicateKey = "prefs: duplicate key (%s)"
	InvalidKey   = "prefs: invalid key (%s)"
	NoPrefsFile  = "prefs: no prefs file (%s)"
)

// Disk represents the prefs file on disk. Individual preference values are
// registered against a key with the Add() function; Load() and Save() move
// every registered value between memory and disk in one go.
//
// More than one Disk instance can use the same file. Save() only rewrites
// the entries the instance knows about and leaves the rest as they are.
type Disk struct {
	path    string
	entries map[string]pref

	// keys given a value on the command line. Load() leaves these alone
	overridden map[string]bool
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// file is not touched until Load() or Save() is called.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:       path,
		entries:    make(map[string]pref),
		overridden: make(map[string]bool),
	}, nil
}

// Add a preference value to the list of values to load/save. The key must
// be unique to this Disk instance.
//
// If the key has been given a value on the command line (see
// PushCommandLineStack) that value is applied immediately.
func (dsk *Disk) Add(key string, p pref) error {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, entrySeparator) {
		return curated.Errorf(InvalidKey, key)
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DuplicateKey, key)
	}

	dsk.entries[key] = p

	if ok, v := GetCommandLinePref(key); ok {
		if err := p.Set(v); err != nil {
			return err
		}
		dsk.overridden[key] = true
	}

	return nil
}

// Load registered preference values from the disk file. Entries in the file
// that have not been registered with this instance are ignored, as are
// defunct keys.
//
// With allowMissing, a file that does not exist is not an error; the
// registered values simply keep whatever they already hold.
func (dsk *Disk) Load(allowMissing bool) error {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			if allowMissing {
				return nil
			}
			return curated.Errorf(NoPrefsFile, dsk.path)
		}
		return curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := splitEntry(scanner.Text())
		if !ok || isDefunct(key) || dsk.overridden[key] {
			continue
		}
		if p, found := dsk.entries[key]; found {
			if err := p.Set(value); err != nil {
				logger.Logf("prefs", "%s: %v", key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// Save registered preference values to the disk file. Entries owned by
// other Disk instances are preserved; defunct keys are dropped.
func (dsk *Disk) Save() error {
	// gather entries already in the file that this instance does not own
	merged := make(map[string]string)

	if f, err := os.Open(dsk.path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			key, value, ok := splitEntry(scanner.Text())
			if ok && !isDefunct(key) {
				merged[key] = value
			}
		}
		f.Close()
	}

	for key, p := range dsk.entries {
		merged[key] = p.String()
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	if _, err := w.WriteString(fmt.Sprintf("%s\n", WarningBoilerPlate)); err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	for _, key := range keys {
		if _, err := w.WriteString(fmt.Sprintf("%s%s%s\n", key, entrySeparator, merged[key])); err != nil {
			return curated.Errorf("prefs: %v", err)
		}
	}

	return nil
}

// splitEntry splits a prefs file line into key and value. Boilerplate and
// blank lines are not entries.
func splitEntry(line string) (string, string, bool) {
	if line == WarningBoilerPlate || strings.TrimSpace(line) == "" {
		return "", "", false
	}
	kv := strings.SplitN(line, entrySeparator, 2)
	if len(kv) != 2 {
		return "", "", false
	}
	return kv[0], kv[1], true
}
