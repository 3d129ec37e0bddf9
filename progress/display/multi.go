package display

import (
	"errors"

	"github.com/konveyor/progressbar/progress"
)

type multi struct {
	displays []progress.Display
}

// Multi fans every refresh out to all displays, in order.
//
// Every display is called even if an earlier one fails; the failures are
// joined into the returned error. Nil displays are skipped.
func Multi(displays ...progress.Display) progress.Display {
	m := &multi{}
	for _, d := range displays {
		if d != nil {
			m.displays = append(m.displays, d)
		}
	}
	return m
}

func (m *multi) Update(s progress.Snapshot) error {
	var errs []error
	for _, d := range m.displays {
		if err := d.Update(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multi) Finish() error {
	var errs []error
	for _, d := range m.displays {
		if err := d.Finish(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
