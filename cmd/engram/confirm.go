package main

import (
	"os"

	"github.com/charmbracelet/huh"
)

// accessibleMode reports whether prompts should fall back to simple,
// screen-reader-friendly text instead of the full TUI form.
func accessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

func engramTheme() *huh.Theme {
	return huh.ThemeDracula()
}

// newAccessibleForm wraps groups in a form with accessibility mode enabled
// when ACCESSIBLE is set; WithAccessible only takes effect at the form
// level, never on individual fields.
func newAccessibleForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(engramTheme())
	if accessibleMode() {
		form = form.WithAccessible(true)
	}
	return form
}

// confirmDestructive prompts the user before a destructive verb proceeds,
// unless skip is set (e.g. --yes, or a dry run that changes nothing).
func confirmDestructive(prompt string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	var ok bool
	form := newAccessibleForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}
