package view

// Toggle primitives. Each works on every element of a category, decides the
// new state per element from that element's current inline style, and
// reports the resulting state of the first matched element.

// ToggleVisibility flips the inline visibility of every element with the
// class. An unset or visible element becomes hidden; a hidden one becomes
// visible. It returns the resulting visibility of the first matched element
// and false when no element matched.
func (v *View) ToggleVisibility(class string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toggleVisibility(class)
}

func (v *View) toggleVisibility(class string) (string, bool) {
	elements := v.byClass(class)
	if len(elements) == 0 {
		return "", false
	}
	first := ""
	for i, el := range elements {
		next := "hidden"
		if styleProperty(el, "visibility") == "hidden" {
			next = "visible"
		}
		setStyleProperty(el, "visibility", next)
		if i == 0 {
			first = next
		}
	}
	return first, true
}

// ToggleDisplay flips the inline display of every element with the class
// between block and none. When explicit is given, the elements are set to
// that state instead of flipped. It returns the resulting display of the
// first matched element and false when no element matched.
func (v *View) ToggleDisplay(class string, explicit ...bool) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toggleDisplay(class, explicit...)
}

func (v *View) toggleDisplay(class string, explicit ...bool) (string, bool) {
	elements := v.byClass(class)
	if len(elements) == 0 {
		return "", false
	}
	first := ""
	for i, el := range elements {
		var next string
		if len(explicit) > 0 {
			next = "none"
			if explicit[0] {
				next = "block"
			}
		} else {
			next = "none"
			if styleProperty(el, "display") == "none" {
				next = "block"
			}
		}
		setStyleProperty(el, "display", next)
		if i == 0 {
			first = next
		}
	}
	return first, true
}

// ToggleEnability enables or disables an element visually and
// interactively: full opacity and pointer events when enabled, faded and
// inert when not.
func (v *View) ToggleEnability(id string, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toggleEnability(id, enabled)
}

func (v *View) toggleEnability(id string, enabled bool) {
	el := v.byID(id)
	if el == nil {
		return
	}
	if enabled {
		setStyleProperty(el, "opacity", "1.0")
		setStyleProperty(el, "pointer-events", "auto")
	} else {
		setStyleProperty(el, "opacity", "0.2")
		setStyleProperty(el, "pointer-events", "none")
	}
}

// toggleButtons shows exactly one of an on/off button pair.
func (v *View) toggleButtons(onID, offID string, showOn bool) {
	on := v.byID(onID)
	off := v.byID(offID)
	if on != nil {
		display := "none"
		if showOn {
			display = "block"
		}
		setStyleProperty(on, "display", display)
	}
	if off != nil {
		display := "block"
		if showOn {
			display = "none"
		}
		setStyleProperty(off, "display", display)
	}
}

// Named actions. Each flips one document category, keeps its toolbar
// button pair consistent, and renumbers pages. Visibility flips cannot
// change which pages are displayed, but renumbering anyway keeps every
// action's aftermath identical.

// ToggleFooter flips page footer visibility. It returns the resulting
// visibility.
func (v *View) ToggleFooter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	visibility, ok := v.toggleVisibility(ClassFooter)
	if !ok {
		return ""
	}
	v.toggleButtons(IDToggleFooterOn, IDToggleFooterOff, visibility != "hidden")
	v.updatePageNumbers()
	return visibility
}

// ToggleCutGuides flips cut guide visibility. It returns the resulting
// visibility.
func (v *View) ToggleCutGuides() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	visibility, ok := v.toggleVisibility(ClassCutGuide)
	if !ok {
		return ""
	}
	v.toggleButtons(IDToggleCutGuidesOn, IDToggleCutGuidesOf, visibility != "hidden")
	v.updatePageNumbers()
	return visibility
}

// ToggleTwoSided flips two-sided printing, which shows or hides the filler
// cards that keep fronts and backs aligned across duplexed sheets. It
// returns the resulting display of the filler category.
func (v *View) ToggleTwoSided(explicit ...bool) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	display := v.toggleTwoSided(explicit...)
	v.updatePageNumbers()
	return display
}

func (v *View) toggleTwoSided(explicit ...bool) string {
	display, ok := v.toggleDisplay(ClassFiller, explicit...)
	if !ok {
		return ""
	}
	v.toggleButtons(IDToggleTwoSidedOn, IDToggleTwoSidedOff, display != "none")
	return display
}

// ToggleCardBacks flips back page display. Toggling backs off also forces
// two-sided printing off and disables its control, since two-sided layout
// is meaningless without backs; toggling backs on re-enables the control
// without forcing it back on. It returns the resulting display of the back
// pages.
func (v *View) ToggleCardBacks() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	display, ok := v.toggleDisplay(ClassPageBacks)
	if !ok {
		return ""
	}
	showing := display != "none"
	v.toggleButtons(IDToggleBacksOn, IDToggleBacksOff, showing)
	if showing {
		v.toggleEnability(IDToggleTwoSided, true)
	} else {
		v.toggleTwoSided(false)
		v.toggleEnability(IDToggleTwoSided, false)
	}
	v.updatePageNumbers()
	return display
}

// ToggleHelp shows or hides the help modal. Showing it installs the
// backdrop dismiss handler; hiding it removes the handler again.
func (v *View) ToggleHelp(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toggleHelp(show)
}

func (v *View) toggleHelp(show bool) {
	el := v.byID(IDHelpModal)
	if el == nil {
		return
	}
	display := "none"
	if show {
		display = "block"
	}
	setStyleProperty(el, "display", display)
	v.helpDismiss = show
}

// HelpDismissInstalled reports whether the backdrop dismiss handler is
// currently installed.
func (v *View) HelpDismissInstalled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.helpDismiss
}

// DismissHelpOnBackdrop handles a click while the help modal is open. Only
// a click on the modal backdrop itself dismisses it; clicks inside the
// modal content are ignored. It reports whether the modal was dismissed.
func (v *View) DismissHelpOnBackdrop(targetID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.helpDismiss || targetID != IDHelpModal {
		return false
	}
	v.toggleHelp(false)
	return true
}

// DisableActionsIfNecessary disables every toolbar action when the
// document contains no pages to act on.
func (v *View) DisableActionsIfNecessary() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.disableActionsIfNecessary()
}

func (v *View) disableActionsIfNecessary() {
	if len(v.byClass(ClassPage)) > 0 {
		return
	}
	for _, el := range v.byClass(ClassUIAction) {
		setStyleProperty(el, "opacity", "0.2")
		setStyleProperty(el, "pointer-events", "none")
	}
}

// DetermineBacksToggleVisibility hides the back and two-sided controls
// entirely when the document has no back pages.
func (v *View) DetermineBacksToggleVisibility() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.determineBacksToggleVisibility()
}

func (v *View) determineBacksToggleVisibility() {
	if len(v.byClass(ClassPageBacks)) > 0 {
		return
	}
	for _, id := range []string{IDToggleBacks, IDToggleTwoSided} {
		if el := v.byID(id); el != nil {
			setStyleProperty(el, "display", "none")
		}
	}
}
