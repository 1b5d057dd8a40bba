package schemapad

// Selection tracks which process node, if any, the flow view is resolved
// at. Clicking a process selects it, clicking it again or clicking empty
// canvas deselects, clicking a different process switches. Clicks on
// non-process nodes or edges never touch this state.
type Selection struct {
	processID string
}

// Selected returns the selected process id, if any.
func (s *Selection) Selected() (string, bool) {
	return s.processID, s.processID != ""
}

// ClickProcess toggles or switches the selection to the given process id.
// It reports whether the selection changed.
func (s *Selection) ClickProcess(id string) bool {
	if id == "" {
		return false
	}
	if s.processID == id {
		s.processID = ""
	} else {
		s.processID = id
	}
	return true
}

// ClickCanvas clears the selection. It reports whether it changed.
func (s *Selection) ClickCanvas() bool {
	if s.processID == "" {
		return false
	}
	s.processID = ""
	return true
}
