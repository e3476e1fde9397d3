package tui

// Navigator holds the active section. Model.Update is its only writer; the
// tab bar and the section body read it.
type Navigator struct {
	active int
	count  int
}

func NewNavigator(sections int) Navigator {
	return Navigator{count: sections}
}

func (n Navigator) Active() int { return n.active }

// Step moves delta tabs, wrapping in both directions.
func (n Navigator) Step(delta int) Navigator {
	if n.count == 0 {
		return n
	}
	n.active = ((n.active+delta)%n.count + n.count) % n.count
	return n
}
