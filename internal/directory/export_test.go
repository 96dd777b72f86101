package directory

// CheckBijection reports the first way the two maps disagree, or "" if they
// are exact inverses.
func (d *Directory) CheckBijection() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.byCorrespondent) != len(d.byThread) {
		return "map sizes differ"
	}
	for c, t := range d.byCorrespondent {
		if back, ok := d.byThread[t]; !ok || back != c {
			return "correspondent " + string(c) + " -> thread " + string(t) + " has no inverse"
		}
	}
	for t, c := range d.byThread {
		if back, ok := d.byCorrespondent[c]; !ok || back != t {
			return "thread " + string(t) + " -> correspondent " + string(c) + " has no inverse"
		}
	}
	return ""
}
