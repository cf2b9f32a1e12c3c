package register

// Table is the fixed set of registers, one per entry of Names.
type Table struct {
	slots [Count]Register
}

// NewTable returns a table with every register empty.
func NewTable() *Table {
	return &Table{}
}

// Get returns the register called name.
func (t *Table) Get(name byte) (*Register, error) {
	i, err := Index(name)
	if err != nil {
		return nil, err
	}
	return &t.slots[i], nil
}

// Each calls fn for every register in Names order.
func (t *Table) Each(fn func(name byte, r *Register)) {
	for i := range t.slots {
		fn(Names[i], &t.slots[i])
	}
}

// Clear resets every register.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i].Reset()
	}
}

// Summary is a read-only description of one non-empty register.
type Summary struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Size    int    `json:"size"`
	Preview string `json:"preview,omitempty"`
	Formats int    `json:"formats"`
}

// Summaries describes every non-empty register. Text previews are passed
// through preview; a nil preview omits them. The result shares no memory
// with the table and may be handed to other goroutines.
func (t *Table) Summaries(preview func(string) string) []Summary {
	var out []Summary
	t.Each(func(name byte, r *Register) {
		if r.Empty() {
			return
		}
		s := Summary{
			Name:    string(name),
			Kind:    r.Kind(),
			Size:    r.Size(),
			Formats: r.raw.Len(),
		}
		if preview != nil && r.Kind() == KindText {
			s.Preview = preview(r.Text())
		}
		out = append(out, s)
	})
	return out
}
