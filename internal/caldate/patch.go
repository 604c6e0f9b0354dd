package caldate

import "encoding/json"

// Patch is a tri-state optional date used by partial updates: unset (leave the
// stored value alone), set to a date, or set to nil (clear the stored value).
type Patch struct {
	Set  bool
	Date *Date
}

// SetTo returns a Patch assigning d.
func SetTo(d Date) Patch {
	return Patch{Set: true, Date: &d}
}

// Clear returns a Patch clearing the stored value.
func Clear() Patch {
	return Patch{Set: true}
}

// Apply returns the patched value of current.
func (p Patch) Apply(current *Date) *Date {
	if !p.Set {
		return current
	}
	if p.Date == nil || p.Date.IsZero() {
		return nil
	}
	d := *p.Date
	return &d
}

// UnmarshalJSON marks the patch as set; null and "" clear the value.
func (p *Patch) UnmarshalJSON(data []byte) error {
	p.Set = true
	var d Date
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	if d.IsZero() {
		p.Date = nil
		return nil
	}
	p.Date = &d
	return nil
}

// MarshalJSON encodes the patched value, null when clearing.
func (p Patch) MarshalJSON() ([]byte, error) {
	if p.Date == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*p.Date)
}
