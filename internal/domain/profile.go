package domain

// NutrientTotal is the combined amount of one nutrient across a meal.
type NutrientTotal struct {
	Amount float64
	Unit   string
}

// ProfileEntry pairs a nutrient name with its total, for ordered iteration.
type ProfileEntry struct {
	Name string
	NutrientTotal
}

// NutrientProfile maps nutrient names to totals and remembers first-seen order.
// The zero value is an empty profile.
type NutrientProfile struct {
	order  []string
	totals map[string]NutrientTotal
}

// NewNutrientProfile returns an empty profile ready for Add.
func NewNutrientProfile() *NutrientProfile {
	return &NutrientProfile{totals: map[string]NutrientTotal{}}
}

// Add inserts the nutrient or increases its amount. A unit different from the
// stored one is refused with *UnitMismatchError and leaves the profile unchanged.
func (p *NutrientProfile) Add(name string, amount float64, unit string) error {
	if p.totals == nil {
		p.totals = map[string]NutrientTotal{}
	}

	current, ok := p.totals[name]
	if !ok {
		p.order = append(p.order, name)
		p.totals[name] = NutrientTotal{Amount: amount, Unit: unit}
		return nil
	}
	if current.Unit != unit {
		return &UnitMismatchError{Nutrient: name, Want: current.Unit, Got: unit}
	}

	current.Amount += amount
	p.totals[name] = current
	return nil
}

// Get returns the total for name.
func (p *NutrientProfile) Get(name string) (NutrientTotal, bool) {
	if p == nil {
		return NutrientTotal{}, false
	}
	total, ok := p.totals[name]
	return total, ok
}

// Len reports the number of distinct nutrients.
func (p *NutrientProfile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// Names lists nutrient names in first-seen order.
func (p *NutrientProfile) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Entries lists all totals in first-seen order.
func (p *NutrientProfile) Entries() []ProfileEntry {
	if p == nil {
		return nil
	}
	out := make([]ProfileEntry, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, ProfileEntry{Name: name, NutrientTotal: p.totals[name]})
	}
	return out
}
