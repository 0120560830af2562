package stage

import (
	"fmt"
	"slices"

	"workshop/internal/pkg/errs"
)

// Entry is one row of the stage catalog.
type Entry struct {
	code     Code
	sequence int
}

// NewEntry validates a catalog row.
func NewEntry(code Code, sequence int) (Entry, error) {
	if code == "" {
		return Entry{}, errs.NewValueIsRequiredError("stage code")
	}
	if code.IsBranch() {
		return Entry{}, errs.NewValueIsInvalidErrorWithCause("stage code",
			fmt.Errorf("%s cannot be part of the sequential catalog", code))
	}
	if sequence <= 0 {
		return Entry{}, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, "unbounded")
	}
	return Entry{code: code, sequence: sequence}, nil
}

func (e Entry) Code() Code {
	return e.code
}

func (e Entry) Sequence() int {
	return e.sequence
}

// Catalog is an immutable, preloaded lookup of sequential stages.
type Catalog struct {
	entries    []Entry
	byCode     map[Code]Entry
	bySequence map[int]Entry
}

// NewCatalog builds a catalog, rejecting duplicated codes or sequences.
func NewCatalog(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries:    make([]Entry, 0, len(entries)),
		byCode:     make(map[Code]Entry, len(entries)),
		bySequence: make(map[int]Entry, len(entries)),
	}

	for _, e := range entries {
		if e.code == "" {
			return nil, errs.NewValueIsRequiredError("stage catalog entry")
		}
		if _, ok := c.byCode[e.code]; ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("stage catalog",
				fmt.Errorf("duplicated code %s", e.code))
		}
		if _, ok := c.bySequence[e.sequence]; ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("stage catalog",
				fmt.Errorf("duplicated sequence %d", e.sequence))
		}
		c.byCode[e.code] = e
		c.bySequence[e.sequence] = e
		c.entries = append(c.entries, e)
	}

	slices.SortFunc(c.entries, func(a, b Entry) int { return a.sequence - b.sequence })
	return c, nil
}

// ByCode returns the entry for code or an ObjectNotFoundError.
func (c *Catalog) ByCode(code Code) (Entry, error) {
	e, ok := c.byCode[code]
	if !ok {
		return Entry{}, errs.NewObjectNotFoundError("stage", string(code))
	}
	return e, nil
}

// NextOf returns the entry whose sequence is one greater than e's.
func (c *Catalog) NextOf(e Entry) (Entry, bool) {
	next, ok := c.bySequence[e.sequence+1]
	return next, ok
}

// Entries returns the catalog ordered by sequence.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

// DefaultEntries is the workshop's production line.
func DefaultEntries() []Entry {
	return []Entry{
		{code: Ingreso, sequence: 1},
		{code: Diagnostico, sequence: 2},
		{code: Maquinado, sequence: 3},
		{code: SemiArmado, sequence: 4},
		{code: Armado, sequence: 5},
		{code: ListoRetirar, sequence: 6},
		{code: Entregado, sequence: 7},
	}
}

// DefaultCatalog returns a catalog over DefaultEntries.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultEntries()...)
	if err != nil {
		panic(err)
	}
	return c
}
