// Package delay holds the delay reasons that can be annotated on the semi-assembly stage.
package delay

import (
	"fmt"
	"slices"
	"strings"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/errs"
)

// Codes seeded into a fresh database.
const (
	FaltaRepuesto = "FALTA_REPUESTO"
	EsperaCliente = "ESPERA_CLIENTE"
	Proveedor     = "PROVEEDOR"
	Otro          = "OTRO"
)

// Reason is immutable reference data.
type Reason struct {
	id          kernel.UUID
	code        string
	description string
}

// NewReason validates a delay reason. The description is optional.
func NewReason(id kernel.UUID, code, description string) (Reason, error) {
	if err := id.Validate(); err != nil {
		return Reason{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return Reason{}, errs.NewValueIsRequiredError("delay reason code")
	}
	return Reason{id: id, code: code, description: strings.TrimSpace(description)}, nil
}

func (r Reason) ID() kernel.UUID {
	return r.id
}

func (r Reason) Code() string {
	return r.code
}

func (r Reason) Description() string {
	return r.description
}

// DefaultDescriptions maps the seeded codes to their descriptions.
func DefaultDescriptions() map[string]string {
	return map[string]string{
		FaltaRepuesto: "Falta de repuesto",
		EsperaCliente: "Esperando confirmación del cliente",
		Proveedor:     "Demora del proveedor",
		Otro:          "Otro motivo",
	}
}

// DefaultReasons builds the seeded reasons, ordered by code, with fresh identifiers.
func DefaultReasons() ([]Reason, error) {
	descriptions := DefaultDescriptions()
	codes := make([]string, 0, len(descriptions))
	for code := range descriptions {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	reasons := make([]Reason, 0, len(codes))
	for _, code := range codes {
		r, err := NewReason(kernel.NewUUID(), code, descriptions[code])
		if err != nil {
			return nil, err
		}
		reasons = append(reasons, r)
	}
	return reasons, nil
}

// Catalog is a preloaded lookup of delay reasons by code.
type Catalog struct {
	byCode map[string]Reason
}

// NewCatalog rejects duplicated codes.
func NewCatalog(reasons ...Reason) (*Catalog, error) {
	c := &Catalog{byCode: make(map[string]Reason, len(reasons))}
	for _, r := range reasons {
		if r.code == "" {
			return nil, errs.NewValueIsRequiredError("delay reason")
		}
		if _, ok := c.byCode[r.code]; ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("delay reason catalog",
				fmt.Errorf("duplicated code %s", r.code))
		}
		c.byCode[r.code] = r
	}
	return c, nil
}

// ByCode returns the reason or an ObjectNotFoundError.
func (c *Catalog) ByCode(code string) (Reason, error) {
	r, ok := c.byCode[strings.TrimSpace(code)]
	if !ok {
		return Reason{}, errs.NewObjectNotFoundError("delay reason", code)
	}
	return r, nil
}

// Reasons returns every reason ordered by code.
func (c *Catalog) Reasons() []Reason {
	out := make([]Reason, 0, len(c.byCode))
	for _, r := range c.byCode {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Reason) int { return strings.Compare(a.code, b.code) })
	return out
}
