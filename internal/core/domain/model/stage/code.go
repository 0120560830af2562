package stage

// Code identifies a stage.
type Code string

// Codes of the default workshop catalog plus the branch state.
const (
	Ingreso          Code = "INGRESO"
	Diagnostico      Code = "DIAGNOSTICO"
	Maquinado        Code = "MAQUINADO"
	SemiArmado       Code = "SEMI_ARMADO"
	Armado           Code = "ARMADO"
	ListoRetirar     Code = "LISTO_RETIRAR"
	Entregado        Code = "ENTREGADO"
	PiezaIrreparable Code = "PIEZA_IRREPARABLE"
)

func (c Code) String() string {
	return string(c)
}

// IsBranch reports whether the code is the out-of-catalog irreparable state.
func (c Code) IsBranch() bool {
	return c == PiezaIrreparable
}
