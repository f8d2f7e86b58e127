package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Семантические
	SemaRedeclaration     Code = 3001
	SemaUnresolvedRequire Code = 3002
	SemaContractViolation Code = 3003
	SemaCapacityExceeded  Code = 3004

	// Ввод/вывод
	IOLoadError   Code = 4001
	IOESTreeError Code = 4002

	// Проект
	ProjInvalidConfig Code = 5001
	ProjRequireCycle  Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	SemaRedeclaration:     "Identifier redeclared in the same scope",
	SemaUnresolvedRequire: "require() target not found",
	SemaContractViolation: "Internal resolver error",
	SemaCapacityExceeded:  "Too many semantic entities",
	IOLoadError:           "I/O error",
	IOESTreeError:         "Malformed ESTree input",
	ProjInvalidConfig:     "Invalid project configuration",
	ProjRequireCycle:      "Require cycle",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
