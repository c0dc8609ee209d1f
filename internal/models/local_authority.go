package models

import "strings"

// LocalAuthority is one LAD23 district in England or Wales.
type LocalAuthority struct {
	Code string // LAD23 code, e.g. E07000041
	Name string
}

// IsEnglandOrWales reports whether an ONS geography code belongs to England
// or Wales. Scotland (S) and Northern Ireland (N) are outside the panel.
func IsEnglandOrWales(code string) bool {
	return strings.HasPrefix(code, "E") || strings.HasPrefix(code, "W")
}
