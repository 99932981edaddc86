package model

// Kyte-Doolittle hydropathy coefficients for the 20 standard amino acids.
// Read-only after package init.
var kyteDoolittle = map[string]float64{
	"A": 1.800, "R": -4.500, "N": -3.500, "D": -3.500,
	"C": 2.500, "Q": -3.500, "E": -3.500, "G": -0.400,
	"H": -3.200, "I": 4.500, "L": 3.800, "K": -3.900,
	"M": 1.900, "F": 2.800, "P": -1.600, "S": -0.800,
	"T": -0.700, "W": -0.900, "Y": -1.300, "V": 4.200,
}

// Summation order of the score. Fixed so the result is reproducible to the last bit.
var standardResidues = []string{
	"A", "R", "N", "D", "C", "Q", "E", "G", "H", "I",
	"L", "K", "M", "F", "P", "S", "T", "W", "Y", "V",
}

// Coefficient returns the Kyte-Doolittle value of a one-letter amino-acid code.
func Coefficient(code string) (float64, bool) {
	v, ok := kyteDoolittle[code]
	return v, ok
}

// StandardResidues returns the 20 standard one-letter codes in scoring order.
func StandardResidues() []string {
	out := make([]string, len(standardResidues))
	copy(out, standardResidues)
	return out
}

// IsStandardResidue reports whether code is one of the 20 standard amino acids.
func IsStandardResidue(code string) bool {
	_, ok := kyteDoolittle[code]
	return ok
}
