package model

// Residue is one row of the composition table of a report block.
type Residue struct {
	Code        string  `json:"code"` // one-letter code
	Name        string  `json:"name"` // three-letter code, "---" for unassigned letters
	Count       int     `json:"count"`
	MolePercent float64 `json:"mole_percent"`
	DayhoffStat float64 `json:"dayhoff_stat"`
}

type ExtinctionCoefficients struct {
	Reduced        float64 `json:"reduced"`
	CystineBridges float64 `json:"cystine_bridges"`
}

// Measure is a reported number together with the text it was read from,
// so the table can repeat the report's own precision ("1396.80").
type Measure struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// ReportRecord is one sequence block of a pepstats report.
type ReportRecord struct {
	Sequence             string  `json:"sequence"`
	Start                int     `json:"start"`
	End                  int     `json:"end"`
	MolecularWeight      Measure `json:"molecular_weight"`
	Residues             int     `json:"residues"`
	AverageResidueWeight Measure `json:"average_residue_weight"`
	Charge               Measure `json:"charge"`
	IsoelectricPoint     Measure `json:"isoelectric_point"`

	// Parsed when present, not used for the output table.
	MolarExtinction *ExtinctionCoefficients `json:"molar_extinction,omitempty"`
	MgMlExtinction  *ExtinctionCoefficients `json:"mgml_extinction,omitempty"`
	InclusionBodies *InclusionBodies        `json:"inclusion_bodies,omitempty"`

	// Keyed by one-letter code.
	Composition map[string]Residue `json:"composition"`

	// 1-based line of the "PEPSTATS of" header.
	Line int `json:"-"`
}

// InclusionBodies holds the expression estimate. Older tool versions print
// "Probability", newer ones "Improbability".
type InclusionBodies struct {
	Value         float64 `json:"value"`
	Improbability bool    `json:"improbability"`
}

// Count returns the occurrence count of code, zero when the row is absent.
func (r *ReportRecord) Count(code string) int {
	return r.Composition[code].Count
}

// OutputRow is one line of the summary table. Reported values keep their
// source text; only Hydrophobicity is computed here.
type OutputRow struct {
	Sequence             string
	MolecularWeight      Measure
	Residues             int
	AverageResidueWeight Measure
	Charge               Measure
	IsoelectricPoint     Measure
	Hydrophobicity       float64
}
