package validate

// stateCodes is the fixed 51-entry set of USPS codes (50 states plus DC)
// accepted for two-letter state values.
var stateCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true,
	"CO": true, "CT": true, "DE": true, "FL": true, "GA": true,
	"HI": true, "ID": true, "IL": true, "IN": true, "IA": true,
	"KS": true, "KY": true, "LA": true, "ME": true, "MD": true,
	"MA": true, "MI": true, "MN": true, "MS": true, "MO": true,
	"MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true,
	"SD": true, "TN": true, "TX": true, "UT": true, "VT": true,
	"VA": true, "WA": true, "WV": true, "WI": true, "WY": true,
	"DC": true,
}

// IsStateCode reports whether code is a valid two-letter state code,
// case-insensitively.
func IsStateCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	upper := [2]byte{code[0] &^ 0x20, code[1] &^ 0x20}
	return stateCodes[string(upper[:])]
}
