package utils

import "strings"

// NormalizeCEP strips everything but digits from a postal code. The
// canonical form is exactly 8 digits.
func NormalizeCEP(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsValidCEP(raw string) bool {
	return len(NormalizeCEP(raw)) == 8
}

// MaskCEP renders the display form 01001-000. Input that is not canonical is
// returned unchanged.
func MaskCEP(cep string) string {
	if len(cep) != 8 {
		return cep
	}
	return cep[:5] + "-" + cep[5:]
}
