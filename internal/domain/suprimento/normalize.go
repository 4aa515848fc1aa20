package suprimento

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legacyCustodyNames maps normalized free-form status strings from the legacy
// system to the closed custody enum. The legacy system compared uppercase
// accented strings ad hoc; all comparison here happens on the enum.
var legacyCustodyNames = map[string]Custody{
	"SUPRIDO":             CustodyRequester,
	"SOLICITANTE":         CustodyRequester,
	"GESTOR":              CustodyManager,
	"SETOR DE EXECUCAO":   CustodyAuditOffice,
	"CONFORMIDADE":        CustodyAuditOffice,
	"SETOR JURIDICO":      CustodyLegalOffice,
	"JURIDICO FINANCEIRO": CustodyLegalOffice,
	"SETOR FINANCEIRO":    CustodyFinanceOffice,
	"FINANCEIRO":          CustodyFinanceOffice,
}

// NormalizeLegacyStatus uppercases a legacy status string and strips
// diacritics so "Jurídico" and "JURIDICO" compare equal
func NormalizeLegacyStatus(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, raw)
	if err != nil {
		stripped = raw
	}
	return strings.ToUpper(strings.TrimSpace(stripped))
}

// ParseLegacyCustody maps a free-form legacy custody string to the enum.
// Returns false when the string matches no known role.
func ParseLegacyCustody(raw string) (Custody, bool) {
	c, ok := legacyCustodyNames[NormalizeLegacyStatus(raw)]
	return c, ok
}

// legacyStatusNames maps the legacy system's Portuguese status labels to the
// case status enum.
var legacyStatusNames = map[string]CaseStatus{
	"ABERTO":                CaseStatusOpen,
	"EM ABERTO":             CaseStatusOpen,
	"ATESTADO":              CaseStatusAttested,
	"EM EXECUCAO":           CaseStatusInExecution,
	"AGUARDANDO ASSINATURA": CaseStatusAwaitingSignature,
	"AGUARDANDO LIQUIDACAO": CaseStatusAwaitingSettlement,
	"RECURSOS LIBERADOS":    CaseStatusFundsReleased,
	"ARQUIVADO":             CaseStatusArchived,
}

// ParseLegacyStatus maps a free-form legacy status string to the enum.
func ParseLegacyStatus(raw string) (CaseStatus, bool) {
	s, ok := legacyStatusNames[NormalizeLegacyStatus(raw)]
	return s, ok
}

// ParseCustodyInput resolves a custody value from a request: canonical enum
// tokens in any casing pass through, legacy names map through the legacy
// table.
func ParseCustodyInput(raw string) (Custody, bool) {
	if c := Custody(NormalizeLegacyStatus(raw)); c.IsValid() {
		return c, true
	}
	return ParseLegacyCustody(raw)
}

// ParseStatusInput resolves a case status value from a request, accepting
// canonical tokens and legacy labels alike.
func ParseStatusInput(raw string) (CaseStatus, bool) {
	if s := CaseStatus(NormalizeLegacyStatus(raw)); s.IsValid() {
		return s, true
	}
	return ParseLegacyStatus(raw)
}
