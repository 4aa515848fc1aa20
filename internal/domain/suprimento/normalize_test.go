package suprimento

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLegacyStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Jurídico", "JURIDICO"},
		{"JURIDICO", "JURIDICO"},
		{"  setor de execução ", "SETOR DE EXECUCAO"},
		{"Conformidade", "CONFORMIDADE"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeLegacyStatus(tc.raw), "raw=%q", tc.raw)
	}
}

func TestParseLegacyCustody(t *testing.T) {
	t.Run("accented and plain forms map to the same role", func(t *testing.T) {
		a, ok := ParseLegacyCustody("Setor Jurídico")
		assert.True(t, ok)
		b, ok := ParseLegacyCustody("SETOR JURIDICO")
		assert.True(t, ok)
		assert.Equal(t, a, b)
		assert.Equal(t, CustodyLegalOffice, a)
	})

	t.Run("known roles", func(t *testing.T) {
		c, ok := ParseLegacyCustody("suprido")
		assert.True(t, ok)
		assert.Equal(t, CustodyRequester, c)

		c, ok = ParseLegacyCustody("Setor Financeiro")
		assert.True(t, ok)
		assert.Equal(t, CustodyFinanceOffice, c)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, ok := ParseLegacyCustody("Protocolo Geral")
		assert.False(t, ok)
	})
}

func TestParseLegacyStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want CaseStatus
	}{
		{"Em execução", CaseStatusInExecution},
		{"EM EXECUCAO", CaseStatusInExecution},
		{"Aguardando Liquidação", CaseStatusAwaitingSettlement},
		{"em aberto", CaseStatusOpen},
		{"Arquivado", CaseStatusArchived},
	}
	for _, tc := range cases {
		got, ok := ParseLegacyStatus(tc.raw)
		assert.True(t, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}

	_, ok := ParseLegacyStatus("Cancelado")
	assert.False(t, ok)
}

func TestParseCustodyInput(t *testing.T) {
	t.Run("canonical token in any casing", func(t *testing.T) {
		c, ok := ParseCustodyInput("audit_office")
		assert.True(t, ok)
		assert.Equal(t, CustodyAuditOffice, c)

		c, ok = ParseCustodyInput("FINANCE_OFFICE")
		assert.True(t, ok)
		assert.Equal(t, CustodyFinanceOffice, c)
	})

	t.Run("legacy label", func(t *testing.T) {
		c, ok := ParseCustodyInput("Setor Jurídico")
		assert.True(t, ok)
		assert.Equal(t, CustodyLegalOffice, c)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, ok := ParseCustodyInput("Protocolo Geral")
		assert.False(t, ok)
	})
}

func TestParseStatusInput(t *testing.T) {
	t.Run("canonical token in any casing", func(t *testing.T) {
		s, ok := ParseStatusInput("awaiting_signature")
		assert.True(t, ok)
		assert.Equal(t, CaseStatusAwaitingSignature, s)
	})

	t.Run("legacy label", func(t *testing.T) {
		s, ok := ParseStatusInput("Recursos Liberados")
		assert.True(t, ok)
		assert.Equal(t, CaseStatusFundsReleased, s)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, ok := ParseStatusInput("Em análise prévia")
		assert.False(t, ok)
	})
}
