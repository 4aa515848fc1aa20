package rendering

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoneyBRL(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"simple value", "1234.56", "R$ 1.234,56"},
		{"below one thousand", "999.90", "R$ 999,90"},
		{"millions", "1234567.89", "R$ 1.234.567,89"},
		{"zero", "0", "R$ 0,00"},
		{"negative", "-42.10", "-R$ 42,10"},
		{"rounding to two places", "10.5", "R$ 10,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, FormatMoneyBRL(d))
		})
	}
}

func TestFormatCPF(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	assert.Equal(t, "529.982.247-25", FormatCPF("529.982.247-25"))
	assert.Equal(t, "12345", FormatCPF("12345"), "short input is returned unchanged")
}

func TestMoneyInWordsPTBR(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "zero real"},
		{"0.01", "um centavo"},
		{"0.25", "vinte e cinco centavos"},
		{"1", "um real"},
		{"1.50", "um real e cinquenta centavos"},
		{"100", "cem reais"},
		{"101", "cento e um reais"},
		{"1000", "mil reais"},
		{"1500.00", "mil e quinhentos reais"},
		{"2034.12", "dois mil e trinta e quatro reais e doze centavos"},
		{"1000000", "um milhão de reais"},
		{"2000000", "dois milhões de reais"},
		{"1000001", "um milhão e um reais"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, MoneyInWordsPTBR(d))
		})
	}
}

func TestTemplateEngine_Render(t *testing.T) {
	engine := NewTemplateEngine()

	t.Run("renders with formatting helpers", func(t *testing.T) {
		body := `<p>{{formatMoney .Value}} ({{moneyInWords .Value}})</p>`
		data := struct{ Value decimal.Decimal }{decimal.NewFromInt(1500)}

		html, err := engine.Render("test", body, data)
		require.NoError(t, err)
		assert.Contains(t, html, "R$ 1.500,00")
		assert.Contains(t, html, "mil e quinhentos reais")
	})

	t.Run("returns template error for invalid syntax", func(t *testing.T) {
		_, err := engine.Render("broken", `{{.Value`, nil)
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeTemplateFailed, renderErr.Code)
	})
}
