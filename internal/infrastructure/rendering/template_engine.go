package rendering

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders document HTML templates with Brazilian formatting
// helpers (currency, CPF, dates, amounts in words).
type TemplateEngine struct {
	funcMap template.FuncMap
}

// NewTemplateEngine creates a template engine with the default function set
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{}

	e.funcMap = template.FuncMap{
		"formatMoney":  FormatMoneyBRL,
		"moneyInWords": MoneyInWordsPTBR,
		"formatCPF":    FormatCPF,
		"formatDate":   formatDate,
		"formatLongDate": formatLongDate,
		"formatDateTime": formatDateTime,
		"upper":          strings.ToUpper,
		"lower":          strings.ToLower,
		"title":          titleCasePTBR,
		"trim":           strings.TrimSpace,
		"shortUUID":      shortUUID,
		"now":            time.Now,
	}

	return e
}

// Render executes a parsed template body against the given data
func (e *TemplateEngine) Render(name, body string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(body)
	if err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed,
			fmt.Sprintf("failed to parse template %q", name), err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed,
			fmt.Sprintf("failed to execute template %q", name), err)
	}

	return buf.String(), nil
}

// FormatMoneyBRL formats a decimal as Brazilian currency: R$ 1.234,56
func FormatMoneyBRL(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]

	// Thousands separators, right to left
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}

	return fmt.Sprintf("%sR$ %s,%s", sign, strings.Join(groups, "."), fracPart)
}

// FormatCPF formats an 11-digit CPF as 000.000.000-00.
// Inputs that are not 11 digits are returned unchanged.
func FormatCPF(cpf string) string {
	digits := make([]rune, 0, 11)
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) != 11 {
		return cpf
	}
	d := string(digits)
	return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
}

// formatDate formats a date as dd/mm/yyyy. Accepts time.Time or *time.Time;
// a nil pointer renders empty.
func formatDate(v any) string {
	if t, ok := timeValue(v); ok {
		return t.Format("02/01/2006")
	}
	return ""
}

// formatDateTime formats a timestamp as dd/mm/yyyy hh:mm
func formatDateTime(v any) string {
	if t, ok := timeValue(v); ok {
		return t.Format("02/01/2006 15:04")
	}
	return ""
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

var ptMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// formatLongDate formats a date in Portuguese long form: 15 de março de 2026
func formatLongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), ptMonths[t.Month()-1], t.Year())
}

// titleCasePTBR title-cases a string using Brazilian Portuguese rules
func titleCasePTBR(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}

// shortUUID returns the first 8 characters of a UUID
func shortUUID(id uuid.UUID) string {
	return id.String()[:8]
}

// =============================================================================
// Amount in words (valor por extenso)
// =============================================================================

var (
	ptUnits = [...]string{
		"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove",
		"dez", "onze", "doze", "treze", "quatorze", "quinze",
		"dezesseis", "dezessete", "dezoito", "dezenove",
	}
	ptTens = [...]string{
		"", "", "vinte", "trinta", "quarenta", "cinquenta",
		"sessenta", "setenta", "oitenta", "noventa",
	}
	ptHundreds = [...]string{
		"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos",
		"seiscentos", "setecentos", "oitocentos", "novecentos",
	}
)

// MoneyInWordsPTBR spells out a BRL amount in Portuguese, as required on
// commitment notes and payment orders. Supports values below one billion.
func MoneyInWordsPTBR(amount decimal.Decimal) string {
	if amount.IsNegative() {
		amount = amount.Abs()
	}

	total := amount.Shift(2).Truncate(0).IntPart()
	reais := total / 100
	centavos := total % 100

	var parts []string

	switch {
	case reais == 0 && centavos == 0:
		return "zero real"
	case reais == 1:
		parts = append(parts, "um real")
	case reais > 1:
		words := intInWordsPTBR(reais)
		// "de reais" after a bare million/billion ("um milhão de reais")
		if reais%1_000_000 == 0 {
			parts = append(parts, words+" de reais")
		} else {
			parts = append(parts, words+" reais")
		}
	}

	if centavos == 1 {
		parts = append(parts, "um centavo")
	} else if centavos > 1 {
		parts = append(parts, intInWordsPTBR(centavos)+" centavos")
	}

	return strings.Join(parts, " e ")
}

// intInWordsPTBR spells a positive integer below one billion
func intInWordsPTBR(n int64) string {
	if n == 0 {
		return "zero"
	}

	var parts []string

	if millions := n / 1_000_000; millions > 0 {
		if millions == 1 {
			parts = append(parts, "um milhão")
		} else {
			parts = append(parts, hundredsInWordsPTBR(millions)+" milhões")
		}
		n %= 1_000_000
	}

	if thousands := n / 1000; thousands > 0 {
		if thousands == 1 {
			parts = append(parts, "mil")
		} else {
			parts = append(parts, hundredsInWordsPTBR(thousands)+" mil")
		}
		n %= 1000
	}

	if n > 0 {
		parts = append(parts, hundredsInWordsPTBR(n))
	}

	return strings.Join(parts, " e ")
}

// hundredsInWordsPTBR spells a number in [1, 999]
func hundredsInWordsPTBR(n int64) string {
	if n == 100 {
		return "cem"
	}

	var parts []string

	if h := n / 100; h > 0 {
		parts = append(parts, ptHundreds[h])
		n %= 100
	}

	switch {
	case n >= 20:
		if u := n % 10; u > 0 {
			parts = append(parts, ptTens[n/10]+" e "+ptUnits[u])
		} else {
			parts = append(parts, ptTens[n/10])
		}
	case n > 0:
		parts = append(parts, ptUnits[n])
	}

	return strings.Join(parts, " e ")
}
