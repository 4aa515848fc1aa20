package rendering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
)

// DocumentData is the view model handed to the document templates
type DocumentData struct {
	Protocol       string
	KindName       string
	RequesterName  string
	RequesterCPF   string
	SupplyCategory string
	UnitCategory   string
	BudgetCode     string
	Justification  string
	BankName       string
	BankBranch     string
	BankAccount    string
	ApprovedValue  decimal.Decimal
	Amount         *decimal.Decimal
	DocumentID     uuid.UUID
	GeneratedAt    time.Time
	Signed         bool
	SignedAt       *time.Time
}

// NewDocumentData builds the template view model from a case and its document
func NewDocumentData(c *suprimento.Case, doc *suprimento.ExecutionDocument) DocumentData {
	return DocumentData{
		Protocol:       c.ProtocolNumber,
		KindName:       doc.Kind.DisplayName(),
		RequesterName:  c.RequesterName,
		RequesterCPF:   c.RequesterCPF,
		SupplyCategory: string(c.SupplyCategory),
		UnitCategory:   string(c.UnitCategory),
		BudgetCode:     c.BudgetCode,
		Justification:  c.Justification,
		BankName:       c.Bank.Bank,
		BankBranch:     c.Bank.Branch,
		BankAccount:    c.Bank.Account,
		ApprovedValue:  c.ApprovedValue,
		Amount:         doc.Amount,
		DocumentID:     doc.ID,
		GeneratedAt:    doc.CreatedAt,
		Signed:         doc.IsSigned(),
		SignedAt:       doc.SignedAt,
	}
}

// baseStyle is shared by all document layouts
const baseStyle = `
<style>
  body { font-family: "Times New Roman", serif; font-size: 12pt; color: #111; }
  .header { text-align: center; margin-bottom: 24px; }
  .header h1 { font-size: 14pt; margin: 4px 0; text-transform: uppercase; }
  .header .org { font-size: 11pt; }
  .protocol { text-align: right; font-size: 10pt; margin-bottom: 16px; }
  .body-text { text-align: justify; line-height: 1.6; }
  table.fields { width: 100%; border-collapse: collapse; margin: 16px 0; }
  table.fields td { border: 1px solid #444; padding: 6px 8px; font-size: 11pt; }
  table.fields td.label { width: 35%; font-weight: bold; background: #f0f0f0; }
  .amount-box { border: 2px solid #111; padding: 12px; margin: 16px 0; text-align: center; }
  .amount-box .value { font-size: 14pt; font-weight: bold; }
  .amount-box .words { font-size: 10pt; font-style: italic; }
  .signature { margin-top: 64px; text-align: center; }
  .signature .line { border-top: 1px solid #111; width: 60%; margin: 0 auto; padding-top: 4px; }
  .footer { margin-top: 32px; font-size: 9pt; color: #555; text-align: center; }
</style>
`

const documentHeader = `
<div class="header">
  <div class="org">Poder Judiciário do Estado do Pará</div>
  <div class="org">Secretaria de Planejamento, Coordenação e Finanças</div>
  <h1>{{.KindName}}</h1>
</div>
<div class="protocol">Processo nº {{.Protocol}} &mdash; Documento {{shortUUID .DocumentID}}</div>
`

const documentFooter = `
<div class="footer">
  Documento gerado eletronicamente em {{formatDateTime .GeneratedAt}}.
  {{if .Signed}}Assinado eletronicamente em {{formatDateTime .SignedAt}}.{{else}}Pendente de assinatura.{{end}}
</div>
`

const requesterFields = `
<table class="fields">
  <tr><td class="label">Suprido</td><td>{{.RequesterName}}</td></tr>
  <tr><td class="label">CPF</td><td>{{formatCPF .RequesterCPF}}</td></tr>
  <tr><td class="label">Modalidade</td><td>{{.SupplyCategory}}</td></tr>
  <tr><td class="label">Dotação orçamentária</td><td>{{.BudgetCode}}</td></tr>
</table>
`

// documentTemplates holds the fixed layout for each document kind
var documentTemplates = map[suprimento.DocumentKind]string{
	suprimento.KindAuthorizationOrder: baseStyle + documentHeader + requesterFields + `
<p class="body-text">
  Fica autorizada a concessão de suprimento de fundos ao servidor acima
  identificado, no valor de <strong>{{formatMoney .ApprovedValue}}</strong>
  ({{moneyInWords .ApprovedValue}}), para atender às despesas descritas na
  justificativa do processo, observados os prazos legais de aplicação e
  prestação de contas.
</p>
<p class="body-text"><strong>Justificativa:</strong> {{.Justification}}</p>
<div class="signature">
  <div class="line">Ordenador de Despesas</div>
</div>
` + documentFooter,

	suprimento.KindRegularityCertificate: baseStyle + documentHeader + requesterFields + `
<p class="body-text">
  Certifico, para os devidos fins, que o servidor acima identificado encontra-se
  em situação regular perante este órgão, não constando pendência de prestação
  de contas de suprimentos anteriores nem impedimento legal à concessão ora
  processada.
</p>
<p class="body-text">
  Belém (PA), {{formatLongDate .GeneratedAt}}.
</p>
<div class="signature">
  <div class="line">Setor de Execução Orçamentária</div>
</div>
` + documentFooter,

	suprimento.KindCommitmentNote: baseStyle + documentHeader + requesterFields + `
<div class="amount-box">
  <div class="value">{{with .Amount}}{{formatMoney .}}{{end}}</div>
  <div class="words">({{with .Amount}}{{moneyInWords .}}{{end}})</div>
</div>
<p class="body-text">
  Empenho da despesa na dotação {{.BudgetCode}}, em favor do suprido acima
  identificado, pelo valor indicado. O presente empenho vincula o valor
  aprovado do processo, que se torna imutável a partir desta emissão.
</p>
<div class="signature">
  <div class="line">Ordenador de Despesas</div>
</div>
` + documentFooter,

	suprimento.KindSettlementDocument: baseStyle + documentHeader + requesterFields + `
<div class="amount-box">
  <div class="value">{{with .Amount}}{{formatMoney .}}{{end}}</div>
  <div class="words">({{with .Amount}}{{moneyInWords .}}{{end}})</div>
</div>
<p class="body-text">
  Liquidação da despesa empenhada, reconhecido o direito do suprido ao
  recebimento do valor indicado, verificada a regularidade da concessão e a
  conformidade com a nota de empenho correspondente.
</p>
<div class="signature">
  <div class="line">Setor Jurídico-Financeiro</div>
</div>
` + documentFooter,

	suprimento.KindPaymentOrder: baseStyle + documentHeader + requesterFields + `
<div class="amount-box">
  <div class="value">{{with .Amount}}{{formatMoney .}}{{end}}</div>
  <div class="words">({{with .Amount}}{{moneyInWords .}}{{end}})</div>
</div>
<table class="fields">
  <tr><td class="label">Banco</td><td>{{.BankName}}</td></tr>
  <tr><td class="label">Agência</td><td>{{.BankBranch}}</td></tr>
  <tr><td class="label">Conta</td><td>{{.BankAccount}}</td></tr>
</table>
<p class="body-text">
  Autorizo o crédito do valor liquidado na conta bancária acima indicada,
  de titularidade do suprido, em caráter definitivo.
</p>
<div class="signature">
  <div class="line">Setor Financeiro</div>
</div>
` + documentFooter,
}

// TemplateFor returns the layout body for the given kind
func TemplateFor(kind suprimento.DocumentKind) (string, bool) {
	body, ok := documentTemplates[kind]
	return body, ok
}
