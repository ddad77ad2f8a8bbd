package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bmonteiro/fincycle/internal/domain"
)

// Generator produces projections from a ledger snapshot.
type Generator struct {
	model string
}

// NewGenerator creates a generator. An empty model name selects
// DefaultModelName.
func NewGenerator(model string) *Generator {
	if model == "" {
		model = DefaultModelName
	}
	return &Generator{model: model}
}

// slimTransaction is the compact form sent to the model; full records would
// waste tokens on ids and links the model has no use for.
type slimTransaction struct {
	Date   string  `json:"date"`
	Desc   string  `json:"desc"`
	Amt    float64 `json:"amt"`
	Type   string  `json:"type"`
	Cat    string  `json:"cat,omitempty"`
	Status string  `json:"status"`
}

type slimDebt struct {
	Creditor  string  `json:"creditor"`
	Remaining float64 `json:"remaining"`
	Rate      float64 `json:"rate"`
	Priority  string  `json:"priority"`
}

func slimTransactions(txs []domain.Transaction, withCategory bool) []slimTransaction {
	out := make([]slimTransaction, 0, len(txs))
	for _, t := range txs {
		s := slimTransaction{
			Date:   t.Date.UTC().Format("2006-01-02"),
			Desc:   t.Description,
			Amt:    t.Amount.InexactFloat64(),
			Type:   string(t.Type),
			Status: string(t.Status),
		}
		if withCategory {
			s.Cat = t.Category
		}
		out = append(out, s)
	}
	return out
}

func slimDebts(debts []domain.Debt) []slimDebt {
	out := make([]slimDebt, 0, len(debts))
	for _, d := range debts {
		out = append(out, slimDebt{
			Creditor:  d.Creditor,
			Remaining: d.RemainingAmount.InexactFloat64(),
			Rate:      d.InterestRate.InexactFloat64(),
			Priority:  string(d.Priority),
		})
	}
	return out
}

// GenerateAnnualReport asks the model for an economic profile and a
// 12-month cash-flow projection.
func (g *Generator) GenerateAnnualReport(ctx context.Context, snap Snapshot) (*AnnualReport, error) {
	txJSON, err := json.Marshal(slimTransactions(snap.Transactions, true))
	if err != nil {
		return nil, fmt.Errorf("GenerateAnnualReport: marshal transactions: %w", err)
	}
	debtJSON, err := json.Marshal(slimDebts(snap.Debts))
	if err != nil {
		return nil, fmt.Errorf("GenerateAnnualReport: marshal debts: %w", err)
	}

	prompt := "ATUE COMO: \"Diretor Financeiro (CFO) e Especialista em Behavioral Finance\".\n" +
		"MISSÃO: Analisar o histórico transacional e a carteira de dívidas do cliente para:\n" +
		"1. Identificar o PERFIL ECONÔMICO (Psicologia Financeira).\n" +
		"2. Gerar uma PROJEÇÃO ANUAL (12 meses) de fluxo de caixa.\n\n" +
		"DADOS DO CLIENTE (JSON):\n" +
		"- Saldo em Caixa Atual: R$ " + snap.CurrentBalance.StringFixed(2) + "\n" +
		"- Transações (Passado e Agendadas): " + string(txJSON) + "\n" +
		"- Dívidas Ativas: " + string(debtJSON) + "\n\n" +
		"DIRETRIZES DE ANÁLISE:\n" +
		"- Analise a recorrência de receitas para projetar os próximos 12 meses.\n" +
		"- Avalie se as despesas são essenciais ou supérfluas baseando-se nas categorias.\n" +
		"- Perfil Econômico: Classifique se o usuário é \"Sobrevivente\", \"Poupador\", \"Investidor\", \"Endividado\" ou \"Arrojado\".\n" +
		"- Projeção: O saldo inicial do Mês 1 é o saldo atual. O fechamento de um mês é a abertura do outro.\n\n" +
		"Gere um JSON estrito seguindo o schema. Fale em Português do Brasil.\n"

	var report AnnualReport
	if err := g.generateInto(ctx, prompt, reportSchema(), &report); err != nil {
		return nil, fmt.Errorf("GenerateAnnualReport: %w", err)
	}
	return &report, nil
}

// GenerateDebtPlan asks the model for a tactical plan that clears all debts
// as fast as possible. Only the most recent transactions are sent.
func (g *Generator) GenerateDebtPlan(ctx context.Context, snap Snapshot) (*DebtPlan, error) {
	recent := snap.Transactions
	if len(recent) > 30 {
		recent = recent[len(recent)-30:]
	}
	txJSON, err := json.Marshal(slimTransactions(recent, false))
	if err != nil {
		return nil, fmt.Errorf("GenerateDebtPlan: marshal transactions: %w", err)
	}
	debtJSON, err := json.Marshal(slimDebts(snap.Debts))
	if err != nil {
		return nil, fmt.Errorf("GenerateDebtPlan: marshal debts: %w", err)
	}

	prompt := "ATUE COMO: \"Especialista em Recuperação de Crédito e Planejamento Financeiro\".\n" +
		"DADOS:\n" +
		"- Saldo Atual: R$ " + snap.CurrentBalance.StringFixed(2) + "\n" +
		"- Dívidas Ativas: " + string(debtJSON) + "\n" +
		"- Histórico Recente: " + string(txJSON) + "\n\n" +
		"MISSÃO: Gerar um plano tático de 12 meses focado em QUITAR TODAS AS DÍVIDAS o mais rápido possível.\n" +
		"Use o \"Método Avalanche\" (maiores juros primeiro) ou \"Bola de Neve\" conforme sua análise técnica.\n" +
		"O saldo inicial do Mês 1 é o saldo atual.\n\n" +
		"Gere um JSON estrito seguindo o schema. Fale em Português do Brasil.\n"

	var plan DebtPlan
	if err := g.generateInto(ctx, prompt, planSchema(), &plan); err != nil {
		return nil, fmt.Errorf("GenerateDebtPlan: %w", err)
	}
	return &plan, nil
}

// generateInto runs one structured-output generation and decodes the JSON
// response into out.
func (g *Generator) generateInto(ctx context.Context, prompt string, schema *genai.Schema, out interface{}) error {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return fmt.Errorf("empty response from model")
	}

	clean := cleanModelJSON(rawText)
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return fmt.Errorf("unmarshal JSON: %w\nraw response: %s", err, rawText)
	}
	return nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the strict-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}' when junk remains.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
