package planner

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
)

func TestNewGenerator_DefaultModel(t *testing.T) {
	g := NewGenerator("")
	if g.model != DefaultModelName {
		t.Errorf("model = %q, want %q", g.model, DefaultModelName)
	}
	if g.model != "gemini-3-pro-preview" {
		t.Errorf("default model = %q, want gemini-3-pro-preview", g.model)
	}

	g = NewGenerator("gemini-2.5-flash")
	if g.model != "gemini-2.5-flash" {
		t.Errorf("override model = %q, want gemini-2.5-flash", g.model)
	}
}

func TestCleanModelJSON(t *testing.T) {
	want := `{"key": "value"}`

	tests := []struct {
		name string
		raw  string
	}{
		{"plain", `{"key": "value"}`},
		{"fenced", "```json\n{\"key\": \"value\"}\n```"},
		{"fenced no lang", "```\n{\"key\": \"value\"}\n```"},
		{"leading prose", "Here is the JSON you asked for:\n{\"key\": \"value\"}"},
		{"trailing prose", "{\"key\": \"value\"}\nLet me know if you need anything else."},
		{"whitespace", "   \n{\"key\": \"value\"}\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanModelJSON(tt.raw)
			if got != want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.raw, got, want)
			}
		})
	}
}

func TestCleanModelJSON_DecodesReport(t *testing.T) {
	raw := "```json\n" + `{
		"economicProfile": {
			"category": "Endividado",
			"description": "Alta exposição a juros.",
			"score": 35,
			"keyAdvice": "Priorize a quitação do cartão.",
			"strengths": ["Renda estável"],
			"weaknesses": ["Parcelamentos longos"]
		},
		"annualSummary": {
			"totalProjectedIncome": 60000,
			"totalProjectedExpenses": 48000,
			"totalProjectedSavings": 6000,
			"averageMonthlyBalance": 1200.50
		},
		"projections": [
			{
				"monthLabel": "Jan 2026",
				"openingBalance": 1000,
				"totalIncome": 5000,
				"totalExpenses": 4000,
				"totalSavings": 500,
				"closingBalance": 1500,
				"notes": "Mês de 13º residual."
			}
		]
	}` + "\n```"

	var report AnnualReport
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &report); err != nil {
		t.Fatalf("unmarshal cleaned report: %v", err)
	}

	if report.EconomicProfile.Category != "Endividado" {
		t.Errorf("category = %q, want Endividado", report.EconomicProfile.Category)
	}
	if report.EconomicProfile.Score != 35 {
		t.Errorf("score = %d, want 35", report.EconomicProfile.Score)
	}
	if len(report.Projections) != 1 {
		t.Fatalf("projections len = %d, want 1", len(report.Projections))
	}
	if report.Projections[0].ClosingBalance != 1500 {
		t.Errorf("closing balance = %v, want 1500", report.Projections[0].ClosingBalance)
	}
}

func TestSlimTransactions(t *testing.T) {
	txs := []domain.Transaction{
		{
			Date:        time.Date(2025, time.December, 15, 12, 0, 0, 0, time.UTC),
			Description: "Salário",
			Amount:      decimal.RequireFromString("2323.20"),
			Type:        domain.TypeIncome,
			Category:    domain.CategoryGeneral,
			Status:      domain.StatusPaid,
		},
	}

	withCat := slimTransactions(txs, true)
	if len(withCat) != 1 {
		t.Fatalf("len = %d, want 1", len(withCat))
	}
	if withCat[0].Date != "2025-12-15" {
		t.Errorf("date = %q, want 2025-12-15", withCat[0].Date)
	}
	if withCat[0].Amt != 2323.20 {
		t.Errorf("amt = %v, want 2323.20", withCat[0].Amt)
	}
	if withCat[0].Cat != domain.CategoryGeneral {
		t.Errorf("cat = %q, want %q", withCat[0].Cat, domain.CategoryGeneral)
	}

	noCat := slimTransactions(txs, false)
	b, err := json.Marshal(noCat)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `"cat"`) {
		t.Errorf("category should be omitted, got %s", b)
	}
}

func TestGenerateDebtPlan_TruncatesHistory(t *testing.T) {
	txs := make([]domain.Transaction, 45)
	for i := range txs {
		txs[i] = domain.Transaction{
			Date:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Description: "tx",
			Amount:      decimal.NewFromInt(10),
			Type:        domain.TypeExpense,
			Status:      domain.StatusPaid,
		}
	}

	recent := txs
	if len(recent) > 30 {
		recent = recent[len(recent)-30:]
	}
	slim := slimTransactions(recent, false)
	if len(slim) != 30 {
		t.Fatalf("len = %d, want 30", len(slim))
	}
	// The slice must keep the most recent entries.
	if slim[0].Date != "2025-01-16" {
		t.Errorf("first date = %q, want 2025-01-16", slim[0].Date)
	}
	if slim[29].Date != "2025-02-14" {
		t.Errorf("last date = %q, want 2025-02-14", slim[29].Date)
	}
}
