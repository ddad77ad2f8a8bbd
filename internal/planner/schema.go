package planner

import "google.golang.org/genai"

// reportSchema constrains the annual report response to strict JSON.
func reportSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"economicProfile": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"category":    {Type: genai.TypeString, Description: "Título do perfil financeiro (ex: Poupador Estratégico)."},
					"description": {Type: genai.TypeString, Description: "Análise detalhada do comportamento."},
					"score":       {Type: genai.TypeInteger, Description: "Pontuação de saúde financeira de 0 a 100."},
					"keyAdvice":   {Type: genai.TypeString, Description: "A principal recomendação para o ano."},
					"strengths":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"weaknesses":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{"category", "description", "score", "keyAdvice", "strengths", "weaknesses"},
			},
			"annualSummary": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"totalProjectedIncome":   {Type: genai.TypeNumber},
					"totalProjectedExpenses": {Type: genai.TypeNumber},
					"totalProjectedSavings":  {Type: genai.TypeNumber},
					"averageMonthlyBalance":  {Type: genai.TypeNumber},
				},
				Required: []string{"totalProjectedIncome", "totalProjectedExpenses", "totalProjectedSavings", "averageMonthlyBalance"},
			},
			"projections": {
				Type:        genai.TypeArray,
				Description: "Projeção de 12 meses.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"monthLabel":     {Type: genai.TypeString, Description: "ex: 'Jan 2026'"},
						"openingBalance": {Type: genai.TypeNumber},
						"totalIncome":    {Type: genai.TypeNumber},
						"totalExpenses":  {Type: genai.TypeNumber},
						"totalSavings":   {Type: genai.TypeNumber},
						"closingBalance": {Type: genai.TypeNumber},
						"notes":          {Type: genai.TypeString},
					},
					Required: []string{"monthLabel", "openingBalance", "totalIncome", "totalExpenses", "totalSavings", "closingBalance", "notes"},
				},
			},
		},
		Required: []string{"economicProfile", "annualSummary", "projections"},
	}
}

// planSchema constrains the zero-debt strategy response.
func planSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"estimatedDebtFreeDate": {Type: genai.TypeString, Description: "Data estimada para quitação (ex: Jan/2026)"},
			"strategySummary":       {Type: genai.TypeString, Description: "Resumo da estratégia"},
			"projections": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"monthLabel":     {Type: genai.TypeString},
						"openingBalance": {Type: genai.TypeNumber},
						"totalIncome":    {Type: genai.TypeNumber},
						"fixedExpenses":  {Type: genai.TypeNumber},
						"debtPayments": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"creditor": {Type: genai.TypeString},
									"amount":   {Type: genai.TypeNumber},
								},
								Required: []string{"creditor", "amount"},
							},
						},
						"closingBalance": {Type: genai.TypeNumber},
						"notes":          {Type: genai.TypeString},
					},
					Required: []string{"monthLabel", "openingBalance", "totalIncome", "fixedExpenses", "debtPayments", "closingBalance", "notes"},
				},
			},
		},
		Required: []string{"estimatedDebtFreeDate", "strategySummary", "projections"},
	}
}
