package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aigymos/gym-console/internal/domain/entities"
)

const insufficientDataInsight = "Sem dados suficientes ainda para gerar recomendacoes. Importe check-ins e alunos para ativar insights."

// ViewModelInput carries the five dashboard feeds. A nil field means the feed
// is still loading or failed.
type ViewModelInput struct {
	Executive   *entities.ExecutiveDashboard
	Commercial  *entities.CommercialDashboard
	Operational *entities.OperationalDashboard
	Retention   *entities.RetentionDashboard
	Churn       []entities.ChurnPoint
}

// BuildViewModel merges whatever feeds are present into the overview. It has
// no error path and no side effects.
func BuildViewModel(in ViewModelInput) entities.DashboardViewModel {
	var (
		revenue  float64
		leads    int
		checkins int
		highRisk int
		inactive int
		stale    int
		npsTrend []entities.NPSEvolutionPoint
	)

	if in.Executive != nil {
		revenue = nonNegative(in.Executive.MRR)
	}
	if in.Commercial != nil {
		for _, count := range in.Commercial.Pipeline {
			leads += count
		}
		stale = in.Commercial.StaleLeadsTotal
	}
	if in.Operational != nil {
		checkins = in.Operational.RealtimeCheckins
		inactive = in.Operational.Inactive7dTotal
	}
	if in.Retention != nil {
		highRisk = in.Retention.Red.Total
		npsTrend = in.Retention.NPSTrend
	}

	leads = max(leads, 0)
	checkins = max(checkins, 0)
	highRisk = max(highRisk, 0)
	inactive = max(inactive, 0)
	stale = max(stale, 0)

	var npsLatest *float64
	if len(npsTrend) > 0 {
		latest := npsTrend[len(npsTrend)-1].AverageScore
		npsLatest = &latest
	}

	return entities.DashboardViewModel{
		Cards: entities.DashboardCards{
			Revenue:         revenue,
			Leads:           leads,
			Checkins:        checkins,
			HighRiskMembers: highRisk,
		},
		Alerts:         buildAlerts(highRisk, inactive, stale),
		Insight:        buildInsight(highRisk, inactive, stale, npsLatest),
		RetentionChart: mergeRetentionSeries(in.Churn, npsTrend),
		QuickActions:   buildQuickActions(highRisk, stale),
		HasData:        revenue > 0 || leads > 0 || checkins > 0 || highRisk > 0 || len(npsTrend) > 0,
	}
}

func buildAlerts(highRisk, inactive, stale int) []entities.DashboardAlert {
	alerts := []entities.DashboardAlert{}
	if highRisk > 0 {
		alerts = append(alerts, entities.DashboardAlert{
			ID:          "high-risk",
			Title:       "Risco vermelho ativo",
			Description: fmt.Sprintf("%d aluno(s) requer(em) acao imediata da equipe de retencao.", highRisk),
			Tone:        entities.AlertToneDanger,
			Href:        "/dashboard/retention",
		})
	}
	if inactive > 0 {
		alerts = append(alerts, entities.DashboardAlert{
			ID:          "inactive-members",
			Title:       "Inatividade acima do ideal",
			Description: fmt.Sprintf("%d aluno(s) estao sem check-in por 7 dias ou mais.", inactive),
			Tone:        entities.AlertToneWarning,
			Href:        "/dashboard/operational",
		})
	}
	if stale > 0 {
		alerts = append(alerts, entities.DashboardAlert{
			ID:          "stale-leads",
			Title:       "Pipeline comercial parado",
			Description: fmt.Sprintf("%d lead(s) estao sem contato recente e podem esfriar.", stale),
			Tone:        entities.AlertToneNeutral,
			Href:        "/dashboard/commercial",
		})
	}
	return alerts
}

func buildInsight(highRisk, inactive, stale int, npsLatest *float64) string {
	if highRisk == 0 && inactive == 0 && stale == 0 && npsLatest == nil {
		return insufficientDataInsight
	}

	var parts []string
	if highRisk > 0 {
		parts = append(parts, fmt.Sprintf("%d aluno(s) em risco alto exigem contato ativo nas proximas 24h", highRisk))
	}
	if inactive > 0 {
		parts = append(parts, fmt.Sprintf("%d aluno(s) estao ha 7+ dias sem treinar", inactive))
	}
	if stale > 0 {
		parts = append(parts, fmt.Sprintf("%d lead(s) comercial(is) estao sem follow-up", stale))
	}
	if npsLatest != nil {
		parts = append(parts, fmt.Sprintf("NPS atual em %.1f indica tendencia de satisfacao", *npsLatest))
	}
	return strings.Join(parts, ". ") + "."
}

// mergeRetentionSeries joins churn and NPS on month. Months are YYYY-MM so
// string order is chronological. A repeated month keeps the last value.
func mergeRetentionSeries(churn []entities.ChurnPoint, nps []entities.NPSEvolutionPoint) []entities.RetentionChartPoint {
	churnByMonth := make(map[string]float64, len(churn))
	for _, point := range churn {
		churnByMonth[point.Month] = point.ChurnRate
	}
	npsByMonth := make(map[string]float64, len(nps))
	for _, point := range nps {
		npsByMonth[point.Month] = point.AverageScore
	}

	months := make([]string, 0, len(churnByMonth)+len(npsByMonth))
	for month := range churnByMonth {
		months = append(months, month)
	}
	for month := range npsByMonth {
		if _, dup := churnByMonth[month]; !dup {
			months = append(months, month)
		}
	}
	sort.Strings(months)

	points := make([]entities.RetentionChartPoint, 0, len(months))
	for _, month := range months {
		point := entities.RetentionChartPoint{Month: month}
		if value, ok := churnByMonth[month]; ok {
			point.ChurnRate = &value
		}
		if value, ok := npsByMonth[month]; ok {
			point.NPSAvg = &value
		}
		points = append(points, point)
	}
	return points
}

func buildQuickActions(highRisk, stale int) []entities.QuickAction {
	return []entities.QuickAction{
		{
			ID:          "quick-retention",
			Label:       "Abrir Retencao",
			Description: fmt.Sprintf("%d aluno(s) em risco vermelho", highRisk),
			Href:        "/dashboard/retention",
		},
		{
			ID:          "quick-crm",
			Label:       "Avancar CRM",
			Description: fmt.Sprintf("%d lead(s) sem contato recente", stale),
			Href:        "/crm",
		},
		{
			ID:          "quick-import",
			Label:       "Importar CSV",
			Description: "Atualize base de membros e catraca",
			Href:        "/imports",
		},
		{
			ID:          "quick-tasks",
			Label:       "Executar Tasks",
			Description: "Acompanhe as tarefas abertas da equipe",
			Href:        "/tasks",
		},
	}
}

func nonNegative(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}
