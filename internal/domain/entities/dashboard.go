package entities

// Backend dashboard payloads. Only fields the view model reads are typed
// strictly; list items are carried through for callers that render them.

type RiskDistribution struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

type ExecutiveDashboard struct {
	TotalMembers     int              `json:"total_members"`
	ActiveMembers    int              `json:"active_members"`
	MRR              float64          `json:"mrr"`
	ChurnRate        float64          `json:"churn_rate"`
	NPSAvg           float64          `json:"nps_avg"`
	RiskDistribution RiskDistribution `json:"risk_distribution"`
}

type ConversionBySource struct {
	Source         string  `json:"source"`
	Total          int     `json:"total"`
	Won            int     `json:"won"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Lead is the CRM lead summary embedded in the commercial payload.
type Lead struct {
	ID            string  `json:"id"`
	FullName      string  `json:"full_name"`
	Stage         string  `json:"stage,omitempty"`
	Source        string  `json:"source,omitempty"`
	LastContactAt *string `json:"last_contact_at,omitempty"`
}

type CommercialDashboard struct {
	Pipeline           map[string]int       `json:"pipeline"`
	ConversionBySource []ConversionBySource `json:"conversion_by_source"`
	CAC                float64              `json:"cac"`
	StaleLeadsTotal    int                  `json:"stale_leads_total"`
	StaleLeads         []Lead               `json:"stale_leads"`
}

type HeatmapPoint struct {
	Weekday       int `json:"weekday"`
	HourBucket    int `json:"hour_bucket"`
	TotalCheckins int `json:"total_checkins"`
}

type OperationalDashboard struct {
	RealtimeCheckins int            `json:"realtime_checkins"`
	Heatmap          []HeatmapPoint `json:"heatmap"`
	Inactive7dTotal  int            `json:"inactive_7d_total"`
	Inactive7dItems  []Member       `json:"inactive_7d_items"`
}

type MemberBucket struct {
	Total int      `json:"total"`
	Items []Member `json:"items"`
}

type NPSEvolutionPoint struct {
	Month        string  `json:"month"`
	AverageScore float64 `json:"average_score"`
	Responses    int     `json:"responses"`
}

type RetentionDashboard struct {
	Red      MemberBucket        `json:"red"`
	Yellow   MemberBucket        `json:"yellow"`
	NPSTrend []NPSEvolutionPoint `json:"nps_trend"`
}

type ChurnPoint struct {
	Month     string  `json:"month"`
	ChurnRate float64 `json:"churn_rate"`
}

// DashboardSource names one of the five backend dashboard feeds.
type DashboardSource string

const (
	DashboardExecutive   DashboardSource = "executive"
	DashboardCommercial  DashboardSource = "commercial"
	DashboardOperational DashboardSource = "operational"
	DashboardRetention   DashboardSource = "retention"
	DashboardChurn       DashboardSource = "churn"
)

// DashboardSources lists every feed in fetch order.
var DashboardSources = []DashboardSource{
	DashboardExecutive,
	DashboardCommercial,
	DashboardOperational,
	DashboardRetention,
	DashboardChurn,
}

// Derived view model.

type DashboardCards struct {
	Revenue         float64 `json:"revenue"`
	Leads           int     `json:"leads"`
	Checkins        int     `json:"checkins"`
	HighRiskMembers int     `json:"high_risk_members"`
}

// AlertTone drives the visual weight of an alert.
type AlertTone string

const (
	AlertToneDanger  AlertTone = "danger"
	AlertToneWarning AlertTone = "warning"
	AlertToneNeutral AlertTone = "neutral"
)

type DashboardAlert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tone        AlertTone `json:"tone"`
	Href        string    `json:"href"`
}

type QuickAction struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Href        string `json:"href"`
}

// RetentionChartPoint joins churn and NPS by month; a nil side means that
// series has no point for the month.
type RetentionChartPoint struct {
	Month     string   `json:"month"`
	ChurnRate *float64 `json:"churn_rate"`
	NPSAvg    *float64 `json:"nps_avg"`
}

type DashboardViewModel struct {
	Cards          DashboardCards        `json:"cards"`
	Alerts         []DashboardAlert      `json:"alerts"`
	Insight        string                `json:"insight"`
	RetentionChart []RetentionChartPoint `json:"retention_chart"`
	QuickActions   []QuickAction         `json:"quick_actions"`
	HasData        bool                  `json:"has_data"`
}
