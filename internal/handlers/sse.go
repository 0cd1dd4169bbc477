package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"agent-console/internal/models"
)

var insightsTemplate = template.Must(template.New("insights").Parse(`
<div id="insights-content">
<div class="kpi-grid">
<div class="kpi-card"><span>Revenue</span><strong>€{{printf "%.2f" .KPIs.Revenue}}</strong></div>
<div class="kpi-card"><span>Orders</span><strong>{{.KPIs.Orders}}</strong></div>
<div class="kpi-card"><span>AOV</span><strong>€{{printf "%.2f" .KPIs.AOV}}</strong></div>
<div class="kpi-card"><span>Conversion</span><strong>{{printf "%.2f" .KPIs.ConversionPct}}%</strong></div>
<div class="kpi-card"><span>Cart abandonment</span><strong>{{printf "%.2f" .KPIs.CartAbandonPct}}%</strong></div>
<div class="kpi-card"><span>Return rate</span><strong>{{printf "%.2f" .KPIs.ReturnRatePct}}%</strong></div>
</div>
<p class="ai-summary" data-mode="{{.AIMode}}">{{.AISummary}}</p>
<table class="modern-table">
<thead><tr><th>Category</th><th>Revenue</th><th>Orders</th><th>Return rate</th></tr></thead>
<tbody>
{{range .Categories}}<tr>
<td><span class="category-badge">{{.Name}}</span></td>
<td><strong>€{{printf "%.2f" .Revenue}}</strong></td>
<td>{{.OrderCount}}</td>
<td>{{printf "%.2f" .ReturnRatePct}}%</td>
</tr>{{end}}
</tbody>
</table>
<ol class="actions">
{{range .Actions}}<li class="priority-{{.Priority}}"><strong>{{.Title}}</strong> {{.Detail}}</li>
{{end}}</ol>
</div>`))

type SSEHandlers struct {
	insights InsightsComputer
	logger   *slog.Logger
}

func NewSSEHandlers(insights InsightsComputer, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		insights: insights,
		logger:   logger,
	}
}

func renderInsights(data models.Insights) (string, error) {
	var buf strings.Builder
	err := insightsTemplate.Execute(&buf, data)
	return buf.String(), err
}

// HandleInsights streams the insights for ?range= as a signal patch for the
// charts and an element patch for the KPI and actions panel.
func (h *SSEHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	data := h.insights.Compute(r.Context(), r.URL.Query().Get("range"))

	html, err := renderInsights(data)
	if err != nil {
		h.logger.Error("render insights", "error", err)
		return
	}

	signals, err := json.Marshal(map[string]any{
		"insights": data,
	})
	if err != nil {
		h.logger.Error("marshal insights signals", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchSignals(signals); err != nil {
		h.logger.Warn("patch insights signals", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch insights elements", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
