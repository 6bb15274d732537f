package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	adminActionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_action_total",
			Help: "Admin menu actions by action and outcome.",
		},
		[]string{"action", "status"}, // status: 'ok', 'error'
	)

	workflowTransitionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transition_total",
			Help: "Conversation workflow transitions by workflow and event.",
		},
		[]string{"workflow", "event"}, // event: 'start', 'advance', 'complete', 'cancel', 'fail'
	)
)

func init() {
	register(adminActionTotal, workflowTransitionTotal)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncAdminAction(action, status string) {
	adminActionTotal.WithLabelValues(norm(action), norm(status)).Inc()
}

func IncWorkflowTransition(workflow, event string) {
	workflowTransitionTotal.WithLabelValues(norm(workflow), norm(event)).Inc()
}
