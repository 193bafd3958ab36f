package workstation

import "time"

// History returns the workflow records for a project, oldest first.
// An empty projectID returns everything. Records are copied; callers
// can't reach into the stored history.
func (w *Workstation) History(projectID string) []*Record {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []*Record
	for _, rec := range w.history {
		if projectID != "" && rec.ProjectID != projectID {
			continue
		}
		cp := *rec
		cp.Steps = make([]Step, len(rec.Steps))
		copy(cp.Steps, rec.Steps)
		out = append(out, &cp)
	}
	return out
}

// Metrics summarizes the workflow history for a project.
type Metrics struct {
	TotalWorkflows  int            `json:"totalWorkflows"`
	Completed       int            `json:"completed"`
	Failed          int            `json:"failed"`
	SuccessRate     float64        `json:"successRate"`
	AverageDuration time.Duration  `json:"averageDuration"`
	ByType          map[string]int `json:"byType"`
}

// ProjectMetrics computes metrics with a linear scan of the history.
// An empty projectID aggregates across all projects.
func (w *Workstation) ProjectMetrics(projectID string) Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()

	m := Metrics{ByType: make(map[string]int)}
	var total time.Duration
	for _, rec := range w.history {
		if projectID != "" && rec.ProjectID != projectID {
			continue
		}
		m.TotalWorkflows++
		m.ByType[rec.Type]++
		total += rec.Duration()
		switch rec.Status {
		case StatusCompleted:
			m.Completed++
		case StatusFailed:
			m.Failed++
		}
	}
	if m.TotalWorkflows > 0 {
		m.SuccessRate = float64(m.Completed) / float64(m.TotalWorkflows)
		m.AverageDuration = total / time.Duration(m.TotalWorkflows)
	}
	return m
}
