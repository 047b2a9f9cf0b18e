package review

import (
	"github.com/timmy/siscrap/internal/domain"
)

// TaskRow is one task with the view hints the table needs.
type TaskRow struct {
	domain.Task
	Band           ScoreBand      `json:"band,omitempty"`
	CanApprove     bool           `json:"canApprove"`
	CanEdit        bool           `json:"canEdit"`
	ShowCandidates bool           `json:"showCandidates"`
	ShowDiscount   bool           `json:"showDiscount"`
	CandidateRows  []CandidateRow `json:"candidateRows,omitempty"`
}

// Rows derives display rows from tasks.
func Rows(tasks []domain.Task) []TaskRow {
	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		row := TaskRow{
			Task:         t,
			CanApprove:   t.Outcome == domain.OutcomeSimilar && t.ReviewStatus == domain.ReviewRejected,
			CanEdit:      t.Outcome != domain.OutcomeBlocked,
			ShowDiscount: t.PriceDesc != "" && t.PriceDesc != t.Price,
		}
		if t.Outcome == domain.OutcomeSimilar && t.Score > 0 {
			row.Band = BandFor(t.Score)
		}
		if t.Outcome == domain.OutcomeSimilar && len(t.Candidates) > 0 {
			row.ShowCandidates = true
			row.CandidateRows = candidateRows(t.Candidates)
		}
		rows = append(rows, row)
	}
	return rows
}

// Pagination describes the pager under the table.
type Pagination struct {
	Page          int   `json:"page"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int   `json:"totalElements"`
	From          int   `json:"from"`
	To            int   `json:"to"`
	Window        []int `json:"window"`
	HasPrev       bool  `json:"hasPrev"`
	HasNext       bool  `json:"hasNext"`
}

// Paginate computes the 1-based "from..to of total" range and a window of at most
// five page indexes centred on page.
func Paginate(page, size, totalPages, totalElements int) Pagination {
	p := Pagination{
		Page:          page,
		TotalPages:    totalPages,
		TotalElements: totalElements,
		HasPrev:       page > 0,
		HasNext:       page < totalPages-1,
	}
	if totalElements > 0 {
		p.From = page*size + 1
		p.To = min((page+1)*size, totalElements)
	}

	n := min(5, totalPages)
	start := 0
	switch {
	case totalPages <= 5 || page < 3:
		start = 0
	case page > totalPages-4:
		start = totalPages - 5
	default:
		start = page - 2
	}
	p.Window = make([]int, n)
	for i := range p.Window {
		p.Window[i] = start + i
	}
	return p
}

// State is a point-in-time copy of the controller for rendering.
type State struct {
	BatchID             int64             `json:"arquivoId"`
	Rows                []TaskRow         `json:"rows"`
	Summary             *domain.Summary   `json:"resumo,omitempty"`
	Filter              domain.TaskFilter `json:"filtros"`
	ReviewFilterEnabled bool              `json:"revisaoHabilitada"`
	Pallets             []string          `json:"pallets"`
	Conditions          []string          `json:"condicoes"`
	Pagination          Pagination        `json:"paginacao"`
	Loading             bool              `json:"loading"`
	Reprocessing        bool              `json:"reprocessing"`
	Form                FormState         `json:"correcao"`
	Error               string            `json:"error,omitempty"`
}

// State returns a deep copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks := domain.CloneTasks(c.tasks)
	pallets, conditions := FilterOptions(tasks)
	_, reprocessing := c.inFlight["reprocess"]

	st := State{
		BatchID:             c.batchID,
		Rows:                Rows(tasks),
		Filter:              c.filter,
		ReviewFilterEnabled: c.filter.Outcome == domain.OutcomeSimilar,
		Pallets:             pallets,
		Conditions:          conditions,
		Pagination:          Paginate(c.page, c.pageSize, c.totalPages, c.totalElements),
		Loading:             c.loading,
		Reprocessing:        reprocessing,
		Form:                c.form.state(),
	}
	if c.summary != nil {
		s := *c.summary
		st.Summary = &s
	}
	if c.lastErr != nil {
		st.Error = c.lastErr.Error()
	}
	return st
}

// Tasks returns a deep copy of the displayed page.
func (c *Controller) Tasks() []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneTasks(c.tasks)
}

// Task returns a copy of one displayed task.
func (c *Controller) Task(taskID int64) (domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(taskID)
	if idx < 0 {
		return domain.Task{}, false
	}
	return c.tasks[idx].Clone(), true
}

// Page returns the current page index.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Summary returns a copy of the last good summary, or nil.
func (c *Controller) Summary() *domain.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return nil
	}
	s := *c.summary
	return &s
}
