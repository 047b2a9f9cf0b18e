package domain

// MatchOutcome is the scraper's verdict for one task. Set by the robot, read-only here
// except through correction/approval.
type MatchOutcome string

const (
	OutcomeNotFound MatchOutcome = "NAO_ENCONTRADO"
	OutcomeSuccess  MatchOutcome = "SUCESSO"
	OutcomeBlocked  MatchOutcome = "BLOQUEADO"
	OutcomeSimilar  MatchOutcome = "SIMILAR"
)

// Valid reports whether o is one of the known outcomes.
func (o MatchOutcome) Valid() bool {
	switch o {
	case OutcomeNotFound, OutcomeSuccess, OutcomeBlocked, OutcomeSimilar:
		return true
	}
	return false
}

// ReviewStatus is the human review state of a task.
type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "APROVADO"
	ReviewPending  ReviewStatus = "NA"
	ReviewRejected ReviewStatus = "REPROVADO"
)

// Candidate is an alternate match offered under a SIMILAR task.
type Candidate struct {
	ID            int64   `json:"id"`
	Title         string  `json:"titulo"`
	Price         string  `json:"preco"`
	DiscountPrice string  `json:"precoDesconto"`
	Link          string  `json:"link"`
	MatchScore    float64 `json:"matchScore"`
	Chosen        bool    `json:"escolhido"`
}

// Task is one scrape attempt for one line of an uploaded batch.
type Task struct {
	ID           int64        `json:"id"`
	SearchTerm   string       `json:"termo_busca"`
	FoundTitle   string       `json:"titulo_encontrado"`
	UnitCost     string       `json:"custoUnitario"`
	Condition    string       `json:"condicao"`
	PalletCode   string       `json:"codPallet"`
	Price        string       `json:"preco"`
	PriceDesc    string       `json:"preco_desc"`
	Link         string       `json:"link"`
	Score        float64      `json:"score"`
	Outcome      MatchOutcome `json:"status"`
	ReviewStatus ReviewStatus `json:"statusRevisao"`
	Candidates   []Candidate  `json:"candidatos,omitempty"`
}

// HasCandidate reports whether candidateID belongs to t.
func (t *Task) HasCandidate(candidateID int64) bool {
	for _, c := range t.Candidates {
		if c.ID == candidateID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy; candidate slices are not shared.
func (t Task) Clone() Task {
	if t.Candidates != nil {
		cs := make([]Candidate, len(t.Candidates))
		copy(cs, t.Candidates)
		t.Candidates = cs
	}
	return t
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Summary aggregates all tasks of one batch. Computed by the backend only.
type Summary struct {
	Total         int `json:"total"`
	Success       int `json:"sucesso"`
	Similar       int `json:"similar"`
	Blocked       int `json:"bloqueado"`
	NotFound      int `json:"naoEncontrado"`
	Approved      int `json:"aprovados"`
	Rejected      int `json:"reprovados"`
	PendingReview int `json:"pendentesRevisao"`
}

// Correction overrides a task's matched fields before approval.
type Correction struct {
	TaskID    int64  `json:"tarefaId"`
	Title     string `json:"titulo"`
	Price     string `json:"preco"`
	PriceDesc string `json:"precoDesc"`
	Link      string `json:"link"`
}

// ReviewFilterAll is the "TODOS" review filter value: no review-status restriction.
const ReviewFilterAll = "TODOS"

// TaskFilter is the optional filter set of the task listing. Empty strings mean unset.
type TaskFilter struct {
	Search    string       `json:"search,omitempty"`
	Pallet    string       `json:"pallet,omitempty"`
	Condition string       `json:"condicao,omitempty"`
	Outcome   MatchOutcome `json:"status,omitempty"`
	Review    string       `json:"statusRevisao,omitempty"`
}

// EffectiveReview returns the review-status filter to send, which only applies
// within the SIMILAR outcome.
func (f TaskFilter) EffectiveReview() ReviewStatus {
	if f.Outcome != OutcomeSimilar || f.Review == "" || f.Review == ReviewFilterAll {
		return ""
	}
	return ReviewStatus(f.Review)
}
