package review

import (
	"context"
	"sync"

	"github.com/timmy/siscrap/internal/domain"
)

type listCall struct {
	page   int
	filter domain.TaskFilter
}

// fakeAPI is an in-memory backend. Returned pages are deep copies so the
// controller never aliases the fake's slice.
type fakeAPI struct {
	mu sync.Mutex

	tasks      []domain.Task
	totalPages int
	summary    domain.Summary

	listErr      error
	summaryErr   error
	approveErr   error
	chooseErr    error
	correctErr   error
	reprocessErr error

	approveGate chan struct{}

	listCalls      []listCall
	summaryCalls   int
	approveCalls   []int64
	chooseCalls    [][2]int64
	correctCalls   []domain.Correction
	reprocessCalls int
}

func (f *fakeAPI) ListTasks(_ context.Context, _ int64, page int, filter domain.TaskFilter) (*domain.Page[domain.Task], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, listCall{page: page, filter: filter})
	if f.listErr != nil {
		return nil, f.listErr
	}
	total := f.totalPages
	if total == 0 {
		total = 1
	}
	return &domain.Page[domain.Task]{
		Content:       domain.CloneTasks(f.tasks),
		TotalPages:    total,
		TotalElements: len(f.tasks),
		Size:          domain.DefaultPageSize,
		Number:        page,
	}, nil
}

func (f *fakeAPI) TaskSummary(context.Context, int64) (*domain.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	s := f.summary
	return &s, nil
}

func (f *fakeAPI) ReprocessBlocked(context.Context, int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reprocessCalls++
	return f.reprocessErr
}

func (f *fakeAPI) ChooseCandidate(_ context.Context, taskID, candidateID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chooseCalls = append(f.chooseCalls, [2]int64{taskID, candidateID})
	return f.chooseErr
}

func (f *fakeAPI) ApproveSimilar(_ context.Context, taskID int64) error {
	f.mu.Lock()
	gate := f.approveGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.approveCalls = append(f.approveCalls, taskID)
	return f.approveErr
}

func (f *fakeAPI) CorrectSimilar(_ context.Context, dto domain.Correction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.correctCalls = append(f.correctCalls, dto)
	return f.correctErr
}

func (f *fakeAPI) lastList() listCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[len(f.listCalls)-1]
}

func (f *fakeAPI) counts() (lists, summaries int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls), f.summaryCalls
}

// scenarioTasks is a batch of three: one SIMILAR with two candidates scored 90
// and 40, none chosen.
func scenarioTasks() []domain.Task {
	return []domain.Task{
		{ID: 1, SearchTerm: "mouse", FoundTitle: "Mouse USB", Price: "20,00", Outcome: domain.OutcomeSuccess, ReviewStatus: domain.ReviewApproved, PalletCode: "P1", Condition: "NOVO"},
		{
			ID: 2, SearchTerm: "teclado", FoundTitle: "Teclado genérico", Price: "50,00", Score: 55,
			Outcome: domain.OutcomeSimilar, ReviewStatus: domain.ReviewRejected, PalletCode: "P2", Condition: "USADO",
			Candidates: []domain.Candidate{
				{ID: 90, Title: "Teclado Mecânico", Price: "199,90", DiscountPrice: "179,90", Link: "https://ml/90", MatchScore: 90},
				{ID: 40, Title: "Capa de teclado", Price: "15,00", DiscountPrice: "15,00", Link: "https://ml/40", MatchScore: 40},
			},
		},
		{ID: 3, SearchTerm: "monitor", Outcome: domain.OutcomeNotFound, ReviewStatus: domain.ReviewPending, PalletCode: "P1"},
	}
}
