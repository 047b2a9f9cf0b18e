package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/siscrap/internal/domain"
)

var errBackend = errors.New("backend down")

func openController(t *testing.T, api *fakeAPI) *Controller {
	t.Helper()
	c := New(api, 11)
	require.NoError(t, c.Open(context.Background()))
	return c
}

func TestOpen_LoadsPageAndSummary(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks(), summary: domain.Summary{Total: 3, Similar: 1}}
	c := openController(t, api)

	st := c.State()
	assert.Len(t, st.Rows, 3)
	require.NotNil(t, st.Summary)
	assert.Equal(t, 3, st.Summary.Total)
	assert.False(t, st.Loading)
	assert.Equal(t, domain.ReviewFilterAll, st.Filter.Review)
}

func TestOpen_SummaryFailureIsNotFatal(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks(), summaryErr: errBackend}
	c := openController(t, api)
	assert.Nil(t, c.Summary())
	assert.Len(t, c.Tasks(), 3)
}

func TestOpen_ListFailureSurfaces(t *testing.T) {
	api := &fakeAPI{listErr: errBackend}
	err := New(api, 1).Open(context.Background())
	assert.ErrorIs(t, err, errBackend)
}

func TestRefreshKeepsLastGoodPageOnError(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	c := openController(t, api)

	api.mu.Lock()
	api.listErr = errBackend
	api.mu.Unlock()

	assert.Error(t, c.Refresh(context.Background()))
	assert.Len(t, c.Tasks(), 3)
}

func TestSetFilter_ResetsPage(t *testing.T) {
	cases := []struct {
		dim   Dimension
		value string
	}{
		{DimSearch, "mouse"},
		{DimPallet, "P1"},
		{DimCondition, "NOVO"},
		{DimOutcome, "SUCESSO"},
		{DimOutcome, "SIMILAR"},
	}
	for _, tc := range cases {
		t.Run(string(tc.dim)+"="+tc.value, func(t *testing.T) {
			api := &fakeAPI{tasks: scenarioTasks(), totalPages: 5}
			c := openController(t, api)
			require.NoError(t, c.SetPage(context.Background(), 3))
			assert.Equal(t, 3, api.lastList().page)

			require.NoError(t, c.SetFilter(context.Background(), tc.dim, tc.value))
			assert.Equal(t, 0, c.Page())
			assert.Equal(t, 0, api.lastList().page)
		})
	}
}

func TestSetFilter_OutcomeToggleResetsReview(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	c := openController(t, api)
	ctx := context.Background()

	require.NoError(t, c.SetFilter(ctx, DimOutcome, "SIMILAR"))
	require.NoError(t, c.SetFilter(ctx, DimReview, "APROVADO"))
	assert.Equal(t, domain.ReviewStatus("APROVADO"), api.lastList().filter.EffectiveReview())

	// same value again clears the outcome
	require.NoError(t, c.SetFilter(ctx, DimOutcome, "SIMILAR"))
	f := c.Filter()
	assert.Empty(t, f.Outcome)
	assert.Equal(t, domain.ReviewFilterAll, f.Review)

	require.NoError(t, c.SetFilter(ctx, DimOutcome, "SIMILAR"))
	require.NoError(t, c.SetFilter(ctx, DimReview, "NA"))
	require.NoError(t, c.SetFilter(ctx, DimOutcome, "BLOQUEADO"))
	assert.Equal(t, domain.OutcomeBlocked, c.Filter().Outcome)
	assert.Equal(t, domain.ReviewFilterAll, c.Filter().Review)
}

func TestSetFilter_ReviewOnlyWithinSimilar(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	c := openController(t, api)
	lists, _ := api.counts()

	err := c.SetFilter(context.Background(), DimReview, "APROVADO")
	assert.ErrorIs(t, err, ErrReviewFilterUnavailable)
	after, _ := api.counts()
	assert.Equal(t, lists, after, "rejected filter must not fetch")
	assert.False(t, c.ReviewFilterEnabled())

	require.NoError(t, c.SetFilter(context.Background(), DimReview, "TODOS"))
}

func TestSetFilter_Unknown(t *testing.T) {
	c := openController(t, &fakeAPI{})
	assert.ErrorIs(t, c.SetFilter(context.Background(), "bogus", "x"), ErrUnknownFilter)
	assert.ErrorIs(t, c.SetFilter(context.Background(), DimOutcome, "PERDIDO"), ErrUnknownFilter)
}

func TestSetPage_OutOfRange(t *testing.T) {
	c := openController(t, &fakeAPI{tasks: scenarioTasks(), totalPages: 2})
	assert.ErrorIs(t, c.SetPage(context.Background(), 2), ErrPageOutOfRange)
	assert.ErrorIs(t, c.SetPage(context.Background(), -1), ErrPageOutOfRange)
}

func TestApprove_Success(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	c := openController(t, api)
	_, summariesBefore := api.counts()

	require.NoError(t, c.Approve(context.Background(), 2))

	task, ok := c.Task(2)
	require.True(t, ok)
	assert.Equal(t, domain.ReviewApproved, task.ReviewStatus)
	assert.Empty(t, task.Candidates)
	_, summariesAfter := api.counts()
	assert.Equal(t, summariesBefore+1, summariesAfter)
}

func TestApprove_FailureRestoresTask(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks(), approveErr: errBackend}
	c := openController(t, api)
	before, _ := c.Task(2)
	_, summariesBefore := api.counts()

	err := c.Approve(context.Background(), 2)
	require.ErrorIs(t, err, errBackend)

	after, _ := c.Task(2)
	assert.Equal(t, before, after)
	_, summariesAfter := api.counts()
	assert.Equal(t, summariesBefore, summariesAfter, "no summary refetch on failure")
	assert.Equal(t, errBackend.Error(), c.State().Error)
}

func TestApprove_RequiresSimilar(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	c := openController(t, api)

	assert.ErrorIs(t, c.Approve(context.Background(), 1), ErrInvalidAction)
	assert.ErrorIs(t, c.Approve(context.Background(), 99), ErrTaskNotFound)
	assert.Empty(t, api.approveCalls)
}

func TestApprove_DuplicateIsRejectedWhileInFlight(t *testing.T) {
	tasks := scenarioTasks()
	second := tasks[1].Clone()
	second.ID = 4
	tasks = append(tasks, second)

	gate := make(chan struct{})
	api := &fakeAPI{tasks: tasks}
	c := openController(t, api)
	api.mu.Lock()
	api.approveGate = gate
	api.mu.Unlock()

	done := make(chan error, 2)
	go func() { done <- c.Approve(context.Background(), 2) }()

	assert.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, busy := c.inFlight["approve:2"]
		return busy
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, c.Approve(context.Background(), 2), ErrInFlight)

	// an unrelated task is not serialized behind the first approval
	go func() { done <- c.Approve(context.Background(), 4) }()
	assert.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, busy := c.inFlight["approve:4"]
		return busy
	}, time.Second, 5*time.Millisecond)

	close(gate)
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	for _, id := range []int64{2, 4} {
		task, _ := c.Task(id)
		assert.Equal(t, domain.ReviewApproved, task.ReviewStatus)
	}
}

func TestChooseCandidate_Scenario(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	c := openController(t, api)

	require.NoError(t, c.ChooseCandidate(context.Background(), 2, 90))

	task, _ := c.Task(2)
	assert.Equal(t, "Teclado Mecânico", task.FoundTitle)
	assert.Equal(t, "199,90", task.Price)
	assert.Equal(t, "179,90", task.PriceDesc)
	assert.Equal(t, "https://ml/90", task.Link)
	assert.Equal(t, float64(90), task.Score)

	require.Len(t, task.Candidates, 2)
	assert.True(t, task.Candidates[0].Chosen)
	assert.False(t, task.Candidates[1].Chosen)
	assert.Equal(t, [][2]int64{{2, 90}}, api.chooseCalls)

	// switching moves the single chosen flag
	require.NoError(t, c.ChooseCandidate(context.Background(), 2, 40))
	task, _ = c.Task(2)
	chosen := 0
	for _, cand := range task.Candidates {
		if cand.Chosen {
			chosen++
			assert.Equal(t, int64(40), cand.ID)
		}
	}
	assert.Equal(t, 1, chosen)
	assert.Equal(t, "Capa de teclado", task.FoundTitle)
}

func TestChooseCandidate_FailureRefetchesPage(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks(), chooseErr: errBackend}
	c := openController(t, api)
	lists, _ := api.counts()

	err := c.ChooseCandidate(context.Background(), 2, 90)
	require.ErrorIs(t, err, errBackend)

	after, _ := api.counts()
	assert.Equal(t, lists+1, after)
	// the refetch brought back the backend's view
	task, _ := c.Task(2)
	assert.Equal(t, "Teclado genérico", task.FoundTitle)
	assert.False(t, c.State().Loading, "reconciling refetch is silent")
}

func TestChooseCandidate_RejectsForeignCandidate(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	c := openController(t, api)

	assert.ErrorIs(t, c.ChooseCandidate(context.Background(), 2, 77), ErrInvalidAction)
	assert.ErrorIs(t, c.ChooseCandidate(context.Background(), 1, 90), ErrInvalidAction)
	assert.Empty(t, api.chooseCalls)
}

func TestCorrect_OutcomeTransitions(t *testing.T) {
	cases := []struct {
		in   domain.MatchOutcome
		want domain.MatchOutcome
	}{
		{domain.OutcomeNotFound, domain.OutcomeSuccess},
		{domain.OutcomeSimilar, domain.OutcomeSimilar},
		{domain.OutcomeBlocked, domain.OutcomeBlocked},
		{domain.OutcomeSuccess, domain.OutcomeSuccess},
	}
	for _, tc := range cases {
		t.Run(string(tc.in), func(t *testing.T) {
			task := scenarioTasks()[1]
			task.Outcome = tc.in
			api := &fakeAPI{tasks: []domain.Task{task}}
			c := openController(t, api)

			in := CorrectionInput{Title: "Teclado ABNT2", Price: "89,90", PriceDesc: "79,90", Link: "https://ml/x"}
			require.NoError(t, c.Correct(context.Background(), task.ID, in))

			got, _ := c.Task(task.ID)
			assert.Equal(t, tc.want, got.Outcome)
			assert.Equal(t, domain.ReviewApproved, got.ReviewStatus)
			assert.Equal(t, "Teclado ABNT2", got.FoundTitle)
			assert.Equal(t, "89,90", got.Price)
			assert.Equal(t, "79,90", got.PriceDesc)
			assert.Equal(t, "https://ml/x", got.Link)
			assert.Empty(t, got.Candidates)

			require.Len(t, api.correctCalls, 1)
			assert.Equal(t, task.ID, api.correctCalls[0].TaskID)
			assert.Equal(t, []int64{task.ID}, api.approveCalls)
		})
	}
}

func TestCorrect_FailedCorrectionSkipsApproval(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks(), correctErr: errBackend}
	c := openController(t, api)
	before, _ := c.Task(3)

	err := c.Correct(context.Background(), 3, CorrectionInput{Title: "Monitor 24"})
	require.ErrorIs(t, err, errBackend)
	assert.Empty(t, api.approveCalls)

	after, _ := c.Task(3)
	assert.Equal(t, before, after)
}

func TestReprocess_ClearsBlockedFilter(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	c := openController(t, api)
	ctx := context.Background()

	require.NoError(t, c.SetFilter(ctx, DimOutcome, "BLOQUEADO"))
	_, summaries := api.counts()

	require.NoError(t, c.Reprocess(ctx))
	assert.Empty(t, c.Filter().Outcome)
	assert.Empty(t, api.lastList().filter.Outcome)
	assert.Equal(t, 1, api.reprocessCalls)
	_, after := api.counts()
	assert.Equal(t, summaries+1, after)
}

func TestReprocess_KeepsOtherFilters(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks(), totalPages: 4}
	c := openController(t, api)
	ctx := context.Background()

	require.NoError(t, c.SetFilter(ctx, DimOutcome, "SIMILAR"))
	require.NoError(t, c.SetPage(ctx, 2))
	require.NoError(t, c.Reprocess(ctx))

	assert.Equal(t, domain.OutcomeSimilar, c.Filter().Outcome)
	assert.Equal(t, 2, api.lastList().page)
}

func TestReprocess_FailureLeavesState(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks(), reprocessErr: errBackend}
	c := openController(t, api)
	ctx := context.Background()
	require.NoError(t, c.SetFilter(ctx, DimOutcome, "BLOQUEADO"))
	lists, summaries := api.counts()

	require.ErrorIs(t, c.Reprocess(ctx), errBackend)
	assert.Equal(t, domain.OutcomeBlocked, c.Filter().Outcome)
	l, s := api.counts()
	assert.Equal(t, lists, l)
	assert.Equal(t, summaries, s)
}
