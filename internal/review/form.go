package review

import (
	"context"
	"strings"

	"github.com/timmy/siscrap/internal/domain"
)

// CorrectionInput is the four editable fields of the correction form.
type CorrectionInput struct {
	Title     string `json:"titulo"`
	Price     string `json:"preco"`
	PriceDesc string `json:"precoDesc"`
	Link      string `json:"link"`
}

func (in CorrectionInput) toCorrection(taskID int64) domain.Correction {
	return domain.Correction{
		TaskID:    taskID,
		Title:     strings.TrimSpace(in.Title),
		Price:     strings.TrimSpace(in.Price),
		PriceDesc: strings.TrimSpace(in.PriceDesc),
		Link:      strings.TrimSpace(in.Link),
	}
}

// FormState is the correction modal as the view sees it.
type FormState struct {
	Open   bool            `json:"open"`
	TaskID int64           `json:"tarefaId,omitempty"`
	Input  CorrectionInput `json:"input"`
	Saving bool            `json:"saving"`
	Error  string          `json:"error,omitempty"`
}

type correctionForm struct {
	open   bool
	taskID int64
	input  CorrectionInput
	saving bool
	err    string
}

func (f correctionForm) state() FormState {
	return FormState{Open: f.open, TaskID: f.taskID, Input: f.input, Saving: f.saving, Error: f.err}
}

// OpenCorrection opens the form for a task, seeded from its current match. Any
// previous input is discarded.
func (c *Controller) OpenCorrection(taskID int64) (FormState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.form.saving {
		return c.form.state(), ErrInFlight
	}
	idx := c.indexOf(taskID)
	if idx < 0 {
		return FormState{}, ErrTaskNotFound
	}
	t := c.tasks[idx]
	c.form = correctionForm{
		open:   true,
		taskID: taskID,
		input: CorrectionInput{
			Title:     t.FoundTitle,
			Price:     t.Price,
			PriceDesc: t.PriceDesc,
			Link:      t.Link,
		},
	}
	return c.form.state(), nil
}

// EditCorrection replaces the form's input without submitting.
func (c *Controller) EditCorrection(in CorrectionInput) (FormState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.form.open {
		return FormState{}, ErrNoForm
	}
	if c.form.saving {
		return c.form.state(), ErrInFlight
	}
	c.form.input = in
	return c.form.state(), nil
}

// SubmitCorrection saves the form. On success the form closes; on failure it
// stays open with the input preserved.
func (c *Controller) SubmitCorrection(ctx context.Context, in CorrectionInput) (FormState, error) {
	c.mu.Lock()
	if !c.form.open {
		c.mu.Unlock()
		return FormState{}, ErrNoForm
	}
	if c.form.saving {
		st := c.form.state()
		c.mu.Unlock()
		return st, ErrInFlight
	}
	c.form.input = in
	c.form.saving = true
	c.form.err = ""
	taskID := c.form.taskID
	c.mu.Unlock()

	err := c.Correct(ctx, taskID, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.saving = false
	if err != nil {
		c.form.err = err.Error()
		return c.form.state(), err
	}
	c.form = correctionForm{}
	return c.form.state(), nil
}

// CancelCorrection closes the form unless a save is outstanding.
func (c *Controller) CancelCorrection() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form.saving {
		return ErrInFlight
	}
	c.form = correctionForm{}
	return nil
}

// Correction returns the form state.
func (c *Controller) Correction() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.state()
}
