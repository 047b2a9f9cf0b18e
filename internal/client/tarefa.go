package client

import (
	"context"
	"strconv"

	"github.com/timmy/siscrap/internal/domain"
)

// ListTasks fetches one page of a batch's tasks.
// Parameters:
//   - ctx: request context.
//   - batchID: uploaded batch ("arquivo") id.
//   - page: zero-based page index.
//   - f: optional filters; empty fields are omitted from the query.
//
// Returns:
//   - *domain.Page[domain.Task]: the requested page.
//   - error: transport or backend failure.
func (c *Client) ListTasks(ctx context.Context, batchID int64, page int, f domain.TaskFilter) (*domain.Page[domain.Task], error) {
	req, cancel := c.request(ctx, c.listTimeout)
	defer cancel()

	params := map[string]string{
		"arquivoId": strconv.FormatInt(batchID, 10),
		"page":      strconv.Itoa(page),
		"size":      strconv.Itoa(c.pageSize),
	}
	setIf(params, "search", f.Search)
	setIf(params, "pallet", f.Pallet)
	setIf(params, "condicao", f.Condition)
	setIf(params, "status", string(f.Outcome))
	setIf(params, "statusRevisao", string(f.EffectiveReview()))

	var result domain.Page[domain.Task]
	resp, err := req.SetQueryParams(params).SetResult(&result).Get("/tarefa/listar")
	if err := c.check(ctx, "list tasks", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// TaskSummary fetches the aggregate counts of a batch. Filters never apply.
func (c *Client) TaskSummary(ctx context.Context, batchID int64) (*domain.Summary, error) {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	var result domain.Summary
	resp, err := req.
		SetQueryParam("arquivoId", strconv.FormatInt(batchID, 10)).
		SetResult(&result).
		Get("/tarefa/resumo")
	if err := c.check(ctx, "task summary", resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReprocessBlocked asks the backend to release every BLOCKED task of a batch.
func (c *Client) ReprocessBlocked(ctx context.Context, batchID int64) error {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	resp, err := req.
		SetQueryParam("arquivoId", strconv.FormatInt(batchID, 10)).
		Get("/tarefa/liberar-bloqueado")
	return c.check(ctx, "reprocess blocked", resp, err)
}

// ChooseCandidate commits a candidate as the task's match.
func (c *Client) ChooseCandidate(ctx context.Context, taskID, candidateID int64) error {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	resp, err := req.
		SetQueryParam("tarefaId", strconv.FormatInt(taskID, 10)).
		SetQueryParam("candidatoId", strconv.FormatInt(candidateID, 10)).
		Post("/tarefa/escolher-candidato")
	return c.check(ctx, "choose candidate", resp, err)
}

// ApproveSimilar approves a SIMILAR task. The path spelling matches the backend.
func (c *Client) ApproveSimilar(ctx context.Context, taskID int64) error {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	resp, err := req.
		SetQueryParam("tarefaId", strconv.FormatInt(taskID, 10)).
		Put("/tarefa/aprovar-similiar")
	return c.check(ctx, "approve similar", resp, err)
}

// CorrectSimilar overrides a task's matched fields.
func (c *Client) CorrectSimilar(ctx context.Context, dto domain.Correction) error {
	req, cancel := c.request(ctx, c.timeout)
	defer cancel()

	resp, err := req.SetBody(dto).Put("/tarefa/correcao-similar")
	return c.check(ctx, "correct similar", resp, err)
}

func setIf(params map[string]string, key, value string) {
	if value != "" {
		params[key] = value
	}
}
