package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskDecodesBackendPayload(t *testing.T) {
	payload := `{
		"id": 7, "termo_busca": "iphone 13", "titulo_encontrado": "Apple iPhone 13",
		"custoUnitario": "1500", "condicao": "A", "codPallet": "P1",
		"preco": "3999", "preco_desc": "3799", "link": "https://x/1", "score": 88,
		"status": "SIMILAR", "statusRevisao": "REPROVADO",
		"candidatos": [{"id": 1, "titulo": "c1", "preco": "1", "precoDesconto": "1", "link": "l", "matchScore": 90, "escolhido": false}]
	}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(payload), &task))

	assert.Equal(t, OutcomeSimilar, task.Outcome)
	assert.Equal(t, ReviewRejected, task.ReviewStatus)
	assert.Equal(t, "P1", task.PalletCode)
	require.Len(t, task.Candidates, 1)
	assert.True(t, task.HasCandidate(1))
	assert.False(t, task.HasCandidate(2))
}

func TestCloneDoesNotShareCandidates(t *testing.T) {
	orig := []Task{{ID: 1, Candidates: []Candidate{{ID: 10}}}}
	cp := CloneTasks(orig)
	cp[0].Candidates[0].Chosen = true

	assert.False(t, orig[0].Candidates[0].Chosen)
	assert.Nil(t, CloneTasks(nil))
}

func TestEffectiveReview(t *testing.T) {
	tests := []struct {
		name   string
		filter TaskFilter
		want   ReviewStatus
	}{
		{"similar with approved", TaskFilter{Outcome: OutcomeSimilar, Review: "APROVADO"}, ReviewApproved},
		{"similar with all", TaskFilter{Outcome: OutcomeSimilar, Review: ReviewFilterAll}, ""},
		{"blocked ignores review", TaskFilter{Outcome: OutcomeBlocked, Review: "APROVADO"}, ""},
		{"no outcome ignores review", TaskFilter{Review: "REPROVADO"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.EffectiveReview())
		})
	}
}
