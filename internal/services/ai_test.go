package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/deadline"
)

func newFakeOpenAI(t *testing.T, reply string) *AIService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  openai.GPT4o,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(srv.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = srv.URL + "/v1"
	return NewAIServiceWithConfig(config)
}

func TestAIService_SuggestTasks(t *testing.T) {
	ai := newFakeOpenAI(t, "```json\n[{\"name\":\"Collect returns\",\"description\":\"From all units\",\"leadDays\":5}]\n```")

	drafts, err := ai.SuggestTasks(context.Background(), "Circular 12/2026")
	require.NoError(t, err)
	assert.Equal(t, []DraftTask{{Name: "Collect returns", Description: "From all units", LeadDays: 5}}, drafts)
}

func TestAIService_SuggestTasks_BadJSON(t *testing.T) {
	ai := newFakeOpenAI(t, "I could not find any tasks.")

	_, err := ai.SuggestTasks(context.Background(), "hello")
	assert.Error(t, err)
}

func TestTaskService_Suggest(t *testing.T) {
	repos := newRepos(t)
	ai := newFakeOpenAI(t, `[
		{"name":"Collect returns","description":"From all units","leadDays":2},
		{"name":"  ","description":"dropped"},
		{"name":"File report","description":"","leadDays":0}
	]`)
	service := NewTaskService(repos.Tasks, repos.Users, newCalendar(t), ai)
	service.now = fixedClock

	suggestions, err := service.Suggest(context.Background(), "Circular")
	require.NoError(t, err)
	assert.Equal(t, []TaskSuggestion{
		{Name: "Collect returns", Description: "From all units", LeadDays: 2, Deadline: "2026-10-16"},
		{Name: "File report"},
	}, suggestions)
}

func TestTaskService_Suggest_CapsLeadDays(t *testing.T) {
	repos := newRepos(t)
	ai := newFakeOpenAI(t, `[{"name":"Archive records","leadDays":20000000}]`)
	service := NewTaskService(repos.Tasks, repos.Users, newCalendar(t), ai)
	service.now = fixedClock

	suggestions, err := service.Suggest(context.Background(), "Circular")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, constants.MaxLeadDays, suggestions[0].LeadDays)
	_, err = deadline.Parse(suggestions[0].Deadline)
	assert.NoError(t, err)
}

func TestTaskService_Suggest_NoTasks(t *testing.T) {
	repos := newRepos(t)
	service := NewTaskService(repos.Tasks, repos.Users, newCalendar(t), newFakeOpenAI(t, "[]"))

	_, err := service.Suggest(context.Background(), "nothing here")
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)
}
