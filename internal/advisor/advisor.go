package advisor

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/card-advisor/internal/llm"
)

//go:embed prompt.txt
var promptTemplate string

// Tool names the model may invoke.
const (
	toolUpdateUserData = "update_user_data"
	toolGetCreditCards = "get_credit_cards"
)

const defaultMaxIterations = 8

// Turn is one prior exchange in a conversation.
type Turn struct {
	Role string `json:"role"` // "user" or "advisor"
	Text string `json:"text"`
}

// Advisor drives a tool-using dialogue loop on top of the Toolset. It holds
// no session state; history is supplied per call by the hosting layer.
type Advisor struct {
	client        llm.Client
	tools         *Toolset
	maxIterations int
}

// New creates an advisor over a language model client and a toolset.
func New(client llm.Client, tools *Toolset) *Advisor {
	return &Advisor{
		client:        client,
		tools:         tools,
		maxIterations: defaultMaxIterations,
	}
}

// Chat runs one conversational turn: the model sees the stored profile, the
// missing slots, the history, and the user's message, and may call tools
// before producing its reply.
func (a *Advisor) Chat(ctx context.Context, sessionID string, history []Turn, userInput string) (string, error) {
	profile, err := a.tools.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	missing, err := a.tools.MissingFields(ctx, sessionID)
	if err != nil {
		return "", err
	}

	scratchpad := strings.Builder{}
	for i := 0; i < a.maxIterations; i++ {
		prompt := renderPrompt(map[string]string{
			"CurrentUserData": string(profileJSON),
			"MissingFields":   strings.Join(missing, ", "),
			"ChatHistory":     renderHistory(history),
			"UserInput":       userInput,
			"Scratchpad":      scratchpad.String(),
		})

		response, err := a.client.GenerateContent(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("advisor turn failed: %w", err)
		}

		if answer, ok := parseFinalAnswer(response); ok {
			return answer, nil
		}

		action, input, ok := parseAction(response)
		if !ok {
			// The model followed neither format; surface its text as-is
			// rather than looping on garbage.
			return strings.TrimSpace(response), nil
		}

		observation := a.dispatch(ctx, sessionID, action, input)
		fmt.Fprintf(&scratchpad, "Action: %s\nAction Input: %s\nObservation: %s\n", action, input, observation)

		// Tool calls can change the profile; refresh what the model sees.
		if action == toolUpdateUserData {
			if refreshed, err := a.tools.sessions.Get(ctx, sessionID); err == nil {
				profileJSON, _ = json.Marshal(refreshed)
				missing, _ = a.tools.MissingFields(ctx, sessionID)
			}
		}
	}

	return "", fmt.Errorf("advisor exceeded %d tool iterations", a.maxIterations)
}

func (a *Advisor) dispatch(ctx context.Context, sessionID, action, input string) string {
	switch action {
	case toolUpdateUserData:
		return a.tools.UpdateProfileField(ctx, sessionID, input)
	case toolGetCreditCards:
		return a.tools.GetRecommendations(ctx, sessionID, input)
	default:
		return fmt.Sprintf("Error: unknown tool %q", action)
	}
}

func renderPrompt(data map[string]string) string {
	prompt := promptTemplate
	for key, value := range data {
		prompt = strings.ReplaceAll(prompt, "{{."+key+"}}", value)
	}
	return prompt
}

func renderHistory(history []Turn) string {
	if len(history) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// parseFinalAnswer extracts the text after a "Final Answer:" marker.
func parseFinalAnswer(response string) (string, bool) {
	idx := strings.Index(response, "Final Answer:")
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(response[idx+len("Final Answer:"):]), true
}

// parseAction extracts an Action / Action Input pair. The input runs to the
// end of the line holding the JSON object; models reliably keep tool input
// on one line but pad around it with thoughts.
func parseAction(response string) (action, input string, ok bool) {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if after, found := strings.CutPrefix(line, "Action:"); found && action == "" {
			action = strings.TrimSpace(after)
		}
		if after, found := strings.CutPrefix(line, "Action Input:"); found && input == "" {
			input = strings.TrimSpace(after)
		}
	}
	return action, input, action != "" && input != ""
}
