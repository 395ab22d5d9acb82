// Package advisor exposes the two operations the conversational layer may
// invoke: updating one profile field and fetching recommendations. Both
// accept free-form, possibly malformed string payloads and always return a
// presentable result; nothing in here panics on upstream noise.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/card-advisor/internal/catalog"
	"github.com/jonathan/card-advisor/internal/normalize"
	"github.com/jonathan/card-advisor/internal/recommend"
	"github.com/jonathan/card-advisor/internal/session"
	"github.com/jonathan/card-advisor/internal/slots"
	"github.com/jonathan/card-advisor/internal/types"
)

// Recommendation payload field names (the conversational layer supplies
// these when requesting recommendations).
const (
	payloadUserIncome      = "user_income"
	payloadUserCreditScore = "user_credit_score"
	payloadBenefits        = "preferred_benefits"
)

// Toolset binds the session store, card catalog, and recommendation engine
// into the two operations. It carries no per-session state of its own; every
// call is keyed by session ID.
type Toolset struct {
	sessions session.Store
	catalog  catalog.Reader
	engine   *recommend.Engine
}

// NewToolset wires a toolset.
func NewToolset(sessions session.Store, cards catalog.Reader, engine *recommend.Engine) *Toolset {
	return &Toolset{sessions: sessions, catalog: cards, engine: engine}
}

// CreateSession mints a session with an empty profile and returns its ID.
func (t *Toolset) CreateSession(ctx context.Context) (string, error) {
	id := session.NewSessionID()
	if err := t.sessions.Put(ctx, id, &types.UserProfile{}); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// DeleteSession discards a session and its profile.
func (t *Toolset) DeleteSession(ctx context.Context, sessionID string) error {
	return t.sessions.Delete(ctx, sessionID)
}

// Profile returns a copy of the session's stored profile.
func (t *Toolset) Profile(ctx context.Context, sessionID string) (*types.UserProfile, error) {
	return t.sessions.Get(ctx, sessionID)
}

// MissingFields reports the session's unfilled slots in canonical order.
func (t *Toolset) MissingFields(ctx context.Context, sessionID string) ([]string, error) {
	profile, err := t.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return slots.Missing(profile), nil
}

// ApplyUpdate decodes raw, applies every recognized field it contains to the
// session's profile, and returns the list of fields applied. Unknown fields
// are logged and skipped. On any decode or validation failure the stored
// profile is left exactly as it was.
func (t *Toolset) ApplyUpdate(ctx context.Context, sessionID, raw string) ([]string, error) {
	fields, err := normalize.DecodeObject(raw)
	if err != nil {
		return nil, err
	}

	profile, err := t.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Validate against a copy; the stored profile only changes if every
	// recognized field in the payload passes.
	updated := profile.Clone()
	applied := []string{}
	for _, field := range slots.Order {
		value, present := fields[field]
		if !present {
			continue
		}
		if err := slots.Apply(updated, field, value); err != nil {
			return nil, err
		}
		applied = append(applied, field)
	}
	for field := range fields {
		if !slots.Recognized(field) {
			log.Printf("ignoring unknown profile field %q", field)
		}
	}

	if len(applied) == 0 {
		return nil, &slots.ValidationError{Field: "(payload)", Message: "no recognized profile field in payload"}
	}

	if err := t.sessions.Put(ctx, sessionID, updated); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}
	return applied, nil
}

// Recommendations builds the effective profile for a recommendation request
// (payload values overriding the stored profile), pre-filters the catalog,
// and runs the engine. It is read-only over the session.
func (t *Toolset) Recommendations(ctx context.Context, sessionID, raw string) ([]types.Recommendation, error) {
	fields, err := normalize.DecodeObject(raw)
	if err != nil {
		return nil, err
	}

	profile, err := t.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if value, present := fields[payloadUserIncome]; present {
		income, err := normalize.Number(payloadUserIncome, value)
		if err != nil {
			return nil, err
		}
		profile.MonthlyIncome = &income
	}
	if value, present := fields[payloadUserCreditScore]; present {
		score, err := parsePayloadCreditScore(value)
		if err != nil {
			return nil, err
		}
		profile.CreditScore = score
	}
	if value, present := fields[payloadBenefits]; present {
		benefits, err := parsePayloadBenefits(value)
		if err != nil {
			return nil, err
		}
		profile.PreferredBenefits = benefits
	}

	income := 0.0
	if profile.MonthlyIncome != nil {
		income = *profile.MonthlyIncome
	}
	score := 0
	if profile.CreditScore != nil && !profile.CreditScore.Unknown {
		score = profile.CreditScore.Value
	}
	// The catalog pre-filter gets no benefit list when the user has no
	// preference; "any" must widen the candidate set, not narrow it.
	var benefitFilter []string
	if !profile.WantsAnyBenefit() {
		benefitFilter = profile.PreferredBenefits
	}

	cards, err := t.catalog.ByEligibility(ctx, income, score, benefitFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate cards: %w", err)
	}

	return t.engine.Recommend(profile, cards), nil
}

func parsePayloadCreditScore(raw json.RawMessage) (*types.CreditScore, error) {
	if value, err := normalize.Integer(payloadUserCreditScore, raw); err == nil {
		return &types.CreditScore{Value: value}, nil
	}
	s, err := normalize.String(payloadUserCreditScore, raw)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(s) == "unknown" {
		return &types.CreditScore{Unknown: true}, nil
	}
	return nil, &normalize.TypeMismatchError{Field: payloadUserCreditScore, Want: "integer or \"unknown\"", Got: "string"}
}

func parsePayloadBenefits(raw json.RawMessage) ([]string, error) {
	list, err := normalize.StringList(payloadBenefits, raw)
	if err != nil {
		return nil, err
	}
	benefits := []string{}
	for _, tag := range list {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if tag == types.BenefitAny {
			return []string{types.BenefitAny}, nil
		}
		benefits = append(benefits, tag)
	}
	return benefits, nil
}

// UpdateProfileField is the string-in, string-out tool surface for the
// conversational model. Failures come back as presentable text, never as a
// fault.
func (t *Toolset) UpdateProfileField(ctx context.Context, sessionID, raw string) string {
	applied, err := t.ApplyUpdate(ctx, sessionID, raw)
	if err != nil {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("User data updated successfully (%s).", strings.Join(applied, ", "))
}

// GetRecommendations is the string-in, string-out tool surface for fetching
// the ranked shortlist as a JSON array.
func (t *Toolset) GetRecommendations(ctx context.Context, sessionID, raw string) string {
	recommendations, err := t.Recommendations(ctx, sessionID, raw)
	if err != nil {
		return "Error: " + err.Error()
	}
	data, err := json.Marshal(recommendations)
	if err != nil {
		return "Error: failed to encode recommendations: " + err.Error()
	}
	return string(data)
}
