package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vwgov/hr-signals/internal/api/http/handlers"
	"github.com/vwgov/hr-signals/internal/auth"
	"github.com/vwgov/hr-signals/internal/detector"
	"github.com/vwgov/hr-signals/internal/domain"
	"github.com/vwgov/hr-signals/internal/repository"
	"github.com/vwgov/hr-signals/internal/service"
)

const testSecret = "router-test-secret"

type staticConversationReader struct {
	records []domain.ConversationRecord
}

func (r staticConversationReader) List(context.Context, int) ([]domain.ConversationRecord, error) {
	return r.records, nil
}

func newTestApp(t *testing.T, conversations []domain.ConversationRecord) *fiber.App {
	t.Helper()

	store, err := repository.NewFileTicketStore(filepath.Join(t.TempDir(), "tickets.json"))
	require.NoError(t, err)
	ticketService := service.NewTicketService(service.TicketDependencies{Store: store})
	topicService := service.NewTopicService(zap.NewNop())
	riskService := service.NewRiskService(7)
	insightsService := service.NewInsightsService(service.InsightsDependencies{
		Conversations: staticConversationReader{records: conversations},
		Tickets:       ticketService,
		Topics:        topicService,
		Risks:         riskService,
		Logger:        zap.NewNop(),
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("hr-signals-service", "test", nil, nil),
		Messages:       handlers.NewMessagesHandler(detector.New(detector.DefaultTaxonomy()), nil, nil, zap.NewNop()),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Insights:       handlers.NewInsightsHandler(insightsService, 500),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewTokenManager(testSecret)),
	})
	return app
}

func operatorToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		OperatorName: "Riley Chen",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "op-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*stdhttp.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func createTicketPayload() map[string]any {
	return map[string]any{
		"employee_id":   "EMP-042",
		"employee_name": "Jordan Blake",
		"department":    "Engineering",
		"categories":    []string{"Harassment"},
		"message":       "I was harassed by my supervisor",
		"urgency":       "High",
	}
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := doJSON(t, app, stdhttp.MethodGet, "/health/live", "", nil)

	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)
}

func TestScanMessageFlagsRedFlags(t *testing.T) {
	app := newTestApp(t, nil)

	resp, raw := doJSON(t, app, stdhttp.MethodPost, "/messages/scan", "", map[string]any{
		"message": "There is a safety hazard on the loading dock",
	})

	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var envelope struct {
		Data struct {
			Flagged    bool     `json:"flagged"`
			Categories []string `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.True(t, envelope.Data.Flagged)
	assert.Contains(t, envelope.Data.Categories, "Safety")
}

func TestScanMessageCleanMessage(t *testing.T) {
	app := newTestApp(t, nil)

	resp, raw := doJSON(t, app, stdhttp.MethodPost, "/messages/scan", "", map[string]any{
		"message": "When is the next team lunch?",
	})

	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var envelope struct {
		Data struct {
			Flagged bool `json:"flagged"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.False(t, envelope.Data.Flagged)
}

func TestCreateTicketEndpoint(t *testing.T) {
	app := newTestApp(t, nil)

	resp, raw := doJSON(t, app, stdhttp.MethodPost, "/tickets", "", createTicketPayload())

	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
	var envelope struct {
		Data domain.Ticket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Regexp(t, `^HR-\d{14}$`, envelope.Data.ID)
	assert.Equal(t, domain.TicketStatusOpen, envelope.Data.Status)
}

func TestCreateTicketRejectsEmptyCategories(t *testing.T) {
	app := newTestApp(t, nil)
	payload := createTicketPayload()
	payload["categories"] = []string{}

	resp, raw := doJSON(t, app, stdhttp.MethodPost, "/tickets", "", payload)

	require.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
}

func TestOperatorRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, nil)

	resp, raw := doJSON(t, app, stdhttp.MethodGet, "/tickets", "", nil)

	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t, nil)
	token := operatorToken(t)

	resp, raw := doJSON(t, app, stdhttp.MethodPost, "/tickets", "", createTicketPayload())
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
	var created struct {
		Data domain.Ticket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	ticketID := created.Data.ID

	// operator name comes from the token when the body omits it
	resp, raw = doJSON(t, app, stdhttp.MethodPost, fmt.Sprintf("/tickets/%s/status", ticketID), token, map[string]any{
		"status": "IN_PROGRESS",
	})
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var assigned struct {
		Data domain.Ticket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &assigned))
	require.NotNil(t, assigned.Data.AssignedTo)
	assert.Equal(t, "Riley Chen", *assigned.Data.AssignedTo)

	resp, _ = doJSON(t, app, stdhttp.MethodPost, fmt.Sprintf("/tickets/%s/status", ticketID), token, map[string]any{
		"status": "RESOLVED",
	})
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode, "resolution requires notes")

	resp, raw = doJSON(t, app, stdhttp.MethodPost, fmt.Sprintf("/tickets/%s/status", ticketID), token, map[string]any{
		"status": "RESOLVED",
		"notes":  "spoke with both parties, issue addressed",
	})
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var resolved struct {
		Data domain.Ticket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &resolved))
	assert.Equal(t, domain.TicketStatusResolved, resolved.Data.Status)
	require.NotNil(t, resolved.Data.ResolvedAt)
}

func TestGetTicketIncludesPolicyReferences(t *testing.T) {
	app := newTestApp(t, nil)
	token := operatorToken(t)

	_, raw := doJSON(t, app, stdhttp.MethodPost, "/tickets", "", createTicketPayload())
	var created struct {
		Data domain.Ticket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, raw := doJSON(t, app, stdhttp.MethodGet, "/tickets/"+created.Data.ID, token, nil)

	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var detail struct {
		Data struct {
			PolicyReferences []string        `json:"policy_references"`
			SimilarTickets   []domain.Ticket `json:"similar_tickets"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.Contains(t, detail.Data.PolicyReferences, "Anti-Harassment Policy")
	assert.Empty(t, detail.Data.SimilarTickets)
}

func TestListTicketsRejectsUnknownStatus(t *testing.T) {
	app := newTestApp(t, nil)
	token := operatorToken(t)

	resp, _ := doJSON(t, app, stdhttp.MethodGet, "/tickets?status=ARCHIVED", token, nil)

	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)
}

func TestInsightsTopicsEndpoint(t *testing.T) {
	conversations := make([]domain.ConversationRecord, 0, 12)
	for i := 0; i < 12; i++ {
		conversations = append(conversations, domain.ConversationRecord{
			EmployeeID: fmt.Sprintf("EMP-%03d", i),
			Department: "Operations",
			Topic:      "Parking Policy",
			DateTime:   time.Now().Add(-time.Hour),
		})
	}
	app := newTestApp(t, conversations)
	token := operatorToken(t)

	resp, raw := doJSON(t, app, stdhttp.MethodGet, "/insights/topics", token, nil)

	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var envelope struct {
		Data []domain.TopicScore `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Parking Policy", envelope.Data[0].Topic)
	assert.InDelta(t, 11.0, envelope.Data[0].Score, 0.0001)
	assert.Equal(t, domain.TopicCompanyWide, envelope.Data[0].Category)
}

func TestInsightsRisksEndpoint(t *testing.T) {
	app := newTestApp(t, nil)
	token := operatorToken(t)

	_, _ = doJSON(t, app, stdhttp.MethodPost, "/tickets", "", createTicketPayload())

	resp, raw := doJSON(t, app, stdhttp.MethodGet, "/insights/risks", token, nil)

	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	var envelope struct {
		Data service.RiskReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Len(t, envelope.Data.Signals, 1)
	assert.Equal(t, domain.RiskEmergencyTicket, envelope.Data.Signals[0].RiskType)
	assert.Equal(t, domain.RiskLevelHigh, envelope.Data.Signals[0].RiskLevel)
}
