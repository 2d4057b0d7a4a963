package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/kohara42/supportdesk/api"
	"github.com/kohara42/supportdesk/config"
	"github.com/kohara42/supportdesk/dialog"
	"github.com/kohara42/supportdesk/domain"
	"github.com/kohara42/supportdesk/engine"
	"github.com/kohara42/supportdesk/orders"
	"github.com/kohara42/supportdesk/policy"
	"github.com/kohara42/supportdesk/store"
	"github.com/kohara42/supportdesk/tests/helpers"
)

func newHandler(t *testing.T) (*api.Handler, *store.SQLiteStore) {
	t.Helper()
	s := helpers.NewTestSQLiteStore(t)
	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	assert.NoError(t, err)

	ctrl := dialog.NewController(orders.NewSyntheticLookup(), policyEngine)
	eng := engine.New(s, ctrl, 0.5, 0)
	return api.NewHandler(s, eng, &config.Config{ConfidenceThreshold: 0.5}), s
}

func postTurn(t *testing.T, handler *api.Handler, e *echo.Echo, sessionID, text string) (*httptest.ResponseRecorder, *domain.TurnResponse) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"text": text, "user_id": "u1"})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/turns", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/sessions/:session_id/turns")
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	assert.NoError(t, handler.PostTurn(c))

	var resp domain.TurnResponse
	if rec.Code == http.StatusOK {
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, &resp
}

func TestPostTurnCreatesSessionAndReplies(t *testing.T) {
	handler, s := newHandler(t)
	e := echo.New()

	rec, resp := postTurn(t, handler, e, "s1", "hello")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", resp.SessionID)
	assert.NotEmpty(t, resp.Reply)
	assert.Equal(t, domain.FlowNone, resp.Flow)

	session, err := s.GetSession(context.Background(), "s1")
	assert.NoError(t, err)
	assert.NotNil(t, session)

	messages, err := s.GetMessages(context.Background(), "s1", 0, "")
	assert.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, domain.SenderUser, messages[0].Sender)
	assert.Equal(t, domain.SenderBot, messages[1].Sender)
}

func TestPostTurnRejectsEmptyText(t *testing.T) {
	handler, _ := newHandler(t)
	e := echo.New()

	rec, _ := postTurn(t, handler, e, "s1", "   ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostTurnFlowAcrossRequests(t *testing.T) {
	handler, _ := newHandler(t)
	e := echo.New()

	_, resp := postTurn(t, handler, e, "s1", "cancel my order")
	assert.Equal(t, domain.FlowAwaitingOrderID, resp.Flow)

	_, resp = postTurn(t, handler, e, "s1", "ORD12345")
	assert.Equal(t, domain.FlowNone, resp.Flow)
	assert.Contains(t, resp.Reply, "ORD12345")
}

func TestPostFeedbackAndOverview(t *testing.T) {
	handler, s := newHandler(t)
	e := echo.New()

	_, _ = postTurn(t, handler, e, "s1", "hello")
	messages, err := s.GetMessages(context.Background(), "s1", 0, "")
	assert.NoError(t, err)
	assert.Len(t, messages, 2)

	body, _ := json.Marshal(map[string]interface{}{
		"message_id": messages[1].MessageID,
		"rating":     1,
		"comment":    "helpful",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/feedback", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	assert.NoError(t, handler.PostFeedback(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/analytics/overview", nil)
	rec = httptest.NewRecorder()
	assert.NoError(t, handler.GetAnalyticsOverview(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats domain.ConversationStats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalConversations)
	assert.Equal(t, 2, stats.TotalMessages)
	assert.Equal(t, 1, stats.Feedback.Total)
	assert.Equal(t, 1, stats.Feedback.Positive)
}

func TestPostFeedbackRequiresMessageID(t *testing.T) {
	handler, _ := newHandler(t)
	e := echo.New()

	body, _ := json.Marshal(map[string]interface{}{"rating": 1})
	req := httptest.NewRequest(http.MethodPost, "/v1/feedback", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	assert.NoError(t, handler.PostFeedback(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedLabeledMessage(t *testing.T, s *store.SQLiteStore, id, content string, confidence float64) {
	t.Helper()
	conf := confidence
	msg := &domain.Message{
		MessageID:  id,
		SessionID:  "s1",
		Sender:     domain.SenderUser,
		Content:    content,
		Intent:     "cancellation",
		Confidence: &conf,
		CreatedAt:  time.Now(),
	}
	assert.NoError(t, s.CreateMessage(context.Background(), msg))
}

func TestLearningEndpoints(t *testing.T) {
	handler, s := newHandler(t)
	e := echo.New()

	session := &domain.Session{SessionID: "s1", UserID: "u1", CreatedAt: time.Now()}
	assert.NoError(t, s.CreateSession(context.Background(), session))
	seedLabeledMessage(t, s, "m1", "cancel my order", 0.95)
	seedLabeledMessage(t, s, "m2", "uh do the thing", 0.2)

	req := httptest.NewRequest(http.MethodGet, "/v1/learning/low-confidence", nil)
	rec := httptest.NewRecorder()
	assert.NoError(t, handler.GetLowConfidenceMessages(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var lowResp struct {
		Messages []domain.Message `json:"messages"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lowResp))
	assert.Len(t, lowResp.Messages, 1)
	assert.Equal(t, "m2", lowResp.Messages[0].MessageID)

	req = httptest.NewRequest(http.MethodGet, "/v1/learning/examples?min_confidence=0.8", nil)
	rec = httptest.NewRecorder()
	assert.NoError(t, handler.GetTrainingExamples(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var exResp struct {
		Examples []domain.TrainingExample `json:"examples"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exResp))
	assert.Len(t, exResp.Examples, 1)
	assert.Equal(t, "cancel my order", exResp.Examples[0].Pattern)
}

func TestSearchProducts(t *testing.T) {
	handler, s := newHandler(t)
	e := echo.New()

	_, err := s.GetOrCreateUser(context.Background(), "u1", "u1@example.com")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/products?q=widget", nil)
	rec := httptest.NewRecorder()
	assert.NoError(t, handler.SearchProducts(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
