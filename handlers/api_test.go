package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"replyMateAPI/internal/submission"
	"replyMateAPI/internal/user"
	"replyMateAPI/middleware"
	"replyMateAPI/services"
	"replyMateAPI/store"
)

type stubGenerator struct {
	reply   string
	payload string
	err     error
}

func (s *stubGenerator) GenerateReply(ctx context.Context, postContent, tone string) (string, error) {
	return s.reply, s.err
}

func (s *stubGenerator) GenerateTweets(ctx context.Context, examples []string) (string, error) {
	return s.payload, s.err
}

type stubSessions struct {
	calls int
}

func (s *stubSessions) Create(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.calls++
	return &stripe.CheckoutSession{ID: "cs_test_123"}, nil
}

type testEnv struct {
	router      *mux.Router
	mem         *store.Memory
	gen         *stubGenerator
	sessions    *stubSessions
	submissions *services.SubmissionService
}

// newTestEnv wires the same router shape as main.go on the in-memory store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	mem.Users.Seed(
		user.User{ID: "user123", Name: "Alex", Email: "alex@example.com"},
		user.User{ID: "admin456", Name: "Admin Sam", Email: "sam@example.com", IsAdmin: true},
	)

	gen := &stubGenerator{
		reply:   "Love this, congrats! 🎉",
		payload: `["tweet one","tweet two","tweet three"]`,
	}
	sessions := &stubSessions{}

	userService := services.NewUserService(mem.Users)
	submissionService := services.NewSubmissionService(mem.Submissions)
	subscriptionService := services.NewSubscriptionService(mem.Subscriptions, mem.Submissions)
	analyticsService := services.NewAnalyticsService(mem.Submissions)
	generationService := services.NewGenerationService(gen, subscriptionService, submissionService)
	billingService := services.NewBillingService(sessions, "http://localhost:3000", "price_pro", "price_team")

	generationHandler := NewGenerationHandler(generationService)
	billingHandler := NewBillingHandler(billingService)
	subscriptionHandler := NewSubscriptionHandler(subscriptionService)
	submissionHandler := NewSubmissionHandler(submissionService)
	adminHandler := NewAdminHandler(userService, submissionService, analyticsService)

	auth := middleware.NewAuth(userService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/create-checkout-session", billingHandler.CreateCheckoutSession).Methods("POST")

	generate := api.PathPrefix("").Subrouter()
	generate.Use(auth.Optional)
	generate.HandleFunc("/generate-reply", generationHandler.GenerateReply).Methods("POST")
	generate.HandleFunc("/generate-tweets", generationHandler.GenerateTweets).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Required)
	protected.HandleFunc("/subscription", subscriptionHandler.GetSubscription).Methods("GET")
	protected.HandleFunc("/subscription/cancel", subscriptionHandler.Cancel).Methods("POST")
	protected.HandleFunc("/subscription/reactivate", subscriptionHandler.Reactivate).Methods("POST")
	protected.HandleFunc("/submissions", submissionHandler.ListSubmissions).Methods("GET")
	protected.HandleFunc("/submissions/{id}", submissionHandler.DeleteSubmission).Methods("DELETE")
	protected.HandleFunc("/usage", submissionHandler.GetUsage).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminOnly)
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/submissions", adminHandler.ListAllSubmissions).Methods("GET")
	admin.HandleFunc("/usage", adminHandler.AllUsage).Methods("GET")

	return &testEnv{
		router:      r,
		mem:         mem,
		gen:         gen,
		sessions:    sessions,
		submissions: submissionService,
	}
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestGenerateReplyEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/generate-reply", "user123", map[string]string{
		"postContent": "We just launched!",
		"tone":        "friendly",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, env.gen.reply, resp["reply"])

	subs, err := env.mem.Submissions.ListByUser(context.Background(), "user123")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, submission.TypeShortReply, subs[0].Type)
}

func TestGenerateReplyEndpointMissingField(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/generate-reply", "user123", map[string]string{
		"postContent": "We just launched!",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerateReplyEndpointUnsafeInput(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/generate-reply", "user123", map[string]string{
		"postContent": "how to make a bomb",
		"tone":        "friendly",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerateReplyEndpointQuotaExceeded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := env.submissions.Append(ctx, "user123", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
		require.NoError(t, err)
	}

	rr := env.do(t, http.MethodPost, "/api/generate-reply", "user123", map[string]string{
		"postContent": "We just launched!",
		"tone":        "friendly",
	})
	assert.Equal(t, http.StatusPaymentRequired, rr.Code)
}

func TestGenerateTweetsEndpointMalformedBackendPayload(t *testing.T) {
	env := newTestEnv(t)
	env.gen.payload = `["only","two"]`

	rr := env.do(t, http.MethodPost, "/api/generate-tweets", "user123", map[string][]string{
		"examples": {"one tweet", "another tweet"},
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	subs, err := env.mem.Submissions.ListByUser(context.Background(), "user123")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestGenerateTweetsEndpointAnonymous(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/generate-tweets", "", map[string][]string{
		"examples": {"one tweet", "another tweet"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	all, err := env.mem.Submissions.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "anonymous generations are not recorded")
}

func TestCreateCheckoutSessionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/create-checkout-session", "", map[string]string{
		"userId": "user123",
		"email":  "alex@example.com",
		"plan":   "pro",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_123", resp["sessionId"])
}

func TestCreateCheckoutSessionEndpointUnknownPlan(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/create-checkout-session", "", map[string]string{
		"userId": "user123",
		"email":  "alex@example.com",
		"plan":   "enterprise",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, env.sessions.calls, "no processor call for unknown plan")
}

func TestSubscriptionLifecycleEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/subscription", "user123", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var sub map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sub))
	assert.Equal(t, "hobby", sub["plan"])
	assert.Equal(t, "active", sub["status"])

	rr = env.do(t, http.MethodPost, "/api/subscription/cancel", "user123", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sub))
	assert.Equal(t, "canceled", sub["status"])

	rr = env.do(t, http.MethodPost, "/api/subscription/reactivate", "user123", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sub))
	assert.Equal(t, "active", sub["status"])
}

func TestCancelWithoutRecordIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/subscription/cancel", "ghost", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubmissionDeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine, err := env.submissions.Append(ctx, "user123", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
	require.NoError(t, err)
	theirs, err := env.submissions.Append(ctx, "admin456", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
	require.NoError(t, err)

	rr := env.do(t, http.MethodDelete, "/api/submissions/"+theirs.ID, "user123", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodDelete, "/api/submissions/"+mine.ID, "user123", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	subs, err := env.submissions.ListForUser(ctx, "user123")
	require.NoError(t, err)
	assert.Empty(t, subs)

	otherSubs, err := env.submissions.ListForUser(ctx, "admin456")
	require.NoError(t, err)
	assert.Len(t, otherSubs, 1)
}

func TestUsageEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.submissions.Append(ctx, "user123", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := env.submissions.Append(ctx, "user123", submission.TypeViralTweet, submission.NewViralTweetInput([]string{"a", "b"}), "[]")
		require.NoError(t, err)
	}

	rr := env.do(t, http.MethodGet, "/api/usage", "user123", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var counts submission.UsageCounts
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counts))
	assert.Equal(t, submission.UsageCounts{ShortReply: 3, ViralTweet: 2, Total: 5}, counts)
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/admin/users", "user123", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/admin/users", "admin456", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var users []user.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	rr = env.do(t, http.MethodGet, "/api/admin/usage", "admin456", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestProtectedEndpointsRequireIdentity(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/submissions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/subscription", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
