package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pdflex/pdflex-backend/api/controllers"
	"github.com/pdflex/pdflex-backend/internal/auth"
	billingsvc "github.com/pdflex/pdflex-backend/internal/billing"
	"github.com/pdflex/pdflex-backend/internal/documents"
	"github.com/pdflex/pdflex-backend/internal/usage"
	"github.com/pdflex/pdflex-backend/internal/users"
	pkgAuth "github.com/pdflex/pdflex-backend/pkg/auth"
	"github.com/pdflex/pdflex-backend/pkg/config"
	"github.com/pdflex/pdflex-backend/pkg/logger"
	"github.com/pdflex/pdflex-backend/pkg/redis"
)

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "t", TokenType: "bearer"}, nil
}

type stubRegister struct{}

func (stubRegister) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{ID: 1, Email: req.Email}, nil
}

type stubUsers struct{}

func (stubUsers) Me(ctx context.Context, userID int64) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type stubUsage struct{}

func (stubUsage) Summary(ctx context.Context, userID int64, asOf time.Time) (*usage.Summary, error) {
	return &usage.Summary{UserID: userID, Limit: 20, Remaining: 20}, nil
}

type stubDocuments struct {
	calls []string
}

func (s *stubDocuments) record(name string) { s.calls = append(s.calls, name) }

func (s *stubDocuments) Upload(ctx context.Context, input documents.UploadInput) (*documents.UploadResult, error) {
	s.record("upload")
	return &documents.UploadResult{}, nil
}

func (s *stubDocuments) List(ctx context.Context, userID int64) ([]documents.DocumentDTO, error) {
	s.record("list")
	return []documents.DocumentDTO{}, nil
}

func (s *stubDocuments) Get(ctx context.Context, userID, docID int64) (*documents.DocumentDTO, error) {
	s.record("get")
	return &documents.DocumentDTO{ID: docID}, nil
}

func (s *stubDocuments) Protect(ctx context.Context, userID, docID int64, req documents.ProtectRequest) (*documents.ProtectResult, error) {
	s.record("protect")
	return &documents.ProtectResult{OK: true}, nil
}

func (s *stubDocuments) Convert(ctx context.Context, userID, docID int64, req documents.ConvertRequest) (*documents.ConvertResult, error) {
	s.record("convert")
	return &documents.ConvertResult{OK: true}, nil
}

func (s *stubDocuments) Analyze(ctx context.Context, userID, docID int64) (*documents.AnalyzeResult, error) {
	s.record("analyze")
	return &documents.AnalyzeResult{OK: true}, nil
}

func (s *stubDocuments) Delete(ctx context.Context, userID, docID int64) (*documents.DeleteResult, error) {
	s.record("delete")
	return &documents.DeleteResult{OK: true, DeletedID: docID}, nil
}

func (s *stubDocuments) Download(ctx context.Context, userID, docID int64, kind documents.ArtifactKind) (*documents.Download, error) {
	s.record("download:" + string(kind))
	return &documents.Download{Filename: "a.pdf", Body: []byte("x")}, nil
}

type stubBilling struct{}

func (stubBilling) ListCharities(ctx context.Context) ([]billingsvc.CharityDTO, error) {
	return []billingsvc.CharityDTO{}, nil
}

func (stubBilling) SelectCharity(ctx context.Context, userID, charityID int64) (*billingsvc.SelectCharityResult, error) {
	return &billingsvc.SelectCharityResult{OK: true, CharityID: charityID}, nil
}

func (stubBilling) Summary(ctx context.Context, userID int64) (*billingsvc.Summary, error) {
	return &billingsvc.Summary{}, nil
}

func (stubBilling) Transactions(ctx context.Context, userID int64) (*billingsvc.TransactionList, error) {
	return &billingsvc.TransactionList{UserID: userID}, nil
}

func (stubBilling) GlobalCharityTotal(ctx context.Context) (*billingsvc.CharityStats, error) {
	return &billingsvc.CharityStats{}, nil
}

func (stubBilling) MockPurchase(ctx context.Context, userID int64, service string) (*billingsvc.PurchaseResult, error) {
	return &billingsvc.PurchaseResult{OK: true, Service: service}, nil
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "0", CORSOrigins: []string{"http://localhost:3000"}},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginIPLimit:    2,
			LoginEmailLimit: 5,
		},
		Upload: config.UploadConfig{MaxUploadMB: 1},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, docs *stubDocuments, limiter *redis.Client) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "pdflex_test_total", Help: "test"}))

	deps := Dependencies{
		Auth:      stubAuth{},
		Register:  stubRegister{},
		Users:     stubUsers{},
		Documents: docs,
		Billing:   stubBilling{},
		Usage:     stubUsage{},
		Ready:     map[string]controllers.Pinger{"db": stubPinger{}},
		Gatherer:  reg,
	}
	if limiter != nil {
		deps.RateLimiter = limiter
	}
	return NewRouter(cfg, logg, deps)
}

func buildToken(t *testing.T, cfg *config.Config, userID int64) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func serve(router http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestProtectedRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig(), &stubDocuments{}, nil)
	routes := [][2]string{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/usage/me"},
		{http.MethodPost, "/upload"},
		{http.MethodGet, "/documents/"},
		{http.MethodGet, "/documents/1"},
		{http.MethodDelete, "/documents/1"},
		{http.MethodGet, "/documents/1/download"},
		{http.MethodPost, "/documents/1/protect"},
		{http.MethodPost, "/documents/1/convert/docx"},
		{http.MethodGet, "/documents/1/text"},
		{http.MethodGet, "/billing/me"},
		{http.MethodGet, "/billing/me/transactions"},
		{http.MethodPost, "/billing/select-charity"},
		{http.MethodPost, "/billing/mock/purchase"},
	}
	for _, rt := range routes {
		resp := serve(router, rt[0], rt[1], "", "")
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", rt[0], rt[1], resp.Code)
		}
		if !strings.Contains(resp.Body.String(), "invalid or expired token") {
			t.Fatalf("%s %s: unexpected body %s", rt[0], rt[1], resp.Body.String())
		}
	}
}

func TestPublicRoutes(t *testing.T) {
	router := newTestRouter(t, testConfig(), &stubDocuments{}, nil)
	for _, target := range []string{"/health", "/health/ready", "/billing/charities", "/billing/stats/charity"} {
		if resp := serve(router, http.MethodGet, target, "", ""); resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, resp.Code)
		}
	}

	resp := serve(router, http.MethodGet, "/metrics", "", "")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "pdflex_test_total") {
		t.Fatalf("unexpected metrics response %d %s", resp.Code, resp.Body.String())
	}
}

func TestDocumentRoutesDispatch(t *testing.T) {
	cfg := testConfig()
	docs := &stubDocuments{}
	router := newTestRouter(t, cfg, docs, nil)
	token := buildToken(t, cfg, 7)

	requests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/documents/", ""},
		{http.MethodGet, "/documents/3", ""},
		{http.MethodGet, "/documents/3/download", ""},
		{http.MethodGet, "/documents/3/download-protected", ""},
		{http.MethodGet, "/documents/3/download-docx", ""},
		{http.MethodPost, "/documents/3/protect", `{"password":"abc"}`},
		{http.MethodPost, "/documents/3/convert/docx", `{"donate":true}`},
		{http.MethodGet, "/documents/3/text", ""},
		{http.MethodDelete, "/documents/3", ""},
	}
	for _, rq := range requests {
		if resp := serve(router, rq.method, rq.target, token, rq.body); resp.Code != http.StatusOK {
			t.Fatalf("%s %s: expected 200 got %d: %s", rq.method, rq.target, resp.Code, resp.Body.String())
		}
	}

	want := []string{"list", "get", "download:original", "download:protected", "download:docx", "protect", "convert", "analyze", "delete"}
	if strings.Join(docs.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected dispatch %v", docs.calls)
	}
}

func TestBillingRoutesWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, &stubDocuments{}, nil)
	token := buildToken(t, cfg, 7)

	if resp := serve(router, http.MethodGet, "/billing/me", token, ""); resp.Code != http.StatusOK {
		t.Fatalf("billing/me: expected 200 got %d", resp.Code)
	}
	if resp := serve(router, http.MethodPost, "/billing/select-charity", token, `{"charity_id":2}`); resp.Code != http.StatusOK {
		t.Fatalf("select-charity: expected 200 got %d", resp.Code)
	}
	if resp := serve(router, http.MethodPost, "/billing/mock/purchase", token, `{"service":"protect"}`); resp.Code != http.StatusOK {
		t.Fatalf("mock purchase: expected 200 got %d", resp.Code)
	}
}

func TestLoginIsRateLimitedThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })

	router := newTestRouter(t, testConfig(), &stubDocuments{}, redis.NewFromClient(raw))
	body := `{"email":"a@example.com","password":"pw"}`

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(router, http.MethodPost, "/login", "", body).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
	if resp := serve(router, http.MethodPost, "/register", "", body); resp.Code != http.StatusOK {
		t.Fatalf("register uses its own policy, got %d", resp.Code)
	}
}
