package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/merybery/merybery-backend/internal/farms"
	"github.com/merybery/merybery-backend/internal/inventory"
	"github.com/merybery/merybery-backend/internal/users"
	"github.com/merybery/merybery-backend/internal/varieties"
	"github.com/merybery/merybery-backend/pkg/config"
	"github.com/merybery/merybery-backend/pkg/logger"
	"github.com/merybery/merybery-backend/pkg/metrics"
	"github.com/merybery/merybery-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type memoryStore struct {
	records map[string]string
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, error) {
	if value, ok := s.records[key]; ok {
		return value, nil
	}
	return "", goredis.Nil
}

func (s *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.records == nil {
		s.records = map[string]string{}
	}
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	s.records[key] = str
	return true, nil
}

func (s *memoryStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

type stubUserService struct{}

func (stubUserService) Create(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) GetByExternalID(ctx context.Context, externalID string) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New(), ExternalID: externalID}, nil
}

func (stubUserService) GetByEmail(ctx context.Context, email string) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) Update(ctx context.Context, id uuid.UUID, input users.UpdateUserInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUserService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubFarmService struct{}

func (stubFarmService) Create(ctx context.Context, input farms.CreateFarmInput) (*farms.FarmDTO, error) {
	panic("unimplemented")
}

func (stubFarmService) GetByID(ctx context.Context, id uuid.UUID) (*farms.FarmDetailDTO, error) {
	panic("unimplemented")
}

func (stubFarmService) GetByEmail(ctx context.Context, email string) (*farms.FarmDTO, error) {
	panic("unimplemented")
}

func (stubFarmService) List(ctx context.Context) ([]farms.FarmDTO, error) {
	return []farms.FarmDTO{}, nil
}

func (stubFarmService) Update(ctx context.Context, id uuid.UUID, input farms.UpdateFarmInput) (*farms.FarmDTO, error) {
	panic("unimplemented")
}

func (stubFarmService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubFarmService) AddVariety(ctx context.Context, farmID, varietyID uuid.UUID) error {
	return nil
}

func (stubFarmService) RemoveVariety(ctx context.Context, farmID, varietyID uuid.UUID) error {
	return nil
}

type stubVarietyService struct{}

func (stubVarietyService) Create(ctx context.Context, input varieties.CreateVarietyInput) (*varieties.VarietyDTO, error) {
	panic("unimplemented")
}

func (stubVarietyService) GetByID(ctx context.Context, id uuid.UUID) (*varieties.VarietyDTO, error) {
	panic("unimplemented")
}

func (stubVarietyService) GetByName(ctx context.Context, name string) (*varieties.VarietyDTO, error) {
	panic("unimplemented")
}

func (stubVarietyService) List(ctx context.Context) ([]varieties.VarietyDTO, error) {
	return []varieties.VarietyDTO{}, nil
}

func (stubVarietyService) Update(ctx context.Context, id uuid.UUID, input varieties.UpdateVarietyInput) (*varieties.VarietyDTO, error) {
	panic("unimplemented")
}

func (stubVarietyService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubInventoryService struct{}

func (stubInventoryService) Create(ctx context.Context, input inventory.CreateInventoryInput) (*inventory.InventoryItemDTO, error) {
	return &inventory.InventoryItemDTO{ID: uuid.New(), FarmID: input.FarmID, VarietyID: input.VarietyID}, nil
}

func (stubInventoryService) GetByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItemDTO, error) {
	panic("unimplemented")
}

func (stubInventoryService) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]inventory.InventoryItemDTO, error) {
	return []inventory.InventoryItemDTO{}, nil
}

func (stubInventoryService) GetByFarmAndVariety(ctx context.Context, farmID, varietyID uuid.UUID) (*inventory.InventoryItemDTO, error) {
	panic("unimplemented")
}

func (stubInventoryService) Update(ctx context.Context, id uuid.UUID, input inventory.UpdateInventoryInput) (*inventory.InventoryItemDTO, error) {
	panic("unimplemented")
}

func (stubInventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubInventoryService) AdjustCount(ctx context.Context, id uuid.UUID, delta int) (*inventory.InventoryItemDTO, error) {
	return &inventory.InventoryItemDTO{ID: id, Count: 5}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:         "test",
			Port:        "0",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Idempotency: config.IdempotencyConfig{TTL: time.Hour},
	}
}

func newTestRouter(store *memoryStore) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	var idempotencyStore redis.IdempotencyStore
	if store != nil {
		idempotencyStore = store
	}
	return NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		stubPinger{},
		idempotencyStore,
		httpMetrics,
		reg,
		stubUserService{},
		stubFarmService{},
		stubVarietyService{},
		stubInventoryService{},
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestPublicPing(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public ping got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestAdjustRouteWired(t *testing.T) {
	router := newTestRouter(nil)
	target := "/api/v1/inventory/" + uuid.NewString() + "/adjust"
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"delta":-3}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for adjust got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestInventoryCreateRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(&memoryStore{})
	farmID, varietyID := uuid.NewString(), uuid.NewString()
	body := `{"farm_id":"` + farmID + `","variety_id":"` + varietyID + `","price":"1.25","count":10}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "order-42")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with idempotency key got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestInventoryAdjustRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(&memoryStore{})
	target := "/api/v1/inventory/" + uuid.NewString() + "/adjust"
	body := `{"delta":-3}`

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "retry-7")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with idempotency key got %d: %s", resp.Code, resp.Body.String())
	}

	// Same key and body replays the stored response.
	req = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "retry-7")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay got %d", resp.Code)
	}

	// Same key, different body is rejected.
	req = httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"delta":-9}`))
	req.Header.Set("Idempotency-Key", "retry-7")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key with new body got %d", resp.Code)
	}
}

func TestAssociationRoutesWired(t *testing.T) {
	router := newTestRouter(nil)
	target := "/api/v1/farms/" + uuid.NewString() + "/varieties/" + uuid.NewString()

	req := httptest.NewRequest(http.MethodPut, target, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for associate got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, target, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for dissociate got %d", resp.Code)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route got %d", resp.Code)
	}
}
