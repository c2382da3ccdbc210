// Package e2e provides end-to-end tests for the ProductService application.
// The suite leverages `testcontainers-go` to spin up a real PostgreSQL instance in a Docker container
// and serves the real application handler from an `httptest.Server`.
//
// Key features of the test suite:
//   - A PostgreSQL container is started and the embedded migrations are applied before tests run.
//   - Each test case is isolated by truncating the products table before it runs.
//   - Test coverage includes:
//   - Happy path CRUD operations and the Location header of created products.
//   - Content-Type enforcement (415) before any persistence.
//   - List filters and their precedence.
//   - Idempotent deletes, product events and the /metrics endpoint.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/productstore/internal/product/app"
	"github.com/abgdnv/productstore/internal/product/migrations"
	"github.com/abgdnv/productstore/pkg/messaging"
	"github.com/abgdnv/productstore/pkg/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "PRODUCT_SVC_SKIP_E2E_TESTS"

const productURL = "/products"

// ProductServiceE2ESuite is a test suite for end-to-end tests of the ProductService.
type ProductServiceE2ESuite struct {
	suite.Suite
	pgContainer   *postgres.PostgresContainer // PostgreSQL container for E2E tests
	dbPool        *pgxpool.Pool
	meterProvider *sdkmetric.MeterProvider
	publisher     *recordingPublisher
	server        *httptest.Server // HTTP server for the ProductService application
	httpClient    *http.Client
	logger        *slog.Logger
	ctx           context.Context
}

// recordingPublisher captures the subjects of published product events.
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	if _, err := event.Payload(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, event.Subject())
	return nil
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.subjects...)
}

// SetupSuite starts PostgreSQL, applies the schema and serves the application handler.
func (s *ProductServiceE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 1. Start a PostgreSQL container and wait for it to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("products"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. Apply the embedded migrations, as the service does on startup
	require.NoError(s.T(), migrations.Up(connStr), "Failed to apply migrations")

	// 4. Create the pool
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgx pool")
	require.NoError(s.T(), s.dbPool.Ping(s.ctx), "Failed to ping PostgreSQL")

	// 5. Wire the application the way main does
	mp, metricsHandler, err := telemetry.NewMeterProvider("product-e2e")
	require.NoError(s.T(), err, "Failed to create meter provider")
	s.meterProvider = mp
	s.publisher = &recordingPublisher{}

	deps := app.SetupDependencies(s.dbPool, s.publisher, s.logger)
	deps.MetricsHandler = metricsHandler

	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
	s.logger.Info("E2E test server started", "url", s.server.URL)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductServiceE2ESuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.meterProvider != nil {
		_ = s.meterProvider.Shutdown(s.ctx)
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("Failed to terminate E2E PostgreSQL container", "error", err)
		}
	}
}

// SetupTest prepares the database for each test by truncating the products table.
func (s *ProductServiceE2ESuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY")
	require.NoError(s.T(), err, "Failed to truncate products table")
	s.publisher.reset()
}

func TestProductServiceE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(ProductServiceE2ESuite))
}

// --------------------------------------------------------------------------
// ---------- Payload structures and Helper methods for E2E tests -----------
// --------------------------------------------------------------------------

// productJSON mirrors the serialized product returned by the API.
type productJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Available   bool   `json:"available"`
	Category    string `json:"category"`
}

func fedoraPayload() map[string]any {
	return map[string]any{
		"name":        "Fedora",
		"description": "A red hat",
		"price":       12.50,
		"available":   true,
		"category":    "CLOTHS",
	}
}

// do sends a request with an optional JSON body and returns the response with its body read.
func (s *ProductServiceE2ESuite) do(method, target, contentType string, payload any) (*http.Response, []byte) {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(s.T(), err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, target, body)
	require.NoError(s.T(), err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp, data
}

func (s *ProductServiceE2ESuite) createProduct(payload map[string]any) (productJSON, *http.Response) {
	s.T().Helper()
	resp, body := s.do(http.MethodPost, s.server.URL+productURL, "application/json", payload)
	var created productJSON
	if resp.StatusCode == http.StatusCreated {
		require.NoError(s.T(), json.Unmarshal(body, &created))
	}
	return created, resp
}

func (s *ProductServiceE2ESuite) getProduct(target string) (productJSON, int) {
	s.T().Helper()
	resp, body := s.do(http.MethodGet, target, "", nil)
	var found productJSON
	if resp.StatusCode == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(body, &found))
	}
	return found, resp.StatusCode
}

func (s *ProductServiceE2ESuite) listProducts(query url.Values) ([]productJSON, int) {
	s.T().Helper()
	target := s.server.URL + productURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	resp, body := s.do(http.MethodGet, target, "", nil)
	var list []productJSON
	if resp.StatusCode == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(body, &list))
	}
	return list, resp.StatusCode
}

func (s *ProductServiceE2ESuite) productURL(id int64) string {
	return s.server.URL + productURL + "/" + strconv.FormatInt(id, 10)
}

// --------------------------------------------------------------------------
// ------------------------------- Scenarios --------------------------------
// --------------------------------------------------------------------------

func (s *ProductServiceE2ESuite) TestHealthAndIndex() {
	resp, body := s.do(http.MethodGet, s.server.URL+"/health", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"status":200,"message":"OK"}`, string(body))

	resp, body = s.do(http.MethodGet, s.server.URL+"/", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "<html")
}

// Scenario A: create a product and follow its Location header.
func (s *ProductServiceE2ESuite) TestCreateAndFollowLocation() {
	created, resp := s.createProduct(fedoraPayload())

	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	s.Equal("Fedora", created.Name)
	s.NotZero(created.ID)
	location := resp.Header.Get("Location")
	require.NotEmpty(s.T(), location)

	found, status := s.getProduct(location)
	require.Equal(s.T(), http.StatusOK, status)
	s.Equal(created, found)
	s.Equal(productJSON{
		ID:          created.ID,
		Name:        "Fedora",
		Description: "A red hat",
		Price:       "12.50",
		Available:   true,
		Category:    "CLOTHS",
	}, found)
	s.Equal([]string{"products.created"}, s.publisher.published())
}

// Scenario B: a product that was never created is not found.
func (s *ProductServiceE2ESuite) TestGetMissingProduct() {
	resp, body := s.do(http.MethodGet, s.server.URL+productURL+"/999999", "", nil)

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.JSONEq(`{"error":"Product with id '999999' was not found."}`, string(body))

	resp, body = s.do(http.MethodGet, s.productURL(0), "", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.JSONEq(`{"error":"Product with id '0' was not found."}`, string(body))

	resp, _ = s.do(http.MethodDelete, s.productURL(0), "", nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
}

// Scenario C: a wrong Content-Type is rejected and nothing is stored.
func (s *ProductServiceE2ESuite) TestCreateWithWrongContentType() {
	resp, _ := s.do(http.MethodPost, s.server.URL+productURL, "text/plain", fedoraPayload())
	s.Equal(http.StatusUnsupportedMediaType, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, s.server.URL+productURL, "", fedoraPayload())
	s.Equal(http.StatusUnsupportedMediaType, resp.StatusCode)

	list, status := s.listProducts(nil)
	s.Equal(http.StatusOK, status)
	s.Empty(list)
}

// Scenario D: every created product is listed exactly once.
func (s *ProductServiceE2ESuite) TestListAll() {
	list, status := s.listProducts(nil)
	s.Equal(http.StatusOK, status)
	s.NotNil(list, "an empty list must be [] not null")
	s.Empty(list)

	for range 5 {
		_, resp := s.createProduct(fedoraPayload())
		require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	}

	list, status = s.listProducts(nil)
	s.Equal(http.StatusOK, status)
	s.Len(list, 5)
	seen := make(map[int64]bool)
	for _, p := range list {
		s.False(seen[p.ID], "product %d listed twice", p.ID)
		seen[p.ID] = true
	}
}

// Scenario E: an update replaces the fields and keeps the id.
func (s *ProductServiceE2ESuite) TestUpdate() {
	created, resp := s.createProduct(fedoraPayload())
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	payload := fedoraPayload()
	payload["description"] = "A blue hat"
	resp, _ = s.do(http.MethodPut, s.productURL(created.ID), "application/json", payload)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	found, status := s.getProduct(s.productURL(created.ID))
	require.Equal(s.T(), http.StatusOK, status)
	s.Equal(created.ID, found.ID)
	s.Equal("A blue hat", found.Description)
	s.Equal([]string{"products.created", "products.updated"}, s.publisher.published())
}

func (s *ProductServiceE2ESuite) TestUpdateFailures() {
	created, resp := s.createProduct(fedoraPayload())
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	resp, _ = s.do(http.MethodPut, s.server.URL+productURL+"/999999", "application/json", fedoraPayload())
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(http.MethodPut, s.productURL(0), "application/json", fedoraPayload())
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(http.MethodPut, s.productURL(created.ID), "text/plain", fedoraPayload())
	s.Equal(http.StatusUnsupportedMediaType, resp.StatusCode)

	invalid := fedoraPayload()
	invalid["available"] = "maybe"
	resp, body := s.do(http.MethodPut, s.productURL(created.ID), "application/json", invalid)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(string(body), `"field":"available"`)

	found, _ := s.getProduct(s.productURL(created.ID))
	s.Equal(created, found, "failed updates must not change the stored product")
}

// Scenario F: deleting twice succeeds both times.
func (s *ProductServiceE2ESuite) TestDeleteIsIdempotent() {
	created, resp := s.createProduct(fedoraPayload())
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	resp, body := s.do(http.MethodDelete, s.productURL(created.ID), "", nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	s.Empty(body)

	resp, _ = s.do(http.MethodDelete, s.productURL(created.ID), "", nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	_, status := s.getProduct(s.productURL(created.ID))
	s.Equal(http.StatusNotFound, status)
	s.Equal([]string{"products.created", "products.deleted"}, s.publisher.published())
}

func (s *ProductServiceE2ESuite) TestListFilters() {
	fedora, _ := s.createProduct(fedoraPayload())
	bread, _ := s.createProduct(map[string]any{
		"name": "Bread", "description": "", "price": "2.00", "available": false, "category": "FOOD",
	})
	wrench, _ := s.createProduct(map[string]any{
		"name": "Wrench", "description": "Adjustable", "price": "12.5", "available": true, "category": "TOOLS",
	})

	ids := func(list []productJSON) []int64 {
		out := make([]int64, 0, len(list))
		for _, p := range list {
			out = append(out, p.ID)
		}
		return out
	}

	testCases := []struct {
		name     string
		query    url.Values
		expected []int64
	}{
		{name: "by name", query: url.Values{"name": {"Fedora"}}, expected: []int64{fedora.ID}},
		{name: "by category, case-insensitive", query: url.Values{"category": {"food"}}, expected: []int64{bread.ID}},
		{name: "by availability", query: url.Values{"available": {"yes"}}, expected: []int64{fedora.ID, wrench.ID}},
		{name: "unknown availability token is false", query: url.Values{"available": {"nope"}}, expected: []int64{bread.ID}},
		{name: "by price", query: url.Values{"price": {"12.5"}}, expected: []int64{fedora.ID, wrench.ID}},
		{name: "by quoted price", query: url.Values{"price": {` "12.5" `}}, expected: []int64{fedora.ID, wrench.ID}},
		{name: "name wins over category", query: url.Values{"name": {"Bread"}, "category": {"TOOLS"}}, expected: []int64{bread.ID}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			list, status := s.listProducts(tc.query)
			s.Equal(http.StatusOK, status)
			s.Equal(tc.expected, ids(list))
		})
	}

	_, status := s.listProducts(url.Values{"category": {"SPACESHIPS"}})
	s.Equal(http.StatusBadRequest, status, "an unknown category must fail, not return an empty list")

	_, status = s.listProducts(url.Values{"price": {"1e1000000000"}})
	s.Equal(http.StatusBadRequest, status)
}

func (s *ProductServiceE2ESuite) TestMetrics() {
	_, resp := s.createProduct(fedoraPayload())
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	resp, body := s.do(http.MethodGet, s.server.URL+"/metrics", "", nil)

	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(s.T(), string(body), "products_created_total")
}
