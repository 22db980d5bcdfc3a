package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/almoxerife-api/internal/application/analytics"
	"github.com/jhoicas/almoxerife-api/internal/application/auth"
	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/application/ledger"
	"github.com/jhoicas/almoxerife-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/almoxerife-api/internal/application/report"
	"github.com/jhoicas/almoxerife-api/internal/application/usecase"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
	"github.com/jhoicas/almoxerife-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almoxerife-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/almoxerife-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "almoxerife-test"
	testExpMin    = 60
	testPassword  = "segredo123"
)

// memUserRepo implementación en memoria de repository.UserRepository.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*entity.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	u.ID = m.seq
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUserRepo) GetActiveByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) ExistsByUsername(_ context.Context, username string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memUserRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

// memRevoker lista de revocación en memoria.
type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memRevoker) Revoke(_ context.Context, id string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[id], nil
}

// stubDashboardRepo agregados fijos para el endpoint del panel.
type stubDashboardRepo struct{}

func (stubDashboardRepo) ReceiptsByCategory(context.Context) ([]repository.CategoryReceiptsResult, error) {
	return nil, nil
}

func (stubDashboardRepo) IssuesByRecipient(context.Context, int) ([]repository.IssueAggregateResult, error) {
	return []repository.IssueAggregateResult{{Key: "Ana", Detail: "RH", TotalQuantity: 3, IssueCount: 1}}, nil
}

func (stubDashboardRepo) IssuesBySector(context.Context) ([]repository.IssueAggregateResult, error) {
	return nil, nil
}

func (stubDashboardRepo) IssuesByProduct(context.Context, int) ([]repository.IssueAggregateResult, error) {
	return nil, nil
}

func (stubDashboardRepo) LowStock(context.Context, int) ([]repository.LowStockResult, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// App de test
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	app     *fiber.App
	store   *ledgertest.Store
	fs      afero.Fs
	users   *memUserRepo
	revoker *memRevoker
	userUC  *usecase.UserUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := ledgertest.New()
	mem := afero.NewMemMapFs()
	files := storage.NewInvoiceStore(mem, "/uploads")
	users := &memUserRepo{users: map[int64]*entity.User{}}
	revoker := &memRevoker{revoked: map[string]bool{}}

	svc := ledger.NewService(st, st.Products(), st.Receipts(), st.Issues(), st.Recipients(), files)
	authUC := auth.NewAuthUseCase(users, revoker, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	userUC := usecase.NewUserUseCase(users)

	app := apphttp.NewApp("almoxerife-test")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		Ledger:      svc,
		ProductUC:   usecase.NewProductUseCase(st.Products(), st.Issues(), files),
		UserUC:      userUC,
		DashboardUC: appanalytics.NewDashboardUseCase(stubDashboardRepo{}),
		StockReport: report.NewStockReportUseCase(st.Products(), pdf.NewMarotoStockReport()),
	})
	return &testServer{app: app, store: st, fs: mem, users: users, revoker: revoker, userUC: userUC}
}

// addUser crea un usuario activo con testPassword.
func (s *testServer) addUser(t *testing.T, username, role string) int64 {
	t.Helper()
	u, err := s.userUC.Create(context.Background(), dto.CreateUserRequest{Username: username, Password: testPassword, Role: role})
	require.NoError(t, err)
	return u.ID
}

// login hace POST /api/auth/login y devuelve el token.
func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	resp := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{"usuario": username, "senha": testPassword}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	return out.Token
}

// adminToken crea (si hace falta) y autentica un Administrador.
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	if u, _ := s.users.GetActiveByUsername(context.Background(), "admin"); u == nil {
		s.addUser(t, "admin", entity.RoleAdmin)
	}
	return s.login(t, "admin")
}

func (s *testServer) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func jsonRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// multipartRequest arma un multipart/form-data con campos de texto y, si data != nil, el archivo nota_fiscal_pdf.
func multipartRequest(t *testing.T, method, path, token string, fields map[string]string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if data != nil {
		fw, err := w.CreateFormFile(apphttp.InvoiceField, "nota.pdf")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e.Code
}

func pdfBytes(content string) []byte {
	return []byte("%PDF-1.4\n" + content)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
