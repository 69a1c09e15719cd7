package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ravenridge/questforge/internal/domain"
	"github.com/ravenridge/questforge/internal/present/rest/middleware"
	"github.com/ravenridge/questforge/internal/service"
	"github.com/ravenridge/questforge/internal/usecase"
)

// --- mocks ---

type memCharacterRepo struct {
	characters map[int64]domain.Character
	nextID     int64
}

func newMemCharacterRepo() *memCharacterRepo {
	return &memCharacterRepo{characters: map[int64]domain.Character{}, nextID: 1}
}

func (m *memCharacterRepo) FindByID(ctx context.Context, id int64) (domain.Character, error) {
	ch, ok := m.characters[id]
	if !ok {
		return domain.Character{}, domain.NotFoundError{Resource: "character"}
	}
	return ch, nil
}

func (m *memCharacterRepo) FindByIDAndOwner(ctx context.Context, id int64, accountID int64) (domain.Character, error) {
	ch, ok := m.characters[id]
	if !ok || ch.AccountID != accountID {
		return domain.Character{}, domain.NotFoundError{Resource: "character"}
	}
	return ch, nil
}

func (m *memCharacterRepo) FindByOwnerAndName(ctx context.Context, accountID int64, name string) (domain.Character, error) {
	for _, ch := range m.characters {
		if ch.AccountID == accountID && ch.Name == name {
			return ch, nil
		}
	}
	return domain.Character{}, domain.NotFoundError{Resource: "character"}
}

func (m *memCharacterRepo) Create(ctx context.Context, accountID int64, name string) (domain.Character, error) {
	ch := domain.Character{ID: m.nextID, AccountID: accountID, Name: name, Health: 500, Power: 100, Money: 10000}
	m.characters[ch.ID] = ch
	m.nextID++
	return ch, nil
}

func (m *memCharacterRepo) Delete(ctx context.Context, id int64, accountID int64) error {
	ch, ok := m.characters[id]
	if !ok || ch.AccountID != accountID {
		return domain.NotFoundError{Resource: "character"}
	}
	delete(m.characters, id)
	return nil
}

type memAccountRepo struct {
	accounts map[int64]domain.Account
}

func (m *memAccountRepo) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return domain.Account{}, domain.NotFoundError{Resource: "account"}
	}
	return account, nil
}

type memItemRepo struct {
	items    map[int64]domain.Item
	nextCode int64
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: map[int64]domain.Item{}, nextCode: 1}
}

func (m *memItemRepo) Create(ctx context.Context, name string, price int, stat domain.ItemStat) (domain.Item, error) {
	item := domain.Item{Code: m.nextCode, Name: name, Price: price, Stat: stat}
	m.items[item.Code] = item
	m.nextCode++
	return item, nil
}

func (m *memItemRepo) Update(ctx context.Context, code int64, name string, stat domain.ItemStat) (domain.Item, error) {
	item, ok := m.items[code]
	if !ok {
		return domain.Item{}, domain.NotFoundError{Resource: "item"}
	}
	item.Name = name
	item.Stat = stat
	m.items[code] = item
	return item, nil
}

func (m *memItemRepo) FindByCode(ctx context.Context, code int64) (domain.Item, error) {
	item, ok := m.items[code]
	if !ok {
		return domain.Item{}, domain.NotFoundError{Resource: "item"}
	}
	return item, nil
}

func (m *memItemRepo) FindByName(ctx context.Context, name string) (domain.Item, error) {
	for _, item := range m.items {
		if item.Name == name {
			return item, nil
		}
	}
	return domain.Item{}, domain.NotFoundError{Resource: "item"}
}

func (m *memItemRepo) List(ctx context.Context) ([]domain.ItemSummary, error) {
	summaries := make([]domain.ItemSummary, 0, len(m.items))
	for code := int64(1); code < m.nextCode; code++ {
		if item, ok := m.items[code]; ok {
			summaries = append(summaries, domain.ItemSummary{Code: item.Code, Name: item.Name, Price: item.Price})
		}
	}
	return summaries, nil
}

type memPublisher struct {
	events []domain.Event
}

func (p *memPublisher) Publish(ctx context.Context, channel string, event domain.Event) error {
	p.events = append(p.events, event)
	return nil
}

// --- helpers ---

type testServer struct {
	e          *echo.Echo
	credential *service.CredentialService
	characters *memCharacterRepo
	accounts   *memAccountRepo
}

func newTestServer() *testServer {
	credential := service.NewCredentialService(domain.AuthConfig{
		Secret:      "test-secret",
		Issuer:      "questforge",
		TokenExpiry: time.Hour,
	})
	characters := newMemCharacterRepo()
	accounts := &memAccountRepo{accounts: map[int64]domain.Account{
		1: {ID: 1, LoginName: "alice"},
		2: {ID: 2, LoginName: "bob"},
	}}

	characterUC := usecase.NewCharacterUsecase(characters, accounts, credential, &memPublisher{})
	itemUC := usecase.NewItemUsecase(newMemItemRepo())

	h := NewHandler(characterUC, itemUC, nil)
	e := echo.New()
	h.RegisterRoutes(e, middleware.NewAuthMiddleware(credential, accounts))

	return &testServer{e: e, credential: credential, characters: characters, accounts: accounts}
}

func (s *testServer) request(t *testing.T, method, path string, body any, accountID int64) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if accountID != 0 {
		token, err := s.credential.IssueToken(accountID)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res := httptest.NewRecorder()
	s.e.ServeHTTP(res, req)
	return res
}

func decodeData(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", res.Body.String(), err)
	}
	return payload.Data
}

// --- tests ---

func TestCharacterScenario(t *testing.T) {
	s := newTestServer()

	// account 1 creates "Hero"
	res := s.request(t, http.MethodPost, "/characters", map[string]string{"name": "Hero"}, 1)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body.String())
	}

	// duplicate under the same account
	res = s.request(t, http.MethodPost, "/characters", map[string]string{"name": "Hero"}, 1)
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", res.Code)
	}

	// same name under a different account is fine
	res = s.request(t, http.MethodPost, "/characters", map[string]string{"name": "Hero"}, 2)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body.String())
	}

	// anonymous retrieve never exposes money
	res = s.request(t, http.MethodGet, "/characters/1", nil, 0)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	data := decodeData(t, res)
	if _, ok := data["money"]; ok {
		t.Fatalf("anonymous view must not contain money: %v", data)
	}
	if data["name"] != "Hero" {
		t.Fatalf("unexpected view %v", data)
	}

	// non-owner retrieve never exposes money either
	res = s.request(t, http.MethodGet, "/characters/1", nil, 2)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	if _, ok := decodeData(t, res)["money"]; ok {
		t.Fatalf("non-owner view must not contain money")
	}

	// the owner sees money
	res = s.request(t, http.MethodGet, "/characters/1", nil, 1)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	data = decodeData(t, res)
	if data["money"] != float64(10000) {
		t.Fatalf("owner view must contain money: %v", data)
	}
}

func TestCharacterCreateRequiresCredential(t *testing.T) {
	s := newTestServer()

	res := s.request(t, http.MethodPost, "/characters", map[string]string{"name": "Hero"}, 0)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}
}

func TestCharacterCreateRejectsWhitespaceName(t *testing.T) {
	s := newTestServer()

	res := s.request(t, http.MethodPost, "/characters", map[string]string{"name": "a b"}, 1)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d: %s", res.Code, res.Body.String())
	}
}

func TestCharacterRetrieveBadTokenNoAnonymousFallback(t *testing.T) {
	s := newTestServer()
	_, _ = s.characters.Create(context.Background(), 1, "Hero")

	req := httptest.NewRequest(http.MethodGet, "/characters/1", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	res := httptest.NewRecorder()
	s.e.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d: %s", res.Code, res.Body.String())
	}
}

func TestCharacterRetrieveOrphanedCredentialClearsCookie(t *testing.T) {
	s := newTestServer()
	_, _ = s.characters.Create(context.Background(), 1, "Hero")

	// account 3 does not exist; the token is otherwise valid
	res := s.request(t, http.MethodGet, "/characters/1", nil, 3)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d: %s", res.Code, res.Body.String())
	}

	cleared := false
	for _, cookie := range res.Result().Cookies() {
		if cookie.Name == "authorization" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected the authorization cookie to be cleared")
	}
}

func TestCharacterDeleteConfirmName(t *testing.T) {
	s := newTestServer()
	ch, _ := s.characters.Create(context.Background(), 1, "Hero")

	// wrong confirm name
	res := s.request(t, http.MethodDelete, "/characters/1", map[string]string{"name": "Villain"}, 1)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}
	if _, ok := s.characters.characters[ch.ID]; !ok {
		t.Fatalf("character must survive a confirm-name mismatch")
	}

	// non-owner sees not found, not forbidden
	res = s.request(t, http.MethodDelete, "/characters/1", map[string]string{"name": "Hero"}, 2)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}

	// the owner with the right name succeeds
	res = s.request(t, http.MethodDelete, "/characters/1", map[string]string{"name": "Hero"}, 1)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}
	if _, ok := s.characters.characters[ch.ID]; ok {
		t.Fatalf("character should be gone")
	}
}

func TestItemEndpoints(t *testing.T) {
	s := newTestServer()

	body := map[string]any{
		"item_name":  "sword",
		"item_price": 1500,
		"item_stat":  map[string]int{"health": 0, "power": 30},
	}
	res := s.request(t, http.MethodPost, "/items", body, 0)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}
	data := decodeData(t, res)
	stat, ok := data["itemStat"].(map[string]any)
	if !ok || stat["power"] != float64(30) {
		t.Fatalf("unexpected item payload %v", data)
	}

	// duplicate name
	res = s.request(t, http.MethodPost, "/items", body, 0)
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", res.Code)
	}

	// patch an unknown item
	res = s.request(t, http.MethodPatch, "/items/99", body, 0)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}

	// listing carries an ETag usable for conditional requests
	res = s.request(t, http.MethodGet, "/items", nil, 0)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	etag := res.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected an ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("If-None-Match", etag)
	cached := httptest.NewRecorder()
	s.e.ServeHTTP(cached, req)
	if cached.Code != http.StatusNotModified {
		t.Fatalf("expected 304 got %d", cached.Code)
	}
}
