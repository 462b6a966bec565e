package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/halvard/choreboard/internal/api"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/internal/points"
	"github.com/halvard/choreboard/internal/service"
	"github.com/halvard/choreboard/pkg/entity"
	"github.com/stretchr/testify/assert"
)

var (
	memberID    = uuid.New()
	householdID = uuid.New()
	choreID     = uuid.New()
	categoryID  = uuid.New()
	sessionJTI  = uuid.New()
	member      = entity.User{
		ID:          memberID,
		ProviderUID: "provider-uid-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}
	household = entity.Household{
		ID:        householdID,
		Name:      "Maple Street",
		MemberIDs: []uuid.UUID{memberID},
		CreatedBy: memberID,
	}
	category = entity.Category{ID: categoryID, HouseholdID: householdID, Name: "Kitchen"}
	chore    = entity.Chore{ID: choreID, HouseholdID: householdID, Name: "Do the dishes", Points: 5}
	entry    = entity.RegistryEntry{
		ID:          uuid.New(),
		HouseholdID: householdID,
		ChoreID:     choreID,
		ChoreName:   chore.Name,
		UserID:      memberID,
		UserName:    member.DisplayName,
		Times:       1,
		Points:      5,
		CompletedAt: time.Now(),
	}
)

const validToken = "valid-session-token"

type AuthServiceMock struct {
	success bool
}

func (m *AuthServiceMock) Login(ctx context.Context, idToken string) (*service.LoginResult, error) {
	if !m.success {
		return nil, errorvalues.ErrInvalidToken
	}
	u := member
	return &service.LoginResult{User: &u, Token: validToken}, nil
}

func (m *AuthServiceMock) Logout(ctx context.Context, jti uuid.UUID) error {
	if !m.success {
		return errors.New("mocked error")
	}
	return nil
}

func (m *AuthServiceMock) Authorize(ctx context.Context, token string) (*entity.User, uuid.UUID, error) {
	if token != validToken {
		return nil, uuid.UUID{}, errorvalues.ErrSessionRevoked
	}
	u := member
	return &u, sessionJTI, nil
}

func (m *AuthServiceMock) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if !m.success {
		return nil, errorvalues.ErrUserNotFound
	}
	u := member
	return &u, nil
}

type HouseholdsServiceMock struct {
	success bool
}

func (m *HouseholdsServiceMock) Create(ctx context.Context, creator uuid.UUID, req *service.CreateHouseholdRequest) (*entity.Household, error) {
	if !m.success {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("mocked"))
	}
	h := household
	return &h, nil
}

func (m *HouseholdsServiceMock) ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Household, error) {
	if !m.success {
		return nil, errors.New("mocked error")
	}
	h := household
	return []*entity.Household{&h}, nil
}

func (m *HouseholdsServiceMock) Get(ctx context.Context, userID, hid uuid.UUID) (*entity.Household, error) {
	if !m.success {
		return nil, errorvalues.ErrHouseholdNotFound
	}
	h := household
	return &h, nil
}

func (m *HouseholdsServiceMock) Rename(ctx context.Context, userID, hid uuid.UUID, req *service.CreateHouseholdRequest) (*entity.Household, error) {
	if !m.success {
		return nil, errorvalues.ErrHouseholdNotFound
	}
	h := household
	h.Name = req.Name
	return &h, nil
}

func (m *HouseholdsServiceMock) AddMember(ctx context.Context, userID, hid, newMemberID uuid.UUID) (*entity.Household, error) {
	if !m.success {
		return nil, errorvalues.ErrUserNotFound
	}
	h := household
	return &h, nil
}

type CategoriesServiceMock struct {
	success bool
}

func (m *CategoriesServiceMock) Create(ctx context.Context, userID, hid uuid.UUID, req *service.CreateCategoryRequest) (*entity.Category, error) {
	if !m.success {
		return nil, errorvalues.ErrHouseholdNotFound
	}
	c := category
	return &c, nil
}

func (m *CategoriesServiceMock) List(ctx context.Context, userID, hid uuid.UUID) ([]*entity.Category, error) {
	if !m.success {
		return nil, errorvalues.ErrHouseholdNotFound
	}
	c := category
	return []*entity.Category{&c}, nil
}

func (m *CategoriesServiceMock) Get(ctx context.Context, userID, hid, cid uuid.UUID) (*entity.Category, error) {
	if !m.success {
		return nil, errorvalues.ErrCategoryNotFound
	}
	c := category
	return &c, nil
}

func (m *CategoriesServiceMock) Rename(ctx context.Context, userID, hid, cid uuid.UUID, req *service.CreateCategoryRequest) (*entity.Category, error) {
	if !m.success {
		return nil, errorvalues.ErrCategoryNotFound
	}
	c := category
	c.Name = req.Name
	return &c, nil
}

func (m *CategoriesServiceMock) Delete(ctx context.Context, userID, hid, cid uuid.UUID) error {
	if !m.success {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}

type ChoresServiceMock struct {
	success bool
}

func (m *ChoresServiceMock) Create(ctx context.Context, userID, hid uuid.UUID, req *service.CreateChoreRequest) (*entity.Chore, error) {
	if !m.success {
		return nil, errorvalues.ErrCategoryNotFound
	}
	c := chore
	return &c, nil
}

func (m *ChoresServiceMock) List(ctx context.Context, userID, hid uuid.UUID) ([]*entity.Chore, error) {
	if !m.success {
		return nil, errorvalues.ErrHouseholdNotFound
	}
	c := chore
	return []*entity.Chore{&c}, nil
}

func (m *ChoresServiceMock) Get(ctx context.Context, userID, hid, chid uuid.UUID) (*entity.Chore, error) {
	if !m.success {
		return nil, errorvalues.ErrChoreNotFound
	}
	c := chore
	return &c, nil
}

func (m *ChoresServiceMock) Update(ctx context.Context, userID, hid, chid uuid.UUID, req *service.UpdateChoreRequest) (*entity.Chore, error) {
	if !m.success {
		return nil, errorvalues.ErrChoreNotFound
	}
	c := chore
	return &c, nil
}

func (m *ChoresServiceMock) Delete(ctx context.Context, userID, hid, chid uuid.UUID) error {
	if !m.success {
		return errorvalues.ErrChoreNotFound
	}
	return nil
}

type RegistryServiceMock struct {
	success    bool
	lastFilter points.DateFilter
}

func (m *RegistryServiceMock) Create(ctx context.Context, userID, hid uuid.UUID, req *service.RegisterChoreRequest) (*entity.RegistryEntry, error) {
	if !m.success {
		return nil, errorvalues.ErrChoreNotFound
	}
	e := entry
	return &e, nil
}

func (m *RegistryServiceMock) CreateBatch(ctx context.Context, userID, hid uuid.UUID, reqs []*service.RegisterChoreRequest) ([]*entity.RegistryEntry, error) {
	if !m.success {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("mocked"))
	}
	result := make([]*entity.RegistryEntry, 0, len(reqs))
	for range reqs {
		e := entry
		result = append(result, &e)
	}
	return result, nil
}

func (m *RegistryServiceMock) List(ctx context.Context, userID, hid uuid.UUID, req *service.ListRegistryRequest) ([]*entity.RegistryEntry, error) {
	if !m.success {
		return nil, errorvalues.ErrHouseholdNotFound
	}
	m.lastFilter = req.Filter
	e := entry
	return []*entity.RegistryEntry{&e}, nil
}

func (m *RegistryServiceMock) Leaderboard(ctx context.Context, userID, hid uuid.UUID, req *service.ListRegistryRequest) ([]points.RankedTotal, error) {
	if !m.success {
		return nil, errorvalues.ErrHouseholdNotFound
	}
	return []points.RankedTotal{
		{Rank: 1, UserTotal: points.UserTotal{UserID: memberID, UserName: member.DisplayName, Points: 5}},
	}, nil
}

type mocksBundle struct {
	auth       *AuthServiceMock
	households *HouseholdsServiceMock
	categories *CategoriesServiceMock
	chores     *ChoresServiceMock
	registry   *RegistryServiceMock
}

func newTestServer() (*api.Server, *mocksBundle) {
	mocks := &mocksBundle{
		auth:       &AuthServiceMock{success: true},
		households: &HouseholdsServiceMock{success: true},
		categories: &CategoriesServiceMock{success: true},
		chores:     &ChoresServiceMock{success: true},
		registry:   &RegistryServiceMock{success: true},
	}
	serv := api.New(&api.ServicesList{
		AuthService:       mocks.auth,
		HouseholdsService: mocks.households,
		CategoriesService: mocks.categories,
		ChoresService:     mocks.chores,
		RegistryService:   mocks.registry,
	})
	return serv, mocks
}

func doRequest(serv *api.Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := sonic.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	serv.Handler().ServeHTTP(rr, req)
	return rr
}

func TestLoginHandler(t *testing.T) {
	serv, mocks := newTestServer()
	t.Run("logged in", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, "/auth/login", api.LoginRequest{IDToken: "provider-token"}, "")
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.AuthResponse
		assert.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, memberID.String(), resp.UID)
		assert.Equal(t, validToken, resp.Token)
	})
	t.Run("missing token", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, "/auth/login", api.LoginRequest{}, "")
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("rejected token", func(t *testing.T) {
		mocks.auth.success = false
		defer func() { mocks.auth.success = true }()
		rr := doRequest(serv, http.MethodPost, "/auth/login", api.LoginRequest{IDToken: "bad"}, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestAuthGate(t *testing.T) {
	serv, _ := newTestServer()
	t.Run("no token", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, "/households", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("dead session", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, "/households", nil, "expired-token")
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("live session", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, "/households", nil, validToken)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
}

func TestLogoutHandler(t *testing.T) {
	serv, mocks := newTestServer()
	t.Run("logged out", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, "/auth/logout", nil, validToken)
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		mocks.auth.success = false
		defer func() { mocks.auth.success = true }()
		rr := doRequest(serv, http.MethodPost, "/auth/logout", nil, validToken)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestHouseholdHandlers(t *testing.T) {
	serv, mocks := newTestServer()
	t.Run("create", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, "/households", api.CreateHouseholdRequest{Name: "Maple Street"}, validToken)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("create validation failure", func(t *testing.T) {
		mocks.households.success = false
		defer func() { mocks.households.success = true }()
		rr := doRequest(serv, http.MethodPost, "/households", api.CreateHouseholdRequest{Name: ""}, validToken)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("get", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, "/households/"+householdID.String(), nil, validToken)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var h entity.Household
		assert.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &h))
		assert.Equal(t, householdID, h.ID)
	})
	t.Run("get invalid id", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, "/households/not-a-uuid", nil, validToken)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("non-member sees 404", func(t *testing.T) {
		mocks.households.success = false
		defer func() { mocks.households.success = true }()
		rr := doRequest(serv, http.MethodGet, "/households/"+householdID.String(), nil, validToken)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("add member", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, "/households/"+householdID.String()+"/members",
			api.AddMemberRequest{UserID: uuid.New().String()}, validToken)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("add member bad user id", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, "/households/"+householdID.String()+"/members",
			api.AddMemberRequest{UserID: "nope"}, validToken)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestCategoryHandlers(t *testing.T) {
	serv, mocks := newTestServer()
	base := "/households/" + householdID.String() + "/categories"
	t.Run("list", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, base, nil, validToken)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var categories []entity.Category
		assert.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &categories))
		assert.Len(t, categories, 1)
	})
	t.Run("create", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, base, api.CreateCategoryRequest{Name: "Kitchen"}, validToken)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("delete", func(t *testing.T) {
		rr := doRequest(serv, http.MethodDelete, base+"/"+categoryID.String(), nil, validToken)
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("missing category", func(t *testing.T) {
		mocks.categories.success = false
		defer func() { mocks.categories.success = true }()
		rr := doRequest(serv, http.MethodGet, base+"/"+categoryID.String(), nil, validToken)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestChoreHandlers(t *testing.T) {
	serv, mocks := newTestServer()
	base := "/households/" + householdID.String() + "/chores"
	t.Run("create", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, base, api.CreateChoreRequest{Name: "Do the dishes", Points: 5}, validToken)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("update", func(t *testing.T) {
		pts := 9
		rr := doRequest(serv, http.MethodPatch, base+"/"+choreID.String(), api.UpdateChoreRequest{Points: &pts}, validToken)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("delete missing chore", func(t *testing.T) {
		mocks.chores.success = false
		defer func() { mocks.chores.success = true }()
		rr := doRequest(serv, http.MethodDelete, base+"/"+choreID.String(), nil, validToken)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestRegistryHandlers(t *testing.T) {
	serv, mocks := newTestServer()
	base := "/households/" + householdID.String() + "/registry"
	t.Run("register", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, base, api.RegisterChoreRequest{
			ChoreID: choreID,
			UserID:  memberID,
			Times:   1,
		}, validToken)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("register batch", func(t *testing.T) {
		rr := doRequest(serv, http.MethodPost, base+"/batch", api.RegisterBatchRequest{
			Chores: []api.RegisterChoreRequest{
				{ChoreID: choreID, UserID: memberID, Times: 1},
				{ChoreID: choreID, UserID: memberID, Times: 2},
			},
		}, validToken)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		var entries []entity.RegistryEntry
		assert.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &entries))
		assert.Len(t, entries, 2)
	})
	t.Run("list passes the filter", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, base+"?filter=thisWeek", nil, validToken)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		assert.Equal(t, points.FilterThisWeek, mocks.registry.lastFilter)
	})
	t.Run("unknown filter", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, base+"?filter=fortnight", nil, validToken)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("bad limit", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, base+"?limit=lots", nil, validToken)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("leaderboard", func(t *testing.T) {
		rr := doRequest(serv, http.MethodGet, "/households/"+householdID.String()+"/leaderboard?filter=thisWeek", nil, validToken)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var board []points.RankedTotal
		assert.NoError(t, sonic.Unmarshal(rr.Body.Bytes(), &board))
		assert.Len(t, board, 1)
		assert.Equal(t, 1, board[0].Rank)
	})
}
