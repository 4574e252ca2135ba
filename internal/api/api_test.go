package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/internal/mocks"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
	"github.com/nutrifit/backend/internal/testhelpers"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testCookie = "nutrifit_session"

type testApp struct {
	t         *testing.T
	router    *gin.Engine
	db        *gorm.DB
	completer *mocks.MockCompleter
	publisher *mocks.MockPublisher
	cookies   map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	completer := new(mocks.MockCompleter)
	publisher := new(mocks.MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	catalog := service.NewCatalogService(db)
	svc := &Services{
		Users:       service.NewUserService(db).WithCost(bcrypt.MinCost),
		Catalog:     catalog,
		Preferences: service.NewPreferenceService(db, catalog),
		Plans:       service.NewPlanService(completer),
		Tracking: service.NewTrackingService(db, catalog, publisher, service.Retention{
			Log:      30 * 24 * time.Hour,
			QuickAdd: 30 * 24 * time.Hour,
		}),
		Favorites: service.NewFavoriteService(db),
	}

	sessions := middleware.NewSessionManager(
		service.NewMemorySessionStore(time.Hour),
		service.NewSessionTokens("test-secret", time.Hour),
		testCookie,
		false,
	)

	router := gin.New()
	router.Use(middleware.ErrorHandler(), sessions.Sessions())
	RegisterRoutes(router, svc, sessions, nil, NewHealthHandler(db, nil), []byte("<html>snake</html>"))

	return &testApp{
		t:         t,
		router:    router,
		db:        db,
		completer: completer,
		publisher: publisher,
		cookies:   make(map[string]*http.Cookie),
	}
}

// do sends a JSON-accepting request carrying the app's cookies and keeps the cookies it gets back
func (a *testApp) do(method, path string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return w
}

func (a *testApp) get(path string, headers ...string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, path, nil, headers...)
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, path, form)
}

// login creates a user and authenticates the app's session as them
func (a *testApp) login() *models.User {
	a.t.Helper()
	user := testhelpers.CreateTestUser(a.t, a.db, "jdoe", "jdoe@example.com", "hunter2!")
	w := a.post("/user/login", url.Values{"email": {"jdoe"}, "password": {"hunter2!"}})
	require.Equal(a.t, http.StatusFound, w.Code)
	require.Equal(a.t, "/members", w.Header().Get("Location"))
	return user
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
