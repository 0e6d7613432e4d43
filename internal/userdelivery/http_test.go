package userdelivery

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/microlend/internal/domain"
	"github.com/go-petr/microlend/internal/test"
	"github.com/go-petr/microlend/pkg/errorspkg"
	"github.com/go-petr/microlend/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.ReleaseMode)
	os.Exit(m.Run())
}

func setupRouter(t *testing.T, actor domain.Actor) (*gin.Engine, *MockService, *MockSessionMaker) {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	sessionMaker := NewMockSessionMaker(ctrl)

	h := NewHandler(service, sessionMaker)

	router := gin.New()
	router.POST("/users", h.SignUp)
	router.POST("/users/login", h.Login)

	auth := router.Group("/", test.WithActor(actor))
	auth.GET("/users/me", h.GetProfile)
	auth.PUT("/users/me", h.UpdateProfile)
	auth.PUT("/users/me/password", h.ChangePassword)
	auth.POST("/admin/users/:id/manager", h.Promote)

	return router, service, sessionMaker
}

func randomSession(user domain.UserWihtoutPassword) domain.Session {
	return domain.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		Username:     user.Username,
		RefreshToken: randompkg.String(32),
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second).UTC(),
	}
}

func TestSignUp(t *testing.T) {
	t.Parallel()

	user := domain.NewUserWihtoutPassword(test.RandomUser())
	account := test.RandomAccount(user.ID)
	session := randomSession(user)
	password := randompkg.String(10)

	validBody := gin.H{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"username":   user.Username,
		"password":   password,
	}

	testCases := []struct {
		name          string
		body          gin.H
		buildStubs    func(service *MockService, sessionMaker *MockSessionMaker)
		wantCode      int
		wantError     string
	}{
		{
			name: "OK",
			body: validBody,
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					SignUp(gomock.Any(), user.FirstName, user.LastName, user.Username, password).
					Times(1).
					Return(user, account, nil)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ any, arg domain.CreateSessionParams) (string, time.Time, domain.Session, error) {
						require.Equal(t, user.ID, arg.UserID)
						require.Equal(t, user.Username, arg.Username)
						return "access", session.ExpiresAt, session, nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "InvalidUsername",
			body: gin.H{
				"first_name": user.FirstName,
				"last_name":  user.LastName,
				"username":   "user&%",
				"password":   password,
			},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode:  http.StatusBadRequest,
			wantError: "Username must contain only letters and digits",
		},
		{
			name: "ShortPassword",
			body: gin.H{
				"first_name": user.FirstName,
				"last_name":  user.LastName,
				"username":   user.Username,
				"password":   "xyz",
			},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode:  http.StatusBadRequest,
			wantError: "Password must be at least 6 characters long",
		},
		{
			name: "MissingFirstName",
			body: gin.H{
				"last_name": user.LastName,
				"username":  user.Username,
				"password":  password,
			},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode:  http.StatusBadRequest,
			wantError: "FirstName field is required",
		},
		{
			name: "UsernameAlreadyExists",
			body: validBody,
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.UserWihtoutPassword{}, domain.Account{}, domain.ErrUsernameAlreadyExists)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode:  http.StatusConflict,
			wantError: domain.ErrUsernameAlreadyExists.Error(),
		},
		{
			name: "SessionError",
			body: validBody,
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().
					SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(user, account, nil)
				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return("", time.Time{}, domain.Session{}, errorspkg.ErrInternal)
			},
			wantCode:  http.StatusInternalServerError,
			wantError: errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, service, sessionMaker := setupRouter(t, domain.Actor{})
			tc.buildStubs(service, sessionMaker)

			recorder := test.Serve(t, router, http.MethodPost, "/users", tc.body)
			require.Equal(t, tc.wantCode, recorder.Code)

			var got signUpData

			res := test.DecodeResponse(t, recorder, &got)
			require.Equal(t, tc.wantError, res.Error)

			if tc.wantCode != http.StatusCreated {
				return
			}

			require.Equal(t, "access", res.AccessToken)
			require.Equal(t, session.RefreshToken, res.RefreshToken)

			if diff := cmp.Diff(signUpData{User: user, Account: account}, got, test.EquateDecimal); diff != "" {
				t.Errorf("SignUp returned unexpected difference (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	user := domain.NewUserWihtoutPassword(test.RandomUser())
	session := randomSession(user)
	password := randompkg.String(10)

	testCases := []struct {
		name       string
		body       gin.H
		buildStubs func(service *MockService, sessionMaker *MockSessionMaker)
		wantCode   int
	}{
		{
			name: "OK",
			body: gin.H{"username": user.Username, "password": password},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().CheckPassword(gomock.Any(), user.Username, password).Times(1).Return(user, nil)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).Times(1).
					Return("access", session.ExpiresAt, session, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "UserNotFound",
			body: gin.H{"username": user.Username, "password": password},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().CheckPassword(gomock.Any(), user.Username, password).Times(1).
					Return(domain.UserWihtoutPassword{}, domain.ErrUserNotFound)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "WrongPassword",
			body: gin.H{"username": user.Username, "password": password},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().CheckPassword(gomock.Any(), user.Username, password).Times(1).
					Return(domain.UserWihtoutPassword{}, domain.ErrWrongPassword)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "MissingPassword",
			body: gin.H{"username": user.Username},
			buildStubs: func(service *MockService, sessionMaker *MockSessionMaker) {
				service.EXPECT().CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sessionMaker.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, service, sessionMaker := setupRouter(t, domain.Actor{})
			tc.buildStubs(service, sessionMaker)

			recorder := test.Serve(t, router, http.MethodPost, "/users/login", tc.body)
			require.Equal(t, tc.wantCode, recorder.Code)

			if tc.wantCode == http.StatusOK {
				var got userData

				res := test.DecodeResponse(t, recorder, &got)
				require.Equal(t, "access", res.AccessToken)
				require.Equal(t, user.Username, got.User.Username)
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	actor := domain.Actor{UserID: 3, Username: "alice"}

	testCases := []struct {
		name       string
		body       gin.H
		buildStubs func(service *MockService)
		wantCode   int
	}{
		{
			name: "OK",
			body: gin.H{"current_password": "secret1", "new_password": "secret2", "password_confirmation": "secret2"},
			buildStubs: func(service *MockService) {
				service.EXPECT().ChangePassword(gomock.Any(), actor, "secret1", "secret2", "secret2").Times(1).Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "Mismatch",
			body: gin.H{"current_password": "secret1", "new_password": "secret2", "password_confirmation": "secret3"},
			buildStubs: func(service *MockService) {
				service.EXPECT().ChangePassword(gomock.Any(), actor, "secret1", "secret2", "secret3").Times(1).
					Return(domain.ErrPasswordMismatch)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "WrongCurrent",
			body: gin.H{"current_password": "nope00", "new_password": "secret2", "password_confirmation": "secret2"},
			buildStubs: func(service *MockService) {
				service.EXPECT().ChangePassword(gomock.Any(), actor, gomock.Any(), gomock.Any(), gomock.Any()).Times(1).
					Return(domain.ErrWrongPassword)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, service, _ := setupRouter(t, actor)
			tc.buildStubs(service)

			recorder := test.Serve(t, router, http.MethodPut, "/users/me/password", tc.body)
			require.Equal(t, tc.wantCode, recorder.Code)
		})
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	u := test.RandomUser()
	actor := domain.Actor{UserID: u.ID, Username: u.Username}
	user := domain.NewUserWihtoutPassword(u)

	t.Run("Get", func(t *testing.T) {
		t.Parallel()

		router, service, _ := setupRouter(t, actor)
		service.EXPECT().GetProfile(gomock.Any(), actor).Times(1).Return(user, nil)

		recorder := test.Serve(t, router, http.MethodGet, "/users/me", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var got userData

		test.DecodeResponse(t, recorder, &got)
		require.Equal(t, user.ID, got.User.ID)
	})

	t.Run("UpdateConflict", func(t *testing.T) {
		t.Parallel()

		router, service, _ := setupRouter(t, actor)
		service.EXPECT().UpdateProfile(gomock.Any(), actor, "Ann", "Lee", "annlee").Times(1).
			Return(domain.UserWihtoutPassword{}, domain.ErrUsernameAlreadyExists)

		recorder := test.Serve(t, router, http.MethodPut, "/users/me",
			gin.H{"first_name": "Ann", "last_name": "Lee", "username": "annlee"})
		require.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestPromote(t *testing.T) {
	t.Parallel()

	manager := domain.Actor{UserID: 1, Username: "admin", IsBankManager: true}
	promoted := domain.NewUserWihtoutPassword(test.RandomUser())
	promoted.IsBankManager = true

	testCases := []struct {
		name       string
		url        string
		buildStubs func(service *MockService)
		wantCode   int
	}{
		{
			name: "OK",
			url:  "/admin/users/7/manager",
			buildStubs: func(service *MockService) {
				service.EXPECT().Promote(gomock.Any(), manager, int32(7)).Times(1).Return(promoted, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "NotFound",
			url:  "/admin/users/7/manager",
			buildStubs: func(service *MockService) {
				service.EXPECT().Promote(gomock.Any(), manager, int32(7)).Times(1).
					Return(domain.UserWihtoutPassword{}, domain.ErrUserNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "InvalidID",
			url:  "/admin/users/0/manager",
			buildStubs: func(service *MockService) {
				service.EXPECT().Promote(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, service, _ := setupRouter(t, manager)
			tc.buildStubs(service)

			recorder := test.Serve(t, router, http.MethodPost, tc.url, nil)
			require.Equal(t, tc.wantCode, recorder.Code)
		})
	}
}
