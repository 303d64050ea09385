package auth_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/complaint-management/internal/auth"
)

var _ = Describe("Auth Handler", func() {
	var (
		handler  *auth.Handler
		service  *auth.Service
		mockRepo *mockAuthRepository
		tokenGen *auth.JWTTokenGenerator
	)

	BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = auth.NewJWTTokenGenerator("test-secret-at-least-16", 24*time.Hour)
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, tokenGen, bcrypt.MinCost, testLogger)
		handler = auth.NewHandler(service)
	})

	Describe("Register endpoint", func() {
		It("should return 201 with the new user id", func() {
			body, _ := json.Marshal(auth.RegisterDTO{
				Name:     "Jordan",
				Email:    "jordan@mail.com",
				Password: "secret123",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp auth.RegisterResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Message).To(Equal("User registered successfully"))
			Expect(resp.UserID).To(BeNumerically(">", 0))
		})

		It("should return 400 for a duplicate email", func() {
			body, _ := json.Marshal(auth.RegisterDTO{
				Name:     "Jordan",
				Email:    "jordan@mail.com",
				Password: "secret123",
			})
			first := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			handler.Register(httptest.NewRecorder(), first)

			second := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			w := httptest.NewRecorder()
			handler.Register(w, second)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Login endpoint", func() {
		BeforeEach(func() {
			_, err := service.Register(auth.RegisterDTO{
				Name:     "Jordan",
				Email:    "jordan@mail.com",
				Password: "secret123",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should return a token for valid credentials", func() {
			body, _ := json.Marshal(auth.LoginDTO{Email: "jordan@mail.com", Password: "secret123"})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp auth.LoginResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Token).ToNot(BeEmpty())
			Expect(resp.User.Email).To(Equal("jordan@mail.com"))
		})

		It("should return 401 for wrong credentials", func() {
			body, _ := json.Marshal(auth.LoginDTO{Email: "jordan@mail.com", Password: "nope"})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("AuthMiddleware", func() {
		var next http.Handler
		var reachedUser *auth.User

		BeforeEach(func() {
			reachedUser = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if u, ok := auth.UserFromContext(r.Context()); ok {
					reachedUser = u
				}
				w.WriteHeader(http.StatusOK)
			})
		})

		It("should return 401 when no token is sent", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/complaints/my-complaints", nil)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(reachedUser).To(BeNil())
		})

		It("should return 403 for an invalid token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/complaints/my-complaints", nil)
			req.Header.Set("Authorization", "Bearer not-a-real-token")
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(reachedUser).To(BeNil())
		})

		It("should put the token identity into the request context", func() {
			token, err := tokenGen.GenerateToken(42, "jordan@mail.com", auth.RoleAdmin)
			Expect(err).ToNot(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(reachedUser).ToNot(BeNil())
			Expect(reachedUser.ID).To(Equal(int64(42)))
			Expect(reachedUser.Role).To(Equal(auth.RoleAdmin))
			Expect(reachedUser.IsAdmin()).To(BeTrue())
		})
	})

	Describe("RequireAdmin", func() {
		var roleAuth *auth.RoleAuthorization
		var next http.Handler
		var reached bool

		BeforeEach(func() {
			reached = false
			testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			roleAuth = auth.NewRoleAuthorization(testLogger)
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})
		})

		It("should reject a regular user with 403", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
			ctx := auth.ContextWithUser(req.Context(), &auth.User{ID: 1, Role: auth.RoleUser})
			w := httptest.NewRecorder()

			roleAuth.RequireAdmin()(next).ServeHTTP(w, req.WithContext(ctx))

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(reached).To(BeFalse())
		})

		It("should pass an admin through", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
			ctx := auth.ContextWithUser(req.Context(), &auth.User{ID: 2, Role: auth.RoleAdmin})
			w := httptest.NewRecorder()

			roleAuth.RequireAdmin()(next).ServeHTTP(w, req.WithContext(ctx))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(reached).To(BeTrue())
		})
	})
})
