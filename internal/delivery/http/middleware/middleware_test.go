package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"devconnect/internal/pkg/jwt"
	"devconnect/internal/pkg/response"
)

func newTestApp(t *testing.T, jwtSvc jwt.Service) *fiber.App {
	t.Helper()

	app := fiber.New()
	errMw := NewErrorMiddleware(log.New(io.Discard, "", 0))
	app.Use(errMw.Middleware())

	authMw := NewAuthMiddleware(jwtSvc)
	app.Get("/protected", authMw.Middleware(), func(c fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
		}
		return c.JSON(fiber.Map{"user": id.String()})
	})

	app.Get("/boom", func(c fiber.Ctx) error {
		return errors.New("connection refused")
	})
	app.Get("/invalid", func(c fiber.Ctx) error {
		return NewValidationError([]response.FieldError{
			{Msg: "Email must be provided"},
			{Msg: "password is required"},
		})
	})
	return app
}

func TestAuthMiddleware_TokenSources(t *testing.T) {
	jwtSvc := jwt.NewHMACService("test-secret", time.Hour)
	userID := uuid.New()
	token, err := jwtSvc.Generate(userID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	app := newTestApp(t, jwtSvc)

	cases := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantMsg    string
	}{
		{name: "x-auth-token header", header: "x-auth-token", value: token, wantStatus: fiber.StatusOK},
		{name: "authorization bearer", header: "Authorization", value: "Bearer " + token, wantStatus: fiber.StatusOK},
		{name: "bearer case insensitive", header: "Authorization", value: "bearer " + token, wantStatus: fiber.StatusOK},
		{name: "missing token", wantStatus: fiber.StatusUnauthorized, wantMsg: "no token, authorization denied"},
		{name: "garbage token", header: "x-auth-token", value: "not.a.jwt", wantStatus: fiber.StatusUnauthorized, wantMsg: "token is not valid"},
		{name: "authorization without scheme", header: "Authorization", value: token, wantStatus: fiber.StatusUnauthorized, wantMsg: "no token, authorization denied"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			body, _ := io.ReadAll(resp.Body)
			if tc.wantStatus == fiber.StatusOK {
				var out struct {
					User string `json:"user"`
				}
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if out.User != userID.String() {
					t.Fatalf("user = %q, want %q", out.User, userID)
				}
				return
			}

			var out struct {
				Msg string `json:"msg"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				t.Fatalf("decode body %q: %v", body, err)
			}
			if out.Msg != tc.wantMsg {
				t.Fatalf("msg = %q, want %q", out.Msg, tc.wantMsg)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtSvc := jwt.NewHMACService("test-secret", time.Hour)

	userID := uuid.New()
	issued := time.Now().Add(-2 * time.Hour)
	claims := jwt.Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(issued),
			ExpiresAt: jwtlib.NewNumericDate(issued.Add(time.Hour)),
			Subject:   userID.String(),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	app := newTestApp(t, jwtSvc)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("x-auth-token", token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	var out struct {
		Msg string `json:"msg"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out.Msg != "token expired" {
		t.Fatalf("msg = %q, want %q", out.Msg, "token expired")
	}
}

func TestErrorMiddleware_WireFormats(t *testing.T) {
	jwtSvc := jwt.NewHMACService("test-secret", time.Hour)
	app := newTestApp(t, jwtSvc)

	t.Run("unexpected errors are masked", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != `"Server Error"` {
			t.Fatalf("body = %s, want %q", body, `"Server Error"`)
		}
	})

	t.Run("validation errors carry the field list", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/invalid", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
		var out struct {
			Errors []struct {
				Msg string `json:"msg"`
			} `json:"errors"`
		}
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(out.Errors) != 2 || out.Errors[0].Msg != "Email must be provided" || out.Errors[1].Msg != "password is required" {
			t.Fatalf("unexpected errors payload: %s", body)
		}
	})
}
