// Command authflow-mockserver stubs the remote authentication service the
// workflow controller talks to. Accounts and OTP codes live in memory; every
// dispatched code is printed to stdout instead of being emailed. Intended for
// local development together with authflow-demo.
package main

import (
	"crypto/rand"
	"log"
	"math/big"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type account struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Verified bool
	OTP      string
}

type store struct {
	mu       sync.Mutex
	accounts map[string]*account
}

func newStore() *store {
	return &store{accounts: make(map[string]*account)}
}

func generateOTP(length int) (string, error) {
	const digits = "0123456789"
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		out[i] = digits[n.Int64()]
	}
	return string(out), nil
}

func envelope(success bool, message string) fiber.Map {
	return fiber.Map{"success": success, "message": message}
}

type registerBody struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone"`
}

type verifyBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetBody struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func main() {
	addr := os.Getenv("MOCKSERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	secret := []byte(os.Getenv("MOCKSERVER_JWT_SECRET"))
	if len(secret) == 0 {
		secret = []byte("dev-only-secret")
	}

	db := newStore()
	app := fiber.New()
	auth := app.Group("/api/auth")

	auth.Post("/register", func(c *fiber.Ctx) error {
		body := new(registerBody)
		if err := c.BodyParser(body); err != nil {
			return c.JSON(envelope(false, "Invalid request body"))
		}
		email := strings.ToLower(strings.TrimSpace(body.Email))
		if email == "" || body.FullName == "" || len(body.Password) < 6 {
			return c.JSON(envelope(false, "Invalid registration input"))
		}

		db.mu.Lock()
		defer db.mu.Unlock()
		if existing, ok := db.accounts[email]; ok && existing.Verified {
			return c.JSON(envelope(false, "Email already registered"))
		}
		otp, err := generateOTP(6)
		if err != nil {
			return c.JSON(envelope(false, "Could not generate OTP"))
		}
		acct := &account{
			Email:    email,
			Password: body.Password,
			FullName: body.FullName,
			OTP:      otp,
		}
		if body.Phone != nil {
			acct.Phone = *body.Phone
		}
		db.accounts[email] = acct
		log.Printf("register OTP for %s: %s", email, otp)
		return c.JSON(envelope(true, "Registered. OTP sent to email"))
	})

	auth.Post("/verify-otp", func(c *fiber.Ctx) error {
		body := new(verifyBody)
		if err := c.BodyParser(body); err != nil {
			return c.JSON(envelope(false, "Invalid request body"))
		}
		email := strings.ToLower(strings.TrimSpace(body.Email))

		db.mu.Lock()
		defer db.mu.Unlock()
		acct, ok := db.accounts[email]
		if !ok || acct.OTP == "" || acct.OTP != body.OTP {
			return c.JSON(envelope(false, "OTP code is invalid or expired"))
		}
		acct.Verified = true
		acct.OTP = ""
		return c.JSON(envelope(true, "Account verified"))
	})

	auth.Post("/login", func(c *fiber.Ctx) error {
		body := new(loginBody)
		if err := c.BodyParser(body); err != nil {
			return c.JSON(envelope(false, "Invalid request body"))
		}
		email := strings.ToLower(strings.TrimSpace(body.Email))

		db.mu.Lock()
		acct, ok := db.accounts[email]
		db.mu.Unlock()
		if !ok || !acct.Verified || acct.Password != body.Password {
			return c.JSON(envelope(false, "Invalid email or password"))
		}

		claims := jwt.MapClaims{
			"sub":   email,
			"email": email,
			"name":  acct.FullName,
			"exp":   time.Now().Add(24 * time.Hour).Unix(),
			"iat":   time.Now().Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		if err != nil {
			return c.JSON(envelope(false, "Could not issue token"))
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Signed in",
			"data":    fiber.Map{"token": token},
		})
	})

	auth.Post("/forgot-password", func(c *fiber.Ctx) error {
		email := strings.ToLower(strings.TrimSpace(c.Query("email")))

		db.mu.Lock()
		defer db.mu.Unlock()
		acct, ok := db.accounts[email]
		if !ok || !acct.Verified {
			return c.JSON(envelope(false, "No account for that email"))
		}
		otp, err := generateOTP(6)
		if err != nil {
			return c.JSON(envelope(false, "Could not generate OTP"))
		}
		acct.OTP = otp
		log.Printf("reset OTP for %s: %s", email, otp)
		return c.JSON(envelope(true, "OTP sent to email"))
	})

	auth.Post("/reset-password", func(c *fiber.Ctx) error {
		body := new(resetBody)
		if err := c.BodyParser(body); err != nil {
			return c.JSON(envelope(false, "Invalid request body"))
		}
		email := strings.ToLower(strings.TrimSpace(body.Email))

		db.mu.Lock()
		defer db.mu.Unlock()
		acct, ok := db.accounts[email]
		if !ok || acct.OTP == "" || acct.OTP != body.OTP {
			return c.JSON(envelope(false, "OTP code is invalid or expired"))
		}
		if len(body.NewPassword) < 6 {
			return c.JSON(envelope(false, "Password too short"))
		}
		acct.Password = body.NewPassword
		acct.OTP = ""
		return c.JSON(envelope(true, "Password reset"))
	})

	log.Printf("authflow-mockserver listening on %s", addr)
	log.Fatal(app.Listen(addr))
}
