// Command authflow-demo drives the workflow controller from a terminal. It
// renders the surface as console output, walks a register→verify→login
// round trip against the configured service (see authflow-mockserver), and
// prompts for the OTP codes on stdin.
//
// Configuration comes from the environment (a .env file is honored):
//
//	AUTHFLOW_BASE_URL    service base URL (default http://localhost:8080)
//	AUTHFLOW_REDIS_ADDR  optional; store the session token in Redis
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ldtran/authflow"
	"github.com/ldtran/authflow/session"
	"github.com/ldtran/authflow/surface"
)

// consoleRenderer prints every surface mutation. Dialog bodies are presented
// once; flashes reprint in place of a real message slot.
type consoleRenderer struct{}

func (consoleRenderer) ShowFlash(region surface.Region, flash surface.Flash) {
	if flash.Message == "" {
		return
	}
	fmt.Printf("[%s] %s: %s\n", region, flash.Severity, flash.Message)
}

func (consoleRenderer) ShowDialogFlash(_ string, flash surface.Flash) {
	if flash.Message == "" {
		return
	}
	fmt.Printf("[dialog] %s: %s\n", flash.Severity, flash.Message)
}

func (consoleRenderer) PresentDialog(view surface.DialogView) {
	fmt.Printf("--- %s ---\n", view.Spec.Title)
	if view.Spec.Subtitle != "" {
		fmt.Println(view.Spec.Subtitle)
	}
}

func (consoleRenderer) DismissDialog(string) {
	fmt.Println("--- dialog closed ---")
}

func (consoleRenderer) FocusFirst(string) {}

func (consoleRenderer) ActivateView(mode surface.ViewMode) {
	fmt.Printf("=== %s view active ===\n", mode)
}

type consoleNavigator struct{}

func (consoleNavigator) Navigate(route string) {
	fmt.Printf(">>> navigating to %s\n", route)
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("AUTHFLOW_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	var tokens session.TokenStore
	if addr := os.Getenv("AUTHFLOW_REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		tokens = session.NewRedisStore(rdb, "authflow-demo", 24*time.Hour)
	}

	controller, err := authflow.New().
		WithBaseURL(baseURL).
		WithRenderer(consoleRenderer{}).
		WithNavigator(consoleNavigator{}).
		WithTokenStore(tokens).
		WithEventSink(authflow.NewJSONWriterSink(os.Stderr)).
		Build()
	if err != nil {
		log.Fatalf("build controller: %v", err)
	}
	defer controller.Close()

	ctx := context.Background()
	in := bufio.NewReader(os.Stdin)

	email := fmt.Sprintf("demo-%s@example.com", uuid.NewString()[:8])
	password := "demo-pass-123"
	fmt.Printf("registering %s\n", email)

	if err := controller.SubmitRegistration(ctx, authflow.Credentials{
		Email:    email,
		Password: password,
		FullName: "Demo User",
	}); err != nil {
		log.Fatalf("register: %v", err)
	}

	for controller.State() == authflow.StateAwaitingRegisterOTP {
		code := prompt(in, "OTP code (from the mockserver log): ")
		if code == "" {
			_ = controller.CancelRegisterOTP()
			log.Fatal("cancelled")
		}
		if err := controller.SubmitRegisterOTP(ctx, code); err != nil {
			fmt.Printf("rejected: %v\n", err)
		}
		if controller.State() == authflow.StateVerified {
			break
		}
	}

	// Give the confirmation dialog time to close itself.
	time.Sleep(2 * time.Second)

	if err := controller.SubmitLogin(ctx, email, password); err != nil {
		log.Fatalf("login: %v", err)
	}

	info, err := controller.TokenInfo(ctx)
	if err != nil {
		log.Fatalf("token: %v", err)
	}
	fmt.Printf("session token stored (jwt=%v, subject=%q, expires=%s)\n",
		info.JWT, info.Subject, info.ExpiresAt.Format(time.RFC3339))

	time.Sleep(2 * time.Second)
}
