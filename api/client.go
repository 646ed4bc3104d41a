package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// InvalidResponseMessage is the message synthesized for responses whose body
// could not be decoded as JSON.
const InvalidResponseMessage = "Invalid response"

// ErrBaseURLRequired is returned by NewClient when no base URL is given.
var ErrBaseURLRequired = errors.New("api base url required")

// Result is the normalized envelope every endpoint answers with. Data carries
// the endpoint-specific payload and is narrowed by the typed calls.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Paths holds the endpoint paths under the base URL.
type Paths struct {
	Register       string
	VerifyOTP      string
	Login          string
	ForgotPassword string
	ResetPassword  string
}

// DefaultPaths returns the upstream service's path layout.
func DefaultPaths() Paths {
	return Paths{
		Register:       "/api/auth/register",
		VerifyOTP:      "/api/auth/verify-otp",
		Login:          "/api/auth/login",
		ForgotPassword: "/api/auth/forgot-password",
		ResetPassword:  "/api/auth/reset-password",
	}
}

// Client issues requests against one authentication service.
type Client struct {
	base  string
	paths Paths
	http  *http.Client
}

// NewClient returns a Client for the service at baseURL. Zero-valued path
// entries fall back to DefaultPaths; a nil httpc falls back to
// http.DefaultClient.
func NewClient(baseURL string, paths Paths, httpc *http.Client) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	def := DefaultPaths()
	if paths.Register == "" {
		paths.Register = def.Register
	}
	if paths.VerifyOTP == "" {
		paths.VerifyOTP = def.VerifyOTP
	}
	if paths.Login == "" {
		paths.Login = def.Login
	}
	if paths.ForgotPassword == "" {
		paths.ForgotPassword = def.ForgotPassword
	}
	if paths.ResetPassword == "" {
		paths.ResetPassword = def.ResetPassword
	}
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		paths: paths,
		http:  httpc,
	}, nil
}

// Call issues method against path. A non-nil body is sent JSON-encoded with
// Content-Type application/json; a nil body sends nothing. An empty method
// defaults to POST.
func (c *Client) Call(ctx context.Context, path string, body any, method string) (Result, error) {
	if method == "" {
		method = http.MethodPost
	}

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Result{}, err
		}
		reader = bytes.NewReader(encoded)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.base+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.base+path, nil)
	}
	if err != nil {
		return Result{}, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{Success: false, Message: InvalidResponseMessage}, nil
	}
	return res, nil
}

// RegisterRequest is the POST /register body. A nil Phone marshals as null,
// matching the upstream contract for absent phone numbers.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone"`
}

// Register submits new account credentials.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (Result, error) {
	return c.Call(ctx, c.paths.Register, in, http.MethodPost)
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP submits the registration confirmation code.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (Result, error) {
	return c.Call(ctx, c.paths.VerifyOTP, verifyOTPRequest{Email: email, OTP: otp}, http.MethodPost)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload is the narrowed data of a successful login.
type LoginPayload struct {
	Token string `json:"token"`
}

// Login submits credentials and narrows the session token out of the result
// data. The payload is zero-valued unless the call succeeded and the data
// decoded cleanly.
func (c *Client) Login(ctx context.Context, email, password string) (Result, LoginPayload, error) {
	res, err := c.Call(ctx, c.paths.Login, loginRequest{Email: email, Password: password}, http.MethodPost)
	if err != nil {
		return res, LoginPayload{}, err
	}
	var payload LoginPayload
	if res.Success && len(res.Data) > 0 {
		// A payload the typed schema cannot narrow counts as no token;
		// the caller treats that the same as a malformed body.
		_ = json.Unmarshal(res.Data, &payload)
	}
	return res, payload, nil
}

// ForgotPassword requests a reset OTP. The email travels as a query
// parameter; the request has no body.
func (c *Client) ForgotPassword(ctx context.Context, email string) (Result, error) {
	q := url.Values{"email": {email}}
	return c.Call(ctx, c.paths.ForgotPassword+"?"+q.Encode(), nil, http.MethodPost)
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword submits the reset OTP together with the new password.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (Result, error) {
	return c.Call(ctx, c.paths.ResetPassword, resetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword}, http.MethodPost)
}
