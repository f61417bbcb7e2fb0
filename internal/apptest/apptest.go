// Package apptest runs a local stand-in for the whistleblowing app's login
// surface so the browser suites have something real to drive. It serves a
// hash-routed single page app plus the handful of JSON endpoints the login
// flows hit. It deliberately implements nothing beyond that surface; the real
// application is out of scope for this repository.
package apptest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/tiplinehq/tipline-e2e/internal/errs"
	"github.com/tiplinehq/tipline-e2e/internal/fixtures"
	"github.com/tiplinehq/tipline-e2e/internal/logutil"
	"github.com/tiplinehq/tipline-e2e/internal/obs"
)

const attachmentBucket = "e2e-attachments"

// Server is the fixture deployment. One instance per test process is enough;
// state can be reset between tests with Reset.
type Server struct {
	URL string

	httpServer *httptest.Server
	s3Server   *httptest.Server
	s3Client   *s3.Client

	// Login attempts share one limiter, like the real app's brute-force
	// throttle. The default rate is high so only the throttling tests hit it.
	limiter *rate.Limiter

	mu           sync.Mutex
	receiverHash map[string][]byte
	adminHash    []byte
	receipts     map[string]bool
}

// New starts the fixture server for a single test and tears it down with the
// test. Suites that share one fixture across tests use Start instead.
func New(t *testing.T) *Server {
	t.Helper()

	srv, err := Start()
	if err != nil {
		t.Fatalf("start fixture server: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

// Start brings the fixture server up with the standard role fixtures seeded:
// the admin and both receivers log in with the fixture user password.
func Start() (*Server, error) {
	srv := &Server{
		limiter:      rate.NewLimiter(rate.Limit(100), 200),
		receiverHash: map[string][]byte{},
		receipts:     map[string]bool{},
	}

	// bcrypt.MinCost keeps fixture logins fast; these are not real secrets.
	var err error
	srv.adminHash, err = bcrypt.GenerateFromPassword([]byte(fixtures.Admin.UserPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin fixture password: %w", err)
	}
	for _, r := range []fixtures.Credentials{fixtures.Receiver1, fixtures.Receiver2} {
		hash, err := bcrypt.GenerateFromPassword([]byte(r.UserPassword), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash receiver fixture password: %w", err)
		}
		srv.receiverHash[r.Username] = hash
	}

	if err := srv.startS3(); err != nil {
		srv.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", srv.handleIndex)
	mux.HandleFunc("GET /api/receivers", srv.handleReceivers)
	mux.HandleFunc("POST /api/authentication", srv.handleAuthentication)
	mux.HandleFunc("POST /api/receiptauth", srv.handleReceiptAuth)
	mux.HandleFunc("GET /download/{name}", srv.handleDownload)

	srv.httpServer = httptest.NewServer(requestLog(mux))
	srv.URL = srv.httpServer.URL
	return srv, nil
}

// requestLog logs fixture traffic at debug with credentials redacted.
func requestLog(next http.Handler) http.Handler {
	log := obs.Pkg("apptest")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("fixture request",
			"method", r.Method,
			"path", r.URL.Path,
			"headers", logutil.FormatHeadersForLog(r.Header),
		)
		next.ServeHTTP(w, r)
	})
}

// startS3 brings up the in-memory S3 the attachment downloads stream from.
func (srv *Server) startS3() error {
	backend := s3mem.New()
	faker := gofakes3.New(backend)
	srv.s3Server = httptest.NewServer(faker.Server())

	ctx := context.Background()
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		),
	)
	if err != nil {
		return fmt.Errorf("load AWS config for fixture S3: %w", err)
	}

	srv.s3Client = s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(srv.s3Server.URL)
		o.UsePathStyle = true
	})

	if _, err := srv.s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(attachmentBucket),
	}); err != nil {
		return fmt.Errorf("create fixture attachment bucket: %w", err)
	}
	return nil
}

// SeedAttachment stores a downloadable attachment in the fixture bucket.
func (srv *Server) SeedAttachment(t *testing.T, name string, body []byte) {
	t.Helper()

	if err := srv.PutAttachment(name, body); err != nil {
		t.Fatalf("seed attachment %q: %v", name, err)
	}
}

// PutAttachment stores a downloadable attachment in the fixture bucket.
func (srv *Server) PutAttachment(name string, body []byte) error {
	_, err := srv.s3Client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(attachmentBucket),
		Key:    aws.String(name),
		Body:   bytes.NewReader(body),
	})
	return err
}

// RegisterReceipt makes a receipt code accepted by the whistleblower login.
func (srv *Server) RegisterReceipt(receipt string) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.receipts[receipt] = true
}

// Reset drops per-test state (registered receipts).
func (srv *Server) Reset() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.receipts = map[string]bool{}
}

// Close shuts both servers down. Registered as t.Cleanup by New.
func (srv *Server) Close() {
	if srv.httpServer != nil {
		srv.httpServer.Close()
		srv.httpServer = nil
	}
	if srv.s3Server != nil {
		srv.s3Server.Close()
		srv.s3Server = nil
	}
}

// ----------------------------------------------------------------------------
// Handlers
// ----------------------------------------------------------------------------

func (srv *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, indexHTML)
}

func (srv *Server) handleReceivers(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	names := make([]string, 0, len(srv.receiverHash))
	for name := range srv.receiverHash {
		names = append(names, name)
	}
	srv.mu.Unlock()

	// Stable order for the select control.
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{"receivers": names})
}

type authRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (srv *Server) handleAuthentication(w http.ResponseWriter, r *http.Request) {
	if !srv.limiter.Allow() {
		writeError(w, errs.New(errs.Unavailable, "too many login attempts"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errs.Wrap(errs.InvalidArgument, "unreadable login request", err))
		return
	}
	obs.Pkg("apptest").Debug("login attempt",
		"body", logutil.RedactBodyForLog(r.Header.Get("Content-Type"), body))

	var req authRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errs.Wrap(errs.InvalidArgument, "malformed login request", err))
		return
	}

	var hash []byte
	switch req.Role {
	case "admin":
		if req.Username == fixtures.Admin.Username {
			hash = srv.adminHash
		}
	case "receiver":
		srv.mu.Lock()
		hash = srv.receiverHash[req.Username]
		srv.mu.Unlock()
	default:
		writeError(w, errs.New(errs.InvalidArgument, fmt.Sprintf("unknown role %q", req.Role)))
		return
	}

	if hash == nil || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		writeError(w, errs.New(errs.InvalidArgument, "invalid credentials"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type receiptRequest struct {
	Receipt string `json:"receipt"`
}

func (srv *Server) handleReceiptAuth(w http.ResponseWriter, r *http.Request) {
	if !srv.limiter.Allow() {
		writeError(w, errs.New(errs.Unavailable, "too many login attempts"))
		return
	}

	var req receiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.Wrap(errs.InvalidArgument, "malformed receipt request", err))
		return
	}

	srv.mu.Lock()
	ok := srv.receipts[req.Receipt]
	srv.mu.Unlock()
	if !ok {
		writeError(w, errs.New(errs.InvalidArgument, "invalid receipt"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (srv *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	obj, err := srv.s3Client.GetObject(r.Context(), &s3.GetObjectInput{
		Bucket: aws.String(attachmentBucket),
		Key:    aws.String(name),
	})
	if err != nil {
		writeError(w, errs.Wrap(errs.NotFound, fmt.Sprintf("no attachment %q", name), err))
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = io.Copy(w, obj.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errs.HTTPStatus(errs.CodeOf(err)), map[string]string{
		"error": errs.MessageOf(err),
	})
}
