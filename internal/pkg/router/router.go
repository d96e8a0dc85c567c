package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/samber/lo"
	"github.com/seongminoh/otpauth/internal/pkg/config"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
	"github.com/seongminoh/otpauth/internal/pkg/instrument"
	"github.com/seongminoh/otpauth/internal/pkg/jwt"
	"github.com/seongminoh/otpauth/internal/pkg/uid"
	"github.com/seongminoh/otpauth/internal/pkg/validator"
)

// Response envelope statuses. Every JSON response carries exactly one:
// "success" for 2xx, "fail" for 4xx (client can act on fail_case),
// "error" for 5xx.
const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type failResponse struct {
	Status   string         `json:"status"`
	FailCase map[string]any `json:"fail_case"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// Config provides runtime configuration values.
	Config config.Config
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// JWT validates and parses authentication tokens.
	JWT jwt.JWT
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, err error)
	encoder    func(ctx context.Context, w http.ResponseWriter, resp any)
	mws        []Middleware
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeFail(w, map[string]any{"detail": "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeFail(w, map[string]any{"detail": "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	hr.GET("/", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, successResponse{
			Status: statusSuccess,
			Data:   map[string]string{"message": "Welcome to OTP Auth API"},
		}, http.StatusOK)
	})

	okCodec := func(ctx context.Context, w http.ResponseWriter, resp any) {
		code := http.StatusOK
		if sc, ok := resp.(interface {
			StatusCode() int
		}); ok {
			code = sc.StatusCode()
		}

		if code == http.StatusNoContent || resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, successResponse{Status: statusSuccess, Data: resp}, code)
	}

	publicEndpoints := map[string]map[string]struct{}{
		http.MethodGet: {
			"/":       {},
			"/health": {},
		},
		http.MethodPost: {
			"/api/v1/auth/send-code":      {},
			"/api/v1/auth/verify-code":    {},
			"/api/v1/users/signup":        {},
			"/api/v1/users/login":         {},
			"/api/v1/passwd/request-code": {},
			"/api/v1/passwd/verify-code":  {},
			"/api/v1/passwd/reset":        {},
		},
		http.MethodPut: {
			"/api/v1/auth/verify-code":   {},
			"/api/v1/passwd/verify-code": {},
		},
	}
	ro := &Router{
		hr:         hr,
		errorCodec: encodeError,
		encoder:    okCodec,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Config, cfg.Instrument),
			middlewareMaintenance(cfg.Config),
			middlewareAuthentication(cfg.JWT, publicEndpoints),
		},
	}

	return ro
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// PUT registers a PUT endpoint using the application Handler signature.
func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			r.errorCodec(re.Context(), w, err)
			return
		}
		r.encoder(re.Context(), w, resp)
	}), append(r.mws, mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// encodeError renders a handler error into the response envelope. Middleware
// that rejects a request before the handler runs, such as Throttle, goes
// through the same path.
func encodeError(_ context.Context, w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	code := gerr.StatusCode()
	if code >= http.StatusInternalServerError {
		writeError(w, gerr.Msg(), code)
		return
	}

	var failCase map[string]any

	var errValidate validator.V10ValidationError
	if errors.As(err, &errValidate) {
		failCase = lo.MapEntries(errValidate.Values(), func(k, v string) (string, any) {
			return k, v
		})
	} else {
		failCase = lo.MapEntries(gerr.Fields(), func(k, v string) (string, any) {
			return k, v
		})
		failCase["detail"] = gerr.Msg()
		if wait := gerr.Wait(); wait > 0 {
			failCase["wait"] = wait
		}
	}

	writeFail(w, failCase, code)
}

func writeFail(w http.ResponseWriter, failCase map[string]any, code int) {
	writeJSON(w, failResponse{Status: statusFail, FailCase: failCase}, code)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, errorResponse{Status: statusError, Message: message}, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
