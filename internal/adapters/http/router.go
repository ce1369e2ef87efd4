package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kirillkom/docproof/internal/config"
	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
	"github.com/kirillkom/docproof/internal/observability/metrics"
)

const (
	serviceName    = "api"
	maxJSONBody    = 4 << 20
	multipartInMem = 8 << 20
)

// Dependencies are the inbound ports served over HTTP.
type Dependencies struct {
	Documents   ports.DocumentUploader
	Reader      ports.DocumentReader
	Jobs        ports.JobSubmitter
	Credentials ports.CredentialManager
	Exporter    ports.ResultExporter
	Verifier    ports.SessionVerifier
	Metrics     *metrics.HTTPServerMetrics
}

type Router struct {
	cfg         config.Config
	documents   ports.DocumentUploader
	reader      ports.DocumentReader
	jobs        ports.JobSubmitter
	credentials ports.CredentialManager
	exporter    ports.ResultExporter
	verifier    ports.SessionVerifier
	metrics     *metrics.HTTPServerMetrics
	validate    *validator.Validate
}

func NewRouter(cfg config.Config, deps Dependencies) *Router {
	return &Router{
		cfg:         cfg,
		documents:   deps.Documents,
		reader:      deps.Reader,
		jobs:        deps.Jobs,
		credentials: deps.Credentials,
		exporter:    deps.Exporter,
		verifier:    deps.Verifier,
		metrics:     deps.Metrics,
		validate:    newValidator(),
	}
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /v1/documents", rt.uploadDocument)
	api.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	api.HandleFunc("POST /v1/stats", rt.computeStats)
	api.HandleFunc("POST /v1/jobs", rt.submitJob)
	api.HandleFunc("GET /v1/jobs/{id}", rt.getJob)
	api.HandleFunc("POST /v1/jobs/{id}/cancel", rt.cancelJob)
	api.HandleFunc("GET /v1/jobs/{id}/download", rt.downloadResult)
	api.HandleFunc("GET /v1/credentials", rt.credentialStatus)
	api.HandleFunc("PUT /v1/credentials/{provider}", rt.saveCredential)
	api.HandleFunc("DELETE /v1/credentials/{provider}", rt.deleteCredential)

	var protected http.Handler = bearerAuthMiddleware(rt.verifier, api)
	protected = backpressureMiddleware(
		protected,
		rt.cfg.APIMaxInFlight,
		time.Duration(rt.cfg.APIBackpressureWaitMS)*time.Millisecond,
		rt.recordRejected,
	)
	protected = rateLimitMiddleware(protected, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.recordRejected)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	mux.Handle("/v1/", protected)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartInMem); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("file exceeds the %d byte upload limit", maxBytesErr.Limit),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form is required"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.documents.Upload(
		r.Context(),
		userIDFromContext(r.Context()),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if rt.metrics != nil {
		chars, status := 0, ""
		if doc != nil {
			chars, status = doc.Stats.CharCount, string(doc.Stats.Status)
		}
		rt.metrics.RecordUpload(serviceName, err, chars, status)
	}
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.reader.GetDocument(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type statsPayload struct {
	Text string `json:"text" validate:"max=5000000"`
}

func (rt *Router) computeStats(w http.ResponseWriter, r *http.Request) {
	var req statsPayload
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, rt.reader.ComputeStats(req.Text))
}

type submitJobPayload struct {
	DocumentID      string `json:"document_id" validate:"required,max=128"`
	Task            string `json:"task" validate:"omitempty,oneof=edit translate"`
	Mode            string `json:"mode" validate:"omitempty,oneof=standard correction-only cookbook"`
	Style           string `json:"style" validate:"omitempty,oneof=standard literary technical"`
	SourceLang      string `json:"source_lang" validate:"max=64"`
	TargetLang      string `json:"target_lang" validate:"required_if=Task translate,max=64"`
	Model           string `json:"model" validate:"required,max=128"`
	Glossary        string `json:"glossary" validate:"max=100000"`
	IncludeChanges  bool   `json:"include_changes"`
	IncludeOriginal bool   `json:"include_original"`
}

func (rt *Router) submitJob(w http.ResponseWriter, r *http.Request) {
	var req submitJobPayload
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	job, err := rt.jobs.Submit(r.Context(), domain.JobRequest{
		UserID:          userIDFromContext(r.Context()),
		DocumentID:      req.DocumentID,
		Task:            domain.Task(req.Task),
		Mode:            domain.EditMode(req.Mode),
		Style:           domain.TranslationStyle(req.Style),
		SourceLang:      req.SourceLang,
		TargetLang:      req.TargetLang,
		Model:           req.Model,
		Glossary:        req.Glossary,
		IncludeChanges:  req.IncludeChanges,
		IncludeOriginal: req.IncludeOriginal,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordJobSubmitted(serviceName, string(job.Task), string(domain.ClassifyModel(job.Model).Provider))
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (rt *Router) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := rt.jobs.GetJob(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) cancelJob(w http.ResponseWriter, r *http.Request) {
	job, err := rt.jobs.Cancel(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) downloadResult(w http.ResponseWriter, r *http.Request) {
	format, ok := domain.ParseExportFormat(r.URL.Query().Get("format"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be docx or xlsx"})
		return
	}

	file, err := rt.exporter.Export(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), format)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (rt *Router) credentialStatus(w http.ResponseWriter, r *http.Request) {
	status, err := rt.credentials.Status(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type credentialPayload struct {
	Credential string `json:"credential" validate:"required,max=512"`
}

func (rt *Router) saveCredential(w http.ResponseWriter, r *http.Request) {
	provider, ok := domain.ParseProvider(r.PathValue("provider"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provider must be openai or claude"})
		return
	}
	var req credentialPayload
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	userID := userIDFromContext(r.Context())
	if err := rt.credentials.Save(r.Context(), userID, provider, req.Credential); err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.respondCredentialStatus(w, r, userID)
}

func (rt *Router) deleteCredential(w http.ResponseWriter, r *http.Request) {
	provider, ok := domain.ParseProvider(r.PathValue("provider"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provider must be openai or claude"})
		return
	}

	userID := userIDFromContext(r.Context())
	if err := rt.credentials.Delete(r.Context(), userID, provider); err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.respondCredentialStatus(w, r, userID)
}

func (rt *Router) respondCredentialStatus(w http.ResponseWriter, r *http.Request, userID string) {
	status, err := rt.credentials.Status(r.Context(), userID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// decodeJSON reads and validates a request body. It writes the error
// response itself and reports whether the handler should continue.
func (rt *Router) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	if err := rt.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationMessage(err)})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required", "required_if":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("http_handler_error",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func (rt *Router) recordRejected(reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(serviceName, reason)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
