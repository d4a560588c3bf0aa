package wehttp

import (
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/weegigs/wee-counter-go/we"
)

type HandlerOption[T any] func(service *httpService[T])

func Logger[T any](log *zerolog.Logger) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.log = log
	}
}

func Encoder[T any](encoder we.ResourceEncoder[T]) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.encoder = encoder
	}
}

// CallResponse is the body returned for an executed call.
type CallResponse struct {
	Method    we.MethodName  `json:"method"`
	Result    any            `json:"result"`
	Logs      []string       `json:"logs"`
	Committed bool           `json:"committed"`
	State     map[string]any `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewHandler[T any](entityService we.EntityService[T], options ...HandlerOption[T]) http.Handler {
	service := &httpService[T]{
		service:    entityService,
		encoder:    we.NewResourceEncoder[T](),
		entityType: we.EntityTypeFor[T](),
	}
	for _, option := range options {
		option(service)
	}
	if service.log == nil {
		service.log = &log.Logger
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(Correlation)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.With(service.matchType).Method("GET", "/{type}/{key}", service.getResource())
	r.With(service.matchType).Method("POST", "/{type}/{key}", service.executeCall())

	return otelhttp.NewHandler(r, "we-http")
}

// Correlation carries the request id into the context as the correlation id
// of any save the request causes.
func Correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(we.WithCorrelation(r.Context(), we.CorrelationID(id)))
		}
		next.ServeHTTP(w, r)
	})
}

type httpService[T any] struct {
	log        *zerolog.Logger
	service    we.EntityService[T]
	encoder    we.ResourceEncoder[T]
	entityType we.EntityType
}

// matchType rejects slots of any other entity type.
func (service *httpService[T]) matchType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if we.EntityType(chi.URLParam(r, "type")) != service.entityType {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, ErrorResponse{Error: "not found"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func slotId(r *http.Request) we.SlotId {
	return we.SlotId{Type: chi.URLParam(r, "type"), Key: chi.URLParam(r, "key")}
}

func (service *httpService[T]) getResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := slotId(r)

		entity, err := service.service.Load(r.Context(), id)
		if err != nil {
			service.log.Info().Err(err).Str("slot", id.String()).Msg("failed to load resource")
			service.fail(w, r, err)
			return
		}

		if !entity.Initialized() {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, ErrorResponse{Error: "not found"})
			return
		}

		if err := service.encoder.Encode(w, r, &entity); err != nil {
			service.log.Warn().Err(err).Str("slot", id.String()).Msg("failed to encode resource")
		}
	}
}

func (service *httpService[T]) executeCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := slotId(r)

		contentType := r.Header.Get("Content-type")
		mediaType, _, err := mime.ParseMediaType(contentType)
		if mediaType != "application/json" || err != nil {
			render.Status(r, http.StatusUnsupportedMediaType)
			render.JSON(w, r, ErrorResponse{Error: "unsupported content type"})
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
			return
		}

		var call we.RemoteCall
		if err := json.Unmarshal(body, &call); err != nil || call.Method == "" {
			service.log.Info().Err(err).Msg("failed to unmarshal call")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
			return
		}

		outcome, err := service.service.Execute(r.Context(), id, call)
		if err != nil {
			service.log.Info().Err(err).Str("slot", id.String()).Str("method", call.Method.String()).Msg("failed to execute call")
			service.fail(w, r, err)
			return
		}

		response, err := Respond(service.encoder, outcome)
		if err != nil {
			service.fail(w, r, err)
			return
		}

		render.JSON(w, r, response)
	}
}

func (service *httpService[T]) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := StatusOf(err)
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// Respond builds the response body for a completed call.
func Respond[T any](encoder we.ResourceEncoder[T], outcome we.Outcome[T]) (*CallResponse, error) {
	state, err := encoder.Resource(&outcome.Entity)
	if err != nil {
		return nil, err
	}

	logs := outcome.Logs
	if logs == nil {
		logs = []string{}
	}

	return &CallResponse{
		Method:    outcome.Method,
		Result:    outcome.Result,
		Logs:      logs,
		Committed: outcome.Committed,
		State:     state,
	}, nil
}
