package location

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"populationservice/internal/api"
)

// Handler exposes the Location operations over HTTP. All outcomes, including
// the welcome page and unmapped routes, go through the api envelope.
type Handler struct {
	service *Service
}

func NewHandler(r *mux.Router, service *Service) *Handler {
	handler := &Handler{service: service}
	r.HandleFunc("/", handler.Welcome).Methods(http.MethodGet)
	r.HandleFunc("/locations", handler.CreateLocation).Methods(http.MethodPost)
	r.HandleFunc("/locations", handler.GetAllLocations).Methods(http.MethodGet)
	r.HandleFunc("/locations/{id}", handler.GetLocation).Methods(http.MethodGet)
	r.HandleFunc("/locations/{id}", handler.UpdateLocation).Methods(http.MethodPut)
	r.HandleFunc("/locations/{id}", handler.DeleteLocation).Methods(http.MethodDelete)
	r.NotFoundHandler = http.HandlerFunc(api.InvalidRoute)
	r.MethodNotAllowedHandler = http.HandlerFunc(api.InvalidRoute)
	return handler
}

func (h *Handler) Welcome(w http.ResponseWriter, _ *http.Request) {
	api.Respond(w, http.StatusOK, api.WelcomeMessage, nil)
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.Create(r.Context(), decodePayload(r))
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.Respond(w, http.StatusCreated, api.CreatedMessage, created.Fields())
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSpan := trace.SpanFromContext(ctx)
	currentSpan.AddEvent("GetLocation")

	id, ok := locationID(r)
	if !ok {
		api.Respond(w, http.StatusNotFound, api.RecordNotFoundMessage, nil)
		return
	}

	loc, err := h.service.GetByID(ctx, id)
	if err != nil {
		currentSpan.RecordError(err)
		api.RespondError(w, err)
		return
	}
	api.Respond(w, http.StatusOK, api.SuccessMessage, api.Fields{"details": loc})
}

func (h *Handler) GetAllLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.List(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}
	if len(locations) == 0 {
		api.Respond(w, http.StatusOK, api.NoRecordsMessage, nil)
		return
	}
	api.Respond(w, http.StatusOK, api.AllLocationsMessage, api.Fields{"locations": locations})
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	payload := decodePayload(r)

	// The payload is validated before the identifier is considered, so a bad
	// body against a missing record still reports the rule violations.
	id, ok := locationID(r)
	if !ok {
		if _, violations := Validate(payload); violations != nil {
			api.RespondError(w, &api.ValidationError{Violations: violations})
			return
		}
		api.Respond(w, http.StatusNotFound, api.RecordNotFoundMessage, nil)
		return
	}

	updated, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.Respond(w, http.StatusOK, api.UpdateSuccessMessage, updated.Fields())
}

func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := locationID(r)
	if !ok {
		api.Respond(w, http.StatusNotFound, api.RecordNotFoundMessage, nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		api.RespondError(w, err)
		return
	}
	api.Respond(w, http.StatusOK, api.SuccessMessage, nil)
}

// decodePayload reads the request body; an empty or unreadable body becomes
// the zero payload and fails validation with the full required-field list
// rather than a decoder error.
func decodePayload(r *http.Request) Payload {
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return Payload{}
	}
	return payload
}

// locationID parses the path identifier. Malformed identifiers are treated
// as records that do not exist, never as a separate error class.
func locationID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}
