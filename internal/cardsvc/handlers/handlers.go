package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/avvvet/card-services/internal/cardsvc/service"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	cards        *service.CardService
	validate     *validator.Validate
	buildVersion string
	contact      models.ContactInfo
}

func NewHandler(cards *service.CardService, buildVersion string, contact models.ContactInfo) (*Handler, error) {
	validate, err := NewValidator()
	if err != nil {
		return nil, err
	}

	return &Handler{
		cards:        cards,
		validate:     validate,
		buildVersion: buildVersion,
		contact:      contact,
	}, nil
}

func (h *Handler) CreateResponse(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("Error encoding response %s", err)
	}
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	mobileNumber, ok := h.mobileNumberParam(w, r)
	if !ok {
		return
	}

	if err := h.cards.CreateCard(r.Context(), mobileNumber); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.CreateResponse(w, http.StatusCreated, models.Response{
		StatusCode:    models.Status201,
		StatusMessage: models.Message201,
	})
}

func (h *Handler) FetchCard(w http.ResponseWriter, r *http.Request) {
	mobileNumber, ok := h.mobileNumberParam(w, r)
	if !ok {
		return
	}

	card, err := h.cards.FetchCardInfo(r.Context(), mobileNumber)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.CreateResponse(w, http.StatusOK, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var card models.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}
	if err := h.validate.Struct(card); err != nil {
		h.CreateResponse(w, http.StatusBadRequest, fieldErrors(err))
		return
	}

	updated, err := h.cards.UpdateCard(r.Context(), card)
	h.writeOutcome(w, r, updated, err, models.Message417Update)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	mobileNumber, ok := h.mobileNumberParam(w, r)
	if !ok {
		return
	}

	deleted, err := h.cards.DeleteCard(r.Context(), mobileNumber)
	h.writeOutcome(w, r, deleted, err, models.Message417Delete)
}

func (h *Handler) BuildInfo(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, http.StatusOK, h.buildVersion)
}

func (h *Handler) GoVersion(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, http.StatusOK, runtime.Version())
}

func (h *Handler) ContactInfo(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, http.StatusOK, h.contact)
}

func (h *Handler) LiveHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.cards.Ready(ctx); err != nil {
		log.Warnf("readiness check failed %s", err)
		http.Error(w, "store not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// writeOutcome maps the result of a write (update or delete). A missing card
// or a failed write is an expectation failure, anything else is a 500.
func (h *Handler) writeOutcome(w http.ResponseWriter, r *http.Request, done bool, err error, failMessage string) {
	if err != nil && !errors.Is(err, service.ErrCardNotFound) && !errors.Is(err, service.ErrWriteFailed) {
		h.serviceError(w, r, err)
		return
	}

	if err != nil || !done {
		if err != nil {
			log.Infof("%s %s: %s", r.Method, r.URL.Path, err)
		}
		h.CreateResponse(w, http.StatusExpectationFailed, models.Response{
			StatusCode:    models.Status417,
			StatusMessage: failMessage,
		})
		return
	}

	h.CreateResponse(w, http.StatusOK, models.Response{
		StatusCode:    models.Status200,
		StatusMessage: models.Message200,
	})
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrCardAlreadyExists):
		h.errorResponse(w, r, http.StatusBadRequest, service.Message(err))
	case errors.Is(err, service.ErrCardNotFound):
		h.errorResponse(w, r, http.StatusNotFound, service.Message(err))
	default:
		log.Errorf("Error %s %s: %s", r.Method, r.URL.Path, err)
		h.errorResponse(w, r, http.StatusInternalServerError, "An unexpected error occurred, please try again later")
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, code int, message string) {
	h.CreateResponse(w, code, models.ErrorResponse{
		ApiPath:      "uri=" + r.URL.Path,
		ErrorCode:    errorCode(code),
		ErrorMessage: message,
		ErrorTime:    time.Now(),
	})
}

func (h *Handler) mobileNumberParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()
	if !q.Has("mobileNumber") {
		h.errorResponse(w, r, http.StatusBadRequest, "Required request parameter 'mobileNumber' is not present")
		return "", false
	}

	mobileNumber := q.Get("mobileNumber")
	if !ValidMobileNumber(mobileNumber) {
		h.CreateResponse(w, http.StatusBadRequest, map[string]string{"mobileNumber": mobileNumberMessage})
		return "", false
	}
	return mobileNumber, true
}

// errorCode turns 404 into NOT_FOUND and so on.
func errorCode(code int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}
