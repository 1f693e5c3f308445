package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/confreg/regsvc/internal/api/handler/v1/request"
	"github.com/confreg/regsvc/internal/api/handler/v1/response"
	"github.com/confreg/regsvc/internal/autosave"
	"github.com/confreg/regsvc/internal/domain"
	"github.com/confreg/regsvc/internal/invoice"
	"github.com/confreg/regsvc/internal/service"
)

type RegistrationService interface {
	Countdown(now time.Time) domain.Countdown
	LoadState(ctx context.Context, ownerID uint, now time.Time) (service.RegistrationState, error)
	Submit(ctx context.Context, ownerID uint, info *domain.RegistrationInfo) (domain.Registration, error)
	Update(ctx context.Context, ownerID uint, info *domain.RegistrationInfo) (domain.Registration, error)
	Invoice(ctx context.Context, ownerID uint) (invoice.Invoice, error)
	SaveDraft(ctx context.Context, ownerID uint, info *domain.RegistrationInfo, now time.Time) error
	DiscardDraft(ctx context.Context, ownerID uint) error
}

type RegistrationHandler struct {
	svc   RegistrationService
	codec *autosave.Codec
}

func NewRegistrationHandler(svc RegistrationService, codec *autosave.Codec) *RegistrationHandler {
	return &RegistrationHandler{
		svc:   svc,
		codec: codec,
	}
}

// HandleCountdown godoc
// @Summary      Registration countdown
// @Description  Reports the seconds remaining until registration opens; zero means it is open.
// @Tags         registrations
// @Produce      json
// @Success      200  {object}  domain.Countdown
// @Router       /countdown [get]
func (h *RegistrationHandler) HandleCountdown(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.svc.Countdown(time.Now()))
}

// HandleGetRegistration godoc
// @Summary      Get registration state
// @Description  Resolves the caller's registration: countdown gate, existing registration, stored draft or a fresh one.
// @Tags         registrations
// @Produce      json
// @Success      200  {object}  service.RegistrationState
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleGetRegistration(ctx *gin.Context) {
	ownerID, respErr := ownerIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	state, err := h.svc.LoadState(ctx, ownerID, time.Now())
	if err != nil {
		err = fmt.Errorf("HandleGetRegistration -> h.svc.LoadState -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleSubmitRegistration godoc
// @Summary      Submit a registration
// @Description  Builds the attendee wire record from the registration and stores it. One registration per account.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.SubmitRegistrationRequest  true  "Registration info"
// @Success      201    {object}  domain.Registration
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /registrations [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleSubmitRegistration(ctx *gin.Context) {
	ownerID, respErr := ownerIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SubmitRegistrationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	registration, err := h.svc.Submit(ctx, ownerID, h.codec.Deserialize(input.ToSerialized()))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncompleteRegistration):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrIncompleteRegistration))
		case errors.Is(err, service.ErrDuplicateRegistration):
			response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateRegistration))
		default:
			err = fmt.Errorf("HandleSubmitRegistration -> h.svc.Submit -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, registration)
}

// HandleUpdateRegistration godoc
// @Summary      Update a registration
// @Description  Rebuilds and replaces the caller's stored attendee record. The record is never patched in place.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.SubmitRegistrationRequest  true  "Registration info"
// @Success      200    {object}  domain.Registration
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /registrations [put]
// @Security BearerAuth
func (h *RegistrationHandler) HandleUpdateRegistration(ctx *gin.Context) {
	ownerID, respErr := ownerIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SubmitRegistrationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	registration, err := h.svc.Update(ctx, ownerID, h.codec.Deserialize(input.ToSerialized()))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncompleteRegistration):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrIncompleteRegistration))
		case errors.Is(err, service.ErrRegistrationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("registration", "ownerID", ownerID))
		default:
			err = fmt.Errorf("HandleUpdateRegistration -> h.svc.Update -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, registration)
}

// HandleGetInvoice godoc
// @Summary      Get the registration invoice
// @Description  Derives the priced breakdown for the caller's registration, reconciled against the payment ledger once approved.
// @Tags         registrations
// @Produce      json
// @Success      200  {object}  invoice.Invoice
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/invoice [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleGetInvoice(ctx *gin.Context) {
	ownerID, respErr := ownerIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	inv, err := h.svc.Invoice(ctx, ownerID)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("registration", "ownerID", ownerID))
			return
		}

		err = fmt.Errorf("HandleGetInvoice -> h.svc.Invoice -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, inv)
}

// HandleSaveDraft godoc
// @Summary      Save a draft registration
// @Description  Persists partial registration progress as the caller's autosaved draft.
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        input  body      request.SaveDraftRequest  true  "Partial registration info"
// @Success      204    "saved"
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /registrations/draft [put]
// @Security BearerAuth
func (h *RegistrationHandler) HandleSaveDraft(ctx *gin.Context) {
	ownerID, respErr := ownerIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SaveDraftRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.SaveDraft(ctx, ownerID, h.codec.Deserialize(input.ToSerialized()), time.Now())
	if err != nil {
		if errors.Is(err, service.ErrInvalidDraft) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidDraft))
			return
		}

		err = fmt.Errorf("HandleSaveDraft -> h.svc.SaveDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDiscardDraft godoc
// @Summary      Discard the draft registration
// @Tags         drafts
// @Produce      json
// @Success      204  "discarded"
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/draft [delete]
// @Security BearerAuth
func (h *RegistrationHandler) HandleDiscardDraft(ctx *gin.Context) {
	ownerID, respErr := ownerIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DiscardDraft(ctx, ownerID); err != nil {
		err = fmt.Errorf("HandleDiscardDraft -> h.svc.DiscardDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ownerIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	value, exists := ctx.Get("ownerID")
	if !exists {
		return 0, response.ErrUnauthorized("missing authentication")
	}

	ownerID, ok := value.(uint)
	if !ok {
		return 0, response.ErrUnauthorized("invalid authentication")
	}

	return ownerID, nil
}
