package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/ports"
	"github.com/r-miyahara/devices-api/internal/usecases"
	"github.com/r-miyahara/devices-api/internal/usecases/commands"
	"github.com/r-miyahara/devices-api/internal/usecases/queries"
	"github.com/r-miyahara/devices-api/pkg/idempotency"
)

const (
	etagHeader        = "ETag"
	ifMatchHeader     = "If-Match"
	ifNoneMatchHeader = "If-None-Match"
	locationHeader    = "Location"
	totalCountHeader  = "X-Total-Count"

	codeNotFound           = "NOT_FOUND"
	codeDomainRule         = "DOMAIN_RULE_VIOLATION"
	codePreconditionFailed = "PRECONDITION_FAILED"
	codeInternalError      = "INTERNAL_ERROR"
	codeInvalidArgument    = "INVALID_ARGUMENT"
	codeInvalidJSON        = "INVALID_JSON"

	msgDeviceNotFound     = "device not found"
	msgInvalidRequestBody = "invalid request body"
	msgPreconditionFailed = "resource state does not match the supplied precondition"
)

type (
	createDeviceRequest struct {
		Name  string  `json:"name"`
		Brand string  `json:"brand"`
		State *string `json:"state,omitempty"`
	}

	replaceDeviceRequest struct {
		Name  string  `json:"name"`
		Brand string  `json:"brand"`
		State *string `json:"state,omitempty"`
	}

	patchDeviceRequest struct {
		Name  *string `json:"name,omitempty"`
		Brand *string `json:"brand,omitempty"`
		State *string `json:"state,omitempty"`
	}

	deviceData struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Brand     string    `json:"brand"`
		State     string    `json:"state"`
		CreatedAt time.Time `json:"createdAt"`
	}

	deviceListResponse struct {
		Data       []deviceData   `json:"data"`
		Pagination paginationData `json:"pagination"`
	}

	paginationData struct {
		Page       int `json:"page"`
		Size       int `json:"size"`
		TotalItems int `json:"totalItems"`
		TotalPages int `json:"totalPages"`
	}

	DevicesHandler struct {
		app *usecases.Application
	}
)

func NewDevicesHandler(app *usecases.Application) *DevicesHandler {
	return &DevicesHandler{app: app}
}

func (h *DevicesHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	idempotencyKey := r.Header.Get(idempotency.HeaderName)
	if idempotencyKey != "" {
		if err := idempotency.Validate(idempotencyKey); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())

			return
		}

		r = r.WithContext(idempotency.WithKey(r.Context(), idempotencyKey))
	}

	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, msgInvalidRequestBody)

		return
	}

	state, err := parseOptionalState(req.State)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())

		return
	}

	cmd := commands.CreateDeviceCommand{
		Name:           req.Name,
		Brand:          req.Brand,
		State:          state,
		IdempotencyKey: idempotencyKey,
	}

	result, err := h.app.Commands.CreateDevice.Handle(r.Context(), cmd)
	if err != nil {
		h.writeDomainError(w, err)

		return
	}

	w.Header().Set(etagHeader, result.Device.Fingerprint())
	w.Header().Set(locationHeader, fmt.Sprintf("/v1/devices/%s", result.Device.ID))

	if result.Replayed {
		w.Header().Set(idempotency.ReplayedHeaderName, "true")
		writeJSONResponse(w, http.StatusOK, toDeviceData(result.Device))

		return
	}

	writeJSONResponse(w, http.StatusCreated, toDeviceData(result.Device))
}

func (h *DevicesHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}

	device, err := h.app.Queries.GetDevice.Execute(r.Context(), queries.GetDeviceQuery{ID: id})
	if err != nil {
		h.writeDomainError(w, err)

		return
	}

	fingerprint := device.Fingerprint()
	w.Header().Set(etagHeader, fingerprint)

	if ifNoneMatch := r.Header.Get(ifNoneMatchHeader); ifNoneMatch != "" && model.FingerprintMatches(ifNoneMatch, fingerprint) {
		w.WriteHeader(http.StatusNotModified)

		return
	}

	writeJSONResponse(w, http.StatusOK, toDeviceData(device))
}

func (h *DevicesHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	page, size, err := parsePageParams(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())

		return
	}

	filter, err := parseDeviceFilter(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())

		return
	}

	result, err := h.app.Queries.ListDevices.Execute(r.Context(), queries.ListDevicesQuery{
		Filter: filter,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		h.writeDomainError(w, err)

		return
	}

	w.Header().Set(totalCountHeader, strconv.Itoa(result.Total))
	writeJSONResponse(w, http.StatusOK, toDeviceListResponse(result))
}

func (h *DevicesHandler) ReplaceDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}

	var req replaceDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, msgInvalidRequestBody)

		return
	}

	state, err := parseOptionalState(req.State)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())

		return
	}

	cmd := commands.ReplaceDeviceCommand{
		ID:                  id,
		Name:                req.Name,
		Brand:               req.Brand,
		State:               state,
		ExpectedFingerprint: r.Header.Get(ifMatchHeader),
	}

	device, err := h.app.Commands.ReplaceDevice.Handle(r.Context(), cmd)
	if err != nil {
		h.writeDomainError(w, err)

		return
	}

	w.Header().Set(etagHeader, device.Fingerprint())
	writeJSONResponse(w, http.StatusOK, toDeviceData(device))
}

func (h *DevicesHandler) PatchDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}

	var req patchDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, msgInvalidRequestBody)

		return
	}

	state, err := parseOptionalState(req.State)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())

		return
	}

	cmd := commands.PatchDeviceCommand{
		ID: id,
		Fields: ports.PatchFields{
			Name:  req.Name,
			Brand: req.Brand,
			State: state,
		},
		ExpectedFingerprint: r.Header.Get(ifMatchHeader),
	}

	device, err := h.app.Commands.PatchDevice.Handle(r.Context(), cmd)
	if err != nil {
		h.writeDomainError(w, err)

		return
	}

	w.Header().Set(etagHeader, device.Fingerprint())
	writeJSONResponse(w, http.StatusOK, toDeviceData(device))
}

func (h *DevicesHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}

	cmd := commands.DeleteDeviceCommand{
		ID:                  id,
		ExpectedFingerprint: r.Header.Get(ifMatchHeader),
	}

	if _, err := h.app.Commands.DeleteDevice.Handle(r.Context(), cmd); err != nil {
		h.writeDomainError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DevicesHandler) deviceID(w http.ResponseWriter, r *http.Request) (model.DeviceID, bool) {
	id, err := model.ParseDeviceID(chi.URLParam(r, "deviceID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())

		return model.DeviceID{}, false
	}

	return id, true
}

func (h *DevicesHandler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrDeviceNotFound):
		writeErrorResponse(w, http.StatusNotFound, codeNotFound, msgDeviceNotFound)
	case errors.Is(err, model.ErrPreconditionFailed):
		writeErrorResponse(w, http.StatusPreconditionFailed, codePreconditionFailed, msgPreconditionFailed)
	case model.IsDomainRuleViolation(err):
		writeErrorResponse(w, http.StatusUnprocessableEntity, codeDomainRule, err.Error())
	case model.IsInvalidArgument(err):
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
	default:
		writeErrorResponse(w, http.StatusInternalServerError, codeInternalError, "internal server error")
	}
}

func parseOptionalState(raw *string) (*model.State, error) {
	if raw == nil {
		return nil, nil
	}

	state, err := model.ParseState(*raw)
	if err != nil {
		return nil, err
	}

	return &state, nil
}

func parsePageParams(r *http.Request) (page, size int, err error) {
	size = model.DefaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page parameter %q", raw)
		}
	}

	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid size parameter %q", raw)
		}
	}

	return page, size, nil
}

func parseDeviceFilter(r *http.Request) (ports.DeviceFilter, error) {
	var filter ports.DeviceFilter

	if brand := strings.TrimSpace(r.URL.Query().Get("brand")); brand != "" {
		filter.Brand = &brand
	}

	if rawState := r.URL.Query().Get("state"); rawState != "" {
		state, err := model.ParseState(rawState)
		if err != nil {
			return ports.DeviceFilter{}, err
		}

		filter.State = &state
	}

	return filter, nil
}

func toDeviceData(device model.Device) deviceData {
	return deviceData{
		ID:        device.ID.String(),
		Name:      device.Name,
		Brand:     device.Brand,
		State:     string(device.State),
		CreatedAt: device.CreatedAt,
	}
}

func toDeviceListResponse(result model.PageResult) deviceListResponse {
	data := make([]deviceData, 0, len(result.Items))
	for _, device := range result.Items {
		data = append(data, toDeviceData(device))
	}

	totalPages := 0
	if result.Size > 0 {
		totalPages = (result.Total + result.Size - 1) / result.Size
	}

	return deviceListResponse{
		Data: data,
		Pagination: paginationData{
			Page:       result.Page,
			Size:       result.Size,
			TotalItems: result.Total,
			TotalPages: totalPages,
		},
	}
}
