package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"netops-cockpit/internal/csvexport"
	"netops-cockpit/internal/model"
	"netops-cockpit/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	var emptyFields *csvexport.EmptyFieldSetError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrDeviceNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Device not found"
	} else if errors.Is(err, model.ErrEditSetNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Edit set not found"
	} else if errors.Is(err, model.ErrSyncRunNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Sync run not found"
	} else if errors.Is(err, model.ErrSyncAlreadyRunning) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "A sync is already in progress"
	} else if errors.Is(err, model.ErrUpstreamUnavailable) {
		status = http.StatusBadGateway
		body.Code = "UPSTREAM_UNAVAILABLE"
		body.Message = "Nautobot is unreachable"
		body.Details = err.Error()
	} else if errors.Is(err, csvexport.ErrEmptyInput) {
		status = http.StatusUnprocessableEntity
		body.Code = "EMPTY_EDIT_SET"
		body.Message = "Edit set contains no devices"
	} else if errors.Is(err, csvexport.ErrNoModifications) {
		status = http.StatusUnprocessableEntity
		body.Code = "NO_MODIFICATIONS"
		body.Message = "Edit set contains no modified fields"
	} else if errors.As(err, &emptyFields) {
		status = http.StatusUnprocessableEntity
		body.Code = "EMPTY_FIELD_SET"
		body.Message = "A device entry has no modified fields"
		body.Details = emptyFields.DeviceID
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
