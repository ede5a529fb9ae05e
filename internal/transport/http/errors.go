package http

import (
	apierrors "haulpulse/internal/errors"
	"haulpulse/internal/services"
)

// RegisterServiceErrors maps the service sentinels onto API errors so
// wrapped service failures render with the right status and code.
func RegisterServiceErrors(h *apierrors.ErrorHandler) *apierrors.ErrorHandler {
	return h.
		Register(services.ErrInvalidPeriod, apierrors.ErrInvalidPeriod).
		Register(services.ErrUnsupportedFormat, apierrors.ErrUnsupportedFormat).
		Register(services.ErrUnknownTable, apierrors.ErrUnknownTable).
		Register(services.ErrExportFailed, apierrors.ErrExportFailed).
		Register(services.ErrDatasetNotLoaded, apierrors.ErrDatasetNotLoaded)
}
