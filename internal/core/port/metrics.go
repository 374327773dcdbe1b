package port

import "webpbot/internal/core/domain"

type ConversionRecorder interface {
	// RecordConversion records the outcome of one handled conversion.
	RecordConversion(result domain.ConversionResult)
}
