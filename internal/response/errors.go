package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Model ─────────────────────────────────────────────────────────
	ErrModelUnavailable ErrCode = "MODEL_UNAVAILABLE"
	ErrPredictionFailed ErrCode = "PREDICTION_FAILED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."

	// ─── Model ─────────────────────────────────────────────────────────
	case ErrModelUnavailable:
		return "Model tidak bisa dibaca."
	case ErrPredictionFailed:
		return "Terjadi error saat melakukan prediksi."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Terlalu banyak permintaan. Silakan coba lagi nanti."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}

// ModelUnavailableHint tells the user where the artifact is expected.
func ModelUnavailableHint(path string) string {
	return "Model tidak bisa dibaca. Pastikan file `" + path + "` ada di lokasi yang dikonfigurasi (MODEL_PATH) dan valid."
}

// PredictionHint is shown next to a rejected prediction.
const PredictionHint = "Terjadi error saat melakukan prediksi. Pastikan kolom input sesuai saat training."
