package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidPin    ErrCode = "INVALID_PIN"
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrStudentAccess    ErrCode = "STUDENT_ACCESS_ONLY"
	ErrParentAccessOnly ErrCode = "PARENT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrStudentNotFound ErrCode = "STUDENT_NOT_FOUND"

	// ─── Game-specific ─────────────────────────────────────────────────
	ErrGameNotFound      ErrCode = "GAME_NOT_FOUND"
	ErrGameNotInProgress ErrCode = "GAME_NOT_IN_PROGRESS"
	ErrGameNotFinished   ErrCode = "GAME_NOT_FINISHED"
	ErrQuestionResolved  ErrCode = "QUESTION_ALREADY_RESOLVED"
	ErrTimerNotExpired   ErrCode = "TIMER_NOT_EXPIRED"
	ErrGameAlreadyActive ErrCode = "GAME_ALREADY_ACTIVE"
	ErrGameAlreadySaved  ErrCode = "GAME_ALREADY_SAVED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidPin:
		return "PIN salah!"
	case ErrTokenRequired:
		return "Token autentikasi diperlukan."
	case ErrTokenInvalid:
		return "Token autentikasi tidak valid."
	case ErrTokenExpired:
		return "Token autentikasi telah kedaluwarsa."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Anda tidak memiliki izin untuk mengakses sumber daya ini."
	case ErrStudentAccess:
		return "Sumber daya ini terbatas untuk siswa."
	case ErrParentAccessOnly:
		return "Sumber daya ini terbatas untuk orang tua."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."
	case ErrStudentNotFound:
		return "Data siswa tidak ditemukan."

	// ─── Game-specific ─────────────────────────────────────────────────
	case ErrGameNotFound:
		return "Sesi permainan tidak ditemukan."
	case ErrGameNotInProgress:
		return "Sesi permainan sudah selesai."
	case ErrGameNotFinished:
		return "Sesi permainan belum selesai."
	case ErrQuestionResolved:
		return "Soal ini sudah dijawab."
	case ErrTimerNotExpired:
		return "Waktu soal belum habis."
	case ErrGameAlreadyActive:
		return "Masih ada permainan yang sedang berjalan."
	case ErrGameAlreadySaved:
		return "Hasil permainan ini sudah disimpan."

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
