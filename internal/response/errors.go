package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrLocked             ErrCode = "PROFILE_LOCKED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Domain ────────────────────────────────────────────────────────
	ErrInvalidCalendar ErrCode = "INVALID_CALENDAR"
	ErrBackupInvalid   ErrCode = "BACKUP_INVALID"
	ErrExtractFailed   ErrCode = "EXTRACT_FAILED"
	ErrExtractDisabled ErrCode = "EXTRACT_DISABLED"
	ErrNothingToUndo   ErrCode = "NOTHING_TO_UNDO"
	ErrNothingToRedo   ErrCode = "NOTHING_TO_REDO"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Credenciais inválidas."
	case ErrSessionInvalidated:
		return "A sua sessão terminou. Inicie sessão novamente."
	case ErrTokenRequired:
		return "É necessário um token de autenticação."
	case ErrTokenInvalid:
		return "Token de autenticação inválido."
	case ErrLocked:
		return "Palavra-passe local incorreta."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validação falhou. Verifique os dados introduzidos."
	case ErrInvalidID:
		return "Formato de ID inválido."
	case ErrInvalidPayload:
		return "Pedido inválido."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso não encontrado."
	case ErrConflict:
		return "O recurso já existe."

	// ─── Domain ────────────────────────────────────────────────────────
	case ErrInvalidCalendar:
		return "Datas do calendário escolar inválidas."
	case ErrBackupInvalid:
		return "Ficheiro de backup inválido ou corrompido."
	case ErrExtractFailed:
		return "A extração por IA falhou. O estado atual não foi alterado."
	case ErrExtractDisabled:
		return "A extração por IA não está configurada neste servidor."
	case ErrNothingToUndo:
		return "Não há alterações para desfazer."
	case ErrNothingToRedo:
		return "Não há alterações para refazer."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "É necessário enviar um ficheiro."
	case ErrUnsupportedFile:
		return "Tipo de ficheiro não suportado."
	case ErrFileTooLarge:
		return "O ficheiro excede o tamanho máximo."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocorreu um erro interno no servidor."
	default:
		return "Ocorreu um erro inesperado."
	}
}
