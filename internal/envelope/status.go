package envelope

// Default messages by HTTP status, applied only when the body carries no
// usable message. Strings match the production client verbatim.
const (
	MsgNetworkUnreachable = "서버에 연결할 수 없습니다. 네트워크 연결을 확인해주세요."

	msgBadRequest   = "잘못된 요청입니다."
	msgAuthRequired = "인증이 필요합니다."
	msgForbidden    = "접근 권한이 없습니다."
	msgNotFound     = "요청한 리소스를 찾을 수 없습니다."
	msgServerError  = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	msgUnknown      = "알 수 없는 오류가 발생했습니다."
)

// StatusMessage maps an HTTP status code to its default user-facing message.
func StatusMessage(status int) string {
	switch status {
	case 400:
		return msgBadRequest
	case 401:
		return msgAuthRequired
	case 403:
		return msgForbidden
	case 404:
		return msgNotFound
	case 500:
		return msgServerError
	default:
		return msgUnknown
	}
}
