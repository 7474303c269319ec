// Package envelope reconciles the backend's inconsistent response envelopes
// into one canonical success/failure/message result.
//
// The API answers in two generations. Older routes put a plain boolean under
// "result"; the bookmark routes nest it as {"result": {"success": bool,
// "message": string}}. Some error paths omit "result" entirely.
package envelope

import "encoding/json"

// FallbackMessage is used when a malformed body carries no message at all.
const FallbackMessage = "북마크 처리 중 오류가 발생했습니다."

// Result is the canonical outcome of any API call.
type Result struct {
	Succeeded bool
	Message   string
}

type rawBody struct {
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

type nestedResult struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// Normalize interprets a raw response body. Rules, first match wins:
//
//  1. "result" is a boolean: that boolean, top-level message.
//  2. "result" is an object with a boolean "success": that boolean; the
//     nested message wins over the top-level one.
//  3. anything else: failure, top-level message or FallbackMessage.
func Normalize(body []byte) Result {
	var raw rawBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{Succeeded: false, Message: FallbackMessage}
	}

	if len(raw.Result) > 0 {
		var b bool
		if err := json.Unmarshal(raw.Result, &b); err == nil {
			return Result{Succeeded: b, Message: raw.Message}
		}

		var nested nestedResult
		if err := json.Unmarshal(raw.Result, &nested); err == nil && nested.Success != nil {
			msg := nested.Message
			if msg == "" {
				msg = raw.Message
			}
			return Result{Succeeded: *nested.Success, Message: msg}
		}
	}

	msg := raw.Message
	if msg == "" {
		msg = FallbackMessage
	}
	return Result{Succeeded: false, Message: msg}
}
