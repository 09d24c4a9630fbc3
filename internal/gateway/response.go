package gateway

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Gateway status codes. "00" is acceptance, "99" a processing error; anything
// else is treated as a rejection.
const (
	StatusCodeAccepted = "00"
	StatusCodeError    = "99"
)

// cufePattern matches the 96-hex-character document hash the gateway embeds
// in plain-text responses.
var cufePattern = regexp.MustCompile(`\b[0-9a-fA-F]{96}\b`)

// Result is the normalized gateway verdict, independent of which of the
// gateway's response shapes produced it.
type Result struct {
	StatusCode  string
	IsValid     bool
	Reference   string
	Message     string
	DocumentURL string
	QRURL       string

	// Raw is the decoded response body when it was JSON, for auditing.
	Raw map[string]interface{}

	// Body is the response body byte for byte as received. Decoding and
	// re-encoding loses key order and whitespace, which matters when a
	// rejection is disputed, so the original bytes travel alongside.
	Body []byte
}

// Accepted reports whether the gateway definitively accepted the document:
// status "00" together with a non-empty tracking reference.
func (r *Result) Accepted() bool {
	return r.StatusCode == StatusCodeAccepted && r.Reference != ""
}

// ProcessingError reports whether the gateway signalled an internal error.
func (r *Result) ProcessingError() bool {
	return r.StatusCode == StatusCodeError
}

// ParseResponse decodes a 2xx gateway body. Shapes are tried in order: a flat
// JSON object, a JSON object nested under "response", and finally plain text
// scanned for an embedded reference. It never fails; an unrecognizable body
// yields a Result with the raw text as the message.
func ParseResponse(body []byte) *Result {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		result := parseText(body)
		result.Body = body
		return result
	}

	result := parseObject(payload)
	if result.StatusCode == "" && result.Reference == "" {
		if nested, ok := payload["response"].(map[string]interface{}); ok {
			inner := parseObject(nested)
			if inner.Message == "" {
				inner.Message = result.Message
			}
			result = inner
		}
	}
	result.Raw = payload
	result.Body = body
	return result
}

func parseObject(obj map[string]interface{}) *Result {
	result := &Result{
		StatusCode:  codeField(obj, "statusCode", "status_code", "code"),
		Message:     stringField(obj, "statusMessage", "status_message", "message", "statusDescription"),
		Reference:   stringField(obj, "cufe", "uuid", "trackId", "track_id"),
		DocumentURL: stringField(obj, "urlinvoicepdf", "urlInvoicePdf", "document_url"),
		QRURL:       stringField(obj, "QRStr", "qr_str", "qr_url"),
	}
	if v, ok := obj["is_valid"].(bool); ok {
		result.IsValid = v
	} else if v, ok := obj["isValid"].(bool); ok {
		result.IsValid = v
	} else {
		result.IsValid = result.StatusCode == StatusCodeAccepted
	}
	return result
}

func parseText(body []byte) *Result {
	text := strings.TrimSpace(string(body))
	result := &Result{Message: text}
	if ref := cufePattern.FindString(text); ref != "" {
		result.StatusCode = StatusCodeAccepted
		result.IsValid = true
		result.Reference = ref
	}
	return result
}

// codeField reads a status code that some gateway versions emit as a JSON
// number. The code space is two digits, so a numeric 0 means "00".
func codeField(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return fmt.Sprintf("%02d", int(v))
		}
	}
	return ""
}

func stringField(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key].(string); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
