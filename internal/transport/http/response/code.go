package response

// Codes follow HTTP semantics; the envelope code and the HTTP status agree.
const (
	CodeOK                 = 0
	CodeBadRequest         = 400
	CodeUnauthorized       = 401
	CodeForbidden          = 403
	CodeNotFound           = 404
	CodeNotAcceptable      = 406
	CodeConflict           = 409
	CodeRequestTooLarge    = 413
	CodeUnprocessable      = 422
	CodeServerError        = 500
	CodeServiceUnavailable = 503
	CodeGatewayTimeout     = 504
)

var CodeMsgMap = map[int]string{
	CodeOK:                 "OK",
	CodeBadRequest:         "Bad Request",
	CodeUnauthorized:       "Could not validate credentials",
	CodeForbidden:          "Forbidden",
	CodeNotFound:           "Not Found",
	CodeNotAcceptable:      "Not Acceptable",
	CodeConflict:           "Conflict",
	CodeRequestTooLarge:    "Request Entity Too Large",
	CodeUnprocessable:      "Unprocessable Entity",
	CodeServerError:        "Internal Server Error",
	CodeServiceUnavailable: "Service Unavailable",
	CodeGatewayTimeout:     "Gateway Timeout",
}

// Status is the HTTP status for an envelope code.
func Status(code int) int {
	if code == CodeOK {
		return 200
	}
	return code
}
