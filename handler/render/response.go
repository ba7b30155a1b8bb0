package render

import (
	"os"
	"strconv"
)

// ResponseErrorMessageAsHint expose internal error messages as hint
var ResponseErrorMessageAsHint bool

func init() {
	v := os.Getenv("RESPONSE_ERROR_MESSAGE_AS_HINT")
	ResponseErrorMessageAsHint, _ = strconv.ParseBool(v)
}

type dataResponse struct {
	Data interface{} `json:"data"`
}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Hint string `json:"hint,omitempty"`
}
