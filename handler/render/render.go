package render

import (
	"encoding/json"
	"net/http"

	"lendpool/handler/codes"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	if err := enc.Encode(dataResponse{Data: v}); err != nil {
		logrus.WithError(err).Errorln("render.JSON")
	}
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(t)); err != nil {
		logrus.WithError(err).Errorln("render.Text")
	}
}

// Error write error, the status follows the error code
func Error(w http.ResponseWriter, err error) {
	status, code := codes.Status(err)
	write(w, status, code, err)
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	write(w, http.StatusBadRequest, codes.Internal, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	write(w, http.StatusNotFound, codes.Internal, err)
}

func write(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := errorResponse{Code: errCode, Msg: http.StatusText(statusCode)}
	if errCode != codes.Internal || ResponseErrorMessageAsHint {
		resp.Hint = err.Error()
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		logrus.WithError(err).Errorln("render.Error")
	}
}
