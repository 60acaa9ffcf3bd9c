package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errx.Code.HTTPStatus(), response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return http.StatusInternalServerError, response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func handleResponse() CloserFunc {
	return func(ctx context.Context) {
		WriteResponse(ctx, xcontext.HTTPWriter(ctx), xcontext.Response(ctx), xcontext.Error(ctx))
	}
}

// WriteResponse writes the envelope of a successful response or of err if it is not nil.
func WriteResponse(ctx context.Context, w http.ResponseWriter, resp any, err error) {
	status := http.StatusOK
	body := newResponse(resp)
	if err != nil {
		status, body = newErrorResponse(err)
	}

	if err := WriteJson(w, status, body); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
