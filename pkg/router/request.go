package router

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/harmony/pkg/errorx"
)

// parseRequest fills req from the JSON body, then from the query string and the path
// variables. Path variables win over the query, which wins over the body.
func parseRequest(r *http.Request, req any) error {
	if r.Body != nil && r.Method != http.MethodGet {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "application/json" {
			err := json.NewDecoder(r.Body).Decode(req)
			if err != nil && !errors.Is(err, io.EOF) {
				return errorx.New(errorx.BadRequest, "Invalid json body")
			}
		}
	}

	params := map[string]any{}
	for key, values := range r.URL.Query() {
		if len(values) == 1 {
			params[key] = values[0]
		} else {
			params[key] = values
		}
	}

	for key, value := range mux.Vars(r) {
		params[key] = value
	}

	if len(params) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(params); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid parameters")
	}

	return nil
}
