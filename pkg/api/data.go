package api

import (
	"encoding/json"
	"sort"
	"strings"
)

type Parameter map[string]string

func (p Parameter) Encode() string {
	var parameters []string
	for key, value := range p {
		parameters = append(parameters, key+"="+PercentEncode(value))
	}
	sort.Strings(parameters)
	return strings.Join(parameters, "&")
}

// JSON marshals any value as the request body.
type JSON struct {
	Value any
}

func (j JSON) ToBytes() ([]byte, string, error) {
	b, err := json.Marshal(j.Value)
	if err != nil {
		return nil, "", err
	}

	return b, "application/json", nil
}

type Response struct {
	Code    int
	RawBody []byte
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.RawBody, v)
}
