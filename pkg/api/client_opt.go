package api

import "github.com/valyala/fasthttp"

type oauth2Opt struct {
	token string
}

func OAuth2(prefix, token string) *oauth2Opt {
	return &oauth2Opt{token: prefix + " " + token}
}

func (opt *oauth2Opt) Do(req *fasthttp.Request) {
	req.Header.Set("Authorization", opt.token)
}
