// Package contract validates executed responses against an OpenAPI document.
// The check is advisory: the rule verdict stands on its own and contract
// findings are reported alongside it.
package contract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"apivet/internal/ir"
)

type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

func LoadFromFile(path string) (*Validator, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return build(doc)
}

func LoadFromBytes(b []byte) (*Validator, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := loader.LoadFromData(b)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return build(doc)
}

func build(doc *openapi3.T) (*Validator, error) {
	// Strict: an invalid document fails fast with a clear message.
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate spec: %w", err)
	}
	r, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	return &Validator{doc: doc, router: r}, nil
}

func (v *Validator) Doc() *openapi3.T { return v.doc }

// ValidateResponse checks an executed response against the document and
// returns the templated route it matched, e.g. "GET /posts/{id}".
func (v *Validator) ValidateResponse(ctx context.Context, method, rawURL string, resp *ir.Response) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	req := &http.Request{
		Method: method,
		URL:    u,
		Header: http.Header{},
	}

	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return "", fmt.Errorf("route not found: %w", err)
	}
	routeName := route.Method + " " + route.Path

	rvi := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options:    &openapi3filter.Options{},
	}
	rsp := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: rvi,
		Status:                 resp.StatusCode,
		Header:                 http.Header(resp.Headers),
		Body:                   io.NopCloser(bytes.NewReader(resp.Body)),
		Options:                &openapi3filter.Options{},
	}

	if err := openapi3filter.ValidateResponse(ctx, rsp); err != nil {
		return routeName, err
	}
	return routeName, nil
}
