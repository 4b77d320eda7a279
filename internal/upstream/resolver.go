// Package upstream resolves product display names from the external
// product-description service.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Sentinel errors returned by Resolve. The service layer maps
// ErrNameNotFound to a not-found failure and everything else to a server
// failure.
var (
	ErrURIBuild            = errors.New("unable to build the upstream request URI")
	ErrUpstreamUnavailable = errors.New("unable to access the upstream API")
	ErrUpstreamResponse    = errors.New("unable to parse the upstream response")
	ErrNameNotFound        = errors.New("product name not found in upstream response")
)

// placeholder is substituted with the product ID when expanding the
// endpoint template.
const placeholder = "{id}"

// titlePath is the location of the product display name inside the
// upstream response document.
var titlePath = []string{"product", "item", "product_description"}

// NameResolver fetches a product's display name by ID.
type NameResolver interface {
	// Resolve returns the display name for the product with the given ID.
	// Returns ErrNameNotFound if the upstream document has no title for it.
	Resolve(ctx context.Context, id int64) (string, error)
}

// HTTPResolver implements NameResolver against a templated REST endpoint.
// The injected client owns the transport-level timeout.
type HTTPResolver struct {
	client   *http.Client
	template string
}

// NewHTTPResolver creates a resolver for the given endpoint template.
// The template must contain the "{id}" placeholder.
func NewHTTPResolver(client *http.Client, template string) *HTTPResolver {
	return &HTTPResolver{
		client:   client,
		template: template,
	}
}

var _ NameResolver = (*HTTPResolver)(nil)

// Resolve expands the endpoint template with the product ID, issues a GET
// and extracts product.item.product_description.title from the JSON body.
// The returned value is the plain (unescaped) string value of the title
// node.
func (r *HTTPResolver) Resolve(ctx context.Context, id int64) (string, error) {
	uri, err := r.buildURI(id)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrURIBuild, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	return extractTitle(resp.Body)
}

// buildURI expands the endpoint template with the product ID and validates
// the result as an absolute http(s) URL.
func (r *HTTPResolver) buildURI(id int64) (string, error) {
	if !strings.Contains(r.template, placeholder) {
		return "", fmt.Errorf("%w: template %q is missing the %s placeholder", ErrURIBuild, r.template, placeholder)
	}
	expanded := strings.ReplaceAll(r.template, placeholder, strconv.FormatInt(id, 10))

	parsed, err := url.ParseRequestURI(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrURIBuild, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrURIBuild, parsed.Scheme)
	}
	return parsed.String(), nil
}

// extractTitle walks the title path inside the decoded response document.
// A path missing at any level yields ErrNameNotFound; a body that is not
// the expected structure yields ErrUpstreamResponse.
func extractTitle(body io.Reader) (string, error) {
	var doc map[string]any
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamResponse, err)
	}

	node := any(doc)
	for _, key := range titlePath {
		obj, ok := node.(map[string]any)
		if !ok {
			return "", ErrNameNotFound
		}
		node, ok = obj[key]
		if !ok {
			return "", ErrNameNotFound
		}
	}

	desc, ok := node.(map[string]any)
	if !ok {
		return "", ErrNameNotFound
	}
	title, ok := desc["title"]
	if !ok {
		return "", ErrNameNotFound
	}
	name, ok := title.(string)
	if !ok {
		return "", fmt.Errorf("%w: title is not a string", ErrUpstreamResponse)
	}
	return name, nil
}
