package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var moonPayURLPattern = regexp.MustCompile(`^https?://([a-z0-9-]+\.)*moonpay\.(com|io)(:\d+)?(/|$)`)

// MoonPayAdapter talks to MoonPay's own endpoints. MoonPay wants form encoded
// bodies, must not see the Onramper API key, and reports validation failures
// in its own shape, which is rewritten into the common field error list.
type MoonPayAdapter struct {
	client  *http.Client
	pattern *regexp.Regexp
}

var _ Adapter = (*MoonPayAdapter)(nil)

func NewMoonPayAdapter(client *http.Client) *MoonPayAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &MoonPayAdapter{client: client, pattern: moonPayURLPattern}
}

func (m *MoonPayAdapter) Name() string {
	return "moonpay"
}

func (m *MoonPayAdapter) Matches(rawURL string) bool {
	return m.pattern.MatchString(strings.ToLower(rawURL))
}

func (m *MoonPayAdapter) Submit(ctx context.Context, req *Request) (Response, error) {
	header := req.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Del("Authorization")

	body := req.Body
	if isJSON(header.Get("Content-Type")) {
		form, err := formEncode(req.Body)
		if err != nil {
			return nil, fmt.Errorf("moonpay: encode body: %w", err)
		}
		body = []byte(form)
		header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := do(ctx, m.client, req.Method, req.URL, header, body)
	if err != nil {
		return nil, err
	}
	if resp.OK() {
		return resp, nil
	}
	return translateMoonPayFailure(resp), nil
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "application/json")
}

// formEncode flattens a JSON object into form values. Date objects become
// YYYY-MM-DD and other nested values are sent as JSON text.
func formEncode(body []byte) (string, error) {
	if len(body) == 0 {
		return "", nil
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", err
	}

	values := url.Values{}
	for key, value := range fields {
		s, err := formValue(value)
		if err != nil {
			return "", fmt.Errorf("field %s: %w", key, err)
		}
		values.Set(key, s)
	}
	return values.Encode(), nil
}

func formValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case map[string]any:
		if date, ok := dateString(v); ok {
			return date, nil
		}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func dateString(v map[string]any) (string, bool) {
	if len(v) != 3 {
		return "", false
	}
	year, ok1 := v["year"].(float64)
	month, ok2 := v["month"].(float64)
	day, ok3 := v["day"].(float64)
	if !ok1 || !ok2 || !ok3 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", int(year), int(month), int(day)), true
}

type moonPayError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Errors  []struct {
		Property    string            `json:"property"`
		Constraints map[string]string `json:"constraints"`
	} `json:"errors"`
}

// translateMoonPayFailure rewrites a MoonPay error body into the common
// shapes: a field error list for validation failures, a message object
// otherwise. Bodies it does not recognise pass through.
func translateMoonPayFailure(resp Response) Response {
	var mpErr moonPayError
	if err := resp.JSON(&mpErr); err != nil || (mpErr.Message == "" && len(mpErr.Errors) == 0) {
		return resp
	}

	var translated any
	if len(mpErr.Errors) > 0 {
		list := make([]map[string]string, 0, len(mpErr.Errors))
		for _, e := range mpErr.Errors {
			list = append(list, map[string]string{
				bodyKeyName:    e.Property,
				bodyKeyMessage: joinConstraints(e.Constraints, mpErr.Message),
			})
		}
		translated = list
	} else {
		obj := map[string]any{bodyKeyMessage: mpErr.Message}
		if moonPayFatalTypes[mpErr.Type] {
			obj[bodyKeyFatal] = true
		}
		translated = obj
	}

	raw, err := json.Marshal(translated)
	if err != nil {
		return resp
	}
	return NewResponse(resp.StatusCode(), raw)
}

func joinConstraints(constraints map[string]string, fallback string) string {
	if len(constraints) == 0 {
		return fallback
	}
	keys := make([]string, 0, len(constraints))
	for k := range constraints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, constraints[k])
	}
	return strings.Join(msgs, "; ")
}
