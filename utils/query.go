package utils

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// BuildQuery builds a query string from a struct with `url` tags.
// Zero values of omitempty fields and nil pointers are left out, so absent
// parameters never reach the wire. A map[string]string field tagged
// `url:",inline"` contributes its entries, without overriding typed fields.
func BuildQuery(params interface{}) string {
	if params == nil {
		return ""
	}

	v := reflect.ValueOf(params)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}

	values := url.Values{}
	var extra map[string]string

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		tag := fieldType.Tag.Get("url")
		if tag == "" || tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		name := parts[0]
		var omitempty, inline bool
		for _, opt := range parts[1:] {
			switch opt {
			case "omitempty":
				omitempty = true
			case "inline":
				inline = true
			}
		}

		if inline {
			if field.Kind() == reflect.Map && !field.IsNil() {
				if m, ok := field.Interface().(map[string]string); ok {
					extra = m
				}
			}
			continue
		}

		strVal, present := formatValue(field, omitempty)
		if present {
			values.Set(name, strVal)
		}
	}

	for k, val := range extra {
		if k == "" || values.Has(k) {
			continue
		}
		values.Set(k, val)
	}

	return values.Encode()
}

func formatValue(field reflect.Value, omitempty bool) (string, bool) {
	switch field.Kind() {
	case reflect.String:
		s := field.String()
		return s, s != "" || !omitempty
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Int() == 0 && omitempty {
			return "", false
		}
		return strconv.FormatInt(field.Int(), 10), true
	case reflect.Bool:
		if !field.Bool() && omitempty {
			return "", false
		}
		return strconv.FormatBool(field.Bool()), true
	case reflect.Float32, reflect.Float64:
		if field.Float() == 0 && omitempty {
			return "", false
		}
		return strconv.FormatFloat(field.Float(), 'f', -1, 64), true
	case reflect.Ptr:
		if field.IsNil() {
			return "", false
		}
		return formatValue(field.Elem(), false)
	}
	return "", false
}

// AppendQuery joins a URL and an encoded query, keeping any query the URL already has.
func AppendQuery(rawURL, query string) string {
	if query == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + query
	}
	return rawURL + "?" + query
}
