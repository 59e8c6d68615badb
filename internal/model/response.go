package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every response constructor.
var validate = validator.New()

// Validation tags applied to non-empty text answers, by item type.
var responseRules = map[ItemType]string{
	ItemNumber: "numeric",
	ItemURL:    "url",
	ItemDate:   "datetime=2006-01-02",
}

// ResponseKind tells which variant of Response is populated.
type ResponseKind uint8

const (
	ResponseText ResponseKind = iota
	ResponseBool
)

// Response is a single answer to a template item. Checkbox items hold a
// boolean; every other item type holds text. On the wire a Response is a
// bare JSON boolean or string.
type Response struct {
	kind ResponseKind
	b    bool
	s    string
}

// BoolResponse returns a checkbox answer.
func BoolResponse(b bool) Response {
	return Response{kind: ResponseBool, b: b}
}

// TextResponse returns a text answer.
func TextResponse(s string) Response {
	return Response{kind: ResponseText, s: s}
}

// Kind returns the populated variant.
func (r Response) Kind() ResponseKind { return r.kind }

// Checked reports whether r is a boolean true.
func (r Response) Checked() bool {
	return r.kind == ResponseBool && r.b
}

// Text returns the answer rendered as a string.
func (r Response) Text() string {
	if r.kind == ResponseBool {
		return strconv.FormatBool(r.b)
	}
	return r.s
}

// Empty reports whether the answer carries no content: an unchecked box or
// blank text.
func (r Response) Empty() bool {
	if r.kind == ResponseBool {
		return !r.b
	}
	return strings.TrimSpace(r.s) == ""
}

// MarshalJSON encodes the answer as a bare boolean or string.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.kind == ResponseBool {
		return json.Marshal(r.b)
	}
	return json.Marshal(r.s)
}

// UnmarshalJSON decodes a boolean or string answer. Numbers written by
// older saves load as their literal text and null loads as blank text.
func (r *Response) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = TextResponse("")
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*r = BoolResponse(data[0] == 't')
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = TextResponse(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: unsupported response value %s", ErrInvalidResponse, data)
	}
	*r = TextResponse(n.String())
	return nil
}

// NewResponse builds the answer for item from a raw value, checking that
// the value has the shape the item type declares.
func NewResponse(item TemplateItem, value any) (Response, error) {
	if item.Type == ItemCheckbox {
		b, ok := value.(bool)
		if !ok {
			return Response{}, fmt.Errorf("%w: %q expects a yes/no answer", ErrInvalidResponse, item.Text)
		}
		return BoolResponse(b), nil
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return Response{}, fmt.Errorf("%w: %q expects text", ErrInvalidResponse, item.Text)
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return TextResponse(s), nil
	}

	if item.Type == ItemSelect {
		if !slices.Contains(item.Options, trimmed) {
			return Response{}, fmt.Errorf("%w: %q is not an option of %q", ErrInvalidResponse, trimmed, item.Text)
		}
		return TextResponse(trimmed), nil
	}

	if rule, ok := responseRules[item.Type]; ok {
		if err := validate.Var(trimmed, rule); err != nil {
			return Response{}, fmt.Errorf("%w: %q is not a valid %s for %q", ErrInvalidResponse, trimmed, item.Type, item.Text)
		}
		return TextResponse(trimmed), nil
	}

	return TextResponse(s), nil
}
