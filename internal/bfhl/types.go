package bfhl

import (
	"bytes"
	"encoding/json"
)

// Request is the body posted to the processing endpoint.
type Request struct {
	Data []string `json:"data"`
}

// Response is the processing result as returned by the endpoint. It is not
// validated beyond JSON decoding; missing fields decode to zero values.
type Response struct {
	IsSuccess         bool    `json:"is_success"`
	UserID            Value   `json:"user_id"`
	Email             Value   `json:"email"`
	RollNumber        Value   `json:"roll_number"`
	Sum               Value   `json:"sum"`
	ConcatString      Value   `json:"concat_string"`
	EvenNumbers       []Value `json:"even_numbers"`
	OddNumbers        []Value `json:"odd_numbers"`
	Alphabets         []Value `json:"alphabets"`
	SpecialCharacters []Value `json:"special_characters"`

	// Raw holds the body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// Category is one of the classified token lists of a Response.
type Category struct {
	Title  string
	Values []Value
}

func (r *Response) Categories() []Category {
	return []Category{
		{Title: "Even Numbers", Values: r.EvenNumbers},
		{Title: "Odd Numbers", Values: r.OddNumbers},
		{Title: "Alphabets (Uppercase)", Values: r.Alphabets},
		{Title: "Special Characters", Values: r.SpecialCharacters},
	}
}

// Status is "Success" or "Failed" depending on IsSuccess.
func (r *Response) Status() string {
	if r.IsSuccess {
		return "Success"
	}
	return "Failed"
}

// Value is a scalar the endpoint may encode either as a JSON string or as a
// bare literal (number, bool). Literals are kept as written.
type Value string

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	*v = Value(b)
	return nil
}

func (v Value) String() string {
	return string(v)
}

// Strings converts values to plain strings.
func Strings(values []Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
