package roli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// envelope is the header every Rolimons JSON response carries. code and
// message are kept raw: their shape is service-defined.
type envelope struct {
	Success *bool           `json:"success"`
	Code    json.RawMessage `json:"code"`
	Message json.RawMessage `json:"message"`
}

// decodeEnvelope unmarshals body into out after checking the success flag.
// A success=false body is always an application error; integral codes are
// mapped through the client's code table, anything else falls back to
// ErrRequestUnsuccessful.
func (c *Client) decodeEnvelope(op Op, status int, body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return decodeError(op, "decode envelope: %w", err)
	}
	if env.Success == nil {
		return decodeError(op, "missing success field")
	}
	if !*env.Success {
		e := &Error{
			Op:         op,
			Kind:       KindApplication,
			StatusCode: status,
			RawCode:    rawText(env.Code),
			Message:    rawText(env.Message),
			Err:        ErrRequestUnsuccessful,
		}
		var code flexInt
		if e.RawCode != "" && code.UnmarshalJSON(env.Code) == nil {
			e.Code = int(code)
			e.Err = c.codes.lookup(op, e.Code)
		}
		return e
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return decodeError(op, "decode body: %w", err)
	}
	return nil
}

// rawText renders a raw JSON value for display: strings unquoted, null as
// empty, anything else as compact JSON.
func rawText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// flexInt accepts a JSON number or a string holding one.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("null integer")
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// integral floats such as 12.0 appear in some feeds
		fl, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil || fl != float64(int64(fl)) {
			return fmt.Errorf("not an integer: %s", data)
		}
		n = int64(fl)
	}
	*f = flexInt(n)
	return nil
}

// flexString accepts a JSON string or number and yields its text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("not a string or number: %s", data)
	}
	*f = flexString(n.String())
	return nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// row is one positional array in a list-style payload.
type row []json.RawMessage

func (r row) int(i int) (int64, error) {
	if i >= len(r) {
		return 0, fmt.Errorf("index %d out of range (len %d)", i, len(r))
	}
	var v flexInt
	if err := json.Unmarshal(r[i], &v); err != nil {
		return 0, fmt.Errorf("index %d: %w", i, err)
	}
	return int64(v), nil
}

func (r row) str(i int) (string, error) {
	if i >= len(r) {
		return "", fmt.Errorf("index %d out of range (len %d)", i, len(r))
	}
	var v flexString
	if err := json.Unmarshal(r[i], &v); err != nil {
		return "", fmt.Errorf("index %d: %w", i, err)
	}
	return string(v), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
