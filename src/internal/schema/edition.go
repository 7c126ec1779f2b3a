package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type editionKind uint8

const (
	editionUnset editionKind = iota
	editionNumber
	editionText
)

// Edition is either a number ("2nd edition" -> 2) or free text ("Revised"),
// depending on what the publisher blurb said. The zero value is unset.
type Edition struct {
	kind editionKind
	num  int
	text string
}

func EditionNumber(n int) Edition     { return Edition{kind: editionNumber, num: n} }
func EditionText(s string) Edition    { return Edition{kind: editionText, text: s} }
func (e Edition) IsZero() bool        { return e.kind == editionUnset }
func (e Edition) IsNumber() bool      { return e.kind == editionNumber }
func (e Edition) Number() (int, bool) { return e.num, e.kind == editionNumber }
func (e Edition) Text() (string, bool) {
	return e.text, e.kind == editionText
}

func (e Edition) String() string {
	switch e.kind {
	case editionNumber:
		return strconv.Itoa(e.num)
	case editionText:
		return e.text
	}
	return ""
}

// GoString makes the tag visible in test failure output.
func (e Edition) GoString() string {
	switch e.kind {
	case editionNumber:
		return fmt.Sprintf("schema.EditionNumber(%d)", e.num)
	case editionText:
		return fmt.Sprintf("schema.EditionText(%q)", e.text)
	}
	return "schema.Edition{}"
}

func (e Edition) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case editionNumber:
		return []byte(strconv.Itoa(e.num)), nil
	case editionText:
		return json.Marshal(e.text)
	}
	return []byte("null"), nil
}

func (e *Edition) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*e = Edition{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = EditionText(s)
	default:
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("edition: %w", err)
		}
		*e = EditionNumber(n)
	}
	return nil
}

func (e Edition) MarshalYAML() (any, error) {
	switch e.kind {
	case editionNumber:
		return e.num, nil
	case editionText:
		return e.text, nil
	}
	return nil, nil
}

func (e *Edition) UnmarshalYAML(value *yaml.Node) error {
	switch value.ShortTag() {
	case "!!null":
		*e = Edition{}
	case "!!int":
		var n int
		if err := value.Decode(&n); err != nil {
			return err
		}
		*e = EditionNumber(n)
	case "!!str":
		*e = EditionText(value.Value)
	default:
		return fmt.Errorf("edition: unsupported yaml tag %s", value.ShortTag())
	}
	return nil
}
