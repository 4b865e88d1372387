package domain

import "fmt"

// FieldKind is the closed enumeration of supported schema field types.
type FieldKind string

const (
	KindShortText FieldKind = "shortText"
	KindRichText  FieldKind = "richText"
	KindNumber    FieldKind = "number"
	KindMedia     FieldKind = "media"
	KindReference FieldKind = "reference"
	KindDatetime  FieldKind = "datetime"
	KindBoolean   FieldKind = "boolean"
	KindJSON      FieldKind = "json"
)

// Kinds lists every field kind in catalog order.
func Kinds() []FieldKind {
	return []FieldKind{
		KindShortText, KindRichText, KindNumber, KindMedia,
		KindReference, KindDatetime, KindBoolean, KindJSON,
	}
}

// Valid reports whether k is a known field kind.
func (k FieldKind) Valid() bool {
	switch k {
	case KindShortText, KindRichText, KindNumber, KindMedia,
		KindReference, KindDatetime, KindBoolean, KindJSON:
		return true
	}
	return false
}

// Label returns the operator-facing name of the kind.
func (k FieldKind) Label() string {
	switch k {
	case KindShortText:
		return "Text"
	case KindRichText:
		return "Rich text"
	case KindNumber:
		return "Number"
	case KindMedia:
		return "Media"
	case KindReference:
		return "Reference"
	case KindDatetime:
		return "Date & time"
	case KindBoolean:
		return "Boolean"
	case KindJSON:
		return "JSON object"
	}
	return string(k)
}

// ParseFieldKind validates a wire string against the closed enumeration.
func ParseFieldKind(s string) (FieldKind, error) {
	k := FieldKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown field kind %q", s)
	}
	return k, nil
}

// ValidateValue checks a field value against the shape its kind dictates.
// nil is accepted for every kind: new entries initialize all fields to null.
// The config map refines shortText (mode: short|long|list) and reference
// (many: true) the same way the schema editor writes them.
func ValidateValue(kind FieldKind, config map[string]any, value any) error {
	if value == nil {
		return nil
	}
	switch kind {
	case KindShortText:
		if mode, _ := config["mode"].(string); mode == "list" {
			return validateStringList(value)
		}
		if _, ok := value.(string); !ok {
			return fmt.Errorf("text field wants a string, got %T", value)
		}
		return nil
	case KindRichText:
		m, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("rich text field wants {text, style}, got %T", value)
		}
		if _, ok := m["text"].(string); !ok {
			return fmt.Errorf("rich text field wants a string text member")
		}
		return nil
	case KindNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return nil
		}
		return fmt.Errorf("number field wants a number or null, got %T", value)
	case KindMedia:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("media field wants an asset reference string, got %T", value)
		}
		return nil
	case KindReference:
		if many, _ := config["many"].(bool); many {
			return validateStringList(value)
		}
		if _, ok := value.(string); !ok {
			return fmt.Errorf("reference field wants an entry id string, got %T", value)
		}
		return nil
	case KindDatetime:
		m, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("datetime field wants {date, time}, got %T", value)
		}
		if _, ok := m["date"].(string); !ok {
			return fmt.Errorf("datetime field wants a string date member")
		}
		return nil
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("boolean field wants true/false, got %T", value)
		}
		return nil
	case KindJSON:
		// free-form by definition
		return nil
	}
	return fmt.Errorf("unknown field kind %q", kind)
}

func validateStringList(value any) error {
	switch v := value.(type) {
	case []string:
		return nil
	case []any:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return fmt.Errorf("list field wants strings, got %T", item)
			}
		}
		return nil
	}
	return fmt.Errorf("list field wants a string list, got %T", value)
}
