package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Tags is a trimmed, de-duplicated tag list. Documents written before tags
// were a list hold one comma-separated string; both shapes decode.
type Tags []string

// NewTags trims values and drops blanks and repeats, keeping first-seen order.
func NewTags(values []string) Tags {
	seen := make(map[string]struct{}, len(values))
	out := make(Tags, 0, len(values))
	for _, v := range values {
		tag := strings.TrimSpace(v)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (t *Tags) UnmarshalBSONValue(kind bsontype.Type, data []byte) error {
	var raw []string
	switch kind {
	case bsontype.Null, bsontype.Undefined:
	case bsontype.Array:
		if err := bson.UnmarshalValue(kind, data, &raw); err != nil {
			return fmt.Errorf("decode tags: %w", err)
		}
	case bsontype.String:
		var joined string
		if err := bson.UnmarshalValue(kind, data, &joined); err != nil {
			return fmt.Errorf("decode tags: %w", err)
		}
		raw = strings.Split(joined, ",")
	default:
		return fmt.Errorf("decode tags: unexpected bson type %s", kind)
	}
	*t = NewTags(raw)
	return nil
}

func (t Tags) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(t.orEmpty()))
}

func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(t.orEmpty()))
}

func (t Tags) orEmpty() Tags {
	if t == nil {
		return Tags{}
	}
	return t
}
