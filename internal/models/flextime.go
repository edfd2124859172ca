package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FlexTime est l'unique point de normalisation des horodatages. Les
// documents historiques mélangent timestamps natifs et chaînes ISO ;
// FlexTime accepte les deux en lecture (JSON comme BSON) et ré-encode
// toujours en format canonique. Une valeur illisible donne Valid=false,
// jamais une erreur : c'est au code métier de traiter l'invalide.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

// Formats acceptés, du plus précis au plus lâche.
var flexLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t.UTC(), Valid: true}
}

// ParseFlexTime normalise une valeur décodée de JSON : chaîne de date,
// nombre (epoch millisecondes) ou time.Time déjà typé.
func ParseFlexTime(v any) FlexTime {
	switch val := v.(type) {
	case time.Time:
		return NewFlexTime(val)
	case string:
		return parseFlexString(val)
	case float64:
		return NewFlexTime(time.UnixMilli(int64(val)))
	case int64:
		return NewFlexTime(time.UnixMilli(val))
	}
	return FlexTime{}
}

func parseFlexString(s string) FlexTime {
	for _, layout := range flexLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewFlexTime(t)
		}
	}
	return FlexTime{}
}

func (ft FlexTime) MarshalJSON() ([]byte, error) {
	if !ft.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ft.Time.Format(time.RFC3339))
}

func (ft *FlexTime) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*ft = FlexTime{}
		return nil
	}
	*ft = ParseFlexTime(raw)
	return nil
}

func (ft FlexTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !ft.Valid {
		return bson.MarshalValue(primitive.Null{})
	}
	return bson.MarshalValue(ft.Time)
}

func (ft *FlexTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDateTime:
		*ft = NewFlexTime(rv.Time())
	case bson.TypeString:
		*ft = parseFlexString(rv.StringValue())
	default:
		*ft = FlexTime{}
	}
	return nil
}
