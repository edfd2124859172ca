package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFlexTimeJSONString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"RFC3339", `"2026-03-01T10:00:00Z"`, true},
		{"date only", `"2026-03-01"`, true},
		{"no timezone", `"2026-03-01T10:00:00"`, true},
		{"epoch millis", `1770000000000`, true},
		{"garbage string", `"pas-une-date"`, false},
		{"null", `null`, false},
		{"wrong type", `{"foo":1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ft FlexTime
			// jamais d'erreur : une date illisible est juste invalide
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ft))
			assert.Equal(t, tt.valid, ft.Valid)
		})
	}
}

func TestFlexTimeJSONRoundTrip(t *testing.T) {
	orig := NewFlexTime(time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC))

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded FlexTime
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, decoded.Valid)
	assert.True(t, orig.Time.Equal(decoded.Time))
}

func TestFlexTimeBSONNativeTimestamp(t *testing.T) {
	when := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	bt, data, err := bson.MarshalValue(when)
	require.NoError(t, err)

	var ft FlexTime
	require.NoError(t, ft.UnmarshalBSONValue(bt, data))
	require.True(t, ft.Valid)
	assert.True(t, when.Equal(ft.Time))
}

func TestFlexTimeBSONISOString(t *testing.T) {
	bt, data, err := bson.MarshalValue("2026-03-01T10:30:00Z")
	require.NoError(t, err)

	var ft FlexTime
	require.NoError(t, ft.UnmarshalBSONValue(bt, data))
	require.True(t, ft.Valid)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC).Unix(), ft.Time.Unix())
}

func TestFlexTimeBSONUnsupportedType(t *testing.T) {
	bt, data, err := bson.MarshalValue(int32(42))
	require.NoError(t, err)

	var ft FlexTime
	require.NoError(t, ft.UnmarshalBSONValue(bt, data))
	assert.False(t, ft.Valid)
}

func TestFlexTimeDiscountDocumentRoundTrip(t *testing.T) {
	// Les deux encodages coexistent dans un même document
	doc := bson.M{
		"product_ids": bson.A{"p1"},
		"percentage":  20.0,
		"starts_at":   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), // timestamp natif
		"ends_at":     "2026-03-15T00:00:00Z",                      // chaîne ISO
		"enabled":     true,
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var d Discount
	require.NoError(t, bson.Unmarshal(raw, &d))

	require.True(t, d.StartsAt.Valid)
	require.True(t, d.EndsAt.Valid)
	assert.True(t, d.EndsAt.Time.After(d.StartsAt.Time))
}
