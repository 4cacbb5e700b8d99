package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, Date{2024, time.January, 1}, DateOf(instant))
	assert.Equal(t, Date{2024, time.January, 2}, DateOf(instant.In(tokyo)))
}

func TestDateArithmetic(t *testing.T) {
	jan7 := Date{2024, time.January, 7}
	jan9 := Date{2024, time.January, 9}

	assert.Equal(t, 2, jan7.DaysUntil(jan9))
	assert.Equal(t, -2, jan9.DaysUntil(jan7))
	assert.Equal(t, jan9, jan7.AddDays(2))
	assert.True(t, jan7.Before(jan9))
	assert.False(t, jan9.Before(jan7))
	assert.Equal(t, Date{2024, time.March, 1}, Date{2024, time.February, 28}.AddDays(2))
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}

	out, err := json.Marshal(wrapper{D: Date{2024, time.January, 9}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-01-09"}`, string(out))

	var zero wrapper
	out, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":""}`, string(out))

	var parsed wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":""}`), &parsed))
	assert.True(t, parsed.D.IsZero())

	err = json.Unmarshal([]byte(`{"d":"09/01/2024"}`), &parsed)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
