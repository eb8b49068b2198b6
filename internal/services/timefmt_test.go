package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterKnownEpoch(t *testing.T) {
	f, err := NewFormatter("UTC")
	require.NoError(t, err)

	// 2023-11-14 22:13:20 UTC
	got, ok := f.Format(int64(1700000000))
	require.True(t, ok)
	assert.Equal(t, "14:11:2023 22:13", got)
}

func TestFormatterAcceptsNumericForms(t *testing.T) {
	f, err := NewFormatter("UTC")
	require.NoError(t, err)

	want := "14:11:2023 22:13"

	for _, value := range []any{
		1700000000,
		int32(1700000000),
		int64(1700000000),
		float64(1700000000),
		"1700000000",
		"1700000000.9",
	} {
		got, ok := f.Format(value)
		assert.True(t, ok, "value %v", value)
		assert.Equal(t, want, got, "value %v", value)
	}
}

func TestFormatterInvalidInputs(t *testing.T) {
	f, err := NewFormatter("UTC")
	require.NoError(t, err)

	for _, value := range []any{
		"not-a-number",
		"",
		nil,
		true,
		-5,
		"-1700000000",
	} {
		_, ok := f.Format(value)
		assert.False(t, ok, "value %v", value)
	}
}

func TestFormatterAppliesZone(t *testing.T) {
	f, err := NewFormatter("America/Mexico_City")
	require.NoError(t, err)

	// UTC-6, no DST in effect since 2022
	got, ok := f.Format(1700000000)
	require.True(t, ok)
	assert.Equal(t, "14:11:2023 16:13", got)
}

func TestFormatterRejectsUnknownZone(t *testing.T) {
	_, err := NewFormatter("Not/AZone")
	assert.Error(t, err)
}
