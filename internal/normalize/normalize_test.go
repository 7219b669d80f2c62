package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"plain integer", "1234", 1234, true},
		{"plain decimal", "12.5", 12.5, true},
		{"comma decimal", "12,5", 12.5, true},
		{"european grouping", "1.234,56", 1234.56, true},
		{"us grouping", "1,234.56", 1234.56, true},
		{"euro symbol", "€ 12,50", 12.5, true},
		{"dollar symbol", "$1,234.56", 1234.56, true},
		{"pound symbol", "£99", 99, true},
		{"internal whitespace", " 1 234 ", 1234, true},
		{"negative", "-4,5", -4.5, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"not a number", "abc", 0, false},
		{"mixed garbage", "12abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	trueValues := []string{"true", "TRUE", "1", "yes", "sí", "SÍ", "si", "verdadero", "Activo", "x", "X"}
	for _, v := range trueValues {
		got, ok := ParseBool(v)
		require.True(t, ok, "expected %q to be recognized", v)
		assert.True(t, got, "expected %q to be true", v)
	}

	falseValues := []string{"false", "0", "no", "NO", "falso", "inactivo", ""}
	for _, v := range falseValues {
		got, ok := ParseBool(v)
		require.True(t, ok, "expected %q to be recognized", v)
		assert.False(t, got, "expected %q to be false", v)
	}

	for _, v := range []string{"maybe", "2", "tru", "enabled"} {
		_, ok := ParseBool(v)
		assert.False(t, ok, "expected %q to be unrecognized", v)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Código", "codigo"},
		{"Precio P", "preciop"},
		{"  EF TKC ", "eftkc"},
		{"Cat.F1", "catf1"},
		{"Almacén_2", "almacen2"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Key(tt.input), "Key(%q)", tt.input)
	}
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "aeiou", RemoveDiacritics("áéíóú"))
	assert.Equal(t, "nino", RemoveDiacritics("niño"))
	assert.Equal(t, "plain", RemoveDiacritics("plain"))
}

func TestIsLikelyURL(t *testing.T) {
	valid := []string{
		"",
		"https://example.com/img.png",
		"http://example.com",
		"/images/a.png",
		"./images/a.png",
		"cdn.example.com/a.jpg",
		"data:image/png;base64,AAA",
	}
	for _, v := range valid {
		assert.True(t, IsLikelyURL(v), "expected %q to pass", v)
	}

	invalid := []string{"not a url", "solo-texto"}
	for _, v := range invalid {
		assert.False(t, IsLikelyURL(v), "expected %q to fail", v)
	}
}

func TestImageURL(t *testing.T) {
	assert.Nil(t, ImageURL(""))
	assert.Nil(t, ImageURL("   "))

	tests := []struct {
		input    string
		expected string
	}{
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"HTTP://EXAMPLE.COM/A.PNG", "HTTP://EXAMPLE.COM/A.PNG"},
		{"data:image/png;base64,AAA", "data:image/png;base64,AAA"},
		{"blob:abc123", "blob:abc123"},
		{"/uploads/a.png", "/uploads/a.png"},
		{"./uploads/a.png", "./uploads/a.png"},
		{"cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"texto libre", "texto libre"},
	}

	for _, tt := range tests {
		got := ImageURL(tt.input)
		require.NotNil(t, got, "ImageURL(%q)", tt.input)
		assert.Equal(t, tt.expected, *got, "ImageURL(%q)", tt.input)
	}
}
