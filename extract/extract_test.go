package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Run("parses tagged object", func(t *testing.T) {
		p, err := Extract(`<json>{"x":1}</json>`)
		require.NoError(t, err)
		assert.Equal(t, Payload{"x": float64(1)}, p)
	})

	t.Run("ignores surrounding prose", func(t *testing.T) {
		text := "Here is what I found.\n<json>\n{\"summary\": \"Go 1.22 shipped range-over-int.\"}\n</json>\nHope that helps!"
		p, err := Extract(text)
		require.NoError(t, err)
		s, err := p.String("summary")
		require.NoError(t, err)
		assert.Equal(t, "Go 1.22 shipped range-over-int.", s)
	})

	t.Run("uses first tagged region", func(t *testing.T) {
		p, err := Extract(`<json>{"n":"first"}</json> and <json>{"n":"second"}</json>`)
		require.NoError(t, err)
		assert.Equal(t, "first", p["n"])
	})

	t.Run("tolerates comments and trailing commas", func(t *testing.T) {
		text := `<json>
		{
			"isSufficient": false, // or true
			"followUpQueries": ["benchmarks for X",],
		}
		</json>`
		p, err := Extract(text)
		require.NoError(t, err)

		ok, err := p.Bool("isSufficient")
		require.NoError(t, err)
		assert.False(t, ok)

		qs, err := p.Strings("followUpQueries")
		require.NoError(t, err)
		assert.Equal(t, []string{"benchmarks for X"}, qs)
	})
}

func TestExtract_MissingMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no markers", `{"x":1}`},
		{"opening only", `<json>{"x":1}`},
		{"closing only", `{"x":1}</json>`},
		{"closing before opening", `</json>{"x":1}<json>`},
		{"empty text", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingPayloadMarkers)
			assert.NotErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", `<json>not-json</json>`},
		{"empty region", `<json>   </json>`},
		{"array instead of object", `<json>["a","b"]</json>`},
		{"null", `<json>null</json>`},
		{"unquoted value", `<json>{"summary": Summary of the findings}</json>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
			assert.NotErrorIs(t, err, ErrMissingPayloadMarkers)

			var extractErr *Error
			require.True(t, errors.As(err, &extractErr))
			assert.Equal(t, ErrMalformedPayload, extractErr.Kind)
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: ErrMalformedPayload, Field: "query", Err: errors.New("expected list of strings, got float64")}
	assert.Equal(t, `extract: malformed payload: field "query": expected list of strings, got float64`, err.Error())

	long := &Error{Kind: ErrMissingPayloadMarkers, Text: string(make([]byte, 300))}
	assert.Contains(t, long.Error(), "...]")
}

func TestPayload_String(t *testing.T) {
	p := Payload{"s": "hello", "n": float64(3), "null": nil}

	s, err := p.String("s")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s, err = p.String("missing")
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = p.String("null")
	require.NoError(t, err)
	assert.Empty(t, s)

	_, err = p.String("n")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestPayload_Bool(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    bool
		wantErr bool
	}{
		{"true", Payload{"b": true}, true, false},
		{"false", Payload{"b": false}, false, false},
		{"absent defaults to false", Payload{}, false, false},
		{"null defaults to false", Payload{"b": nil}, false, false},
		{"string true", Payload{"b": "true"}, true, false},
		{"string false", Payload{"b": "false"}, false, false},
		{"other string", Payload{"b": "yes"}, false, true},
		{"number", Payload{"b": float64(1)}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.payload.Bool("b")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayload_Strings(t *testing.T) {
	t.Run("list of strings", func(t *testing.T) {
		got, err := Payload{"q": []any{"a", "b"}}.Strings("q")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("absent yields empty non-nil slice", func(t *testing.T) {
		got, err := Payload{}.Strings("q")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("lone string becomes one element", func(t *testing.T) {
		got, err := Payload{"q": "only"}.Strings("q")
		require.NoError(t, err)
		assert.Equal(t, []string{"only"}, got)
	})

	t.Run("non-string element is malformed", func(t *testing.T) {
		_, err := Payload{"q": []any{"a", float64(2)}}.Strings("q")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedPayload)

		var extractErr *Error
		require.True(t, errors.As(err, &extractErr))
		assert.Equal(t, "q[1]", extractErr.Field)
	})

	t.Run("object is malformed", func(t *testing.T) {
		_, err := Payload{"q": map[string]any{}}.Strings("q")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
}

func TestPayload_Has(t *testing.T) {
	p := Payload{"a": nil}
	assert.True(t, p.Has("a"))
	assert.False(t, p.Has("b"))
}
