package theme

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"themepainter/model"
)

func TestPreviewRoundTrip(t *testing.T) {
	t.Parallel()

	defs := []model.ColorDefinition{
		{ID: "plain", Default: "#000000", Selectors: model.Strings{"a"}, Attributes: model.Strings{"color"}},
		{ID: "query", Default: "#000", Selectors: model.Strings{"a"}, Attributes: model.Strings{"color"}, Queries: model.Strings{"@media (min-width: 768px)"}},
		{ID: "important", Default: "#000", Selectors: model.Strings{"a"}, Attributes: model.Strings{"color"}, Important: model.Bools{true}},
	}

	for _, def := range defs {
		tmpl, err := PreviewTemplate(def)
		require.NoError(t, err)
		assert.Contains(t, tmpl, Placeholder)

		want, err := CompileColor(def, "#112233")
		require.NoError(t, err)
		assert.Equal(t, want, ApplyPreview(tmpl, "#112233"), def.ID)
	}
}

func TestPreviewIgnoresDefaultSkip(t *testing.T) {
	t.Parallel()

	set := Flatten(&model.ConfigTree{
		Colors: model.Colors{
			{ID: "text", Default: "#000000", Selectors: model.Strings{"a", "b"}, Attributes: model.Strings{"color", "background"}},
		},
	})

	templates, err := BuildPreviewTemplates(set)
	require.NoError(t, err)
	require.Equal(t, 1, templates.Len())

	tmpl, ok := templates.Get("text")
	require.True(t, ok)
	assert.Equal(t, "a{color:%value%}b{background:%value%}", tmpl)
	assert.Equal(t, "a{color:#000000}b{background:#000000}", ApplyPreview(tmpl, "#000000"))
}

func TestPreviewKeepsSetValues(t *testing.T) {
	t.Parallel()

	def := model.ColorDefinition{
		ID:         "border",
		Default:    "#000",
		Selectors:  model.Strings{"a", "b"},
		Attributes: model.Strings{"color", "border-color"},
		SetValues:  model.Strings{"", "transparent"},
	}
	tmpl, err := PreviewTemplate(def)
	require.NoError(t, err)
	assert.Equal(t, "a{color:%value%}b{border-color:transparent}", tmpl)
	assert.Equal(t, 1, strings.Count(tmpl, Placeholder))
}

func TestPreviewExport(t *testing.T) {
	t.Parallel()

	set := Flatten(&model.ConfigTree{
		Colors: model.Colors{
			{ID: "link", Default: "#000", Selectors: model.Strings{"a"}, Attributes: model.Strings{"color"}},
			{ID: "text", Default: "#000", Selectors: model.Strings{"p"}, Attributes: model.Strings{"color"}},
		},
	})
	templates, err := BuildPreviewTemplates(set)
	require.NoError(t, err)
	assert.Equal(t, []string{"link", "text"}, templates.IDs())

	data, err := json.Marshal(templates.Export())
	require.NoError(t, err)
	assert.JSONEq(t, `{"setting_link":"a{color:%value%}","setting_text":"p{color:%value%}"}`, string(data))
}

func TestPreviewPropagatesFieldMismatch(t *testing.T) {
	t.Parallel()

	set := Flatten(&model.ConfigTree{
		Colors: model.Colors{{ID: "bad", Selectors: model.Strings{"a", "b"}, Attributes: model.Strings{"color"}}},
	})
	_, err := BuildPreviewTemplates(set)
	assert.ErrorIs(t, err, ErrFieldMismatch)
}
