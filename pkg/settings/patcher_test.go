package settings

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shellstrap/pkg/errors"
	"github.com/arthur-debert/shellstrap/pkg/testutil"
)

const docPath = "/appdata/Code/User/settings.json"

func newPatcher(t *testing.T, initial string) (*Patcher, *testutil.MemoryFS) {
	t.Helper()
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/appdata/Code/User", 0755))
	if initial != "" {
		require.NoError(t, fs.WriteFile(docPath, []byte(initial), 0644))
	}
	return New(fs), fs
}

func loadDoc(t *testing.T, fs *testutil.MemoryFS) map[string]interface{} {
	t.Helper()
	data, err := fs.ReadFile(docPath)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestApplyCreatesAbsentDocument(t *testing.T) {
	p, fs := newPatcher(t, "")

	res, err := p.Apply(docPath, []Assignment{
		{Path: "editor.fontFamily", Value: "CaskaydiaCove Nerd Font"},
	})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.True(t, res.Changed)

	doc := loadDoc(t, fs)
	editor := doc["editor"].(map[string]interface{})
	assert.Equal(t, "CaskaydiaCove Nerd Font", editor["fontFamily"])
}

func TestApplyPreservesUnrelatedKeys(t *testing.T) {
	p, fs := newPatcher(t, `{"A": {"B": 1}}`)

	_, err := p.Apply(docPath, []Assignment{{Path: "C.D", Value: 2}})
	require.NoError(t, err)

	doc := loadDoc(t, fs)
	assert.Equal(t, float64(1), doc["A"].(map[string]interface{})["B"])
	assert.Equal(t, float64(2), doc["C"].(map[string]interface{})["D"])
}

func TestApplyNeverOverwritesExistingValue(t *testing.T) {
	p, fs := newPatcher(t, `{"editor": {"fontFamily": "My Custom Font"}}`)

	res, err := p.Apply(docPath, []Assignment{
		{Path: "editor.fontFamily", Value: "CaskaydiaCove Nerd Font"},
	})
	require.NoError(t, err)
	assert.False(t, res.Changed)

	doc := loadDoc(t, fs)
	assert.Equal(t, "My Custom Font", doc["editor"].(map[string]interface{})["fontFamily"])
}

func TestApplyForceAlwaysUpdates(t *testing.T) {
	p, fs := newPatcher(t, `{"defaultProfile": "{old-guid}"}`)

	res, err := p.Apply(docPath, []Assignment{
		{Path: "defaultProfile", Value: "{new-guid}", Force: true},
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "{new-guid}", loadDoc(t, fs)["defaultProfile"])
}

func TestApplyMalformedDocumentStartsEmpty(t *testing.T) {
	p, fs := newPatcher(t, `{not json at all`)

	res, err := p.Apply(docPath, []Assignment{{Path: "a.b", Value: true}})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, true, loadDoc(t, fs)["a"].(map[string]interface{})["b"])
}

func TestApplyIdempotent(t *testing.T) {
	p, fs := newPatcher(t, `{}`)

	assignments := []Assignment{
		{Path: "defaultProfile", Value: "{guid}", Force: true},
		{Path: "profiles.defaults.font.face", Value: "CaskaydiaCove Nerd Font"},
	}

	res, err := p.Apply(docPath, assignments)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	first, _ := fs.ReadFile(docPath)
	firstTime := fs.ModTime(docPath)

	// Second run changes nothing and rewrites nothing
	res, err = p.Apply(docPath, assignments)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	second, _ := fs.ReadFile(docPath)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, firstTime, fs.ModTime(docPath))
}

func TestApplyRefusesToClobberScalarOnPath(t *testing.T) {
	p, fs := newPatcher(t, `{"profiles": "user-set-string"}`)

	res, err := p.Apply(docPath, []Assignment{
		{Path: "profiles.defaults.font.face", Value: "X"},
	})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "user-set-string", loadDoc(t, fs)["profiles"])
}

func TestApplyRestoresBackupOnSerializationFailure(t *testing.T) {
	originalContent := `{"keep": "me"}`
	p, fs := newPatcher(t, originalContent)
	p.marshal = func(doc map[string]interface{}) ([]byte, error) {
		return nil, fmt.Errorf("injected fault")
	}

	_, err := p.Apply(docPath, []Assignment{{Path: "x.y", Value: 1}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSettingsWrite))

	// Original content is intact
	data, readErr := fs.ReadFile(docPath)
	require.NoError(t, readErr)
	assert.Equal(t, originalContent, string(data))
}

func TestApplyRestoresBackupOnInvalidRoundTrip(t *testing.T) {
	originalContent := `{"keep": "me"}`
	p, fs := newPatcher(t, originalContent)
	p.marshal = func(doc map[string]interface{}) ([]byte, error) {
		return []byte("{truncated"), nil
	}

	_, err := p.Apply(docPath, []Assignment{{Path: "x.y", Value: 1}})
	require.Error(t, err)

	data, readErr := fs.ReadFile(docPath)
	require.NoError(t, readErr)
	assert.Equal(t, originalContent, string(data))
}

func TestApplyStableFormatting(t *testing.T) {
	p, fs := newPatcher(t, "")

	_, err := p.Apply(docPath, []Assignment{{Path: "b", Value: 2}, {Path: "a", Value: 1}})
	require.NoError(t, err)

	data, _ := fs.ReadFile(docPath)
	// Keys are sorted and indented with two spaces, trailing newline
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}\n", string(data))
}
