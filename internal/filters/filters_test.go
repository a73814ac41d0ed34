package filters

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	f := Interpolate("0.1")
	assert.Equal(t, "current version is v0.1.", f("current version is v%VERSION%."))
	assert.Equal(t, "0.1 and 0.1", f("%VERSION% and %VERSION%"))
	assert.Equal(t, "no placeholder", f("no placeholder"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Der Hund", Title("der hund"))
	assert.Equal(t, "Écrire", Title("écrire"))
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", ShortDate(time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", ShortDate(time.Time{}))
}

func TestFuncMap_InTemplate(t *testing.T) {
	tmpl, err := template.New("t").Funcs(FuncMap("1.2.3")).Parse(`{{ "v%VERSION%" | interpolate }} {{ .Name | title }} {{ .Date | shortdate }}`)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, struct {
		Name string
		Date time.Time
	}{Name: "apple pie", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}))
	assert.Equal(t, "v1.2.3 Apple Pie 2024-01-02", buf.String())
}
