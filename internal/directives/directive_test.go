package directives

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/net/html"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingElement counts writes
type recordingElement struct {
	text   string
	writes int
}

func (e *recordingElement) SetText(text string) {
	e.text = text
	e.writes++
}

func (e *recordingElement) Attr(string) (string, bool) { return "", false }

func TestAppVersion_WritesOnce(t *testing.T) {
	el := &recordingElement{text: "placeholder"}
	AppVersion("1.2.3")(el)
	assert.Equal(t, "1.2.3", el.text)
	assert.Equal(t, 1, el.writes)
}

func TestAttrName(t *testing.T) {
	assert.Equal(t, "app-version", AttrName("appVersion"))
	assert.Equal(t, "app-version", AttrName("app-version"))
	assert.Equal(t, "x", AttrName("X"))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(VersionDirective, AppVersion("1")))
	assert.Error(t, r.Register("app-version", AppVersion("2")), "duplicate")
	assert.Error(t, r.Register("", AppVersion("2")))
	assert.Error(t, r.Register("other", nil))
	assert.Equal(t, []string{"app-version"}, r.Names())
}

func TestCompile_SetsTextContent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(VersionDirective, AppVersion("1.2.3")))

	src := `<html><body><p>Version: <span app-version>v?</span></p>` +
		`<div data-app-version><b>old</b> text</div><i>untouched</i></body></html>`
	var out bytes.Buffer
	n, err := r.Compile(&out, strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	doc, err := html.Parse(&out)
	require.NoError(t, err)
	var texts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, a := range node.Attr {
				if a.Key == "app-version" || a.Key == "data-app-version" {
					require.NotNil(t, node.FirstChild)
					assert.Nil(t, node.FirstChild.NextSibling, "exactly one child")
					assert.Equal(t, html.TextNode, node.FirstChild.Type)
					texts = append(texts, node.FirstChild.Data)
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	assert.Equal(t, []string{"1.2.3", "1.2.3"}, texts)
	assert.Contains(t, out.String(), "<i>untouched</i>")
}

func TestBind_OncePerElement(t *testing.T) {
	calls := 0
	r := NewRegistry()
	require.NoError(t, r.Register("counter", func(el Element) {
		calls++
		// a link that writes markup-like text must not create new bindings
		el.SetText(`<span counter></span>`)
	}))

	doc, err := html.Parse(strings.NewReader(`<div counter></div><p counter>x</p>`))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Bind(doc))
	assert.Equal(t, 2, calls)

	// a later, unrelated bind over a different tree does not touch the first one
	other, err := html.Parse(strings.NewReader(`<em>none</em>`))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Bind(other))
	assert.Equal(t, 2, calls)
}

func TestBind_BothAttributeFormsBindOnce(t *testing.T) {
	calls := 0
	r := NewRegistry()
	require.NoError(t, r.Register("appVersion", func(el Element) { calls++ }))
	doc, err := html.Parse(strings.NewReader(`<span app-version data-app-version></span>`))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Bind(doc))
	assert.Equal(t, 1, calls)
}
