package rendering

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeCodeFences_EmptyString(t *testing.T) {
	assert.Equal(t, "", EscapeCodeFences(""))
}

func TestEscapeCodeFences_NoFences(t *testing.T) {
	inputs := []string{
		"plain text",
		"<section data-background=\"#000\">\n# Title\n</section>",
		"inline `<b>` code stays",
		"two backticks `` <x> `` only",
		"a < b > c",
	}
	for _, in := range inputs {
		assert.Equal(t, in, EscapeCodeFences(in), "input %q", in)
	}
}

func TestEscapeCodeFences_SingleFence(t *testing.T) {
	in := "# Slide\n\n```html\n<div class=\"x\">a > b</div>\n```\n\n<aside class=\"notes\">hi</aside>\n"
	want := "# Slide\n\n```html\n&lt;div class=\"x\"&gt;a &gt; b&lt;/div&gt;\n```\n\n<aside class=\"notes\">hi</aside>\n"

	assert.Equal(t, want, EscapeCodeFences(in))
}

func TestEscapeCodeFences_MarkersAndLangTagUnchanged(t *testing.T) {
	in := "```go\nfunc f() <-chan int\n```"
	out := EscapeCodeFences(in)

	assert.True(t, strings.HasPrefix(out, "```go\n"))
	assert.True(t, strings.HasSuffix(out, "\n```"))
	assert.Contains(t, out, "&lt;-chan int")
	assert.Equal(t, 2, strings.Count(out, FenceMarker))
}

func TestEscapeCodeFences_IdenticalBodies(t *testing.T) {
	in := "```<a>```\ntext <a> outside\n```<a>```"
	want := "```&lt;a&gt;```\ntext <a> outside\n```&lt;a&gt;```"

	assert.Equal(t, want, EscapeCodeFences(in))
}

func TestEscapeCodeFences_IdenticalBodiesOutsideFirst(t *testing.T) {
	// The outside occurrence precedes the fences; a value-based replace
	// would rewrite it first.
	in := "<a>\n```\n<a>\n```\n```\n<a>\n```"
	want := "<a>\n```\n&lt;a&gt;\n```\n```\n&lt;a&gt;\n```"

	assert.Equal(t, want, EscapeCodeFences(in))
}

func TestEscapeCodeFences_TextBetweenFencesUntouched(t *testing.T) {
	in := "```\n<x>\n```\n<b>between</b>\n```\n<y>\n```"
	want := "```\n&lt;x&gt;\n```\n<b>between</b>\n```\n&lt;y&gt;\n```"

	assert.Equal(t, want, EscapeCodeFences(in))
}

func TestEscapeCodeFences_UnterminatedFence(t *testing.T) {
	in := "```\n<ok>\n```\n<p>html</p>\n```js\nif (a < b) {}\n"
	want := "```\n&lt;ok&gt;\n```\n<p>html</p>\n```js\nif (a < b) {}\n"

	assert.NotPanics(t, func() { EscapeCodeFences(in) })
	assert.Equal(t, want, EscapeCodeFences(in))
	// deterministic
	assert.Equal(t, EscapeCodeFences(in), EscapeCodeFences(in))
}

func TestEscapeCodeFences_OnlyOneMarker(t *testing.T) {
	in := "text\n```\n<b>"
	assert.Equal(t, in, EscapeCodeFences(in))
}

func TestEscapeCodeFences_EmptyFence(t *testing.T) {
	in := "``````<b>"
	assert.Equal(t, in, EscapeCodeFences(in))
}

func TestEscapeCodeFences_ExistingEntitiesNotDoubleEscaped(t *testing.T) {
	in := "```\n&amp; &lt;already&gt; <new>\n```"
	want := "```\n&amp; &lt;already&gt; &lt;new&gt;\n```"

	assert.Equal(t, want, EscapeCodeFences(in))
}

func TestEscapeCodeFences_SecondPassStable(t *testing.T) {
	docs := []string{
		"```html\n<p>x</p>\n```\n<em>keep</em>",
		"```<a>```\n<a>\n```<a>```",
		"no fences <here>",
		"```\n<a>\n```\n```\n<dangling>",
	}
	for _, doc := range docs {
		once := EscapeCodeFences(doc)
		twice := EscapeCodeFences(once)
		assert.Equal(t, once, twice, "doc %q", doc)
	}
}

func TestEscapeCodeFences_LengthNeverShrinks(t *testing.T) {
	in := "```\n<<>>\n```"
	out := EscapeCodeFences(in)
	assert.GreaterOrEqual(t, len(out), len(in))
	assert.Equal(t, "```\n&lt;&lt;&gt;&gt;\n```", out)
}

func TestEscapeCodeFences_UnicodePassThrough(t *testing.T) {
	in := "```\nα <β> γ — 日本\n```\nrésumé <i>"
	want := "```\nα &lt;β&gt; γ — 日本\n```\nrésumé <i>"

	assert.Equal(t, want, EscapeCodeFences(in))
}

func TestEscapeCodeFences_Concurrent(t *testing.T) {
	in := "```\n<a>\n```\n<b>"
	want := EscapeCodeFences(in)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, EscapeCodeFences(in))
		}()
	}
	wg.Wait()
}

func TestFenceSpans_Pairs(t *testing.T) {
	doc := "a```b```c```d```e"
	spans, dangling := FenceSpans(doc)

	require.Len(t, spans, 2)
	assert.Equal(t, -1, dangling)
	assert.Equal(t, "b", doc[spans[0].Start:spans[0].End])
	assert.Equal(t, "d", doc[spans[1].Start:spans[1].End])
}

func TestFenceSpans_Dangling(t *testing.T) {
	doc := "a```b```c```d"
	spans, dangling := FenceSpans(doc)

	require.Len(t, spans, 1)
	assert.Equal(t, 9, dangling)
	assert.Equal(t, FenceMarker, doc[dangling:dangling+3])
}

func TestFenceSpans_NoMarkers(t *testing.T) {
	spans, dangling := FenceSpans("nothing here")
	assert.Empty(t, spans)
	assert.Equal(t, -1, dangling)
}

func TestUnterminated(t *testing.T) {
	assert.False(t, Unterminated(""))
	assert.False(t, Unterminated("```x```"))
	assert.True(t, Unterminated("```x```y```"))
	assert.True(t, Unterminated("```"))
}
