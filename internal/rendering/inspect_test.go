package rendering

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectHTML(t *testing.T) {
	html := `<html><head><title> Jane Doe - Resume </title><style>body{color:red}</style></head>
<body><h1>Jane Doe</h1>
<p>Senior   Engineer</p><script>var x = "hidden";</script></body></html>`

	info, err := InspectHTML(html)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe - Resume", info.Title)
	assert.Equal(t, len("Jane Doe Senior Engineer"), info.TextLength)
}

func TestInspectHTML_NoTitle(t *testing.T) {
	info, err := InspectHTML(`<p>hello</p>`)
	require.NoError(t, err)
	assert.Empty(t, info.Title)
	assert.Equal(t, 5, info.TextLength)
}

func TestInspectHTML_EmptyBody(t *testing.T) {
	tests := []string{
		"",
		"<html><body></body></html>",
		"<html><body>   \n  </body></html>",
		"<html><body><script>only()</script></body></html>",
	}

	for _, html := range tests {
		_, err := InspectHTML(html)
		var renderErr *RenderError
		assert.True(t, errors.As(err, &renderErr), "html %q", html)
	}
}
