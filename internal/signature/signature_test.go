package signature

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePNGDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	image, err := Parse("data:image/png;base64," + payload)
	require.NoError(t, err)
	require.Equal(t, "PNG", image.Type)
	require.Equal(t, []byte("fake-png-bytes"), image.Data)
}

func TestParseJPEGDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))

	image, err := Parse("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	require.Equal(t, "JPG", image.Type)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"not a data url",
		"data:image/png;base64,",            // empty payload
		"data:image/png;base64,!!!",         // bad base64
		"data:image/gif;base64,aGVsbG8=",    // unsupported type
		"data:image/png,aGVsbG8=",           // missing encoding
		"data:image/png;utf8,aGVsbG8=",      // wrong encoding
	}
	for _, input := range cases {
		_, err := Parse(input)
		require.Error(t, err, "input %q", input)
	}
}
