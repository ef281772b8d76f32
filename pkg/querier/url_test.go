package querier

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLookupURL(t *testing.T) {
	template := "http://2.vndic.net/index.php?word={}&dict=cn_vi"
	testCases := map[string]struct {
		word     string
		expected string
	}{
		"simple word": {
			word:     "你好",
			expected: "http://2.vndic.net/index.php?word=%E4%BD%A0%E5%A5%BD&dict=cn_vi",
		},
		"phrase": {
			word:     "我爱学习中文",
			expected: "http://2.vndic.net/index.php?word=%E6%88%91%E7%88%B1%E5%AD%A6%E4%B9%A0%E4%B8%AD%E6%96%87&dict=cn_vi",
		},
		"empty": {
			word:     "",
			expected: "http://2.vndic.net/index.php?word=&dict=cn_vi",
		},
		"full width punctuation": {
			word:     "你好！",
			expected: "http://2.vndic.net/index.php?word=%E4%BD%A0%E5%A5%BD%EF%BC%81&dict=cn_vi",
		},
		"reserved characters": {
			word:     "a b&c=d/e?f#g+h",
			expected: "http://2.vndic.net/index.php?word=a%20b%26c%3Dd%2Fe%3Ff%23g%2Bh&dict=cn_vi",
		},
		"unreserved characters": {
			word:     "Az09-_.~",
			expected: "http://2.vndic.net/index.php?word=Az09-_.~&dict=cn_vi",
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, BuildLookupURL(template, tc.word))
		})
	}
}

func TestBuildLookupURLRoundTrip(t *testing.T) {
	words := []string{"", "你", "公斤", "nǐ·men", "100% pure", "a+b c", "我爱你。", "'\"<>\\"}
	for _, word := range words {
		built := BuildLookupURL("{}", word)
		assert.NotContains(t, built, Placeholder)
		decoded, err := url.PathUnescape(built)
		require.NoError(t, err)
		assert.Equal(t, word, decoded)
	}
}

func TestBuildLookupURLSingleCharacter(t *testing.T) {
	built := BuildLookupURL("{}", "斤")
	assert.Equal(t, 3, strings.Count(built, "%"))
}

func TestResolveReference(t *testing.T) {
	testCases := map[string]struct {
		base      string
		reference string
		expected  string
	}{
		"relative": {
			base:      "http://2.vndic.net",
			reference: "/mp3.php?id=X",
			expected:  "http://2.vndic.net/mp3.php?id=X",
		},
		"base with slash": {
			base:      "http://2.vndic.net/",
			reference: "/mp3.php?id=X",
			expected:  "http://2.vndic.net/mp3.php?id=X",
		},
		"absolute": {
			base:      "http://2.vndic.net",
			reference: "http://example.com/audio.mp3",
			expected:  "http://example.com/audio.mp3",
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, resolveReference(tc.base, tc.reference))
		})
	}
}

func TestBaseFromTemplate(t *testing.T) {
	assert.Equal(t, "http://2.vndic.net", baseFromTemplate(DefaultURLTemplate))
	assert.Equal(t, "https://example.com:8080", baseFromTemplate("https://example.com:8080/{}"))
	assert.Equal(t, "", baseFromTemplate("{}"))
}
