package harvest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		input   string
		matches bool
	}{
		{name: "substring", entry: "node_modules", input: "/app/node_modules/lib.js", matches: true},
		{name: "substring is literal", entry: "a.b", input: "axb", matches: false},
		{name: "regexp", entry: `/\.vue$/`, input: "src/App.vue", matches: true},
		{name: "regexp anchored", entry: `/^src\//`, input: "lib/src/a.js", matches: false},
		{name: "single slash is literal", entry: "/", input: "a/b", matches: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := CompilePattern(tt.entry)
			require.NoError(t, err)
			assert.Equal(t, tt.matches, re.MatchString(tt.input))
		})
	}
}

func TestCompilePattern_Invalid(t *testing.T) {
	_, err := CompilePattern("/[unclosed/")
	require.Error(t, err)

	var cfgErr *FilterConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "/[unclosed/", cfgErr.Entry)
}

func TestNewFilterSet_MandatoryBlacklistFirst(t *testing.T) {
	fs, err := NewFilterSet(nil, []string{"vendor"})
	require.NoError(t, err)

	require.Len(t, fs.Blacklist, len(mandatoryBlacklist)+1)
	for i, entry := range mandatoryBlacklist {
		assert.True(t, fs.Blacklist[i].MatchString(entry), entry)
	}
	assert.True(t, fs.Blacklist[len(mandatoryBlacklist)].MatchString("vendor"))
}

func TestFilterSet_Allows(t *testing.T) {
	tests := []struct {
		name       string
		whitelist  []string
		blacklist  []string
		identifier string
		want       bool
	}{
		{name: "no filters", identifier: "src/app.js", want: true},
		{name: "mandatory blacklist", identifier: "webpack/bootstrap 1234", want: false},
		{
			name:       "mandatory blacklist beats whitelist",
			whitelist:  []string{"css-base"},
			identifier: "node_modules/css-loader/lib/css-base.js",
			want:       false,
		},
		{name: "user blacklist", blacklist: []string{"/\\.spec\\.js$/"}, identifier: "src/a.spec.js", want: false},
		{name: "whitelisted", whitelist: []string{"src/"}, identifier: "src/app.js", want: true},
		{name: "not whitelisted", whitelist: []string{"src/"}, identifier: "lib/app.js", want: false},
		{
			name:       "blacklist beats whitelist",
			whitelist:  []string{"src/"},
			blacklist:  []string{"src/legacy"},
			identifier: "src/legacy/app.js",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := NewFilterSet(tt.whitelist, tt.blacklist)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fs.Allows(tt.identifier))
		})
	}
}

func TestNewFilterSet_InvalidEntry(t *testing.T) {
	_, err := NewFilterSet([]string{"/(/"}, nil)
	var cfgErr *FilterConfigError
	require.True(t, errors.As(err, &cfgErr))
}
