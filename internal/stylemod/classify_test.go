package stylemod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStyleModule(t *testing.T) {
	push := `exports.push([module.i, ".a{}", ""]);`

	tests := []struct {
		name         string
		identifier   string
		originalCode string
		want         bool
	}{
		{
			name:         "css-loader output",
			identifier:   "node_modules/css-loader/index.js!src/app.css",
			originalCode: push,
			want:         true,
		},
		{
			name:         "push call outside the loader",
			identifier:   "src/app.js",
			originalCode: push,
			want:         false,
		},
		{
			name:         "configuration mentioning the loader",
			identifier:   "src/css-loader.config.js",
			originalCode: `module.exports = {use: ["css-loader"]}`,
			want:         false,
		},
		{
			name:         "loader module without original code",
			identifier:   "css-loader/index.js!a.css",
			originalCode: "",
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStyleModule(tt.identifier, tt.originalCode))
		})
	}
}

func TestIsLoaderIndex(t *testing.T) {
	assert.True(t, IsLoaderIndex("/app/node_modules/css-loader/index.js!/app/src/a.css"))
	assert.False(t, IsLoaderIndex("/app/node_modules/css-loader/lib/css-base.js"))
}
