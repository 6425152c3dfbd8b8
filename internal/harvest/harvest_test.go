package harvest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/bundletrim/internal/bundle"
)

func TestGather(t *testing.T) {
	const loaderIndex = "node_modules/css-loader/index.js!src/app.css"

	tests := []struct {
		name      string
		whitelist []string
		blacklist []string
		modules   []bundle.Module
		extra     []Fragment
		want      []Fragment
	}{
		{
			name: "original code preferred",
			modules: []bundle.Module{
				{Identifier: "src/a.js", GeneratedCode: "generated", OriginalCode: "original"},
				{Identifier: "src/b.js", GeneratedCode: "generated only"},
			},
			want: []Fragment{
				{Kind: KindScript, Content: "original"},
				{Kind: KindScript, Content: "generated only"},
			},
		},
		{
			name: "modules without identifier or content skipped",
			modules: []bundle.Module{
				{GeneratedCode: "anonymous"},
				{Identifier: "src/empty.js"},
				{Identifier: "src/a.js", OriginalCode: "a"},
			},
			want: []Fragment{{Kind: KindScript, Content: "a"}},
		},
		{
			name:      "mandatory blacklist beats whitelist",
			whitelist: []string{"node_modules"},
			modules: []bundle.Module{
				{Identifier: "node_modules/style-loader/lib/addStyles.js", OriginalCode: "styles"},
				{Identifier: "node_modules/lib/index.js", OriginalCode: "lib"},
			},
			want: []Fragment{{Kind: KindScript, Content: "lib"}},
		},
		{
			name:      "whitelist excludes others",
			whitelist: []string{"src/"},
			modules: []bundle.Module{
				{Identifier: "vendor/x.js", OriginalCode: "x"},
				{Identifier: "src/y.js", OriginalCode: "y"},
			},
			want: []Fragment{{Kind: KindScript, Content: "y"}},
		},
		{
			name: "loader index contributes locals only",
			modules: []bundle.Module{{
				Identifier:   loaderIndex,
				OriginalCode: "exports.push([module.i, \".a{}\", \"\"]);\nexports.locals = {\"a\": \"a_1x\"};",
			}},
			want: []Fragment{{Kind: KindScript, Content: "exports.locals = {\"a\": \"a_1x\"};"}},
		},
		{
			name: "loader index without locals",
			modules: []bundle.Module{{
				Identifier:   loaderIndex,
				OriginalCode: "exports.push([module.i, \".a{}\", \"\"]);",
			}},
			want: []Fragment{},
		},
		{
			name: "loader index removed by extraction",
			modules: []bundle.Module{{
				Identifier:   loaderIndex,
				OriginalCode: "// removed by extract-text-webpack-plugin\nexports.locals = {};",
			}},
			want: []Fragment{},
		},
		{
			name:    "extras last",
			modules: []bundle.Module{{Identifier: "src/a.js", OriginalCode: "a"}},
			extra:   []Fragment{{Kind: KindMarkup, Content: "<div class=\"x\">"}},
			want: []Fragment{
				{Kind: KindScript, Content: "a"},
				{Kind: KindMarkup, Content: "<div class=\"x\">"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := NewFilterSet(tt.whitelist, tt.blacklist)
			require.NoError(t, err)

			got := Gather(fs, tt.modules, tt.extra)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	require.Equal(t, KindMarkup, ParseKind("HTML"))
	require.Equal(t, KindMarkup, ParseKind("markup"))
	require.Equal(t, KindScript, ParseKind("js"))
	require.Equal(t, KindScript, ParseKind(""))
}
