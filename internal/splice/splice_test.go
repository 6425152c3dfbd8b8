package splice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		code string
		reps []Replacement
		want string
	}{
		{
			name: "no replacements",
			code: "abc",
			want: "abc",
		},
		{
			name: "single replacement",
			code: `push("x")`,
			reps: []Replacement{{Range{5, 8}, `"yy"`}},
			want: `push("yy")`,
		},
		{
			name: "unsorted replacements",
			code: "0123456789",
			reps: []Replacement{
				{Range{6, 8}, "B"},
				{Range{1, 3}, "AAA"},
			},
			want: "0AAA345B89",
		},
		{
			name: "insertion",
			code: "ab",
			reps: []Replacement{{Range{1, 1}, "-"}},
			want: "a-b",
		},
		{
			name: "adjacent ranges",
			code: "abcd",
			reps: []Replacement{{Range{0, 2}, "x"}, {Range{2, 4}, "y"}},
			want: "xy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.code, tt.reps...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_Errors(t *testing.T) {
	_, err := Apply("abcdef", Replacement{Range{1, 4}, ""}, Replacement{Range{3, 5}, ""})
	require.ErrorIs(t, err, ErrOverlap)

	_, err = Apply("abc", Replacement{Range{2, 9}, ""})
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = Apply("abc", Replacement{Range{2, 1}, ""})
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestOffset(t *testing.T) {
	// "0123456789" -> "0AAA345B89"
	sorted, err := Sorted(10, []Replacement{
		{Range{6, 8}, "B"},
		{Range{1, 3}, "AAA"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, Offset(sorted, 0))
	assert.Equal(t, 1, Offset(sorted, 1))
	assert.Equal(t, 1, Offset(sorted, 2), "inside a replaced range")
	assert.Equal(t, 4, Offset(sorted, 3))
	assert.Equal(t, 7, Offset(sorted, 6))
	assert.Equal(t, 8, Offset(sorted, 8))
	assert.Equal(t, 10, Offset(sorted, 10))
}
