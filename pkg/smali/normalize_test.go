package smali

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		nonStrict bool
		want      string
		wantOK    bool
	}{
		{name: "blank", line: "   ", wantOK: false},
		{name: "empty", line: "", wantOK: false},
		{name: "comment", line: "# anything at all", wantOK: false},
		{name: "line_directive", line: "    .line 42", wantOK: false},
		{name: "source_directive", line: `.source "Foo.java"`, wantOK: false},
		{name: "prologue", line: "    .prologue", wantOK: false},
		{name: "local_debug", line: `    .local v0, "x":I`, wantOK: false},
		{name: "end_local", line: "    .end local v0", wantOK: false},
		{name: "restart_local", line: "    .restart local v0", wantOK: false},
		{name: "param_debug", line: `    .param p1, "name"`, wantOK: false},
		{name: "locals_is_significant", line: "    .locals 1", want: ".locals 1", wantOK: true},
		{name: "trims_and_collapses", line: "  const/4   v0,   0x1  ", want: "const/4 v0, 0x1", wantOK: true},
		{name: "tabs_collapse", line: "\tconst/4\tv0,\t0x1", want: "const/4 v0, 0x1", wantOK: true},
		{name: "strict_keeps_registers", line: "const/4 v7, 0x1", want: "const/4 v7, 0x1", wantOK: true},
		{name: "non_strict_generalizes_v", line: "const/4 v7, 0x1", nonStrict: true, want: "const/4 vX, 0x1", wantOK: true},
		{name: "non_strict_generalizes_p", line: "invoke-virtual {p0, p1}, La;->b()V", nonStrict: true, want: "invoke-virtual {pX, pX}, La;->b()V", wantOK: true},
		{name: "label_not_generalized", line: ":v0", nonStrict: true, want: ":v0", wantOK: true},
		{name: "label_with_suffix_untouched", line: "goto :v0_start", nonStrict: true, want: "goto :v0_start", wantOK: true},
		{name: "word_prefix_untouched", line: "av0 stays", nonStrict: true, want: "av0 stays", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.line, tt.nonStrict)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalize_WhitespaceInvariance(t *testing.T) {
	// Inserting or removing runs of internal whitespace never changes the
	// normalized form.
	variants := []string{
		"const/4 v0, 0x1",
		"const/4  v0,  0x1",
		"   const/4 v0, 0x1",
		"const/4\t\tv0, 0x1   ",
	}

	want, ok := Normalize(variants[0], false)
	require.True(t, ok)
	for _, v := range variants {
		got, ok := Normalize(v, false)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestNormalize_RegisterEquivalence(t *testing.T) {
	a := "const/4 v0, 0x1"
	b := "const/4 v7, 0x1"

	// Differently numbered registers are distinct in strict mode and equal
	// in non-strict mode.
	assert.False(t, Equivalent(a, b, false))
	assert.True(t, Equivalent(a, b, true))
}

func TestEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "both_ignorable", a: "# one", b: "    .line 3", want: true},
		{name: "ignorable_vs_code", a: "# one", b: "return-void", want: false},
		{name: "same_code", a: " return-void", b: "return-void  ", want: true},
		{name: "different_code", a: "return-void", b: "return-object v0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equivalent(tt.a, tt.b, false))
		})
	}
}

func TestIgnorable(t *testing.T) {
	assert.True(t, Ignorable(""))
	assert.True(t, Ignorable("   .line 12"))
	assert.False(t, Ignorable(".locals 2"))
}
