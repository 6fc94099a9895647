package smali

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignaturePattern(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		line      string
		want      bool
	}{
		{name: "exact", signature: ".method public foo()V", line: ".method public foo()V", want: true},
		{name: "extra_whitespace_in_target", signature: ".method public foo()V", line: ".method   public  foo()V", want: true},
		{name: "prefix_match_at_start", signature: ".method public foo()V", line: ".method public foo()V # trailing", want: true},
		{name: "different_method", signature: ".method public foo()V", line: ".method public bar()V", want: false},
		{name: "not_at_line_start", signature: ".method public foo()V", line: "x .method public foo()V", want: false},
		{name: "regex_metachars_literal", signature: ".method public foo(I[Ljava/lang/String;)V", line: ".method public foo(I[Ljava/lang/String;)V", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pat := SignaturePattern(tt.signature)
			assert.Equal(t, tt.want, pat.MatchString(tt.line))
		})
	}
}

func TestFindMethodRange(t *testing.T) {
	lines := []string{
		".class public LFoo;",
		"",
		".method public foo()V",
		"    .locals 1",
		"    return-void",
		".end method",
		"",
		".method public foo()V",
		"    nop",
		".end method",
		".end class",
	}

	t.Run("first_occurrence_wins", func(t *testing.T) {
		start, end := FindMethodRange(lines, SignaturePattern(".method public foo()V"))
		assert.Equal(t, 2, start)
		assert.Equal(t, 5, end)
	})

	t.Run("indented_signature_and_sentinel", func(t *testing.T) {
		indented := []string{"  .method public foo()V", "    nop", "  .end method"}
		start, end := FindMethodRange(indented, SignaturePattern(".method public foo()V"))
		assert.Equal(t, 0, start)
		assert.Equal(t, 2, end)
	})

	t.Run("not_found", func(t *testing.T) {
		start, end := FindMethodRange(lines, SignaturePattern(".method public missing()V"))
		assert.Equal(t, -1, start)
		assert.Equal(t, -1, end)
	})

	t.Run("unterminated_method", func(t *testing.T) {
		truncated := lines[:4] // signature present, no .end method after it
		start, end := FindMethodRange(truncated, SignaturePattern(".method public foo()V"))
		assert.Equal(t, 2, start)
		assert.Equal(t, -1, end)
	})
}

func TestFindClassEnd(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		lines := []string{".class public LFoo;", "    return-void", ".end method", ".end class"}
		assert.Equal(t, 3, FindClassEnd(lines))
	})

	t.Run("scans_backward", func(t *testing.T) {
		lines := []string{".end class", "trailing junk"}
		assert.Equal(t, 0, FindClassEnd(lines))
	})

	t.Run("missing", func(t *testing.T) {
		require.Equal(t, -1, FindClassEnd([]string{".class public LFoo;"}))
	})
}
