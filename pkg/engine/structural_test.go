package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/smalipatch/pkg/script"
)

func TestApplyReplace(t *testing.T) {
	target := []string{
		".class public LFoo;",
		".method public foo()V",
		"    .locals 2",
		"    nop",
		".end method",
		".end class",
	}
	action := &script.Replace{
		Signature: ".method public foo()V",
		Body:      []string{"    .locals 0", "    return-void"},
	}

	got, err := applyReplace(target, action)
	require.NoError(t, err)
	assert.Equal(t, []string{
		".class public LFoo;",
		".method public foo()V",
		"    .locals 0",
		"    return-void",
		".end method",
		".end class",
	}, got)
}

func TestApplyReplace_MethodNotFound(t *testing.T) {
	target := []string{".method public foo()V", ".end method"}
	action := &script.Replace{Signature: ".method public bar()V", Body: []string{"nop"}}

	_, err := applyReplace(target, action)
	require.Error(t, err)

	var hunkErr *HunkError
	require.ErrorAs(t, err, &hunkErr)
	assert.Equal(t, "REPLACE", hunkErr.Action)
	assert.Contains(t, err.Error(), "method not found")
}

func TestApplyReplace_UnterminatedMethod(t *testing.T) {
	// A signature with no end sentinel has no defined range; replacing it
	// would be unsafe.
	target := []string{".method public foo()V", "    nop"}
	action := &script.Replace{Signature: ".method public foo()V", Body: []string{"return-void"}}

	_, err := applyReplace(target, action)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".end method")
}

func TestApplyCreateMethod(t *testing.T) {
	tests := []struct {
		name   string
		target []string
		body   []string
		want   []string
	}{
		{
			name:   "separator_inserted_after_nonblank",
			target: []string{".class public LFoo;", "    return-void", ".end method", ".end class"},
			body:   []string{"# new method"},
			want:   []string{".class public LFoo;", "    return-void", ".end method", "", "# new method", ".end class"},
		},
		{
			name:   "no_separator_after_blank",
			target: []string{".class public LFoo;", ".end method", "", ".end class"},
			body:   []string{"# new method"},
			want:   []string{".class public LFoo;", ".end method", "", "# new method", ".end class"},
		},
		{
			name:   "last_class_end_used",
			target: []string{".end class", "x", ".end class"},
			body:   []string{"m"},
			want:   []string{".end class", "x", "", "m", ".end class"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyCreateMethod(tt.target, &script.CreateMethod{Body: tt.body})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyCreateMethod_Failures(t *testing.T) {
	t.Run("no_class_end_sentinel", func(t *testing.T) {
		_, err := applyCreateMethod([]string{".class public LFoo;"}, &script.CreateMethod{Body: []string{"m"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".end class")
	})

	t.Run("sentinel_at_file_start", func(t *testing.T) {
		_, err := applyCreateMethod([]string{".end class"}, &script.CreateMethod{Body: []string{"m"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start of the file")
	})
}

func TestApplyCreateMethod_DoesNotMutateBody(t *testing.T) {
	// The inserted blank separator must not leak into the action's body,
	// which may be reused when the same script is applied to another tree.
	action := &script.CreateMethod{Body: []string{"# new"}}
	target := []string{"x", ".end class"}

	_, err := applyCreateMethod(target, action)
	require.NoError(t, err)
	assert.Equal(t, []string{"# new"}, action.Body)
}
