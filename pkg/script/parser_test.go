package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FileBlock(t *testing.T) {
	lines := []string{
		"FILE com/example/Foo.smali",
		"PATCH",
		"    .locals 1",
		"- const/4 v0, 0x1",
		"+ const/4 v0, 0x2",
		"    return-void",
		"END",
		"END",
	}

	patches, warns := Parse(context.Background(), lines)
	require.Len(t, patches, 1)
	assert.Empty(t, warns)

	edit, ok := patches[0].(*FileEdit)
	require.True(t, ok)
	assert.Equal(t, "com/example/Foo.smali", edit.Path)
	require.Len(t, edit.Actions, 1)

	hunk, ok := edit.Actions[0].(*Hunk)
	require.True(t, ok)
	assert.Empty(t, hunk.Signature)
	require.Len(t, hunk.Ops, 4)
	assert.Equal(t, Operation{Kind: OpContext, Text: "    .locals 1"}, hunk.Ops[0])
	assert.Equal(t, Operation{Kind: OpDelete, Text: "const/4 v0, 0x1"}, hunk.Ops[1])
	assert.Equal(t, Operation{Kind: OpAdd, Text: "const/4 v0, 0x2"}, hunk.Ops[2])
	assert.Equal(t, Operation{Kind: OpContext, Text: "    return-void"}, hunk.Ops[3])
}

func TestParse_AllActionKinds(t *testing.T) {
	lines := []string{
		"FILE a/B.smali",
		"REPLACE .method public foo()V",
		"    .locals 0",
		"    return-void",
		"END",
		"PATCH .method public bar()V",
		"- const/4 v0, 0x0",
		"END",
		"CREATE_METHOD",
		".method public baz()V",
		"    return-void",
		".end method",
		"END",
		"END",
		"CREATE a/C.smali",
		".class public La/C;",
		".end class",
		"END",
	}

	patches, warns := Parse(context.Background(), lines)
	assert.Empty(t, warns)
	require.Len(t, patches, 2)

	edit := patches[0].(*FileEdit)
	require.Len(t, edit.Actions, 3)

	rep := edit.Actions[0].(*Replace)
	assert.Equal(t, ".method public foo()V", rep.Signature)
	assert.Equal(t, []string{"    .locals 0", "    return-void"}, rep.Body)

	hunk := edit.Actions[1].(*Hunk)
	assert.Equal(t, ".method public bar()V", hunk.Signature)
	require.Len(t, hunk.Ops, 1)
	assert.Equal(t, OpDelete, hunk.Ops[0].Kind)

	cm := edit.Actions[2].(*CreateMethod)
	assert.Len(t, cm.Body, 3)

	create := patches[1].(*FileCreate)
	assert.Equal(t, "a/C.smali", create.Path)
	assert.Equal(t, []string{".class public La/C;", ".end class"}, create.Content)
}

func TestParse_ImplicitInnerEnd(t *testing.T) {
	// The inner END after a PATCH block is optional: the next recognized
	// keyword terminates the content block as well.
	lines := []string{
		"FILE a/B.smali",
		"PATCH",
		"- foo",
		"PATCH",
		"- bar",
		"END",
		"END",
	}

	patches, warns := Parse(context.Background(), lines)
	assert.Empty(t, warns)
	require.Len(t, patches, 1)

	edit := patches[0].(*FileEdit)
	require.Len(t, edit.Actions, 2)
	assert.Equal(t, "foo", edit.Actions[0].(*Hunk).Ops[0].Text)
	assert.Equal(t, "bar", edit.Actions[1].(*Hunk).Ops[0].Text)
}

func TestParse_MissingFileEnd(t *testing.T) {
	lines := []string{
		"FILE a/B.smali",
		"PATCH",
		"- foo",
	}

	patches, warns := Parse(context.Background(), lines)
	require.Len(t, patches, 1)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "missing 'END'")

	edit := patches[0].(*FileEdit)
	require.Len(t, edit.Actions, 1)
}

func TestParse_IgnoresNoiseOutsideBlocks(t *testing.T) {
	lines := []string{
		"",
		"# a stray comment",
		"random text",
		"CREATE a/C.smali",
		"content",
		"END",
		"",
	}

	patches, warns := Parse(context.Background(), lines)
	assert.Empty(t, warns)
	require.Len(t, patches, 1)
	assert.Equal(t, "CREATE", patches[0].Keyword())
}

func TestParse_VerbatimContentCapture(t *testing.T) {
	lines := []string{
		"CREATE a/C.smali",
		"    indented",
		"",
		"\ttabbed",
		"END",
	}

	patches, _ := Parse(context.Background(), lines)
	create := patches[0].(*FileCreate)
	assert.Equal(t, []string{"    indented", "", "\ttabbed"}, create.Content)
}

func TestClassifyOperations_PrefixConvention(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Operation
	}{
		{name: "add", line: "+ const/4 v0, 0x1", want: Operation{Kind: OpAdd, Text: "const/4 v0, 0x1"}},
		{name: "delete", line: "- const/4 v0, 0x1", want: Operation{Kind: OpDelete, Text: "const/4 v0, 0x1"}},
		{name: "context_verbatim", line: "    const/4 v0, 0x1", want: Operation{Kind: OpContext, Text: "    const/4 v0, 0x1"}},
		{name: "blank_is_context", line: "", want: Operation{Kind: OpContext, Text: ""}},
		{name: "bare_plus_is_context", line: "+", want: Operation{Kind: OpContext, Text: "+"}},
		{name: "bare_minus_is_context", line: "-", want: Operation{Kind: OpContext, Text: "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := classifyOperations([]string{tt.line})
			require.Len(t, ops, 1)
			assert.Equal(t, tt.want, ops[0])
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{name: "unix", data: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf", data: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "no_trailing_newline", data: "a\nb", want: []string{"a", "b"}},
		{name: "empty", data: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines([]byte(tt.data)))
		})
	}
}
