// Package mdblocks locates fenced code blocks in markdown documents so that
// code samples in documentation can be rewritten like regular sources.
package mdblocks

import (
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"linemod/internal/rewrite"
)

// Block is the body of one fenced code block, as a half-open line range of
// the markdown file. The fence lines themselves are not included.
type Block struct {
	Lang      string
	StartLine int
	EndLine   int
}

// CodeBlocks returns the non-empty fenced code blocks of content whose info
// language is one of langs, in document order. With no langs every block is returned.
func CodeBlocks(content []byte, langs ...string) []Block {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))
	offsets := rewrite.BuildLineOffsets(content)

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := strings.ToLower(string(fenced.Language(content)))
		if len(langs) > 0 && !slices.Contains(langs, lang) {
			return ast.WalkSkipChildren, nil
		}
		segs := fenced.Lines()
		if segs.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		blocks = append(blocks, Block{
			Lang:      lang,
			StartLine: rewrite.LineIndexOfByte(offsets, segs.At(0).Start),
			EndLine:   rewrite.LineIndexOfByte(offsets, segs.At(segs.Len()-1).Start) + 1,
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}
