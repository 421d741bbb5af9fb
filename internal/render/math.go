package render

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMathInline and KindMathBlock identify math nodes in the AST.
var (
	KindMathInline = ast.NewNodeKind("MathInline")
	KindMathBlock  = ast.NewNodeKind("MathBlock")
)

// MathInline is "$...$" (or "$$...$$" on one line) inside a paragraph.
type MathInline struct {
	ast.BaseInline
	Display bool
	Value   []byte
}

func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// MathBlock is a display equation between two "$$" lines.
type MathBlock struct {
	ast.BaseBlock
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }
func (n *MathBlock) IsRaw() bool        { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

var (
	dollar  = []byte("$")
	dollar2 = []byte("$$")
)

type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte { return dollar }

func (p *mathInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	delim := dollar
	if bytes.HasPrefix(line, dollar2) {
		delim = dollar2
	}
	body := line[len(delim):]
	end := bytes.Index(body, delim)
	if end <= 0 {
		return nil
	}
	value := body[:end]
	// "$5 and $6" is prose, not math.
	if len(delim) == 1 && (isSpace(value[0]) || isSpace(value[len(value)-1])) {
		return nil
	}
	block.Advance(len(delim) + end + len(delim))
	return &MathInline{Display: len(delim) == 2, Value: append([]byte(nil), value...)}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }

type mathBlockParser struct{}

func (p *mathBlockParser) Trigger() []byte { return dollar }

func (p *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	if !bytes.Equal(bytes.TrimSpace(line), dollar2) {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return &MathBlock{}, parser.NoChildren
}

func (p *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if bytes.Equal(bytes.TrimSpace(line), dollar2) {
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}
func (p *mathBlockParser) CanInterruptParagraph() bool                                 { return true }
func (p *mathBlockParser) CanAcceptIndentedLine() bool                                 { return false }

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderInline)
	reg.Register(KindMathBlock, r.renderBlock)
}

// Output keeps TeX delimiters so the KaTeX auto-render script can find it.
func (r *mathRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathInline)
	if n.Display {
		w.WriteString(`<span class="math math-display">\[`)
		template.HTMLEscape(w, n.Value)
		w.WriteString(`\]</span>`)
	} else {
		w.WriteString(`<span class="math math-inline">\(`)
		template.HTMLEscape(w, n.Value)
		w.WriteString(`\)</span>`)
	}
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	w.WriteString(`<div class="math math-display">\[` + "\n")
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		template.HTMLEscape(w, seg.Value(source))
	}
	w.WriteString(`\]</div>` + "\n")
	return ast.WalkSkipChildren, nil
}

type mathExtension struct{}

// Math enables "$" inline and "$$" display math.
var Math goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 150)),
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{}, 150)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&mathRenderer{}, 150)),
	)
}
