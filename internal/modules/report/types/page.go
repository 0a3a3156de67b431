package types

type BlockKind string

const (
	BlockTitle     BlockKind = "title"
	BlockMarkdown  BlockKind = "markdown"
	BlockHeader    BlockKind = "header"
	BlockSubheader BlockKind = "subheader"
	BlockText      BlockKind = "text"
	BlockPreview   BlockKind = "preview"
	BlockInfo      BlockKind = "info"
	BlockChart     BlockKind = "chart"
	BlockError     BlockKind = "error"
)

// Block is one element of the report page. Only the field matching Kind is set;
// text-like kinds and errors use Text.
type Block struct {
	Kind    BlockKind
	Text    string
	Preview *Preview
	Info    *DatasetInfo
	Chart   *ChartImage
}

type ChartImage struct {
	Slug  string
	Title string
	SVG   []byte
}

// Page is the output of one render pass: blocks in the order they were
// produced. A failed pass ends with a single error block.
type Page struct {
	Title  string
	Blocks []Block
	Err    error
}

func NewPage(title string) *Page {
	return &Page{Title: title, Blocks: []Block{{Kind: BlockTitle, Text: title}}}
}

func (p *Page) Append(b Block) {
	p.Blocks = append(p.Blocks, b)
}

// Fail records err and closes the page with an error block. Only the first
// failure is kept.
func (p *Page) Fail(err error) {
	if err == nil || p.Err != nil {
		return
	}
	p.Err = err
	p.Append(Block{Kind: BlockError, Text: err.Error()})
}

func (p *Page) Failed() bool {
	return p.Err != nil
}

// Charts returns the chart blocks in page order.
func (p *Page) Charts() []ChartImage {
	var out []ChartImage
	for _, b := range p.Blocks {
		if b.Kind == BlockChart && b.Chart != nil {
			out = append(out, *b.Chart)
		}
	}
	return out
}
