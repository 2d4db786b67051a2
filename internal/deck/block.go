// Package deck defines the content blocks of the presentation and the
// fixed page modules built from them.
// Blocks are plain values: nothing creates, mutates or destroys a block
// after program start.
package deck

import "strings"

// Kind tags the variant a Block carries.
type Kind int

const (
	KindTitle Kind = iota
	KindStyle
	KindImagePair
	KindHeader
	KindSubheader
	KindParagraph
	KindDivider
	KindFigure
)

var kindNames = [...]string{
	KindTitle:     "title",
	KindStyle:     "style",
	KindImagePair: "image_pair",
	KindHeader:    "header",
	KindSubheader: "subheader",
	KindParagraph: "paragraph",
	KindDivider:   "divider",
	KindFigure:    "figure",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Image references a local asset by a path relative to the asset base dir.
type Image struct {
	Path    string
	Caption string
	// FitColumn stretches the image to the width of its column.
	FitColumn bool
}

// Block is a single content block. Which fields are set depends on Kind:
//
//	Title, Header, Subheader, Paragraph: Text
//	Header, Subheader:                   Mirror (sidebar heading, may be empty)
//	Style:                               Markup (trusted, emitted unescaped)
//	ImagePair:                           Left, Right
//	Figure:                              Left
//	Divider:                             nothing
type Block struct {
	Kind   Kind
	Text   string
	Mirror string
	Markup string
	Left   Image
	Right  Image
}

// Images returns the images referenced by b in left-to-right order.
func (b Block) Images() []Image {
	switch b.Kind {
	case KindImagePair:
		return []Image{b.Left, b.Right}
	case KindFigure:
		return []Image{b.Left}
	}
	return nil
}

// ── Constructors ─────────────────────────────────────────────────────────────

func Title(text string) Block { return Block{Kind: KindTitle, Text: text} }

// Style wraps a trusted markup constant. Never pass user-influenced content.
func Style(markup string) Block { return Block{Kind: KindStyle, Markup: markup} }

func ImagePair(left, right Image) Block {
	return Block{Kind: KindImagePair, Left: left, Right: right}
}

// Header emits text on the page and mirrors mirror into the sidebar.
func Header(text, mirror string) Block {
	return Block{Kind: KindHeader, Text: text, Mirror: mirror}
}

func Subheader(text, mirror string) Block {
	return Block{Kind: KindSubheader, Text: text, Mirror: mirror}
}

func Paragraph(text string) Block { return Block{Kind: KindParagraph, Text: text} }

func Divider() Block { return Block{Kind: KindDivider} }

func Figure(img Image) Block { return Block{Kind: KindFigure, Left: img} }

// MirrorHeading formats a header for the sidebar as a level-3 markdown
// heading. Surrounding whitespace of the header is dropped.
func MirrorHeading(header string) string {
	return "### " + strings.TrimSpace(header)
}
