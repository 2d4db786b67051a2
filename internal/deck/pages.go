package deck

import "slices"

// Page is an ordered, immutable sequence of blocks.
type Page struct {
	slug   string
	title  string
	blocks []Block
}

// NewPage builds a page from blocks. The slice is copied.
func NewPage(slug, title string, blocks ...Block) Page {
	return Page{slug: slug, title: title, blocks: slices.Clone(blocks)}
}

func (p Page) Slug() string  { return p.slug }
func (p Page) Title() string { return p.title }
func (p Page) Len() int      { return len(p.blocks) }

// Blocks returns a copy of the page's blocks in declaration order.
func (p Page) Blocks() []Block { return slices.Clone(p.blocks) }

// Images returns every image the page references, in render order.
func (p Page) Images() []Image {
	var out []Image
	for _, b := range p.blocks {
		out = append(out, b.Images()...)
	}
	return out
}

// ── Content ──────────────────────────────────────────────────────────────────

const (
	DeckTitle = "How to Build a RAG System"

	// sidebarStyle turns the sidebar background white. Trusted constant.
	sidebarStyle = `<style>
.sidebar {
    background-color: #FFFFFF;
}
</style>`

	ragRationale = `RAG(Retrieval-Augmented Generation)는 LLM이 응답을 생성하기 전에 신뢰할 수 있는 외부 지식 베이스를 참조하도록 하여,
최신 정보 및 사용자가 원하는 도메인 정보를 반영하여 답변합니다. 아울러 참조할 수 있는 문서를 명확하게 지정해 주어
답변의 부정확성이나 환각(hallucination)을 줄일 수 있습니다.`

	projectMotivation = `우리 프로그램을 효과적으로 사용하기 위해서 챗봇의 필요성을 느끼고 있었는데
rag 시스템을 이용하면 좋은 결과가 나올 것 같다는 생각에 이 프로젝트를 시작했습니다.`
)

// Asset file names, relative to the configured asset base dir.
const (
	ImageModels    = "메타라마.jpg"
	ImageChatGPT   = "챗지피티.jpg"
	ImageLangChain = "랭체인시스템.jpg"
)

func cover() Page {
	return NewPage("cover", DeckTitle,
		Title(DeckTitle),
		Style(sidebarStyle),
		ImagePair(
			Image{Path: ImageModels, Caption: "여러가지 LLM 모델", FitColumn: true},
			Image{Path: ImageChatGPT, FitColumn: true},
		),
	)
}

func overview() Page {
	return NewPage("overview", "프로젝트 개요",
		Header("|프로젝트 개요", " 프로젝트 개요"),
		Paragraph(ragRationale),
		Paragraph(projectMotivation),
		Divider(),
	)
}

func howTo() Page {
	return NewPage("howto", "만드는 방법",
		Subheader("|만드는 방법", "만드는 방법"),
		Figure(Image{Path: ImageLangChain, Caption: "RAG system 흐름도.", FitColumn: true}),
		Divider(),
	)
}

// RAG is the full presentation: the cover, overview and how-to modules in
// that order.
func RAG() Page {
	var blocks []Block
	for _, p := range []Page{cover(), overview(), howTo()} {
		blocks = append(blocks, p.blocks...)
	}
	return NewPage("rag", DeckTitle, blocks...)
}

// DefaultSlug names the page served at the site root.
const DefaultSlug = "rag"

// Pages returns every page: the full deck first, then its modules.
func Pages() []Page {
	return []Page{RAG(), cover(), overview(), howTo()}
}

// Lookup finds a page by slug.
func Lookup(slug string) (Page, bool) {
	for _, p := range Pages() {
		if p.slug == slug {
			return p, true
		}
	}
	return Page{}, false
}
