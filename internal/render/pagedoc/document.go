// Package pagedoc is the paginated-document render target. A Document is a
// declarative element list laid out on fixed A4 pages with vector/text
// primitives only; content that overflows flows onto additional pages.
//
// Builders are factories: every call constructs a fresh Document and Render
// constructs a fresh underlying PDF writer, so an instance is never shared
// between a preview target and a serialization target.
package pagedoc

// ElementType discriminates the element union.
type ElementType string

const (
	ElHeading  ElementType = "heading"  // section heading
	ElTitle    ElementType = "title"    // document header line (name)
	ElSubtitle ElementType = "subtitle" // job title / contact line
	ElText     ElementType = "text"     // body text, line breaks preserved
	ElSplit    ElementType = "split"    // left/right row (what vs when)
	ElBullet   ElementType = "bullet"   // bulleted line
	ElBar      ElementType = "bar"      // proportional skill bar
	ElRule     ElementType = "rule"     // horizontal rule
	ElSpacer   ElementType = "spacer"   // vertical gap
)

// Color is an RGB color.
type Color struct {
	R, G, B int
}

// Element is one visual element. Which fields apply depends on Type.
type Element struct {
	Type   ElementType
	Text   string
	Right  string  // split: right-aligned column
	Sub    string  // split: secondary line under the row
	Bold   bool
	Italic bool
	Muted  bool    // render in the muted text color
	Fill   float64 // bar: proportion 0..1
	Height float64 // spacer: millimeters
	Link   string  // optional hyperlink target for Text
}

// Style is the per-template-family appearance.
type Style struct {
	FontFamily string // Helvetica or Times
	Accent     Color
	Muted      Color
}

// Document is a complete paginated document ready for serialization.
type Document struct {
	Title    string
	Author   string
	Style    Style
	Elements []Element
}
