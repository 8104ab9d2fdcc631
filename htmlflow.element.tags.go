// This file holds the element and attribute shorthands of the fluent API.
package htmlflow

import "strconv"

func (e *Element[T]) Head() *Element[T] {
	return e.Elem("head")
}
func (e *Element[T]) Title() *Element[T] {
	return e.Elem("title")
}
func (e *Element[T]) Meta() *Element[T] {
	return e.Elem("meta")
}
func (e *Element[T]) Link() *Element[T] {
	return e.Elem("link")
}
func (e *Element[T]) Script() *Element[T] {
	return e.Elem("script")
}
func (e *Element[T]) Style() *Element[T] {
	return e.Elem("style")
}
func (e *Element[T]) Body() *Element[T] {
	return e.Elem("body")
}
func (e *Element[T]) Header() *Element[T] {
	return e.Elem("header")
}
func (e *Element[T]) Footer() *Element[T] {
	return e.Elem("footer")
}
func (e *Element[T]) Main() *Element[T] {
	return e.Elem("main")
}
func (e *Element[T]) Nav() *Element[T] {
	return e.Elem("nav")
}
func (e *Element[T]) Section() *Element[T] {
	return e.Elem("section")
}
func (e *Element[T]) Article() *Element[T] {
	return e.Elem("article")
}
func (e *Element[T]) Aside() *Element[T] {
	return e.Elem("aside")
}
func (e *Element[T]) Div() *Element[T] {
	return e.Elem("div")
}
func (e *Element[T]) Span() *Element[T] {
	return e.Elem("span")
}
func (e *Element[T]) P() *Element[T] {
	return e.Elem("p")
}
func (e *Element[T]) A() *Element[T] {
	return e.Elem("a")
}
func (e *Element[T]) Strong() *Element[T] {
	return e.Elem("strong")
}
func (e *Element[T]) Em() *Element[T] {
	return e.Elem("em")
}
func (e *Element[T]) Code() *Element[T] {
	return e.Elem("code")
}
func (e *Element[T]) Pre() *Element[T] {
	return e.Elem("pre")
}
func (e *Element[T]) H1() *Element[T] {
	return e.Elem("h1")
}
func (e *Element[T]) H2() *Element[T] {
	return e.Elem("h2")
}
func (e *Element[T]) H3() *Element[T] {
	return e.Elem("h3")
}
func (e *Element[T]) H4() *Element[T] {
	return e.Elem("h4")
}
func (e *Element[T]) Ul() *Element[T] {
	return e.Elem("ul")
}
func (e *Element[T]) Ol() *Element[T] {
	return e.Elem("ol")
}
func (e *Element[T]) Li() *Element[T] {
	return e.Elem("li")
}
func (e *Element[T]) Table() *Element[T] {
	return e.Elem("table")
}
func (e *Element[T]) Thead() *Element[T] {
	return e.Elem("thead")
}
func (e *Element[T]) Tbody() *Element[T] {
	return e.Elem("tbody")
}
func (e *Element[T]) Tr() *Element[T] {
	return e.Elem("tr")
}
func (e *Element[T]) Th() *Element[T] {
	return e.Elem("th")
}
func (e *Element[T]) Td() *Element[T] {
	return e.Elem("td")
}
func (e *Element[T]) Form() *Element[T] {
	return e.Elem("form")
}
func (e *Element[T]) Label() *Element[T] {
	return e.Elem("label")
}
func (e *Element[T]) Input() *Element[T] {
	return e.Elem("input")
}
func (e *Element[T]) Textarea() *Element[T] {
	return e.Elem("textarea")
}
func (e *Element[T]) Select() *Element[T] {
	return e.Elem("select")
}
func (e *Element[T]) Option() *Element[T] {
	return e.Elem("option")
}
func (e *Element[T]) Button() *Element[T] {
	return e.Elem("button")
}
func (e *Element[T]) Img() *Element[T] {
	return e.Elem("img")
}
func (e *Element[T]) Br() *Element[T] {
	return e.Elem("br")
}
func (e *Element[T]) Hr() *Element[T] {
	return e.Elem("hr")
}

func (e *Element[T]) AttrID(value string) *Element[T] {
	return e.Attr("id", value)
}
func (e *Element[T]) AttrClass(value string) *Element[T] {
	return e.Attr("class", value)
}
func (e *Element[T]) AttrHref(value string) *Element[T] {
	return e.Attr("href", value)
}
func (e *Element[T]) AttrSrc(value string) *Element[T] {
	return e.Attr("src", value)
}
func (e *Element[T]) AttrAlt(value string) *Element[T] {
	return e.Attr("alt", value)
}
func (e *Element[T]) AttrName(value string) *Element[T] {
	return e.Attr("name", value)
}
func (e *Element[T]) AttrType(value string) *Element[T] {
	return e.Attr("type", value)
}
func (e *Element[T]) AttrValue(value string) *Element[T] {
	return e.Attr("value", value)
}
func (e *Element[T]) AttrStyle(value string) *Element[T] {
	return e.Attr("style", value)
}
func (e *Element[T]) AttrRel(value string) *Element[T] {
	return e.Attr("rel", value)
}
func (e *Element[T]) AttrLang(value string) *Element[T] {
	return e.Attr("lang", value)
}
func (e *Element[T]) AttrCharset(value string) *Element[T] {
	return e.Attr("charset", value)
}
func (e *Element[T]) AttrMethod(value string) *Element[T] {
	return e.Attr("method", value)
}
func (e *Element[T]) AttrAction(value string) *Element[T] {
	return e.Attr("action", value)
}
func (e *Element[T]) AttrFor(value string) *Element[T] {
	return e.Attr("for", value)
}
func (e *Element[T]) AttrTitle(value string) *Element[T] {
	return e.Attr("title", value)
}
func (e *Element[T]) AttrRows(rows int) *Element[T] {
	return e.Attr("rows", strconv.Itoa(rows))
}
func (e *Element[T]) AttrCols(cols int) *Element[T] {
	return e.Attr("cols", strconv.Itoa(cols))
}

// AttrData adds a data-* attribute.
func (e *Element[T]) AttrData(key, value string) *Element[T] {
	return e.Attr("data-"+key, value)
}
