package htmlflow

import (
	"errors"
	"strconv"
	"testing"

	"github.com/itsatony/go-htmlflow/internal"
	"github.com/stretchr/testify/require"
)

// Test fixtures shared by the view tests

type testLink struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

type testLinks struct {
	Links []testLink `json:"links"`
}

var scenarioLinks = testLinks{Links: []testLink{
	{Href: "link", Text: "text"},
	{Href: "link2", Text: "text2"},
}}

const (
	scenarioIndented = "<div>\n\t<span>\n\t\t<a href=\"link\">\n\t\t\ttext\n\t\t</a>\n\t\t<a href=\"link2\">\n\t\t\ttext2\n\t\t</a>\n\t</span>\n</div>"
	scenarioCompact  = `<div><span><a href="link">text</a><a href="link2">text2</a></span></div>`
)

func linksTemplate(p *Page[testLinks]) {
	p.Div().Span().Dynamic(func(e *Element[testLinks], m testLinks) {
		for _, l := range m.Links {
			e.A().AttrHref(l.Href).Text(l.Text).End()
		}
	})
}

type testTrack struct {
	Title  string
	Artist string
	Year   int
}

// trackTemplate mixes static markup, attributes and several dynamic blocks
// at different depths.
func trackTemplate(p *Page[testTrack]) {
	p.Html().
		Head().Title().Text("Track").End().End().
		Body().
		Div().AttrClass("track").
		H2().Dynamic(func(e *Element[testTrack], t testTrack) {
			e.Text(t.Title)
		}).End().
		P().Text("by").Dynamic(func(e *Element[testTrack], t testTrack) {
			e.Strong().Text(t.Artist).End()
		}).End().
		Dynamic(func(e *Element[testTrack], t testTrack) {
			if t.Year > 0 {
				e.Span().AttrClass("year").Text(strconv.Itoa(t.Year)).End()
			}
		}).
		Footer().Text("end")
}

func testTrackModel(i int) testTrack {
	return testTrack{
		Title:  "Title " + strconv.Itoa(i),
		Artist: "Artist <" + strconv.Itoa(i) + ">",
		Year:   1950 + i,
	}
}

// markupMessage returns the message of the markup error inside err.
func markupMessage(t *testing.T, err error) string {
	t.Helper()
	var me *internal.MarkupError
	require.True(t, errors.As(err, &me), "not a markup error: %v", err)
	return me.Message
}

// stepCause returns the text of the step failure inside err.
func stepCause(t *testing.T, err error) string {
	t.Helper()
	var se *stepError
	require.True(t, errors.As(err, &se), "not a step error: %v", err)
	return se.Error()
}
