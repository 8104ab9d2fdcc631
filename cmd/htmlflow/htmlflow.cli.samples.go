package main

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"github.com/itsatony/go-htmlflow"
	"gopkg.in/yaml.v3"
)

// Track is the model of the track view.
type Track struct {
	Title  string `yaml:"title" json:"title"`
	Artist string `yaml:"artist" json:"artist"`
	Year   int    `yaml:"year" json:"year"`
}

// Playlist is the model of the playlist and feed views.
type Playlist struct {
	Name   string  `yaml:"name" json:"name"`
	Tracks []Track `yaml:"tracks" json:"tracks"`
}

// Link is one anchor of the links view.
type Link struct {
	Href string `yaml:"href" json:"href"`
	Text string `yaml:"text" json:"text"`
}

// Links is the model of the links view.
type Links struct {
	Links []Link `yaml:"links" json:"links"`
}

// sample is a built-in view with an example model.
type sample struct {
	name        string
	description string
	view        htmlflow.Renderer
	example     any
	decode      func(data []byte) (any, error)
}

// modelFunc reads the model from the model query parameter, falling back to
// the example model.
func (s *sample) modelFunc() htmlflow.ModelFunc {
	return func(r *http.Request) (any, error) {
		raw := r.URL.Query().Get(QueryParamModel)
		if raw == "" {
			return s.example, nil
		}
		return s.decode([]byte(raw))
	}
}

// catalog registers the sample views in an engine.
type catalog struct {
	engine  *htmlflow.Engine
	samples []*sample
}

func newCatalog(engine *htmlflow.Engine, opts ...htmlflow.Option) (*catalog, error) {
	builders := []func(opts []htmlflow.Option) (*sample, error){
		trackSample,
		playlistSample,
		linksSample,
		feedSample,
	}
	c := &catalog{engine: engine}
	for _, build := range builders {
		s, err := build(opts)
		if err != nil {
			return nil, err
		}
		if err := engine.Register(s.view); err != nil {
			return nil, err
		}
		c.samples = append(c.samples, s)
	}
	return c, nil
}

func (c *catalog) get(name string) (*sample, bool) {
	for _, s := range c.samples {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// viewOptions appends the view name to the shared options. Every sample is
// thread safe so the server can share it.
func viewOptions(opts []htmlflow.Option, name string) []htmlflow.Option {
	return slices.Concat(opts, []htmlflow.Option{htmlflow.WithName(name), htmlflow.WithThreadSafe()})
}

func decoder[T any]() func(data []byte) (any, error) {
	return func(data []byte) (any, error) {
		var model T
		if err := yaml.Unmarshal(data, &model); err != nil {
			return nil, err
		}
		return model, nil
	}
}

var exampleTracks = []Track{
	{Title: "So What", Artist: "Miles Davis", Year: 1959},
	{Title: "Naima", Artist: "John Coltrane", Year: 1960},
	{Title: "Take Five", Artist: "The Dave Brubeck Quartet", Year: 1959},
}

func trackSample(opts []htmlflow.Option) (*sample, error) {
	v, err := htmlflow.New(func(p *htmlflow.Page[Track]) {
		p.Html().
			Head().Title().Text("Track").End().End().
			Body().
			Div().AttrClass("track").
			H2().Dynamic(func(e *htmlflow.Element[Track], t Track) {
				e.Text(t.Title)
			}).End().
			P().AttrClass("artist").Dynamic(func(e *htmlflow.Element[Track], t Track) {
				e.Text(t.Artist)
			}).End().
			P().AttrClass("year").Dynamic(func(e *htmlflow.Element[Track], t Track) {
				e.Text(strconv.Itoa(t.Year))
			})
	}, viewOptions(opts, SampleTrack)...)
	if err != nil {
		return nil, err
	}
	return &sample{
		name:        SampleTrack,
		description: "a single track",
		view:        v,
		example:     exampleTracks[0],
		decode:      decoder[Track](),
	}, nil
}

func playlistSample(opts []htmlflow.Option) (*sample, error) {
	v, err := htmlflow.New(func(p *htmlflow.Page[Playlist]) {
		p.Html().
			Body().
			H1().Dynamic(func(e *htmlflow.Element[Playlist], pl Playlist) {
				e.Text(pl.Name)
			}).End().
			Table().
			Thead().Tr().
			Th().Text("Title").End().
			Th().Text("Artist").End().
			Th().Text("Year").End().
			End().End().
			Tbody().Dynamic(func(e *htmlflow.Element[Playlist], pl Playlist) {
				for _, t := range pl.Tracks {
					e.Tr().
						Td().Text(t.Title).End().
						Td().Text(t.Artist).End().
						Td().Text(strconv.Itoa(t.Year)).End().
						End()
				}
			})
	}, viewOptions(opts, SamplePlaylist)...)
	if err != nil {
		return nil, err
	}
	return &sample{
		name:        SamplePlaylist,
		description: "a table of tracks",
		view:        v,
		example:     Playlist{Name: "Jazz Classics", Tracks: exampleTracks},
		decode:      decoder[Playlist](),
	}, nil
}

func linksSample(opts []htmlflow.Option) (*sample, error) {
	v, err := htmlflow.New(func(p *htmlflow.Page[Links]) {
		p.Div().Span().Dynamic(func(e *htmlflow.Element[Links], ls Links) {
			for _, l := range ls.Links {
				e.A().AttrHref(l.Href).Text(l.Text).End()
			}
		})
	}, viewOptions(opts, SampleLinks)...)
	if err != nil {
		return nil, err
	}
	return &sample{
		name:        SampleLinks,
		description: "a list of anchors",
		view:        v,
		example:     Links{Links: []Link{{Href: "link", Text: "text"}, {Href: "link2", Text: "text2"}}},
		decode:      decoder[Links](),
	}, nil
}

func feedSample(opts []htmlflow.Option) (*sample, error) {
	v, err := htmlflow.NewAsync(func(p *htmlflow.Page[Playlist]) {
		p.Html().
			Body().
			H1().Dynamic(func(e *htmlflow.Element[Playlist], pl Playlist) {
				e.Text(pl.Name)
			}).End().
			Ul().Await(func(ctx context.Context, e *htmlflow.Element[Playlist], pl Playlist) <-chan error {
				return htmlflow.Go(func() error {
					for _, t := range pl.Tracks {
						if err := ctx.Err(); err != nil {
							return err
						}
						e.Li().Text(t.Title + " - " + t.Artist).End()
					}
					return nil
				})
			}).End().
			Footer().Dynamic(func(e *htmlflow.Element[Playlist], pl Playlist) {
				e.Text(strconv.Itoa(len(pl.Tracks)) + " tracks")
			})
	}, viewOptions(opts, SampleFeed)...)
	if err != nil {
		return nil, err
	}
	return &sample{
		name:        SampleFeed,
		description: "a playlist whose tracks load asynchronously",
		view:        v,
		example:     Playlist{Name: "Jazz Classics", Tracks: exampleTracks},
		decode:      decoder[Playlist](),
	}, nil
}

// newIndexView lists the registered views with links to them.
func newIndexView(opts ...htmlflow.Option) (*htmlflow.View[[]string], error) {
	return htmlflow.New(func(p *htmlflow.Page[[]string]) {
		p.Html().
			Head().Title().Text(CLIName).End().End().
			Body().
			H1().Text(CLIName).End().
			Ul().Dynamic(func(e *htmlflow.Element[[]string], names []string) {
				for _, name := range names {
					e.Li().A().AttrHref(RouteViewPrefix + name).Text(name).End().End()
				}
			})
	}, viewOptions(opts, SampleIndex)...)
}
