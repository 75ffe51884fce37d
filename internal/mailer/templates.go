package mailer

import (
	"fmt"
	"strings"

	g "github.com/maragudk/gomponents"
	h "github.com/maragudk/gomponents/html"
)

// Field: строка таблицы «название: значение» в письме.
type Field struct {
	Label string
	Value string
}

// Link: кнопка в письме.
type Link struct {
	Text string
	URL  string
}

// Content описывает письмо независимо от формата.
type Content struct {
	Title      string
	Paragraphs []string
	Fields     []Field
	Action     *Link
	Footer     string
}

const brandColor = "#4f46e5"

func (c Content) Node() g.Node {
	body := []g.Node{
		h.H2(h.Style("color:"+brandColor+";margin-top:0;"), g.Text(c.Title)),
	}
	for _, p := range c.Paragraphs {
		body = append(body, h.P(h.Style("font-size:15px;color:#222;line-height:1.5;"), g.Text(p)))
	}
	if len(c.Fields) > 0 {
		rows := make([]g.Node, 0, len(c.Fields))
		for _, f := range c.Fields {
			rows = append(rows, h.Tr(
				h.Td(h.Style("padding:4px 12px 4px 0;color:#666;vertical-align:top;white-space:nowrap;"), h.Strong(g.Text(f.Label))),
				h.Td(h.Style("padding:4px 0;color:#222;white-space:pre-wrap;"), g.Text(f.Value)),
			))
		}
		body = append(body, h.Table(h.Style("border-collapse:collapse;margin:16px 0;font-size:14px;"), g.Group(rows)))
	}
	if c.Action != nil {
		body = append(body, h.P(
			h.A(h.Href(c.Action.URL),
				h.Style("display:inline-block;padding:12px 24px;background:"+brandColor+";color:#fff;text-decoration:none;border-radius:6px;font-weight:600;"),
				g.Text(c.Action.Text),
			),
		))
	}
	footer := c.Footer
	if footer == "" {
		footer = "This email was sent automatically by Appnity. Please do not reply."
	}
	body = append(body,
		h.Hr(h.Style("border:none;border-top:1px solid #eee;margin:32px 0 12px 0;")),
		h.P(h.Style("font-size:12px;color:#999;margin:0;"), g.Text(footer)),
	)

	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.TitleEl(g.Text(c.Title)),
			),
			h.Body(h.Style("font-family:Arial,sans-serif;background:#f7f7f7;margin:0;padding:32px 0;"),
				h.Div(h.Style("max-width:560px;margin:0 auto;background:#fff;border-radius:10px;padding:24px;"),
					g.Group(body),
				),
			),
		),
	)
}

func (c Content) HTML() (string, error) {
	var b strings.Builder
	if err := c.Node().Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Text: текстовая альтернатива для клиентов без HTML.
func (c Content) Text() string {
	var b strings.Builder
	b.WriteString(c.Title + "\n\n")
	for _, p := range c.Paragraphs {
		b.WriteString(p + "\n\n")
	}
	for _, f := range c.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}
	if len(c.Fields) > 0 {
		b.WriteString("\n")
	}
	if c.Action != nil {
		fmt.Fprintf(&b, "%s: %s\n\n", c.Action.Text, c.Action.URL)
	}
	if c.Footer != "" {
		b.WriteString(c.Footer + "\n")
	}
	return b.String()
}

// Build собирает Message из Content.
func Build(kind, subject string, to []string, c Content) (Message, error) {
	html, err := c.HTML()
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, HTML: html, Text: c.Text(), Kind: kind}, nil
}
