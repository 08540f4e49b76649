package staticengine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type element struct {
	page *page
	sel  *goquery.Selection
}

func (e *element) tag() string {
	return strings.ToLower(goquery.NodeName(e.sel))
}

func (e *element) InnerText(ctx context.Context) (string, error) {
	if err := e.page.check(); err != nil {
		return "", err
	}
	return innerText(e.sel.Get(0)), nil
}

// Click follows the nearest enclosing link or submits the owning form.
// Anything else has no effect without a script engine.
func (e *element) Click(ctx context.Context) error {
	if err := e.page.check(); err != nil {
		return err
	}

	if link := e.sel.Closest("a[href]"); link.Length() > 0 {
		target := e.page.resolve(link.AttrOr("href", ""))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("invalid link %q: %w", target, err)
		}
		return e.page.load(req)
	}

	if e.submits() {
		if form := e.sel.Closest("form"); form.Length() > 0 {
			return e.page.submit(ctx, form, e.sel)
		}
	}
	return nil
}

func (e *element) submits() bool {
	switch e.tag() {
	case "button":
		t := strings.ToLower(e.sel.AttrOr("type", "submit"))
		return t == "submit"
	case "input":
		t := strings.ToLower(e.sel.AttrOr("type", "text"))
		return t == "submit" || t == "image"
	}
	return false
}

// Fill replaces the element's value. The change is reflected in Content.
func (e *element) Fill(ctx context.Context, text string) error {
	if err := e.page.check(); err != nil {
		return err
	}

	switch e.tag() {
	case "input":
		switch strings.ToLower(e.sel.AttrOr("type", "text")) {
		case "checkbox", "radio", "file", "submit", "button", "image", "reset", "hidden":
			return fmt.Errorf("input of type %q cannot be filled", e.sel.AttrOr("type", ""))
		}
		e.sel.SetAttr("value", text)
		return nil
	case "textarea":
		e.sel.SetText(text)
		return nil
	}
	if _, ok := e.sel.Attr("contenteditable"); ok {
		e.sel.SetText(text)
		return nil
	}
	return fmt.Errorf("element is not an <input>, <textarea> or [contenteditable] element")
}

func (e *element) Screenshot(ctx context.Context) ([]byte, error) {
	if err := e.page.check(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("element screenshot: %w", ErrUnsupported)
}

// submit sends form the way a browser would for a click on submitter.
func (p *page) submit(ctx context.Context, form, submitter *goquery.Selection) error {
	action := p.resolve(form.AttrOr("action", ""))
	target, err := url.Parse(action)
	if err != nil {
		return fmt.Errorf("invalid form action %q: %w", action, err)
	}

	values := formValues(form)
	if name, ok := submitter.Attr("name"); ok && name != "" {
		values.Add(name, submitter.AttrOr("value", ""))
	}

	var req *http.Request
	if strings.EqualFold(form.AttrOr("method", "get"), http.MethodPost) {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(values.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		target.RawQuery = values.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return err
		}
	}
	return p.load(req)
}

// formValues collects the successful controls of form.
func formValues(form *goquery.Selection) url.Values {
	values := url.Values{}
	form.Find("input[name], textarea[name], select[name]").Each(func(_ int, s *goquery.Selection) {
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		name := s.AttrOr("name", "")

		switch strings.ToLower(goquery.NodeName(s)) {
		case "textarea":
			values.Add(name, s.Text())
		case "select":
			opt := s.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = s.Find("option").First()
			}
			if opt.Length() > 0 {
				values.Add(name, opt.AttrOr("value", strings.TrimSpace(opt.Text())))
			}
		default:
			switch strings.ToLower(s.AttrOr("type", "text")) {
			case "submit", "image", "button", "reset", "file":
				return
			case "checkbox", "radio":
				if _, checked := s.Attr("checked"); !checked {
					return
				}
				values.Add(name, s.AttrOr("value", "on"))
			default:
				values.Add(name, s.AttrOr("value", ""))
			}
		}
	})
	return values
}
