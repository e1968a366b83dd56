package messages

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// listJoiner separates the elements of a multi-valued variable.
const listJoiner = " / "

// Vars maps placeholder keys to values. A value is either a string, a
// []string, or anything fmt can print.
type Vars map[string]any

// Merge returns a copy of v with other's entries laid over it.
func (v Vars) Merge(other Vars) Vars {
	out := make(Vars, len(v)+len(other))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range other {
		out[k] = val
	}
	return out
}

// Message is a rendered, ready-to-send notification.
type Message struct {
	Locale Locale
	Body   string
	Images []string
}

// WithImages returns a copy of m carrying the given image URLs. Empty URLs are dropped.
func (m Message) WithImages(urls ...string) Message {
	images := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			images = append(images, u)
		}
	}
	m.Images = images
	return m
}

// Renderer renders templates from a Store.
type Renderer struct {
	store Store
}

// NewRenderer creates a Renderer over store.
func NewRenderer(store Store) *Renderer {
	return &Renderer{store: store}
}

// Render loads the named template and substitutes vars into it.
func (r *Renderer) Render(name string, vars Vars) (Message, error) {
	tmpl, err := r.store.Load(name)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Locale: tmpl.Locale,
		Body:   ReplacePlaceholders(tmpl.Body, vars),
	}, nil
}

// RenderText is Render without the locale.
func (r *Renderer) RenderText(name string, vars Vars) (string, error) {
	msg, err := r.Render(name, vars)
	if err != nil {
		return "", err
	}
	return msg.Body, nil
}

// ReplacePlaceholders replaces every literal [key] in text with the
// stringified value of vars[key]. Keys are applied in sorted order so the
// result does not depend on map iteration. Placeholders without a variable
// stay in the text.
func ReplacePlaceholders(text string, vars Vars) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		text = strings.ReplaceAll(text, "["+k+"]", Stringify(vars[k]))
	}
	return text
}

// Stringify flattens a variable value: lists of more than one element are
// joined with " / ", a single-element list yields its element, and an empty
// list yields the empty string.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		switch len(v) {
		case 0:
			return ""
		case 1:
			return v[0]
		default:
			return strings.Join(v, listJoiner)
		}
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// FormatList renders items as a display block. Every item but the last is
// followed by a newline, a row of dashes as long as the item, and another
// newline. The last item carries nothing after it.
func FormatList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		b.WriteString(item)
		if i == len(items)-1 {
			break
		}
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("-", utf8.RuneCountInString(item)))
		b.WriteByte('\n')
	}
	return b.String()
}
