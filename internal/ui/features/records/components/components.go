// Package components renders the records UI as templ components.
package components

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/recordkeep/internal/ui/resources"
	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// Element ids targeted by SSE patches.
const (
	AppID     = "records-app"
	MessageID = "message"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// StoreView is one store's list as shown on the page.
type StoreView struct {
	Key     string
	Status  string
	Records core.RecordList
	Active  bool
}

// View is everything the page needs to render. It is built per request.
type View struct {
	Title  string
	Active string
	Stores []StoreView
	IsDev  bool
}

// MessageKind selects the style of a status message.
type MessageKind string

// Message kinds.
const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Page renders the full HTML document.
func Page(v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		hw.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		hw.raw("<title>")
		hw.text(v.Title + " - recordkeep")
		hw.raw("</title>")
		hw.raw(`<link rel="stylesheet" href="` + resources.StaticPath(resources.Stylesheet) + `">`)
		hw.raw(`<script type="module" src="` + datastarScript + `"></script>`)
		hw.raw("</head>\n<body")
		hw.attr("data-signals", `{"name":"","email":"","editId":"","editName":"","editEmail":""}`)
		hw.raw(">")
		if v.IsDev {
			hw.raw(`<div data-init="@get('/reload', {retryMaxCount: 1000})"></div>`)
		}
		hw.raw("<header><h1>recordkeep</h1></header>\n<main")
		hw.attr("data-init", "@get('/records/updates')")
		hw.raw(">")

		hw.raw("<div class=\"forms\">")
		createForm(hw)
		editForm(hw)
		hw.raw("</div>")

		if hw.err != nil {
			return hw.err
		}
		if err := App(v).Render(ctx, w); err != nil {
			return err
		}
		hw.raw("</main>\n</body></html>\n")
		return hw.err
	})
}

// App renders both store lists. It is the SSE patch target.
func App(v View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div id="` + AppID + `"><section><h2>Records</h2><div class="stores">`)
		for _, s := range v.Stores {
			storeList(hw, s)
		}
		hw.raw("</div></section></div>")
		return hw.err
	})
}

// Message renders the status line shown after a mutation.
func Message(kind MessageKind, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div id="` + MessageID + `" class="message ` + string(kind) + `">`)
		hw.text(text)
		hw.raw("</div>")
		return hw.err
	})
}

func createForm(hw *htmlWriter) {
	hw.raw("<section><h2>Create record</h2><form")
	hw.attr("data-on:submit", "evt.preventDefault(); @post('/records')")
	hw.raw(">")
	hw.raw(`<input id="name" placeholder="Name" data-bind:name>`)
	hw.raw(`<input id="email" type="email" placeholder="Email" data-bind:email>`)
	hw.raw(`<button class="primary" type="submit">Create</button>`)
	hw.raw("</form>")
	hw.raw(`<div id="` + MessageID + `" class="message"></div>`)
	hw.raw("</section>")
}

func editForm(hw *htmlWriter) {
	hw.raw("<section")
	hw.attr("data-show", "$editId != ''")
	hw.raw("><h2>Update record <small data-text=\"$editId\"></small></h2><form")
	hw.attr("data-on:submit", "evt.preventDefault(); @put('/records/' + encodeURIComponent($editId))")
	hw.raw(">")
	hw.raw(`<input placeholder="Name" data-bind:edit-name>`)
	hw.raw(`<input type="email" placeholder="Email" data-bind:edit-email>`)
	hw.raw(`<button class="primary" type="submit">Update</button>`)
	hw.raw("<button type=\"button\"")
	hw.attr("data-on:click", "$editId = ''")
	hw.raw(">Cancel</button></form></section>")
}

func storeList(hw *htmlWriter, s StoreView) {
	class := "store"
	if s.Active {
		class += " active"
	}
	hw.raw(`<div class="` + class + `" id="store-`)
	hw.text(s.Key)
	hw.raw(`"><h3>`)
	hw.text(s.Key)
	hw.raw(" <small>")
	hw.text(strconv.Itoa(len(s.Records)) + " records")
	hw.raw("</small>")
	if s.Status != "ok" && s.Status != "missing" {
		hw.raw(`<span class="status `)
		hw.text(s.Status)
		hw.raw(`">`)
		hw.text(s.Status)
		hw.raw("</span>")
	}
	if !s.Active {
		hw.raw("<button type=\"button\"")
		hw.attr("data-on:click", "@post("+jsString("/records/view/"+url.PathEscape(s.Key))+")")
		hw.raw(">Edit from this list</button>")
	}
	hw.raw("</h3>")

	if len(s.Records) == 0 {
		hw.raw(`<p class="empty">No records.</p></div>`)
		return
	}

	hw.raw(`<ul class="records">`)
	for _, r := range s.Records {
		recordItem(hw, r, s.Active)
	}
	hw.raw("</ul></div>")
}

func recordItem(hw *htmlWriter, r core.Record, editable bool) {
	path := "/records/" + url.PathEscape(r.ID)
	hw.raw(`<li><span class="id">`)
	hw.text(r.ID)
	hw.raw(`</span><span class="who">`)
	hw.text(r.Name + " (" + r.Email + ")")
	hw.raw("</span>")
	if editable {
		hw.raw("<button type=\"button\"")
		hw.attr("data-on:click", "@get("+jsString(path+"/edit")+")")
		hw.raw(">Edit</button>")
		hw.raw("<button type=\"button\" class=\"danger\"")
		hw.attr("data-on:click",
			"confirm("+jsString("Are you sure you want to delete record "+r.ID+"?")+") && @delete("+jsString(path)+")")
		hw.raw(">Delete</button>")
	}
	hw.raw("</li>")
}

// htmlWriter stops writing after the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + `="`)
	hw.text(value)
	hw.raw(`"`)
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
