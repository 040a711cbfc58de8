package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/flowpaint/dsl"
)

const sampleDSL = `
doc Badge v1 {
  meta {
    title: "Name badge"
    keywords: [
      "event"
      "badge"
    ]
  }

  resources {
    image logo {
      src: "logo.png"
    }
    style Title { size: 3 align: center }
  }

  // 296x128 e-ink panel
  display 296 128 {
    column padding 2 outline true {
      text Title { "Hello, ${user.name}!" }
      spacer 4
      row wrap false {
        image logo width 16 height 16
        text size 1 { "left" }
      }
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Badge" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,resources,display" {
		t.Fatalf("unexpected section kinds: %v", kinds)
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || string(*title.Value.String) != "Name badge" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	style := doc.Sections[1].Resources.Block.Statements[1].Command
	if style == nil || style.Name != "style" || style.Block == nil || len(style.Block.Statements) != 2 {
		t.Fatalf("unexpected style resource: %+v", style)
	}
	align := style.Block.Statements[1].Assignment
	if align == nil || align.Value.Ident == nil || *align.Value.Ident != "center" {
		t.Fatalf("expected align ident, got %+v", align)
	}

	display := doc.Display()
	if display == nil {
		t.Fatalf("display section missing")
	}
	if len(display.Params) != 2 || display.Params[0].Text != "296" || display.Params[1].Text != "128" {
		t.Fatalf("unexpected display params: %+v", display.Params)
	}

	root := display.Block.Statements[0].Command
	if root == nil || root.Name != "column" {
		t.Fatalf("expected column root, got %+v", display.Block.Statements[0])
	}
	if got := argTexts(root.Args); got != "padding 2 outline true" {
		t.Fatalf("unexpected column args: %s", got)
	}
	if len(root.Block.Statements) != 3 {
		t.Fatalf("expected 3 children, got %d", len(root.Block.Statements))
	}

	text := root.Block.Statements[0].Command
	if text.Name != "text" || text.Block == nil || text.Block.Statements[0].Text == nil {
		t.Fatalf("text command missing literal content: %+v", text)
	}
	if got := string(text.Block.Statements[0].Text.Value); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	spacer := root.Block.Statements[1].Command
	if spacer.Name != "spacer" || argTexts(spacer.Args) != "4" || spacer.Block != nil {
		t.Fatalf("unexpected spacer: %+v", spacer)
	}

	row := root.Block.Statements[2].Command
	if row.Name != "row" || len(row.Block.Statements) != 2 {
		t.Fatalf("unexpected row: %+v", row)
	}
	img := row.Block.Statements[0].Command
	if got := argTexts(img.Args); got != "logo width 16 height 16" {
		t.Fatalf("unexpected image args: %s", got)
	}
	if img.Args[1].Kind != "Ident" || img.Args[2].Kind != "Number" {
		t.Fatalf("unexpected argument kinds: %+v", img.Args)
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	if _, err := dsl.ParseString(`display 10 10 { column { } }`); err == nil {
		t.Fatalf("expected error for document without doc header")
	}
}

func TestParsePercentAndStringArgs(t *testing.T) {
	doc, err := dsl.ParseString(`doc T v1 { display 100 50 { row width 50% { image src "icons/a.png" } } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	row := doc.Display().Block.Statements[0].Command
	if row.Args[1].Text != "50%" {
		t.Fatalf("expected percent argument, got %+v", row.Args)
	}
	img := row.Block.Statements[0].Command
	if img.Args[1].Kind != "String" || img.Args[1].Text != "icons/a.png" || img.Args[1].Raw != `"icons/a.png"` {
		t.Fatalf("unexpected string argument: %+v", img.Args[1])
	}
}

func argTexts(parts []*dsl.Arg) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Text)
	}
	return strings.Join(values, " ")
}
