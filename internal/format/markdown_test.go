package format

import "testing"

func TestUTF16Len(t *testing.T) {
	tests := map[string]int{
		"":     0,
		"abc":  3,
		"café": 4,
		"日本":   2,
		"go 🚀": 5,
		"\n":   1,
	}
	for in, want := range tests {
		if got := UTF16Len(in); got != want {
			t.Errorf("UTF16Len(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestBuilderOffsets(t *testing.T) {
	var b Builder
	b.Bold("🚀 Task Due: pay rent")
	b.Field("Due Date", "09/03/2024")
	b.Line().Italic("overdue")
	msg := b.Message()

	want := "🚀 Task Due: pay rent\nDue Date: 09/03/2024\noverdue"
	if msg.Text != want {
		t.Fatalf("text = %q, want %q", msg.Text, want)
	}
	if len(msg.Entities) != 3 {
		t.Fatalf("entities = %+v", msg.Entities)
	}

	title := msg.Entities[0]
	if title.Type != "bold" || title.Offset != 0 || title.Length != 21 {
		t.Fatalf("title entity = %+v", title)
	}
	label := msg.Entities[1]
	if label.Type != "bold" || label.Offset != 22 || label.Length != len("Due Date:") {
		t.Fatalf("label entity = %+v", label)
	}
	italic := msg.Entities[2]
	if italic.Type != "italic" || italic.Offset != 43 || italic.Length != 7 {
		t.Fatalf("italic entity = %+v", italic)
	}
}

func TestBuilderTrimsTrailingEntities(t *testing.T) {
	var b Builder
	b.Plain("x").Bold("  \n")
	msg := b.Message()

	if msg.Text != "x" {
		t.Fatalf("text = %q", msg.Text)
	}
	if len(msg.Entities) != 0 {
		t.Fatalf("entity past end of text kept: %+v", msg.Entities)
	}
}

func TestBuilderSkipsEmptySegments(t *testing.T) {
	var b Builder
	b.Bold("").Code("")
	if msg := b.Message(); len(msg.Entities) != 0 || msg.Text != "" {
		t.Fatalf("msg = %+v", msg)
	}
}
