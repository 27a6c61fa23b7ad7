// Package format builds Telegram messages as plain text plus message entities,
// so no parse mode escaping is needed for user-supplied task text.
package format

import (
	"slices"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Message is plain text with the entities that style it.
type Message struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len counts UTF-16 code units, the unit Telegram uses for entity offsets.
func UTF16Len(s string) int {
	length := 0
	for _, b := range []byte(s) {
		if (b & 0xc0) != 0x80 {
			if b >= 0xf0 {
				length += 2 // surrogate pair
			} else {
				length++
			}
		}
	}
	return length
}

// Builder appends styled segments and tracks their offsets.
type Builder struct {
	text     strings.Builder
	offset   int
	entities []tgbotapi.MessageEntity
}

func (b *Builder) Plain(s string) *Builder {
	b.text.WriteString(s)
	b.offset += UTF16Len(s)
	return b
}

func (b *Builder) Bold(s string) *Builder {
	return b.styled("bold", s)
}

func (b *Builder) Italic(s string) *Builder {
	return b.styled("italic", s)
}

func (b *Builder) Code(s string) *Builder {
	return b.styled("code", s)
}

// Line ends the current line.
func (b *Builder) Line() *Builder {
	return b.Plain("\n")
}

// Field writes "label: value" on its own line with the label in bold.
func (b *Builder) Field(label, value string) *Builder {
	if b.text.Len() > 0 {
		b.Line()
	}
	return b.Bold(label + ":").Plain(" " + value)
}

func (b *Builder) styled(kind, s string) *Builder {
	if s == "" {
		return b
	}
	b.entities = append(b.entities, tgbotapi.MessageEntity{
		Type:   kind,
		Offset: b.offset,
		Length: UTF16Len(s),
	})
	return b.Plain(s)
}

// Message returns the text with trailing whitespace removed and entities in offset order.
func (b *Builder) Message() Message {
	text := strings.TrimRight(b.text.String(), " \n")
	limit := UTF16Len(text)

	entities := make([]tgbotapi.MessageEntity, 0, len(b.entities))
	for _, e := range b.entities {
		if e.Offset >= limit {
			continue
		}
		if e.Offset+e.Length > limit {
			e.Length = limit - e.Offset
		}
		entities = append(entities, e)
	}
	slices.SortStableFunc(entities, func(a, c tgbotapi.MessageEntity) int {
		return a.Offset - c.Offset
	})
	return Message{Text: text, Entities: entities}
}
